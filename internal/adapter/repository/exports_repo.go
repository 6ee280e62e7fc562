package repository

import (
	"context"

	"resume-builder/internal/domain"

	"github.com/jackc/pgx/v4/pgxpool"
)

// ExportsRepo stores one audit row per successful PDF export. With a nil
// pool every call is a no-op.
type ExportsRepo struct {
	pool *pgxpool.Pool
}

func NewExportsRepo(pool *pgxpool.Pool) *ExportsRepo {
	return &ExportsRepo{pool: pool}
}

func (r *ExportsRepo) Save(ctx context.Context, e *domain.ExportRecord) error {
	if r == nil || r.pool == nil {
		return nil
	}

	_, err := r.pool.Exec(ctx, `INSERT INTO resume_exports (id, session_id, template, file_name, file_size, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (id) DO NOTHING`,
		e.ID, e.SessionID, e.Template, e.FileName, e.FileSize, e.CreatedAt)
	return err
}

// CountByTemplate returns how many exports each template has produced.
func (r *ExportsRepo) CountByTemplate(ctx context.Context) (map[string]int, error) {
	out := map[string]int{}
	if r == nil || r.pool == nil {
		return out, nil
	}

	rows, err := r.pool.Query(ctx, `SELECT template, count(*) FROM resume_exports GROUP BY template`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var tpl string
		var n int
		if err := rows.Scan(&tpl, &n); err != nil {
			return nil, err
		}
		out[tpl] = n
	}
	return out, rows.Err()
}
