package migration

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/sirupsen/logrus"
)

// Migration represents a database migration
type Migration struct {
	Name string
	SQL  string
}

// Migrations lists the audit schema steps in the order they run.
var Migrations = []Migration{
	{
		Name: "create_resume_exports",
		SQL: `
		CREATE TABLE IF NOT EXISTS resume_exports (
			id UUID PRIMARY KEY,
			session_id TEXT NOT NULL,
			template TEXT NOT NULL,
			file_name TEXT NOT NULL,
			file_size INTEGER NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
	},
	{
		Name: "index_resume_exports_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS resume_exports_created_at_idx ON resume_exports (created_at);`,
	},
}

// RunMigrations executes all necessary database migrations on startup
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, log *logrus.Logger) error {
	log.Info("Starting database migrations")

	for _, m := range Migrations {
		if _, err := pool.Exec(ctx, m.SQL); err != nil {
			log.WithError(err).WithField("name", m.Name).Error("Migration failed")
			return err
		}
		log.WithField("name", m.Name).Info("Migration completed")
	}

	log.Info("All migrations completed successfully")
	return nil
}
