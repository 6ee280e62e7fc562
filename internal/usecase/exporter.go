package usecase

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"resume-builder/internal/domain"
	"resume-builder/internal/model"
	"resume-builder/internal/view"
)

type Renderer interface {
	RenderHTMLToPDF(ctx context.Context, html string, opts domain.ExportOptions) ([]byte, error)
}

type ExportsRepo interface {
	Save(ctx context.Context, r *domain.ExportRecord) error
	CountByTemplate(ctx context.Context) (map[string]int, error)
}

// ExportError wraps a failed export step.
type ExportError struct {
	Message string
	Cause   error
}

func (e *ExportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("export error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("export error: %s", e.Message)
}

func (e *ExportError) Unwrap() error {
	return e.Cause
}

// Export is a finished PDF ready to be offered as a download.
type Export struct {
	Filename string
	Template model.Template
	PDF      []byte
}

// Exporter prints the live preview of a session to PDF. There is no retry:
// a failed render is returned to the caller as is.
type Exporter struct {
	renderer Renderer
	repo     ExportsRepo
	opts     domain.ExportOptions
	log      *logrus.Logger
}

func NewExporter(r Renderer, repo ExportsRepo, opts domain.ExportOptions, log *logrus.Logger) *Exporter {
	return &Exporter{renderer: r, repo: repo, opts: opts, log: log}
}

func (e *Exporter) Export(ctx context.Context, s *Session) (*Export, error) {
	// render the page as it is right now and cut out the active template
	page, err := s.Binder.Page(s.ID)
	if err != nil {
		return nil, &ExportError{Message: "render page", Cause: err}
	}
	subtree, tpl, err := SelectPreview(page)
	if err != nil {
		return nil, err
	}
	printable, err := view.Printable(subtree)
	if err != nil {
		return nil, &ExportError{Message: "render printable", Cause: err}
	}

	start := time.Now()
	pdf, err := e.renderer.RenderHTMLToPDF(ctx, string(printable), e.opts)
	if err != nil {
		return nil, &ExportError{Message: "render pdf", Cause: err}
	}
	// validate basic PDF signature
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		return nil, &ExportError{Message: fmt.Sprintf("invalid PDF output (len=%d)", len(pdf))}
	}

	e.log.WithFields(logrus.Fields{
		"session_id":  s.ID,
		"template":    tpl,
		"bytes":       len(pdf),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("resume exported")

	if e.repo != nil {
		rec := &domain.ExportRecord{
			ID:        uuid.New(),
			SessionID: s.ID,
			Template:  string(tpl),
			FileName:  e.opts.Filename,
			FileSize:  len(pdf),
			CreatedAt: time.Now(),
		}
		if err := e.repo.Save(ctx, rec); err != nil {
			e.log.WithError(err).Warn("failed to save export record")
		}
	}

	return &Export{Filename: e.opts.Filename, Template: tpl, PDF: pdf}, nil
}

// Stats returns the number of recorded exports per template. Without an
// audit repo every count is zero.
func (e *Exporter) Stats(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int, len(model.Templates))
	for _, t := range model.Templates {
		counts[string(t)] = 0
	}
	if e.repo == nil {
		return counts, nil
	}
	recorded, err := e.repo.CountByTemplate(ctx)
	if err != nil {
		return nil, fmt.Errorf("count exports: %w", err)
	}
	for t, n := range recorded {
		counts[t] = n
	}
	return counts, nil
}

// SelectPreview returns the outer HTML of the preview root in a rendered
// editor page and the template it shows.
func SelectPreview(page []byte) (template.HTML, model.Template, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return "", "", &ExportError{Message: "parse page", Cause: err}
	}
	sel := doc.Find("#" + view.PreviewRootID).First()
	if sel.Length() == 0 {
		return "", "", &ExportError{Message: "preview root not found"}
	}
	out, err := goquery.OuterHtml(sel)
	if err != nil {
		return "", "", &ExportError{Message: "serialise preview", Cause: err}
	}
	tpl, _ := sel.Attr("data-template")
	return template.HTML(strings.TrimSpace(out)), model.Template(tpl), nil
}
