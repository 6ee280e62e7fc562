package http

import (
	"strconv"

	"resume-builder/internal/model"
	"resume-builder/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	sessions *usecase.Sessions
	exporter *usecase.Exporter
	validate *validator.Validate
	log      *logrus.Logger
}

func NewHandler(sessions *usecase.Sessions, exporter *usecase.Exporter, log *logrus.Logger) *Handler {
	return &Handler{sessions: sessions, exporter: exporter, validate: validator.New(), log: log}
}

// NewApp builds the fiber app with error handling, request logging and
// every route registered.
func NewApp(h *Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler:          ErrorHandler(h.log),
		DisableStartupMessage: true,
	})
	app.Use(RequestLogger(h.log))
	h.Register(app)
	return app
}

func (h *Handler) Register(r fiber.Router) {
	r.Get("/", h.Index)
	r.Get("/healthz", h.Health)
	r.Get("/api/exports/stats", h.ExportStats)

	api := r.Group("/api/sessions/:id")
	api.Get("/document", h.GetDocument)
	api.Put("/document", h.PutDocument)
	api.Post("/fields", h.SetField)
	api.Post("/entries/:section", h.AddEntry)
	api.Delete("/entries/:section/:entryID", h.RemoveEntry)
	api.Post("/skills", h.AddSkill)
	api.Delete("/skills/:index", h.RemoveSkill)
	api.Put("/tab", h.SetTab)
	api.Put("/template", h.SetTemplate)
	api.Get("/preview", h.Preview)
	api.Get("/export.pdf", h.Export)
}

type fieldReq struct {
	Path  string `json:"path" validate:"required"`
	Value string `json:"value"`
}

type tabReq struct {
	Tab string `json:"tab" validate:"required"`
}

type templateReq struct {
	Template string `json:"template" validate:"required"`
}

// Index starts a fresh session and serves the full editor page.
func (h *Handler) Index(c *fiber.Ctx) error {
	s := h.sessions.Create()
	page, err := s.Binder.Page(s.ID)
	if err != nil {
		return err
	}
	c.Type("html", "utf-8")
	return c.Send(page)
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "sessions": h.sessions.Len()})
}

// ExportStats reports how many PDFs each template has produced.
func (h *Handler) ExportStats(c *fiber.Ctx) error {
	stats, err := h.exporter.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"exports": stats})
}

func (h *Handler) GetDocument(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	return c.JSON(s.Store.Snapshot())
}

// PutDocument replaces the session document with a schema-valid import.
func (h *Handler) PutDocument(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	doc, err := model.DecodeDocument(c.Body())
	if err != nil {
		return err
	}
	s.Store.Replace(doc)
	return h.respondView(c, s)
}

func (h *Handler) SetField(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	var req fieldReq
	if err := h.parse(c, &req); err != nil {
		return err
	}
	if err := s.Binder.Bind(req.Path, req.Value); err != nil {
		return err
	}
	return h.respondView(c, s)
}

func (h *Handler) AddEntry(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	section, err := model.ParseSection(c.Params("section"))
	if err != nil {
		return &ErrValidation{Field: "section", Message: err.Error()}
	}
	s.Store.AddEntry(section)
	return h.respondView(c, s)
}

func (h *Handler) RemoveEntry(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	section, err := model.ParseSection(c.Params("section"))
	if err != nil {
		return &ErrValidation{Field: "section", Message: err.Error()}
	}
	id, err := strconv.ParseInt(c.Params("entryID"), 10, 64)
	if err != nil {
		return &ErrValidation{Field: "entryID", Message: "must be an integer"}
	}
	s.Store.RemoveEntry(section, id)
	return h.respondView(c, s)
}

func (h *Handler) AddSkill(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	s.Store.AddSkill()
	return h.respondView(c, s)
}

func (h *Handler) RemoveSkill(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return &ErrValidation{Field: "index", Message: "must be an integer"}
	}
	s.Store.RemoveSkill(index)
	return h.respondView(c, s)
}

func (h *Handler) SetTab(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	var req tabReq
	if err := h.parse(c, &req); err != nil {
		return err
	}
	tab, err := model.ParseTab(req.Tab)
	if err != nil {
		return &ErrValidation{Field: "tab", Message: err.Error()}
	}
	s.Store.SetActiveTab(tab)
	return h.respondView(c, s)
}

func (h *Handler) SetTemplate(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	var req templateReq
	if err := h.parse(c, &req); err != nil {
		return err
	}
	tpl, err := model.ParseTemplate(req.Template)
	if err != nil {
		return &ErrValidation{Field: "template", Message: err.Error()}
	}
	s.Store.SetActiveTemplate(tpl)
	return h.respondView(c, s)
}

// Preview serves the latest active template fragment.
func (h *Handler) Preview(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	p, err := s.Binder.Preview()
	if err != nil {
		return err
	}
	c.Set("X-Resume-Template", string(p.Template))
	c.Type("html", "utf-8")
	return c.SendString(string(p.HTML))
}

// Export prints the current preview and sends it as a download.
func (h *Handler) Export(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	out, err := h.exporter.Export(c.UserContext(), s)
	if err != nil {
		return err
	}
	c.Attachment(out.Filename)
	c.Type("pdf")
	return c.Send(out.PDF)
}

func (h *Handler) session(c *fiber.Ctx) (*usecase.Session, error) {
	return h.sessions.Get(c.Params("id"))
}

func (h *Handler) parse(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return &ErrValidation{Field: "body", Message: "invalid payload"}
	}
	if err := h.validate.Struct(dst); err != nil {
		return validationError(err)
	}
	return nil
}

func (h *Handler) respondView(c *fiber.Ctx, s *usecase.Session) error {
	v, err := s.Binder.View()
	if err != nil {
		return err
	}
	return c.JSON(v)
}
