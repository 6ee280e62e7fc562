// Package view renders the resume document into editor panels, the three
// preview templates and the full editor page.
//
// Every renderer is a pure function of its input. All user text goes through
// html/template and is emitted as escaped plain text.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"unicode/utf8"

	"resume-builder/internal/model"
)

// PreviewRootID is the id of the element that holds the active template.
const PreviewRootID = "resume-preview"

//go:embed templates/*.html templates/style.css
var files embed.FS

var (
	templates = template.Must(template.New("resume").Funcs(funcs).ParseFS(files, "templates/*.html"))
	styles    = template.CSS(mustRead("templates/style.css"))
)

var funcs = template.FuncMap{
	"join":         strings.Join,
	"joinNonEmpty": joinNonEmpty,
	"initial":      initial,
	"inc":          func(i int) int { return i + 1 },
}

// Rendered is one template's output for a document.
type Rendered struct {
	Template model.Template
	HTML     template.HTML
}

// RenderFunc renders a whole document with one layout.
type RenderFunc func(doc model.Document) (Rendered, error)

var renderers = map[model.Template]RenderFunc{
	model.TemplateModern:   RenderModern,
	model.TemplateMinimal:  RenderMinimal,
	model.TemplateCreative: RenderCreative,
}

// Render dispatches to the renderer registered for t.
func Render(t model.Template, doc model.Document) (Rendered, error) {
	fn, ok := renderers[t]
	if !ok {
		return Rendered{}, &TemplateError{Message: fmt.Sprintf("unknown template %q", t)}
	}
	return fn(doc)
}

func RenderModern(doc model.Document) (Rendered, error) {
	return renderNamed(model.TemplateModern, doc)
}

func RenderMinimal(doc model.Document) (Rendered, error) {
	return renderNamed(model.TemplateMinimal, doc)
}

func RenderCreative(doc model.Document) (Rendered, error) {
	return renderNamed(model.TemplateCreative, doc)
}

func renderNamed(t model.Template, doc model.Document) (Rendered, error) {
	out, err := execute(string(t), doc)
	if err != nil {
		return Rendered{}, err
	}
	return Rendered{Template: t, HTML: out}, nil
}

type tabButton struct {
	ID     model.Tab
	Label  string
	Active bool
}

type templateButton struct {
	ID     model.Template
	Label  string
	Active bool
}

var tabLabels = map[model.Tab]string{
	model.TabPersonal:   "Bio",
	model.TabEducation:  "Edu",
	model.TabExperience: "Exp",
	model.TabProjects:   "Proj",
	model.TabSkills:     "Skill",
}

var templateLabels = map[model.Template]string{
	model.TemplateModern:   "Modern",
	model.TemplateMinimal:  "Minimal",
	model.TemplateCreative: "Creative",
}

type editorData struct {
	Doc       model.Document
	State     model.ViewState
	Tabs      []tabButton
	Templates []templateButton
}

// Editor renders the form panel for the active tab together with the tab bar
// and template picker.
func Editor(doc model.Document, state model.ViewState) (template.HTML, error) {
	data := editorData{Doc: doc, State: state}
	for _, t := range model.Tabs {
		data.Tabs = append(data.Tabs, tabButton{ID: t, Label: tabLabels[t], Active: t == state.ActiveTab})
	}
	for _, t := range model.Templates {
		data.Templates = append(data.Templates, templateButton{ID: t, Label: templateLabels[t], Active: t == state.ActiveTemplate})
	}
	return execute("editor", data)
}

type pageData struct {
	SessionID string
	CSS       template.CSS
	Editor    template.HTML
	Preview   Rendered
}

// Page renders the complete editor page for a session.
func Page(sessionID string, editor template.HTML, preview Rendered) ([]byte, error) {
	out, err := execute("page", pageData{
		SessionID: sessionID,
		CSS:       styles,
		Editor:    editor,
		Preview:   preview,
	})
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

// PreviewRoot wraps a rendering in the preview root element, as it appears
// on the editor page.
func PreviewRoot(r Rendered) (template.HTML, error) {
	return execute("preview-root", r)
}

// Printable wraps an already rendered preview subtree into a standalone
// document sized for A4 printing.
func Printable(subtree template.HTML) ([]byte, error) {
	out, err := execute("print", struct {
		CSS     template.CSS
		Subtree template.HTML
	}{CSS: styles, Subtree: subtree})
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

func execute(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", &TemplateError{Message: fmt.Sprintf("failed to execute %s", name), Cause: err}
	}
	return template.HTML(buf.String()), nil
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

// initial returns the first character of name, or "" for a blank name.
func initial(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	r, _ := utf8.DecodeRuneInString(name)
	return string(r)
}

func mustRead(name string) string {
	b, err := files.ReadFile(name)
	if err != nil {
		panic(err)
	}
	return string(b)
}
