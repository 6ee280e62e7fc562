package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/internal/domain"
	"resume-builder/internal/model"
	"resume-builder/internal/usecase"
)

type fakeRenderer struct {
	html string
	err  error
}

func (f *fakeRenderer) RenderHTMLToPDF(_ context.Context, html string, _ domain.ExportOptions) ([]byte, error) {
	f.html = html
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.4 test"), nil
}

type memoryExports struct {
	mu      sync.Mutex
	records []*domain.ExportRecord
}

func (m *memoryExports) Save(_ context.Context, r *domain.ExportRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, r)
	return nil
}

func (m *memoryExports) CountByTemplate(context.Context) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := map[string]int{}
	for _, r := range m.records {
		counts[r.Template]++
	}
	return counts, nil
}

type testServer struct {
	app      *fiber.App
	renderer *fakeRenderer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	renderer := &fakeRenderer{}
	sessions := usecase.NewSessions(time.Hour, log)
	exporter := usecase.NewExporter(renderer, &memoryExports{}, domain.DefaultExportOptions(), log)
	return &testServer{app: NewApp(NewHandler(sessions, exporter, log)), renderer: renderer}
}

func (ts *testServer) do(t *testing.T, method, path, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// newSession loads the editor page and returns the session id it carries.
func (ts *testServer) newSession(t *testing.T) string {
	t.Helper()
	resp := ts.do(t, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)
	id, ok := doc.Find("body").Attr("data-session")
	require.True(t, ok)
	require.NotEmpty(t, id)
	return id
}

type viewResp struct {
	Editor  string          `json:"editor"`
	Preview string          `json:"preview"`
	State   model.ViewState `json:"state"`
}

func decodeView(t *testing.T, resp *http.Response) viewResp {
	t.Helper()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var v viewResp
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func decodeDocument(t *testing.T, resp *http.Response) model.Document {
	t.Helper()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var doc model.Document
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	return doc
}

func errorBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body["error"]
}

func TestIndex_ServesEditorPage(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(t, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Find("#resume-preview .tpl-modern").Length())
	assert.Contains(t, doc.Find("#resume-preview").Text(), "Alex Chen")
	assert.Equal(t, 1, doc.Find(`[data-bind="personal.fullName"]`).Length())
}

func TestIndex_EachLoadIsANewSession(t *testing.T) {
	ts := newTestServer(t)
	a := ts.newSession(t)
	b := ts.newSession(t)
	assert.NotEqual(t, a, b)

	ts.do(t, http.MethodPost, "/api/sessions/"+a+"/skills", "")
	assert.Len(t, decodeDocument(t, ts.do(t, http.MethodGet, "/api/sessions/"+a+"/document", "")).Skills, 6)
	assert.Len(t, decodeDocument(t, ts.do(t, http.MethodGet, "/api/sessions/"+b+"/document", "")).Skills, 5)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp := ts.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUnknownSession(t *testing.T) {
	ts := newTestServer(t)
	resp := ts.do(t, http.MethodGet, "/api/sessions/nope/document", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "session not found", errorBody(t, resp))
}

func TestSetField_UpdatesPreview(t *testing.T) {
	ts := newTestServer(t)
	id := ts.newSession(t)
	base := "/api/sessions/" + id

	v := decodeView(t, ts.do(t, http.MethodPost, base+"/fields", `{"path":"personal.summary","value":"Curious builder"}`))
	preview, err := goquery.NewDocumentFromReader(strings.NewReader(v.Preview))
	require.NoError(t, err)
	assert.Equal(t, "Curious builder", preview.Find(`[data-section="summary"] .summary`).Text())

	v = decodeView(t, ts.do(t, http.MethodPost, base+"/fields", `{"path":"personal.summary","value":""}`))
	assert.NotContains(t, v.Preview, `data-section="summary"`)
}

func TestSetField_Errors(t *testing.T) {
	ts := newTestServer(t)
	base := "/api/sessions/" + ts.newSession(t)

	tests := []struct {
		name string
		body string
	}{
		{"not json", `{`},
		{"missing path", `{"value":"x"}`},
		{"unknown field", `{"path":"personal.age","value":"30"}`},
		{"bad section", `{"path":"hobbies.1.name","value":"x"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.do(t, http.MethodPost, base+"/fields", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.NotEmpty(t, errorBody(t, resp))
		})
	}
}

func TestEntries_AddAndRemove(t *testing.T) {
	ts := newTestServer(t)
	base := "/api/sessions/" + ts.newSession(t)

	ts.do(t, http.MethodPost, base+"/entries/projects", "")
	doc := decodeDocument(t, ts.do(t, http.MethodGet, base+"/document", ""))
	require.Len(t, doc.Projects, 2)
	added := doc.Projects[1]
	assert.Equal(t, "New Project", added.Name)

	path := base + "/entries/projects/" + strconv.FormatInt(added.ID, 10)
	decodeView(t, ts.do(t, http.MethodDelete, path, ""))
	decodeView(t, ts.do(t, http.MethodDelete, path, ""))
	assert.Len(t, decodeDocument(t, ts.do(t, http.MethodGet, base+"/document", "")).Projects, 1)

	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodPost, base+"/entries/hobbies", "").StatusCode)
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodDelete, base+"/entries/projects/abc", "").StatusCode)
}

func TestSkills_AddAndRemove(t *testing.T) {
	ts := newTestServer(t)
	base := "/api/sessions/" + ts.newSession(t)

	decodeView(t, ts.do(t, http.MethodDelete, base+"/skills/0", ""))
	decodeView(t, ts.do(t, http.MethodDelete, base+"/skills/99", ""))
	decodeView(t, ts.do(t, http.MethodPost, base+"/skills", ""))

	doc := decodeDocument(t, ts.do(t, http.MethodGet, base+"/document", ""))
	assert.Equal(t, []string{"JavaScript", "React", "Flask", "SQL", "New Skill"}, doc.Skills)
}

func TestTabAndTemplate(t *testing.T) {
	ts := newTestServer(t)
	base := "/api/sessions/" + ts.newSession(t)
	before := decodeDocument(t, ts.do(t, http.MethodGet, base+"/document", ""))

	v := decodeView(t, ts.do(t, http.MethodPut, base+"/tab", `{"tab":"skills"}`))
	assert.Equal(t, model.TabSkills, v.State.ActiveTab)
	assert.Contains(t, v.Editor, `data-panel="skills"`)

	v = decodeView(t, ts.do(t, http.MethodPut, base+"/template", `{"template":"minimal"}`))
	assert.Equal(t, model.TemplateMinimal, v.State.ActiveTemplate)
	assert.Contains(t, v.Preview, `tpl-minimal`)
	assert.Equal(t, before, decodeDocument(t, ts.do(t, http.MethodGet, base+"/document", "")))

	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodPut, base+"/tab", `{"tab":"hobbies"}`).StatusCode)
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodPut, base+"/template", `{"template":""}`).StatusCode)
}

func TestPreview(t *testing.T) {
	ts := newTestServer(t)
	base := "/api/sessions/" + ts.newSession(t)
	ts.do(t, http.MethodPut, base+"/template", `{"template":"creative"}`)

	resp := ts.do(t, http.MethodGet, base+"/preview", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "creative", resp.Header.Get("X-Resume-Template"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "tpl-creative")
}

func TestDocument_ImportReplaces(t *testing.T) {
	ts := newTestServer(t)
	base := "/api/sessions/" + ts.newSession(t)

	imported := model.Document{
		Personal:   model.PersonalInfo{FullName: "Riley Moss"},
		Education:  []model.EducationEntry{{ID: 7, School: "State U"}},
		Experience: []model.ExperienceEntry{},
		Projects:   []model.ProjectEntry{},
		Skills:     []string{"Go"},
	}
	raw, err := json.Marshal(imported)
	require.NoError(t, err)

	v := decodeView(t, ts.do(t, http.MethodPut, base+"/document", string(raw)))
	assert.Contains(t, v.Preview, "Riley Moss")
	assert.Equal(t, imported, decodeDocument(t, ts.do(t, http.MethodGet, base+"/document", "")))

	resp := ts.do(t, http.MethodPut, base+"/document", `{"personal":{}}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, errorBody(t, resp), "schema validation failed")
}

func TestDocument_ImportRejectsOutOfRangeIDs(t *testing.T) {
	ts := newTestServer(t)
	base := "/api/sessions/" + ts.newSession(t)

	for _, id := range []string{"1e20", "1.0", "9223372036854775807", "9007199254740992"} {
		t.Run(id, func(t *testing.T) {
			body := `{"personal":{},"education":[{"id":` + id + `}],"experience":[],"projects":[],"skills":[]}`
			resp := ts.do(t, http.MethodPut, base+"/document", body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Contains(t, errorBody(t, resp), "schema validation failed")
		})
	}
	assert.Equal(t, model.DefaultDocument(), decodeDocument(t, ts.do(t, http.MethodGet, base+"/document", "")))
}

func TestDocument_RoundTripsAtIDCap(t *testing.T) {
	ts := newTestServer(t)
	base := "/api/sessions/" + ts.newSession(t)

	body := `{"personal":{},"education":[{"id":9007199254740990}],"experience":[],"projects":[],"skills":[]}`
	decodeView(t, ts.do(t, http.MethodPut, base+"/document", body))
	decodeView(t, ts.do(t, http.MethodPost, base+"/entries/education", ""))
	decodeView(t, ts.do(t, http.MethodPost, base+"/entries/education", ""))

	doc := decodeDocument(t, ts.do(t, http.MethodGet, base+"/document", ""))
	require.Len(t, doc.Education, 2)
	assert.Equal(t, model.MaxEntryID, doc.Education[1].ID)

	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	decodeView(t, ts.do(t, http.MethodPut, base+"/document", string(raw)))
}

func TestExportStats(t *testing.T) {
	ts := newTestServer(t)
	base := "/api/sessions/" + ts.newSession(t)
	ts.do(t, http.MethodPut, base+"/template", `{"template":"creative"}`)
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, base+"/export.pdf", "").StatusCode)
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, base+"/export.pdf", "").StatusCode)

	resp := ts.do(t, http.MethodGet, "/api/exports/stats", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Exports map[string]int `json:"exports"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, map[string]int{"modern": 0, "minimal": 0, "creative": 2}, body.Exports)
}

func TestExport(t *testing.T) {
	ts := newTestServer(t)
	base := "/api/sessions/" + ts.newSession(t)
	ts.do(t, http.MethodPut, base+"/template", `{"template":"minimal"}`)

	resp := ts.do(t, http.MethodGet, base+"/export.pdf", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Resume.pdf"`, resp.Header.Get("Content-Disposition"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 test", string(body))
	assert.Contains(t, ts.renderer.html, `data-template="minimal"`)
}

func TestExport_RendererFailure(t *testing.T) {
	ts := newTestServer(t)
	ts.renderer.err = errors.New("chrome crashed")
	base := "/api/sessions/" + ts.newSession(t)

	resp := ts.do(t, http.MethodGet, base+"/export.pdf", "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Internal Server Error", errorBody(t, resp))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{usecase.ErrSessionNotFound, http.StatusNotFound},
		{&usecase.BindingError{Path: "x"}, http.StatusBadRequest},
		{&model.SchemaError{}, http.StatusBadRequest},
		{&ErrValidation{Field: "tab"}, http.StatusBadRequest},
		{fiber.ErrMethodNotAllowed, http.StatusMethodNotAllowed},
		{&usecase.ExportError{Message: "render pdf"}, http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err), tt.err.Error())
	}
}
