package usecase

import (
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"sync"

	"resume-builder/internal/model"
	"resume-builder/internal/view"
)

// BindingError is returned for a form binding path that cannot name any
// field of the document.
type BindingError struct {
	Path    string
	Message string
}

func (e *BindingError) Error() string {
	return fmt.Sprintf("invalid binding %q: %s", e.Path, e.Message)
}

// View is the latest output of every bound view.
type View struct {
	Editor  template.HTML   `json:"editor"`
	Preview template.HTML   `json:"preview"`
	State   model.ViewState `json:"state"`
}

// Binder keeps the editor panel and the active template preview in step
// with a Store, and routes form edits back into it.
type Binder struct {
	store *Store

	mu      sync.RWMutex
	editor  template.HTML
	preview view.Rendered
	state   model.ViewState

	editorErr  error
	previewErr error

	unsubscribe func()
}

// NewBinder subscribes the views to store. They are rendered once
// immediately.
func NewBinder(store *Store) *Binder {
	b := &Binder{store: store}
	b.unsubscribe = store.Subscribe(ObserverFunc(b.render))
	return b
}

// Close detaches the views from the store.
func (b *Binder) Close() {
	if b.unsubscribe != nil {
		b.unsubscribe()
		b.unsubscribe = nil
	}
}

// render derives both views from one notification and publishes them
// together, so readers never see an editor and preview from different states.
func (b *Binder) render(doc model.Document, state model.ViewState) {
	editor, editorErr := view.Editor(doc, state)
	preview, previewErr := view.Render(state.ActiveTemplate, doc)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = state
	b.editorErr = editorErr
	if editorErr == nil {
		b.editor = editor
	}
	b.previewErr = previewErr
	if previewErr == nil {
		b.preview = preview
	}
}

// View returns the latest rendered views, or the error of the last render.
func (b *Binder) View() (View, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.editorErr != nil {
		return View{}, b.editorErr
	}
	if b.previewErr != nil {
		return View{}, b.previewErr
	}
	return View{Editor: b.editor, Preview: b.preview.HTML, State: b.state}, nil
}

// Preview returns the latest active template rendering.
func (b *Binder) Preview() (view.Rendered, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.preview, b.previewErr
}

// Page renders the whole editor page from the current views.
func (b *Binder) Page(sessionID string) ([]byte, error) {
	b.mu.RLock()
	editor, preview := b.editor, b.preview
	err := b.editorErr
	if err == nil {
		err = b.previewErr
	}
	b.mu.RUnlock()
	if err != nil {
		return nil, err
	}
	return view.Page(sessionID, editor, preview)
}

// Bind writes value to the field named by path:
//
//	personal.<field>
//	<education|experience|projects>.<id>.<field>
//	skills.<index>
//
// A well formed path that points at a missing entry or index is ignored.
func (b *Binder) Bind(path, value string) error {
	parts := strings.Split(path, ".")
	switch {
	case len(parts) == 2 && parts[0] == "personal":
		if !b.store.SetPersonalField(parts[1], value) {
			return &BindingError{Path: path, Message: "unknown personal field"}
		}
		return nil
	case len(parts) == 2 && parts[0] == "skills":
		index, err := strconv.Atoi(parts[1])
		if err != nil {
			return &BindingError{Path: path, Message: "skill index must be an integer"}
		}
		b.store.SetSkill(index, value)
		return nil
	case len(parts) == 3:
		section, err := model.ParseSection(parts[0])
		if err != nil {
			return &BindingError{Path: path, Message: err.Error()}
		}
		id, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return &BindingError{Path: path, Message: "entry id must be an integer"}
		}
		if !b.store.SetEntryField(section, id, parts[2], value) {
			return &BindingError{Path: path, Message: fmt.Sprintf("unknown %s field", section)}
		}
		return nil
	}
	return &BindingError{Path: path, Message: "unrecognised path"}
}
