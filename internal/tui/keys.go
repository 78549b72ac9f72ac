package tui

import (
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	actionQuit        = "quit"
	actionNextTab     = "next_tab"
	actionPrevTab     = "prev_tab"
	actionJumpTab     = "jump_tab"
	actionSubmit      = "submit"
	actionClearImages = "clear_images"
	actionSaveImages  = "save_images"
	actionNextField   = "next_field"
	actionPrevField   = "prev_field"
)

const (
	scopeSearch      = "search"
	scopeImage       = "image"
	scopeOCR         = "ocr"
	scopeChat        = "chat"
	scopePDFFile     = "pdf:file"
	scopePDFQuestion = "pdf:question"
)

// KeyBinding maps keys to an action within the listed scopes. An empty scope
// list or "*" matches everywhere. Help, when set, replaces the first key in
// the footer.
type KeyBinding struct {
	Keys        []string
	Action      string
	Description string
	Help        string
	Scopes      []string
}

type KeyRegistry struct {
	bindings []KeyBinding
}

func NewKeyRegistry(bindings []KeyBinding) *KeyRegistry {
	return &KeyRegistry{bindings: slices.Clone(bindings)}
}

func DefaultKeyBindings() []KeyBinding {
	return []KeyBinding{
		{Keys: []string{"enter"}, Action: actionSubmit, Description: "ask", Scopes: []string{scopeSearch}},
		{Keys: []string{"enter"}, Action: actionSubmit, Description: "generate", Scopes: []string{scopeImage}},
		{Keys: []string{"enter"}, Action: actionSubmit, Description: "run ocr", Scopes: []string{scopeOCR}},
		{Keys: []string{"enter"}, Action: actionSubmit, Description: "send", Scopes: []string{scopeChat}},
		{Keys: []string{"enter"}, Action: actionSubmit, Description: "upload & index", Scopes: []string{scopePDFFile}},
		{Keys: []string{"enter"}, Action: actionSubmit, Description: "ask", Scopes: []string{scopePDFQuestion}},
		{Keys: []string{"ctrl+l"}, Action: actionClearImages, Description: "clear", Scopes: []string{scopeImage}},
		{Keys: []string{"ctrl+s"}, Action: actionSaveImages, Description: "save png", Scopes: []string{scopeImage}},
		{Keys: []string{"down"}, Action: actionNextField, Description: "question", Scopes: []string{scopePDFFile}},
		{Keys: []string{"up"}, Action: actionPrevField, Description: "file", Scopes: []string{scopePDFQuestion}},
		{Keys: []string{"tab"}, Action: actionNextTab, Description: "next tab", Scopes: []string{"*"}},
		{Keys: []string{"shift+tab"}, Action: actionPrevTab, Description: "prev tab", Scopes: []string{"*"}},
		{Keys: []string{"alt+1", "alt+2", "alt+3", "alt+4", "alt+5"}, Action: actionJumpTab, Description: "jump", Help: "alt+1-5", Scopes: []string{"*"}},
		{Keys: []string{"ctrl+c", "esc"}, Action: actionQuit, Description: "quit", Scopes: []string{"*"}},
	}
}

func (r *KeyRegistry) BindingsForScope(scope string) []KeyBinding {
	out := make([]KeyBinding, 0, len(r.bindings))
	for _, b := range r.bindings {
		if scopeMatch(scope, b.Scopes) {
			out = append(out, b)
		}
	}
	return out
}

// Action returns the first action bound to msg in scope, or "".
func (r *KeyRegistry) Action(msg tea.KeyMsg, scope string) string {
	pressed := normalizeKey(msg.String())
	for _, b := range r.bindings {
		if !scopeMatch(scope, b.Scopes) {
			continue
		}
		for _, k := range b.Keys {
			if normalizeKey(k) == pressed {
				return b.Action
			}
		}
	}
	return ""
}

func normalizeKey(k string) string {
	return strings.ToLower(strings.TrimSpace(k))
}

func scopeMatch(scope string, scopes []string) bool {
	if len(scopes) == 0 {
		return true
	}
	for _, s := range scopes {
		if s == "*" || s == scope {
			return true
		}
	}
	return false
}
