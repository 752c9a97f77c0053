package ui

import (
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/promptpad/promptpad/internal/editor"
)

// Focus zones within the editor form. The textarea comes first, then one
// input per active variable, then the model field.
const (
	focusTemplate = 0
	// focusVars occupies indices 1..len(varInputs)
)

// EditorForm holds the editable widgets of the composer: the template
// textarea, one value input per placeholder, and the model id input. The
// variable inputs are rebuilt whenever the placeholder set changes, with
// values carried by the session.
type EditorForm struct {
	session   *editor.Session
	textarea  textarea.Model
	varInputs []textinput.Model
	varNames  []string
	modelIn   textinput.Model
	focused   int
}

// NewEditorForm builds the form around an editing session
func NewEditorForm(session *editor.Session) *EditorForm {
	ta := textarea.New()
	ta.Placeholder = "Compose your prompt. Use {name} for variables..."
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.ShowLineNumbers = false
	ta.SetWidth(80)
	ta.SetHeight(8)
	ta.SetValue(session.Text())
	ta.Focus()

	modelIn := textinput.New()
	modelIn.CharLimit = 80
	modelIn.Width = 30
	modelIn.SetValue(session.Model())

	f := &EditorForm{
		session:  session,
		textarea: ta,
		modelIn:  modelIn,
		focused:  focusTemplate,
	}
	f.rebuildVarInputs()
	return f
}

// fieldCount is textarea + variable inputs + model input
func (f *EditorForm) fieldCount() int {
	return 2 + len(f.varInputs)
}

func (f *EditorForm) modelFieldIndex() int {
	return 1 + len(f.varInputs)
}

// rebuildVarInputs recreates the per-variable inputs to match the session's
// current variable set, preserving focus position when possible.
func (f *EditorForm) rebuildVarInputs() {
	names := f.session.Vars()
	inputs := make([]textinput.Model, len(names))
	for i, name := range names {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = "value for {" + name + "}"
		in.CharLimit = 0
		in.Width = 50
		in.SetValue(f.session.Value(name))
		inputs[i] = in
	}

	f.varInputs = inputs
	f.varNames = names

	if f.focused >= f.fieldCount() {
		f.focused = f.fieldCount() - 1
	}
	f.applyFocus()
}

// applyFocus focuses the active widget and blurs the rest
func (f *EditorForm) applyFocus() {
	if f.focused == focusTemplate {
		f.textarea.Focus()
	} else {
		f.textarea.Blur()
	}

	for i := range f.varInputs {
		if f.focused == 1+i {
			f.varInputs[i].Focus()
		} else {
			f.varInputs[i].Blur()
		}
	}

	if f.focused == f.modelFieldIndex() {
		f.modelIn.Focus()
	} else {
		f.modelIn.Blur()
	}
}

// FocusNext moves focus forward through the form
func (f *EditorForm) FocusNext() {
	f.focused = (f.focused + 1) % f.fieldCount()
	f.applyFocus()
}

// FocusPrev moves focus backward through the form
func (f *EditorForm) FocusPrev() {
	f.focused = (f.focused - 1 + f.fieldCount()) % f.fieldCount()
	f.applyFocus()
}

// TemplateFocused reports whether the textarea has focus
func (f *EditorForm) TemplateFocused() bool {
	return f.focused == focusTemplate
}

// Update routes a message to the focused widget and syncs the session.
// Editing the template text triggers a synchronous reconcile; if the
// placeholder set changed, the variable inputs are rebuilt.
func (f *EditorForm) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd

	switch {
	case f.focused == focusTemplate:
		before := f.textarea.Value()
		f.textarea, cmd = f.textarea.Update(msg)
		if after := f.textarea.Value(); after != before {
			f.session.SetText(after)
			if !sameNames(f.varNames, f.session.Vars()) {
				f.rebuildVarInputs()
			}
		}

	case f.focused == f.modelFieldIndex():
		f.modelIn, cmd = f.modelIn.Update(msg)
		f.session.SetModel(f.modelIn.Value())

	default:
		i := f.focused - 1
		f.varInputs[i], cmd = f.varInputs[i].Update(msg)
		f.session.SetValue(f.varNames[i], f.varInputs[i].Value())
	}

	return cmd
}

// SyncFromSession refreshes every widget from the session, used after a
// saved template is loaded.
func (f *EditorForm) SyncFromSession() {
	f.textarea.SetValue(f.session.Text())
	f.modelIn.SetValue(f.session.Model())
	f.focused = focusTemplate
	f.rebuildVarInputs()
}

// SetWidth resizes the form's widgets
func (f *EditorForm) SetWidth(width int) {
	f.textarea.SetWidth(width)
	for i := range f.varInputs {
		f.varInputs[i].Width = width - 20
	}
}

func sameNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
