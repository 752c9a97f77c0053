package ui

import (
	"strings"
	"testing"

	"github.com/promptpad/promptpad/internal/completion"
	"github.com/promptpad/promptpad/internal/config"
	"github.com/promptpad/promptpad/internal/editor"
	"github.com/promptpad/promptpad/internal/errors"
	"github.com/promptpad/promptpad/internal/service"
	"github.com/promptpad/promptpad/internal/store"
)

func newTestModel(t *testing.T, initialText string) *Model {
	t.Helper()
	svc := service.NewServiceWith(
		store.NewTemplateStore(store.NewMemoryKV()),
		&completion.FakeClient{Content: "ok"},
		&config.Config{InitialTemplate: initialText, Model: "gpt-4o-mini"},
	)
	return NewModel(svc)
}

func TestEditorViewListsUnfilledNames(t *testing.T) {
	m := newTestModel(t, "Hello {name}, welcome to {place}")

	if !strings.Contains(m.View(), "Unfilled: name, place") {
		t.Fatalf("view should list the variables without a value:\n%s", m.View())
	}

	m.session.SetValue("name", "Ada")
	if !strings.Contains(m.View(), "Unfilled: place") {
		t.Errorf("hint should track remaining empty variables")
	}

	m.session.SetValue("place", "the terminal")
	if strings.Contains(m.View(), "Unfilled:") {
		t.Errorf("hint should disappear once every variable has a value")
	}
}

func TestEditorViewShowsRunFailure(t *testing.T) {
	m := newTestModel(t, "hi")

	if err := m.session.BeginRun(); err != nil {
		t.Fatalf("BeginRun failed: %v", err)
	}
	m.session.FinishRun(nil, errors.RemoteRejectedError("invalid key"))

	view := m.View()
	if !strings.Contains(view, "invalid key") {
		t.Errorf("view should display the run failure:\n%s", view)
	}
	if !strings.Contains(view, "❌") {
		t.Errorf("failure display should carry the severity icon")
	}
	if strings.Contains(view, "Response") {
		t.Errorf("response section must not render alongside an error")
	}
}

func TestFormFocusCycle(t *testing.T) {
	f := NewEditorForm(editor.NewSession("{a}", "gpt-4o-mini"))

	if !f.TemplateFocused() {
		t.Fatal("textarea should start focused")
	}

	f.FocusNext()
	if f.TemplateFocused() {
		t.Error("focus should move off the textarea")
	}

	f.FocusNext() // model field
	f.FocusNext() // wraps back to the textarea
	if !f.TemplateFocused() {
		t.Error("focus should wrap back to the textarea")
	}
}
