// Package editor holds the state of one editing session: the template text,
// the variable values derived from it, the selected model, and the single
// in-flight flag that keeps run requests from overlapping.
package editor

import (
	"time"

	"github.com/promptpad/promptpad/internal/errors"
	"github.com/promptpad/promptpad/internal/models"
	"github.com/promptpad/promptpad/internal/template"
)

// Session is the editor's working state. It is confined to the UI event
// loop, so no locking is needed; the in-flight flag is the only concurrency
// control in the system.
type Session struct {
	text   string
	names  []string
	values map[string]string
	model  string

	inFlight   bool
	lastResult *models.CompletionResult
	lastErr    error
}

// NewSession creates a session with optional initial template text
func NewSession(initialText, model string) *Session {
	s := &Session{
		values: make(map[string]string),
		model:  model,
	}
	s.SetText(initialText)
	return s
}

// SetText replaces the template text and synchronously reconciles the value
// mapping: values for surviving names are preserved, vanished names are
// dropped, new names start empty.
func (s *Session) SetText(text string) {
	s.text = text
	s.names = template.Scan(text)
	s.values = template.Reconcile(text, s.values)
}

// Text returns the current template text
func (s *Session) Text() string {
	return s.text
}

// Vars returns the active variable names in first-appearance order
func (s *Session) Vars() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Value returns the current value for a variable name
func (s *Session) Value(name string) string {
	return s.values[name]
}

// SetValue updates the value of an active variable. Names not present in
// the current template are ignored, keeping the mapping's key set equal to
// the scanned variable set.
func (s *Session) SetValue(name, value string) {
	if _, ok := s.values[name]; ok {
		s.values[name] = value
	}
}

// Values returns a copy of the current value mapping
func (s *Session) Values() map[string]string {
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Merged returns the template text with all supplied values substituted
func (s *Session) Merged() string {
	return template.Merge(s.text, s.values)
}

// Model returns the selected model id
func (s *Session) Model() string {
	return s.model
}

// SetModel changes the selected model id
func (s *Session) SetModel(model string) {
	s.model = model
}

// BeginRun marks a completion request as in flight. It fails while a prior
// run has not resolved; the caller must not dispatch the request in that
// case.
func (s *Session) BeginRun() error {
	if s.inFlight {
		return errors.ValidationError("a completion request is already in flight")
	}
	s.inFlight = true
	return nil
}

// FinishRun resolves the in-flight request. Exactly one of result and err
// is retained; the response and error states are mutually exclusive.
func (s *Session) FinishRun(result *models.CompletionResult, err error) {
	s.inFlight = false
	if err != nil {
		s.lastErr = err
		s.lastResult = nil
		return
	}
	s.lastResult = result
	s.lastErr = nil
}

// InFlight reports whether a completion request is unresolved
func (s *Session) InFlight() bool {
	return s.inFlight
}

// LastResult returns the most recent successful completion, if any
func (s *Session) LastResult() *models.CompletionResult {
	return s.lastResult
}

// LastErr returns the most recent run failure, if any
func (s *Session) LastErr() error {
	return s.lastErr
}

// Snapshot captures the session as a new, unsaved template record. The ID
// is left empty so the store assigns a fresh one.
func (s *Session) Snapshot(name string) *models.SavedTemplate {
	variables := make([]models.Variable, 0, len(s.names))
	for _, varName := range s.names {
		variables = append(variables, models.Variable{Name: varName, Value: s.values[varName]})
	}

	return &models.SavedTemplate{
		Name:       name,
		PromptText: s.text,
		Variables:  variables,
		CreatedAt:  time.Now(),
	}
}

// ApplySaved loads a stored template into the session. Saved values are
// reconciled against the text's current placeholder set, so stale variable
// snapshots never leak into the mapping.
func (s *Session) ApplySaved(tmpl *models.SavedTemplate) {
	s.text = tmpl.PromptText
	s.names = template.Scan(tmpl.PromptText)
	s.values = template.Reconcile(tmpl.PromptText, tmpl.VariableMap())
}
