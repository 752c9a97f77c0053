package editor

import (
	"context"
	"reflect"
	"testing"

	"github.com/promptpad/promptpad/internal/completion"
	"github.com/promptpad/promptpad/internal/errors"
	"github.com/promptpad/promptpad/internal/models"
)

func TestSetTextReconcilesValues(t *testing.T) {
	s := NewSession("{a}", "gpt-4o-mini")
	s.SetValue("a", "1")

	// Adding a placeholder keeps a's value and introduces an empty b
	s.SetText("{a} {b}")
	if !reflect.DeepEqual(s.Vars(), []string{"a", "b"}) {
		t.Errorf("Vars = %v", s.Vars())
	}
	if !reflect.DeepEqual(s.Values(), map[string]string{"a": "1", "b": ""}) {
		t.Errorf("Values = %v", s.Values())
	}

	// Removing a placeholder drops its value
	s.SetText("{b}")
	if !reflect.DeepEqual(s.Values(), map[string]string{"b": ""}) {
		t.Errorf("Values = %v", s.Values())
	}

	// a's old value must not resurface when a comes back
	s.SetText("{a} {b}")
	if s.Value("a") != "" {
		t.Errorf("expected dropped value to stay dropped, got %q", s.Value("a"))
	}
}

func TestSetValueIgnoresInactiveNames(t *testing.T) {
	s := NewSession("{x}", "m")
	s.SetValue("ghost", "boo")

	if _, ok := s.Values()["ghost"]; ok {
		t.Error("inactive name leaked into the value mapping")
	}
}

func TestMerged(t *testing.T) {
	s := NewSession("Hello {name}, meet {other}", "m")
	s.SetValue("name", "Ada")

	// Unfilled placeholders keep an empty value after reconciliation
	if got := s.Merged(); got != "Hello Ada, meet " {
		t.Errorf("Merged = %q", got)
	}
}

func TestRunInFlightGuard(t *testing.T) {
	s := NewSession("{x}", "m")

	if err := s.BeginRun(); err != nil {
		t.Fatalf("first BeginRun failed: %v", err)
	}
	if !s.InFlight() {
		t.Fatal("expected in-flight flag to be set")
	}

	// Re-entrant run is rejected until the in-flight call resolves
	if err := s.BeginRun(); err == nil {
		t.Fatal("expected second BeginRun to fail")
	}

	s.FinishRun(&models.CompletionResult{}, nil)
	if s.InFlight() {
		t.Fatal("expected flag cleared after FinishRun")
	}
	if err := s.BeginRun(); err != nil {
		t.Errorf("BeginRun after resolve failed: %v", err)
	}

	// The flag clears on failure too
	s.FinishRun(nil, errors.NoResponseError(nil))
	if s.InFlight() {
		t.Error("expected flag cleared after failed run")
	}
}

func TestResultAndErrorAreMutuallyExclusive(t *testing.T) {
	s := NewSession("", "m")

	s.BeginRun()
	s.FinishRun(&models.CompletionResult{Model: "m"}, nil)
	if s.LastResult() == nil || s.LastErr() != nil {
		t.Fatal("expected result without error")
	}

	s.BeginRun()
	s.FinishRun(nil, errors.RemoteRejectedError("invalid key"))
	if s.LastResult() != nil {
		t.Error("failure must clear the previous result")
	}
	if s.LastErr() == nil {
		t.Error("expected the failure to be retained")
	}

	s.BeginRun()
	s.FinishRun(&models.CompletionResult{Model: "m"}, nil)
	if s.LastErr() != nil {
		t.Error("success must clear the previous error")
	}
}

func TestSnapshotCapturesOrderedVariables(t *testing.T) {
	s := NewSession("{b} and {a} and {b}", "m")
	s.SetValue("b", "2")
	s.SetValue("a", "1")

	snap := s.Snapshot("my template")
	if snap.ID != "" {
		t.Error("snapshot must leave the ID empty for the store to assign")
	}
	if snap.Name != "my template" || snap.PromptText != "{b} and {a} and {b}" {
		t.Errorf("snapshot = %+v", snap)
	}

	expected := []models.Variable{{Name: "b", Value: "2"}, {Name: "a", Value: "1"}}
	if !reflect.DeepEqual(snap.Variables, expected) {
		t.Errorf("Variables = %v", snap.Variables)
	}
}

func TestApplySavedReconcilesStaleVariables(t *testing.T) {
	s := NewSession("", "m")

	// A record whose variable snapshot no longer matches its text
	s.ApplySaved(&models.SavedTemplate{
		PromptText: "only {kept} here",
		Variables: []models.Variable{
			{Name: "kept", Value: "v"},
			{Name: "stale", Value: "gone"},
		},
	})

	if !reflect.DeepEqual(s.Values(), map[string]string{"kept": "v"}) {
		t.Errorf("Values = %v", s.Values())
	}
	if s.Text() != "only {kept} here" {
		t.Errorf("Text = %q", s.Text())
	}
}

func TestSessionWithFakeClient(t *testing.T) {
	s := NewSession("Say {word}", "gpt-4o-mini")
	s.SetValue("word", "hello")

	client := &completion.FakeClient{Content: "hello!"}
	if err := s.BeginRun(); err != nil {
		t.Fatalf("BeginRun failed: %v", err)
	}
	result, err := client.Complete(context.Background(), completion.Request{Text: s.Merged(), Model: s.Model()})
	s.FinishRun(result, err)

	if client.LastRequest.Text != "Say hello" {
		t.Errorf("submitted text = %q", client.LastRequest.Text)
	}
	if s.LastResult().FirstContent() != "hello!" {
		t.Errorf("FirstContent = %q", s.LastResult().FirstContent())
	}
}
