package store

import (
	stderrors "errors"
	"testing"

	"github.com/promptpad/promptpad/internal/errors"
	"github.com/promptpad/promptpad/internal/models"
)

func TestSaveAssignsFreshID(t *testing.T) {
	s := NewTemplateStore(NewMemoryKV())

	stored, err := s.Save(&models.SavedTemplate{
		Name:       "greeting",
		PromptText: "Hello {name}",
		Variables:  []models.Variable{{Name: "name", Value: "Ada"}},
	})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if stored.ID == "" {
		t.Fatal("expected an assigned ID")
	}
	if stored.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}

	// Saving again without an ID creates a distinct record
	again, err := s.Save(&models.SavedTemplate{Name: "greeting", PromptText: "Hello {name}"})
	if err != nil {
		t.Fatalf("second Save failed: %v", err)
	}
	if again.ID == stored.ID {
		t.Error("expected a new ID for each save")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := NewTemplateStore(NewMemoryKV())

	stored, err := s.Save(&models.SavedTemplate{
		Name:       "review",
		PromptText: "Review {file} for {issue}",
		Variables: []models.Variable{
			{Name: "file", Value: "main.go"},
			{Name: "issue", Value: "races"},
		},
	})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := s.Load(stored.ID)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.PromptText != "Review {file} for {issue}" {
		t.Errorf("PromptText = %q", loaded.PromptText)
	}
	values := loaded.VariableMap()
	if values["file"] != "main.go" || values["issue"] != "races" {
		t.Errorf("variables not reconstructed: %v", values)
	}
}

func TestLoadUnknownIDIsNotFound(t *testing.T) {
	s := NewTemplateStore(NewMemoryKV())

	_, err := s.Load("no-such-id")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errors.HasCode(err, errors.ErrCodeNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestListReturnsAllRecords(t *testing.T) {
	s := NewTemplateStore(NewMemoryKV())

	for _, name := range []string{"one", "two", "three"} {
		if _, err := s.Save(&models.SavedTemplate{Name: name, PromptText: name}); err != nil {
			t.Fatalf("Save %s failed: %v", name, err)
		}
	}

	templates, err := s.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(templates) != 3 {
		t.Errorf("expected 3 templates, got %d", len(templates))
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	s := NewTemplateStore(NewMemoryKV())

	stored, err := s.Save(&models.SavedTemplate{Name: "gone", PromptText: "x"})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := s.Delete(stored.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Load(stored.ID); !errors.HasCode(err, errors.ErrCodeNotFound) {
		t.Errorf("expected NOT_FOUND after delete, got %v", err)
	}

	// Deleting a missing ID is a no-op
	if err := s.Delete(stored.ID); err != nil {
		t.Errorf("Delete of missing ID returned %v", err)
	}
	if err := s.Delete("never-existed"); err != nil {
		t.Errorf("Delete of unknown ID returned %v", err)
	}
}

// failingKV simulates a broken persistence collaborator
type failingKV struct{}

var errDiskFull = stderrors.New("disk full")

func (f failingKV) Get(key string) ([]byte, error)           { return nil, errDiskFull }
func (f failingKV) Set(key string, value []byte) error       { return errDiskFull }
func (f failingKV) Remove(key string) error                  { return errDiskFull }
func (f failingKV) ListKeys(prefix string) ([]string, error) { return nil, errDiskFull }

func TestStorageFailuresSurfaceAsRecoverableErrors(t *testing.T) {
	s := NewTemplateStore(failingKV{})

	_, err := s.Save(&models.SavedTemplate{Name: "x", PromptText: "y"})
	if !errors.HasCode(err, errors.ErrCodeStorageFailure) {
		t.Errorf("Save: expected STORAGE_FAILURE, got %v", err)
	}
	if !errors.GetAppError(err).IsRetryable() {
		t.Error("storage failures should be retryable")
	}
	if !stderrors.Is(err, errDiskFull) {
		t.Error("expected the cause to be preserved")
	}

	if _, err := s.List(); !errors.HasCode(err, errors.ErrCodeStorageFailure) {
		t.Errorf("List: expected STORAGE_FAILURE, got %v", err)
	}
	if _, err := s.Load("id"); !errors.HasCode(err, errors.ErrCodeStorageFailure) {
		t.Errorf("Load: expected STORAGE_FAILURE, got %v", err)
	}
	if err := s.Delete("id"); !errors.HasCode(err, errors.ErrCodeStorageFailure) {
		t.Errorf("Delete: expected STORAGE_FAILURE, got %v", err)
	}
}
