// Package export serializes the current editing session to a JSON document.
// Export is one-way: there is no corresponding import operation.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/promptpad/promptpad/internal/editor"
	"github.com/promptpad/promptpad/internal/models"
)

// SessionExport is the exported document shape
type SessionExport struct {
	PromptText string                   `json:"promptText"`
	Variables  map[string]string        `json:"variables"`
	Model      string                   `json:"model"`
	LastResult *models.CompletionResult `json:"lastResult,omitempty"`
	ExportedAt time.Time                `json:"exportedAt"`
}

// FromSession captures a session into an export document
func FromSession(session *editor.Session) *SessionExport {
	return &SessionExport{
		PromptText: session.Text(),
		Variables:  session.Values(),
		Model:      session.Model(),
		LastResult: session.LastResult(),
		ExportedAt: time.Now(),
	}
}

// Write serializes the session as indented JSON to w
func Write(w io.Writer, session *editor.Session) error {
	doc := FromSession(session)

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session export: %w", err)
	}

	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write session export: %w", err)
	}

	return nil
}

// ToFile writes the session export to the given path
func ToFile(path string, session *editor.Session) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer file.Close()

	return Write(file, session)
}
