package models

import (
	"strings"
	"time"
)

// Variable is a named placeholder value captured when a template is saved
type Variable struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// SavedTemplate is a persisted snapshot of the editor: the prompt text plus
// the variable values in effect at save time. Records are immutable once
// written; re-saving always creates a new record with a new ID.
type SavedTemplate struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	PromptText string     `json:"promptText"`
	Variables  []Variable `json:"variables"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// VariableMap converts the variable snapshot back into a lookup map
func (t *SavedTemplate) VariableMap() map[string]string {
	m := make(map[string]string, len(t.Variables))
	for _, v := range t.Variables {
		m[v.Name] = v.Value
	}
	return m
}

// Implement list.Item interface for bubbles list component

// FilterValue returns the value used for filtering in lists
func (t SavedTemplate) FilterValue() string {
	return cleanString(t.Name)
}

// Title satisfies the list.Item interface
func (t SavedTemplate) Title() string {
	if t.Name != "" {
		return cleanString(t.Name)
	}
	return cleanString(t.ID)
}

// Description satisfies the list.Item interface
func (t SavedTemplate) Description() string {
	var parts []string

	preview := cleanString(t.PromptText)
	maxPreviewLength := 60
	if len(preview) > maxPreviewLength {
		preview = preview[:maxPreviewLength-3] + "..."
	}
	if preview != "" {
		parts = append(parts, preview)
	}

	if len(t.Variables) > 0 {
		var names []string
		for _, v := range t.Variables {
			names = append(names, v.Name)
		}
		parts = append(parts, "Vars: "+strings.Join(names, ", "))
	}

	if !t.CreatedAt.IsZero() {
		parts = append(parts, "Saved: "+t.CreatedAt.Format("2006-01-02 15:04"))
	}

	return cleanString(strings.Join(parts, " • "))
}

// cleanString removes control characters that might cause rendering issues
func cleanString(s string) string {
	if s == "" {
		return ""
	}

	cleaned := ""
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' {
			cleaned += " "
		} else if r >= 32 && r != 127 {
			cleaned += string(r)
		}
	}

	// Collapse multiple spaces
	for cleaned != strings.ReplaceAll(cleaned, "  ", " ") {
		cleaned = strings.ReplaceAll(cleaned, "  ", " ")
	}

	return strings.TrimSpace(cleaned)
}
