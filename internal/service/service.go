// Package service wires the placeholder engine, template store, and
// completion client behind one API shared by the CLI and the TUI.
package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/promptpad/promptpad/internal/completion"
	"github.com/promptpad/promptpad/internal/config"
	"github.com/promptpad/promptpad/internal/editor"
	"github.com/promptpad/promptpad/internal/errors"
	"github.com/promptpad/promptpad/internal/export"
	"github.com/promptpad/promptpad/internal/models"
	"github.com/promptpad/promptpad/internal/store"
)

// Service provides business logic for prompt composition and persistence
type Service struct {
	templates *store.TemplateStore
	client    completion.Client
	cfg       *config.Config
}

// NewService creates a service with file-backed persistence and a live
// completion client, per the loaded configuration.
func NewService(cfg *config.Config) (*Service, error) {
	kv, err := store.NewFileKV(cfg.LibraryDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	return &Service{
		templates: store.NewTemplateStore(kv),
		client:    completion.NewHTTPClient(cfg.Endpoint, cfg.APIKey),
		cfg:       cfg,
	}, nil
}

// NewServiceWith creates a service over injected collaborators. Tests use
// this with a MemoryKV and a FakeClient.
func NewServiceWith(templates *store.TemplateStore, client completion.Client, cfg *config.Config) *Service {
	return &Service{
		templates: templates,
		client:    client,
		cfg:       cfg,
	}
}

// Client exposes the completion client for callers that need to dispatch
// the network call themselves, like the TUI's command loop.
func (s *Service) Client() completion.Client {
	return s.client
}

// NewSession creates an editing session seeded from the configuration
func (s *Service) NewSession() *editor.Session {
	return editor.NewSession(s.cfg.InitialTemplate, s.cfg.Model)
}

// SaveSession snapshots the session under the given name and persists it as
// a new immutable record.
func (s *Service) SaveSession(session *editor.Session, name string) (*models.SavedTemplate, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.ValidationError("template name is required")
	}
	return s.templates.Save(session.Snapshot(name))
}

// ListTemplates returns all saved templates, newest first
func (s *Service) ListTemplates() ([]*models.SavedTemplate, error) {
	templates, err := s.templates.List()
	if err != nil {
		return nil, err
	}

	// The store's ordering is unspecified; sort here for stable display
	sort.Slice(templates, func(i, j int) bool {
		return templates[i].CreatedAt.After(templates[j].CreatedAt)
	})

	return templates, nil
}

// SearchTemplates filters saved templates by fuzzy-matching name and text
func (s *Service) SearchTemplates(query string) ([]*models.SavedTemplate, error) {
	templates, err := s.ListTemplates()
	if err != nil {
		return nil, err
	}

	if query == "" {
		return templates, nil
	}

	var searchStrings []string
	for _, t := range templates {
		searchStrings = append(searchStrings, fmt.Sprintf("%s %s", t.Name, t.PromptText))
	}

	matches := fuzzy.Find(query, searchStrings)

	var results []*models.SavedTemplate
	for _, match := range matches {
		results = append(results, templates[match.Index])
	}

	return results, nil
}

// GetTemplate loads a saved template by ID
func (s *Service) GetTemplate(id string) (*models.SavedTemplate, error) {
	return s.templates.Load(id)
}

// LoadSession restores a saved template into the session. Saved variable
// values are reconciled against the text's current placeholder set.
func (s *Service) LoadSession(session *editor.Session, id string) (*models.SavedTemplate, error) {
	tmpl, err := s.templates.Load(id)
	if err != nil {
		return nil, err
	}
	session.ApplySaved(tmpl)
	return tmpl, nil
}

// DeleteTemplate removes a saved template; unknown IDs are a no-op
func (s *Service) DeleteTemplate(id string) error {
	return s.templates.Delete(id)
}

// Run merges the session and submits the result to the completion endpoint.
// A second run while one is in flight is rejected before any network
// activity. The session's result/error state is updated on resolution.
func (s *Service) Run(ctx context.Context, session *editor.Session) (*models.CompletionResult, error) {
	if err := session.BeginRun(); err != nil {
		return nil, err
	}

	result, err := s.client.Complete(ctx, completion.Request{
		Text:  session.Merged(),
		Model: session.Model(),
	})
	session.FinishRun(result, err)

	return result, err
}

// ExportSession writes the session export document to a file
func (s *Service) ExportSession(session *editor.Session, path string) error {
	return export.ToFile(path, session)
}
