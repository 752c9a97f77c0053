package store

import (
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/google/uuid"

	"github.com/promptpad/promptpad/internal/errors"
	"github.com/promptpad/promptpad/internal/models"
)

// templatePrefix namespaces all saved-template keys in the underlying KV
const templatePrefix = "templates/"

// TemplateStore persists saved templates in an injected key-value
// collaborator. Every underlying storage failure is caught at this boundary
// and surfaced as a recoverable STORAGE_FAILURE app error; callers decide
// whether to retry, ignore, or alert the user.
type TemplateStore struct {
	kv KV
}

// NewTemplateStore creates a template store over the given KV backend
func NewTemplateStore(kv KV) *TemplateStore {
	return &TemplateStore{kv: kv}
}

// Save writes a template record and returns the stored copy. A record
// without an ID gets a fresh one; IDs are never reused, so re-saving a
// record with its ID cleared always creates a new entry.
func (s *TemplateStore) Save(tmpl *models.SavedTemplate) (*models.SavedTemplate, error) {
	stored := *tmpl
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}

	data, err := json.MarshalIndent(&stored, "", "  ")
	if err != nil {
		return nil, errors.StorageError("serialize template", err)
	}

	if err := s.kv.Set(templatePrefix+stored.ID, data); err != nil {
		return nil, errors.StorageError("write template", err)
	}

	return &stored, nil
}

// List returns every saved template. Order is unspecified; consumers must
// sort if they need stable presentation.
func (s *TemplateStore) List() ([]*models.SavedTemplate, error) {
	keys, err := s.kv.ListKeys(templatePrefix)
	if err != nil {
		return nil, errors.StorageError("list templates", err)
	}

	var templates []*models.SavedTemplate
	for _, key := range keys {
		data, err := s.kv.Get(key)
		if err != nil {
			if stderrors.Is(err, ErrKeyNotFound) {
				// Removed between list and read
				continue
			}
			return nil, errors.StorageError("read template", err)
		}

		var tmpl models.SavedTemplate
		if err := json.Unmarshal(data, &tmpl); err != nil {
			return nil, errors.StorageError("parse template", err).WithContext("key", key)
		}
		templates = append(templates, &tmpl)
	}

	return templates, nil
}

// Load returns the template with the given ID, or a NOT_FOUND error
func (s *TemplateStore) Load(id string) (*models.SavedTemplate, error) {
	data, err := s.kv.Get(templatePrefix + id)
	if err != nil {
		if stderrors.Is(err, ErrKeyNotFound) {
			return nil, errors.NotFoundError("template").WithContext("id", id)
		}
		return nil, errors.StorageError("read template", err)
	}

	var tmpl models.SavedTemplate
	if err := json.Unmarshal(data, &tmpl); err != nil {
		return nil, errors.StorageError("parse template", err).WithContext("id", id)
	}

	return &tmpl, nil
}

// Delete removes the template with the given ID. Deleting an unknown ID is
// a no-op, not an error.
func (s *TemplateStore) Delete(id string) error {
	if err := s.kv.Remove(templatePrefix + id); err != nil {
		return errors.StorageError("delete template", err)
	}
	return nil
}
