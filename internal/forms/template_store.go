package forms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/vadilazy/HSE-App/internal/kv"
)

const templatesCollection = "templates"

// ErrNotFound indicates a missing template or submission.
var ErrNotFound = errors.New("forms: not found")

// IsNotFound reports whether an error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// TemplateStore holds the template collection in memory and writes it whole
// to the kv collaborator after every mutation.
type TemplateStore struct {
	mu        sync.RWMutex
	store     kv.Store
	templates []FormTemplate
}

// NewTemplateStore loads the templates collection, seeding the built-in HSE
// templates when the collection is absent or empty.
func NewTemplateStore(ctx context.Context, store kv.Store) (*TemplateStore, error) {
	s := &TemplateStore{store: store}

	payload, err := store.Load(ctx, templatesCollection)
	switch {
	case errors.Is(err, kv.ErrNotFound):
		// first run
	case err != nil:
		return nil, fmt.Errorf("load templates: %w", err)
	default:
		if err := json.Unmarshal(payload, &s.templates); err != nil {
			return nil, fmt.Errorf("decode templates: %w", err)
		}
	}

	if len(s.templates) == 0 {
		s.templates = SeedTemplates(NowMillis())
		if err := s.persist(ctx); err != nil {
			return nil, err
		}
		log.Printf("forms: seeded %d built-in templates", len(s.templates))
	}

	return s, nil
}

// List returns all templates, newest first.
func (s *TemplateStore) List() []FormTemplate {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]FormTemplate, len(s.templates))
	copy(out, s.templates)
	return out
}

// Get returns a template by id.
func (s *TemplateStore) Get(id string) (FormTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.templates {
		if t.ID == id {
			return t, nil
		}
	}
	return FormTemplate{}, ErrNotFound
}

// Create validates and persists a new template at the head of the
// collection.
func (s *TemplateStore) Create(ctx context.Context, t FormTemplate) error {
	if err := t.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.templates {
		if existing.ID == t.ID {
			return fmt.Errorf("template %s already exists", t.ID)
		}
	}

	s.templates = append([]FormTemplate{t}, s.templates...)
	if err := s.persist(ctx); err != nil {
		s.templates = s.templates[1:]
		return err
	}
	return nil
}

// Delete removes a template by id. Cascading removal of its submissions is
// the caller's responsibility; the two collections are written
// independently.
func (s *TemplateStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.templates {
		if t.ID != id {
			continue
		}
		removed := t
		s.templates = append(s.templates[:i], s.templates[i+1:]...)
		if err := s.persist(ctx); err != nil {
			s.templates = append(s.templates[:i], append([]FormTemplate{removed}, s.templates[i:]...)...)
			return err
		}
		return nil
	}
	return ErrNotFound
}

func (s *TemplateStore) persist(ctx context.Context) error {
	payload, err := json.Marshal(s.templates)
	if err != nil {
		return fmt.Errorf("encode templates: %w", err)
	}
	if err := s.store.Save(ctx, templatesCollection, payload); err != nil {
		return fmt.Errorf("save templates: %w", err)
	}
	return nil
}
