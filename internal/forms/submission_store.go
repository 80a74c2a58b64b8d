package forms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/vadilazy/HSE-App/internal/kv"
)

const submissionsCollection = "submissions"

// SubmissionStore holds the submission collection in memory and writes it
// whole to the kv collaborator after every mutation.
type SubmissionStore struct {
	mu          sync.RWMutex
	store       kv.Store
	submissions []FormSubmission
}

// NewSubmissionStore loads the submissions collection; an absent collection
// starts empty.
func NewSubmissionStore(ctx context.Context, store kv.Store) (*SubmissionStore, error) {
	s := &SubmissionStore{store: store}

	payload, err := store.Load(ctx, submissionsCollection)
	switch {
	case errors.Is(err, kv.ErrNotFound):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("load submissions: %w", err)
	}

	if err := json.Unmarshal(payload, &s.submissions); err != nil {
		return nil, fmt.Errorf("decode submissions: %w", err)
	}
	return s, nil
}

// List returns all submissions, newest first.
func (s *SubmissionStore) List() []FormSubmission {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]FormSubmission, len(s.submissions))
	copy(out, s.submissions)
	return out
}

// ListByForm returns the submissions referencing one template, newest first.
func (s *SubmissionStore) ListByForm(formID string) []FormSubmission {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []FormSubmission
	for _, sub := range s.submissions {
		if sub.FormID == formID {
			out = append(out, sub)
		}
	}
	return out
}

// Get returns a submission by id.
func (s *SubmissionStore) Get(id string) (FormSubmission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sub := range s.submissions {
		if sub.ID == id {
			return sub, nil
		}
	}
	return FormSubmission{}, ErrNotFound
}

// Create persists a new submission at the head of the collection.
func (s *SubmissionStore) Create(ctx context.Context, sub FormSubmission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.submissions = append([]FormSubmission{sub}, s.submissions...)
	if err := s.persist(ctx); err != nil {
		s.submissions = s.submissions[1:]
		return err
	}
	return nil
}

// Delete removes a single submission by id. No cascade in this direction.
func (s *SubmissionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, sub := range s.submissions {
		if sub.ID != id {
			continue
		}
		removed := sub
		s.submissions = append(s.submissions[:i], s.submissions[i+1:]...)
		if err := s.persist(ctx); err != nil {
			s.submissions = append(s.submissions[:i], append([]FormSubmission{removed}, s.submissions[i:]...)...)
			return err
		}
		return nil
	}
	return ErrNotFound
}

// DeleteByForm removes every submission referencing the template and returns
// how many were removed. Called when a template delete cascades.
func (s *SubmissionStore) DeleteByForm(ctx context.Context, formID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.submissions[:0:0]
	for _, sub := range s.submissions {
		if sub.FormID != formID {
			kept = append(kept, sub)
		}
	}

	removed := len(s.submissions) - len(kept)
	if removed == 0 {
		return 0, nil
	}

	previous := s.submissions
	s.submissions = kept
	if err := s.persist(ctx); err != nil {
		s.submissions = previous
		return 0, err
	}
	return removed, nil
}

func (s *SubmissionStore) persist(ctx context.Context) error {
	payload, err := json.Marshal(s.submissions)
	if err != nil {
		return fmt.Errorf("encode submissions: %w", err)
	}
	if err := s.store.Save(ctx, submissionsCollection, payload); err != nil {
		return fmt.Errorf("save submissions: %w", err)
	}
	return nil
}
