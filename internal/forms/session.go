package forms

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
)

// RequiredMessage is the fixed per-field validation message shown for a
// required field left unanswered.
const RequiredMessage = "Wajib diisi"

// DataURIPrefix marks an embedded image payload inside submission data.
const DataURIPrefix = "data:image"

// ErrSessionClosed is returned when a write or attach arrives after the
// session has been submitted or cancelled.
var ErrSessionClosed = errors.New("forms: session is closed")

// ErrUnknownField is returned when a write names a field id the template
// does not declare. Submission data keys are always a subset of the
// template's field ids.
var ErrUnknownField = errors.New("forms: unknown field")

// SessionState is the lifecycle phase of a form session.
type SessionState string

const (
	StateEditing          SessionState = "editing"
	StateValidationFailed SessionState = "validation_failed"
	StateSubmitted        SessionState = "submitted"
	StateCancelled        SessionState = "cancelled"
)

// ValidationError reports every required field left unanswered on a submit
// attempt, in template order. First names the earliest failing field so a
// caller can focus it.
type ValidationError struct {
	Fields map[string]string
	First  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("forms: %d required field(s) missing", len(e.Fields))
}

// ReadValue returns the working value for the field, or a type-appropriate
// empty default when absent.
func ReadValue(f FormField, values map[string]any) any {
	if v, ok := values[f.ID]; ok && v != nil {
		return v
	}
	if f.Type == FieldMultiCheckbox {
		return []string{}
	}
	return ""
}

// ToggleOption adds or removes one option from a multi_checkbox value,
// preserving the insertion order of the remaining selections.
func ToggleOption(f FormField, values map[string]any, option string, selected bool) {
	current := toStringSlice(values[f.ID])

	if selected {
		for _, v := range current {
			if v == option {
				values[f.ID] = current
				return
			}
		}
		values[f.ID] = append(current, option)
		return
	}

	next := current[:0:0]
	for _, v := range current {
		if v != option {
			next = append(next, v)
		}
	}
	values[f.ID] = next
}

// fieldSatisfied reports whether the field meets its required-ness
// constraint against the working values. Non-required fields always pass.
func fieldSatisfied(f FormField, values map[string]any) bool {
	if !f.Required {
		return true
	}
	return !valueEmpty(values[f.ID])
}

func valueEmpty(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case []string:
		return len(val) == 0
	case []any:
		return len(val) == 0
	}
	return false
}

func toStringSlice(v any) []string {
	switch val := v.(type) {
	case []string:
		return val
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			out = append(out, fmt.Sprint(item))
		}
		return out
	}
	return nil
}

// EncodeDataURI renders binary content as the self-describing text encoding
// stored for file fields.
func EncodeDataURI(contentType string, data []byte) string {
	if strings.TrimSpace(contentType) == "" {
		contentType = "application/octet-stream"
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// Session is the transient process of answering one template's fields up to
// submission or cancellation. It owns the working-value and error mappings
// exclusively; nothing is persisted until Submit succeeds and the caller
// stores the result.
//
// Sessions are not safe for concurrent use: there is exactly one logical
// owner at a time.
type Session struct {
	template FormTemplate
	values   map[string]any
	errors   map[string]string
	state    SessionState
}

// NewSession starts an editing session over the template with empty working
// values and no errors.
func NewSession(t FormTemplate) *Session {
	return &Session{
		template: t,
		values:   make(map[string]any),
		errors:   make(map[string]string),
		state:    StateEditing,
	}
}

// Template returns the template this session answers.
func (s *Session) Template() FormTemplate {
	return s.template
}

// State returns the current lifecycle phase. While the session is open the
// phase is re-derived from the error mapping, so correcting the last failing
// field moves the session back to Editing without explicit bookkeeping.
func (s *Session) State() SessionState {
	if s.state == StateSubmitted || s.state == StateCancelled {
		return s.state
	}
	if len(s.errors) > 0 {
		return StateValidationFailed
	}
	return StateEditing
}

// Value returns the current working value for a field via the read contract.
func (s *Session) Value(fieldID string) (any, error) {
	f, ok := s.template.Field(fieldID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, fieldID)
	}
	return ReadValue(f, s.values), nil
}

// Errors returns a copy of the per-field error mapping.
func (s *Session) Errors() map[string]string {
	out := make(map[string]string, len(s.errors))
	for k, v := range s.errors {
		out[k] = v
	}
	return out
}

// Set replaces the working value for a field and optimistically clears any
// existing error on it. Other fields are not re-validated.
func (s *Session) Set(fieldID string, value any) error {
	if err := s.writable(fieldID); err != nil {
		return err
	}
	s.values[fieldID] = value
	delete(s.errors, fieldID)
	return nil
}

// Toggle flips one option of a multi_checkbox field.
func (s *Session) Toggle(fieldID, option string, selected bool) error {
	if err := s.writable(fieldID); err != nil {
		return err
	}
	f, _ := s.template.Field(fieldID)
	if f.Type != FieldMultiCheckbox {
		return fmt.Errorf("forms: field %s is not multi_checkbox", fieldID)
	}
	ToggleOption(f, s.values, option, selected)
	delete(s.errors, fieldID)
	return nil
}

// AttachFile reads binary content and stores it on a file field as a data
// URI. The read completes asynchronously from the caller's point of view, so
// the session is re-checked before the result is applied: a session that was
// cancelled or submitted in the meantime rejects the late result instead of
// silently mutating dead state.
func (s *Session) AttachFile(ctx context.Context, fieldID, contentType string, r io.Reader) error {
	f, ok := s.template.Field(fieldID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, fieldID)
	}
	if f.Type != FieldFile {
		return fmt.Errorf("forms: field %s is not a file field", fieldID)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("forms: read attachment: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if s.state != StateEditing {
		return ErrSessionClosed
	}

	s.values[fieldID] = EncodeDataURI(contentType, data)
	delete(s.errors, fieldID)
	return nil
}

// Submit validates every field in template order. If any required field is
// unanswered the session moves to ValidationFailed and a ValidationError is
// returned with the full, freshly computed error mapping. Otherwise a
// finalized submission is produced and the session becomes terminal.
func (s *Session) Submit(now int64) (*FormSubmission, error) {
	if s.state != StateEditing {
		return nil, ErrSessionClosed
	}

	fieldErrors := make(map[string]string)
	first := ""
	for _, f := range s.template.Fields {
		if fieldSatisfied(f, s.values) {
			continue
		}
		if first == "" {
			first = f.ID
		}
		fieldErrors[f.ID] = RequiredMessage
	}

	if len(fieldErrors) > 0 {
		s.errors = fieldErrors
		return nil, &ValidationError{Fields: fieldErrors, First: first}
	}

	data := make(map[string]any, len(s.values))
	for k, v := range s.values {
		data[k] = v
	}

	s.state = StateSubmitted
	return &FormSubmission{
		ID:        NewID(),
		FormID:    s.template.ID,
		Data:      data,
		Timestamp: now,
	}, nil
}

// Cancel abandons the session. Working state is discarded; nothing was
// persisted.
func (s *Session) Cancel() {
	if s.state == StateEditing {
		s.state = StateCancelled
		s.values = make(map[string]any)
		s.errors = make(map[string]string)
	}
}

func (s *Session) writable(fieldID string) error {
	if s.state != StateEditing {
		return ErrSessionClosed
	}
	if _, ok := s.template.Field(fieldID); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, fieldID)
	}
	return nil
}
