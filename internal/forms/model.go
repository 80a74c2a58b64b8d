package forms

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FieldType identifies the input affordance and expected value shape of a field.
type FieldType string

const (
	FieldText          FieldType = "text"
	FieldNumber        FieldType = "number"
	FieldDate          FieldType = "date"
	FieldSelect        FieldType = "select"
	FieldCheckbox      FieldType = "checkbox"
	FieldTextarea      FieldType = "textarea"
	FieldFile          FieldType = "file"
	FieldMultiCheckbox FieldType = "multi_checkbox"
)

// ValidFieldType reports whether t is one of the supported field types.
func ValidFieldType(t FieldType) bool {
	switch t {
	case FieldText, FieldNumber, FieldDate, FieldSelect,
		FieldCheckbox, FieldTextarea, FieldFile, FieldMultiCheckbox:
		return true
	}
	return false
}

// requiresOptions reports whether the type is only meaningful with an
// options list.
func (t FieldType) requiresOptions() bool {
	return t == FieldSelect || t == FieldMultiCheckbox
}

// FormField is one typed input slot within a template.
type FormField struct {
	ID          string    `json:"id"`
	Label       string    `json:"label"`
	Type        FieldType `json:"type"`
	Required    bool      `json:"required"`
	Options     []string  `json:"options,omitempty"`
	Placeholder string    `json:"placeholder,omitempty"`
}

// FormTemplate is a named, ordered schema of fields defining one reusable
// form. Templates are immutable once created; they are only ever deleted
// whole.
type FormTemplate struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Fields      []FormField `json:"fields"`
	CreatedAt   int64       `json:"createdAt"`
}

// FormSubmission is one completed, persisted instance of answers to a
// template. FormID is a weak reference: the template may have been deleted,
// in which case the submission is orphaned and readers fall back to a
// placeholder title.
type FormSubmission struct {
	ID        string         `json:"id"`
	FormID    string         `json:"formId"`
	Data      map[string]any `json:"data"`
	Timestamp int64          `json:"timestamp"`
}

// NewID returns a fresh unique identifier.
func NewID() string {
	return uuid.NewString()
}

// NowMillis returns the current time in Unix milliseconds, the wire shape
// used for all timestamps in the persisted collections.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}

// Field returns the field with the given id.
func (t FormTemplate) Field(id string) (FormField, bool) {
	for _, f := range t.Fields {
		if f.ID == id {
			return f, true
		}
	}
	return FormField{}, false
}

// Validate checks the template shape: non-empty title and field list, known
// field types, unique field ids and a non-empty options list for option-bound
// types.
func (t FormTemplate) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return errors.New("template title is required")
	}
	if len(t.Fields) == 0 {
		return errors.New("template must declare at least one field")
	}

	seen := make(map[string]struct{}, len(t.Fields))
	for i, f := range t.Fields {
		if err := f.validate(); err != nil {
			return fmt.Errorf("field %d: %w", i, err)
		}
		if _, dup := seen[f.ID]; dup {
			return fmt.Errorf("field %d: duplicate id %q", i, f.ID)
		}
		seen[f.ID] = struct{}{}
	}
	return nil
}

func (f FormField) validate() error {
	if strings.TrimSpace(f.ID) == "" {
		return errors.New("id is required")
	}
	if strings.TrimSpace(f.Label) == "" {
		return errors.New("label is required")
	}
	if !ValidFieldType(f.Type) {
		return fmt.Errorf("unknown field type %q", f.Type)
	}
	if f.Type.requiresOptions() && len(f.Options) == 0 {
		return fmt.Errorf("type %q requires options", f.Type)
	}
	return nil
}

// ToDTO converts the template into a response-friendly structure.
func (t FormTemplate) ToDTO() map[string]any {
	fields := make([]map[string]any, 0, len(t.Fields))
	for _, f := range t.Fields {
		field := map[string]any{
			"id":       f.ID,
			"label":    f.Label,
			"type":     string(f.Type),
			"required": f.Required,
		}
		if len(f.Options) > 0 {
			field["options"] = f.Options
		}
		if f.Placeholder != "" {
			field["placeholder"] = f.Placeholder
		}
		fields = append(fields, field)
	}

	return map[string]any{
		"id":          t.ID,
		"title":       t.Title,
		"description": t.Description,
		"fields":      fields,
		"createdAt":   t.CreatedAt,
	}
}

// ToDTO converts the submission into a response-friendly structure. formTitle
// is the resolved template title, or the orphan placeholder when the template
// no longer exists.
func (s FormSubmission) ToDTO(formTitle string) map[string]any {
	data := s.Data
	if data == nil {
		data = map[string]any{}
	}
	return map[string]any{
		"id":        s.ID,
		"formId":    s.FormID,
		"formTitle": formTitle,
		"data":      data,
		"timestamp": s.Timestamp,
	}
}
