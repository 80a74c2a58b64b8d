// Package synth is the boundary to the AI template synthesizer: an external
// service that turns a free-text prompt into a candidate template shape. The
// engine owns only the edges — rejecting blank prompts, assigning ids and
// defaults, and refusing malformed shapes before anything reaches storage.
package synth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vadilazy/HSE-App/internal/forms"
)

// ErrEmptyPrompt is returned before the synthesizer is ever called.
var ErrEmptyPrompt = errors.New("synth: prompt is empty")

const (
	defaultTitle       = "New Form"
	defaultDescription = "AI Generated Form"
)

// FieldShape is one candidate field as returned by the synthesizer. Ids are
// never supplied by the service.
type FieldShape struct {
	Label       string   `json:"label"`
	Type        string   `json:"type"`
	Required    bool     `json:"required"`
	Placeholder string   `json:"placeholder,omitempty"`
	Options     []string `json:"options,omitempty"`
}

// TemplateShape is the structured candidate returned by the synthesizer.
type TemplateShape struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Fields      []FieldShape `json:"fields"`
}

// Synthesizer produces a candidate template shape from a prompt. Failures
// are retryable and must never mutate the template store.
type Synthesizer interface {
	Synthesize(ctx context.Context, prompt string) (TemplateShape, error)
}

// Normalize converts a candidate shape into a valid schema-model template:
// fresh unique ids for the template and every field, default title and
// description when absent, and a hard failure on any shape the schema model
// rejects (unknown type, missing label, option-bound type without options).
func Normalize(shape TemplateShape, now int64) (forms.FormTemplate, error) {
	title := strings.TrimSpace(shape.Title)
	if title == "" {
		title = defaultTitle
	}
	description := strings.TrimSpace(shape.Description)
	if description == "" {
		description = defaultDescription
	}

	fields := make([]forms.FormField, 0, len(shape.Fields))
	for _, f := range shape.Fields {
		fields = append(fields, forms.FormField{
			ID:          forms.NewID(),
			Label:       strings.TrimSpace(f.Label),
			Type:        forms.FieldType(strings.TrimSpace(f.Type)),
			Required:    f.Required,
			Placeholder: f.Placeholder,
			Options:     f.Options,
		})
	}

	t := forms.FormTemplate{
		ID:          forms.NewID(),
		Title:       title,
		Description: description,
		Fields:      fields,
		CreatedAt:   now,
	}
	if err := t.Validate(); err != nil {
		return forms.FormTemplate{}, fmt.Errorf("synth: rejected candidate shape: %w", err)
	}
	return t, nil
}

// Builder drives one synthesis round trip: prompt in, store-ready template
// out.
type Builder struct {
	synthesizer Synthesizer
}

// NewBuilder wraps a synthesizer implementation.
func NewBuilder(s Synthesizer) *Builder {
	return &Builder{synthesizer: s}
}

// Build rejects blank prompts, calls the synthesizer and normalizes its
// output. Any error leaves the template store untouched.
func (b *Builder) Build(ctx context.Context, prompt string, now int64) (forms.FormTemplate, error) {
	if strings.TrimSpace(prompt) == "" {
		return forms.FormTemplate{}, ErrEmptyPrompt
	}

	shape, err := b.synthesizer.Synthesize(ctx, prompt)
	if err != nil {
		return forms.FormTemplate{}, fmt.Errorf("synth: %w", err)
	}
	return Normalize(shape, now)
}
