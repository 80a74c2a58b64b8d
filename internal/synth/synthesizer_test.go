package synth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadilazy/HSE-App/internal/forms"
)

func candidateShape() TemplateShape {
	return TemplateShape{
		Title:       "Maintenance Request",
		Description: "Report equipment issues.",
		Fields: []FieldShape{
			{Label: "Room", Type: "text", Required: true},
			{Label: "Issue Type", Type: "select", Required: true, Options: []string{"Electrical", "Plumbing"}},
			{Label: "Details", Type: "textarea", Required: false},
		},
	}
}

func TestNormalizeAssignsIDs(t *testing.T) {
	tpl, err := Normalize(candidateShape(), 1700000000000)
	require.NoError(t, err)

	assert.NotEmpty(t, tpl.ID)
	assert.Equal(t, int64(1700000000000), tpl.CreatedAt)

	seen := map[string]bool{}
	for _, f := range tpl.Fields {
		require.NotEmpty(t, f.ID, "field %q has no id", f.Label)
		assert.False(t, seen[f.ID], "field id %q reused", f.ID)
		seen[f.ID] = true
		assert.NotEqual(t, tpl.ID, f.ID)
	}
}

func TestNormalizeDefaults(t *testing.T) {
	shape := candidateShape()
	shape.Title = "  "
	shape.Description = ""

	tpl, err := Normalize(shape, 0)
	require.NoError(t, err)
	assert.Equal(t, "New Form", tpl.Title)
	assert.Equal(t, "AI Generated Form", tpl.Description)
}

func TestNormalizeRejectsMalformedShapes(t *testing.T) {
	unknown := candidateShape()
	unknown.Fields[0].Type = "slider"
	_, err := Normalize(unknown, 0)
	assert.Error(t, err, "unknown field type must be a hard failure")

	optionless := candidateShape()
	optionless.Fields[1].Options = nil
	_, err = Normalize(optionless, 0)
	assert.Error(t, err, "select without options must be a hard failure")

	empty := candidateShape()
	empty.Fields = nil
	_, err = Normalize(empty, 0)
	assert.Error(t, err, "a template with no fields is degenerate")
}

type stubSynthesizer struct {
	shape TemplateShape
	err   error
	calls int
}

func (s *stubSynthesizer) Synthesize(_ context.Context, _ string) (TemplateShape, error) {
	s.calls++
	return s.shape, s.err
}

func TestBuilderRejectsBlankPrompt(t *testing.T) {
	stub := &stubSynthesizer{shape: candidateShape()}
	builder := NewBuilder(stub)

	_, err := builder.Build(context.Background(), "   ", 0)
	assert.ErrorIs(t, err, ErrEmptyPrompt)
	assert.Zero(t, stub.calls, "synthesizer must not be called for a blank prompt")
}

func TestBuilderSurfacesSynthesisFailure(t *testing.T) {
	stub := &stubSynthesizer{err: errors.New("upstream timeout")}
	builder := NewBuilder(stub)

	_, err := builder.Build(context.Background(), "a fitness tracker", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream timeout")
}

func TestBuilderProducesStoreReadyTemplate(t *testing.T) {
	stub := &stubSynthesizer{shape: candidateShape()}
	builder := NewBuilder(stub)

	tpl, err := builder.Build(context.Background(), "a maintenance request form", 1700000000000)
	require.NoError(t, err)
	require.NoError(t, tpl.Validate())
	assert.Equal(t, forms.FieldSelect, tpl.Fields[1].Type)
	assert.Equal(t, 1, stub.calls)
}
