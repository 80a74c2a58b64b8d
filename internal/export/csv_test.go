package export

import (
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadilazy/HSE-App/internal/forms"
)

func threeFieldTemplate() forms.FormTemplate {
	return forms.FormTemplate{
		ID:    "tpl-check",
		Title: "Daily Check",
		Fields: []forms.FormField{
			{ID: "c1", Label: "Date", Type: forms.FieldDate, Required: true},
			{ID: "c2", Label: "Operator", Type: forms.FieldText, Required: true},
			{ID: "c3", Label: "OK", Type: forms.FieldCheckbox, Required: false},
		},
	}
}

func twoFieldTemplate() forms.FormTemplate {
	return forms.FormTemplate{
		ID:    "tpl-note",
		Title: "Site Note",
		Fields: []forms.FormField{
			{ID: "n1", Label: "Location", Type: forms.FieldText, Required: true},
			{ID: "n2", Label: "Note", Type: forms.FieldTextarea, Required: false},
		},
	}
}

func TestTemplateExportShape(t *testing.T) {
	tpl := threeFieldTemplate()
	subs := []forms.FormSubmission{
		{ID: "s1", FormID: tpl.ID, Timestamp: 1700000000000, Data: map[string]any{"c1": "2024-05-01", "c2": "Budi", "c3": true}},
		{ID: "s2", FormID: tpl.ID, Timestamp: 1700000060000, Data: map[string]any{"c1": "2024-05-02", "c2": "Andi"}},
	}

	content, err := Template(tpl, subs)
	require.NoError(t, err)

	rows := strings.Split(content, "\n")
	require.Len(t, rows, 3, "1 header + 2 data rows")
	for i, row := range rows {
		assert.Len(t, strings.Split(row, ","), 4, "row %d cell count", i)
	}

	assert.Equal(t, `"Timestamp","Date","Operator","OK"`, rows[0])
	assert.True(t, strings.HasSuffix(rows[1], `,"2024-05-01","Budi","Ya"`), "row 1: %s", rows[1])
	assert.True(t, strings.HasSuffix(rows[2], `,"2024-05-02","Andi",""`), "row 2: %s", rows[2])
}

func TestAllExportFlattens(t *testing.T) {
	three := threeFieldTemplate()
	two := twoFieldTemplate()
	byID := map[string]forms.FormTemplate{three.ID: three, two.ID: two}
	resolve := func(id string) (forms.FormTemplate, bool) {
		tpl, ok := byID[id]
		return tpl, ok
	}

	subs := []forms.FormSubmission{
		{ID: "s1", FormID: three.ID, Timestamp: 1700000000000, Data: map[string]any{"c1": "2024-05-01"}},
		{ID: "s2", FormID: two.ID, Timestamp: 1700000060000, Data: map[string]any{"n1": "Dock"}},
	}

	content, err := All(subs, resolve)
	require.NoError(t, err)

	rows := strings.Split(content, "\n")
	// one row per (submission, field) pair: 3 + 2, plus header
	require.Len(t, rows, 6)
	assert.Equal(t, `"Timestamp","Form Title","Field Name","Value"`, rows[0])
	assert.Contains(t, rows[1], `"Daily Check","Date","2024-05-01"`)
	assert.Contains(t, rows[4], `"Site Note","Location","Dock"`)
}

func TestAllExportSkipsOrphans(t *testing.T) {
	three := threeFieldTemplate()
	resolve := func(id string) (forms.FormTemplate, bool) {
		if id == three.ID {
			return three, true
		}
		return forms.FormTemplate{}, false
	}

	subs := []forms.FormSubmission{
		{ID: "s1", FormID: "tpl-deleted", Timestamp: 1, Data: map[string]any{}},
		{ID: "s2", FormID: three.ID, Timestamp: 2, Data: map[string]any{"c1": "x"}},
	}

	content, err := All(subs, resolve)
	require.NoError(t, err)
	rows := strings.Split(content, "\n")
	assert.Len(t, rows, 4, "header + 3 rows for the resolvable submission only")
}

func TestExportEmptyScope(t *testing.T) {
	_, err := Template(threeFieldTemplate(), nil)
	assert.ErrorIs(t, err, ErrNoSubmissions)

	_, err = All(nil, func(string) (forms.FormTemplate, bool) { return forms.FormTemplate{}, false })
	assert.ErrorIs(t, err, ErrNoSubmissions)
}

func TestFormatValue(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"plain", "plain"},
		{[]string{"a", "b"}, "a; b"},
		{[]any{"a", "b"}, "a; b"},
		{[]string{}, ""},
		{true, "Ya"},
		{false, "Tidak"},
		{"data:image/png;base64,AAAA", "[Photo Attached]"},
		{float64(8), "8"},
		{float64(2.5), "2.5"},
		{42, "42"},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%v", tc.in), func(t *testing.T) {
			assert.Equal(t, tc.want, FormatValue(tc.in))
		})
	}
}

func TestFormatValueIdempotent(t *testing.T) {
	values := []any{"plain", []string{"a", "b"}, true, "data:image/jpeg;base64,BBBB", float64(3.25)}
	for _, v := range values {
		first := FormatValue(v)
		assert.Equal(t, first, FormatValue(v))
	}
}

func TestFilename(t *testing.T) {
	name := Filename("tpl-incident", 1700000000000)
	assert.Equal(t, "hse_export_tpl-incident_1700000000000.csv", name)

	pattern := regexp.MustCompile(`^hse_export_all_\d+\.csv$`)
	assert.Regexp(t, pattern, Filename(ScopeAll, forms.NowMillis()))
}
