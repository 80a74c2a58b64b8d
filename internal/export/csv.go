// Package export turns persisted submissions into downloadable CSV
// artifacts, either wide (one template, one column per field) or flattened
// (all templates, one row per submission/field pair).
package export

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vadilazy/HSE-App/internal/forms"
)

// ErrNoSubmissions indicates the selected scope holds nothing to export; no
// artifact is produced in that case.
var ErrNoSubmissions = errors.New("export: no submissions in scope")

// ScopeAll is the filename token for the all-templates flattened export.
const ScopeAll = "all"

// PhotoPlaceholder replaces embedded image payloads in exported cells.
const PhotoPlaceholder = "[Photo Attached]"

const timestampLayout = "2006-01-02 15:04:05"

// Template renders the wide export for one template: a header of
// "Timestamp" plus the field labels in template order, then one row per
// submission with values formatted per field.
func Template(t forms.FormTemplate, submissions []forms.FormSubmission) (string, error) {
	if len(submissions) == 0 {
		return "", ErrNoSubmissions
	}

	var b strings.Builder

	header := make([]string, 0, len(t.Fields)+1)
	header = append(header, "Timestamp")
	for _, f := range t.Fields {
		header = append(header, f.Label)
	}
	writeRow(&b, header)

	for _, sub := range submissions {
		row := make([]string, 0, len(t.Fields)+1)
		row = append(row, FormatTimestamp(sub.Timestamp))
		for _, f := range t.Fields {
			row = append(row, FormatValue(sub.Data[f.ID]))
		}
		writeRow(&b, row)
	}

	return strings.TrimSuffix(b.String(), "\n"), nil
}

// All renders the flattened export across templates: one row per
// (submission, field) pair, in template field order. Submissions whose
// template cannot be resolved are skipped entirely.
func All(submissions []forms.FormSubmission, resolve func(formID string) (forms.FormTemplate, bool)) (string, error) {
	if len(submissions) == 0 {
		return "", ErrNoSubmissions
	}

	var b strings.Builder
	writeRow(&b, []string{"Timestamp", "Form Title", "Field Name", "Value"})

	for _, sub := range submissions {
		t, ok := resolve(sub.FormID)
		if !ok {
			continue
		}
		timestamp := FormatTimestamp(sub.Timestamp)
		for _, f := range t.Fields {
			writeRow(&b, []string{timestamp, t.Title, f.Label, FormatValue(sub.Data[f.ID])})
		}
	}

	return strings.TrimSuffix(b.String(), "\n"), nil
}

// FormatValue renders one submission value as export text: sequences join
// with "; ", booleans become locale yes/no words, embedded image payloads
// collapse to a placeholder and absent values render empty.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case []string:
		return strings.Join(val, "; ")
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, FormatValue(item))
		}
		return strings.Join(parts, "; ")
	case bool:
		if val {
			return "Ya"
		}
		return "Tidak"
	case string:
		if strings.HasPrefix(val, forms.DataURIPrefix) {
			return PhotoPlaceholder
		}
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	}
	return fmt.Sprint(v)
}

// FormatTimestamp renders a Unix-millisecond timestamp for export rows.
func FormatTimestamp(ms int64) string {
	return time.UnixMilli(ms).Format(timestampLayout)
}

// Filename returns the download name for an export, encoding the scope (a
// template id or ScopeAll) and the current time.
func Filename(scope string, now int64) string {
	return fmt.Sprintf("hse_export_%s_%d.csv", scope, now)
}

// writeRow emits one CSV line with every cell double-quote-wrapped. Embedded
// quotes and commas in source text are not escaped beyond the wrapping — the
// dialect matches the files earlier releases produced, and downstream
// consumers depend on it.
func writeRow(b *strings.Builder, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(cell)
		b.WriteByte('"')
	}
	b.WriteByte('\n')
}
