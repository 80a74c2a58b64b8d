package export

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vadilazy/HSE-App/internal/forms"
	"github.com/vadilazy/HSE-App/internal/httpx"
	"github.com/vadilazy/HSE-App/internal/observability"
)

// Handler serves CSV downloads over the stores.
type Handler struct {
	templates   *forms.TemplateStore
	submissions *forms.SubmissionStore
}

// NewHandler constructs an export handler.
func NewHandler(templates *forms.TemplateStore, submissions *forms.SubmissionStore) *Handler {
	return &Handler{templates: templates, submissions: submissions}
}

// RegisterRoutes wires the export endpoint to the provided router group.
func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/export", h.exportCSV)
}

// exportCSV writes the CSV artifact for the requested scope: one template
// when formId is given, the flattened all-templates shape otherwise. An
// empty scope produces no artifact (204).
func (h *Handler) exportCSV(w http.ResponseWriter, r *http.Request) {
	formID := strings.TrimSpace(r.URL.Query().Get("formId"))

	var (
		content string
		scope   string
		err     error
	)

	if formID != "" {
		scope = formID
		t, lookupErr := h.templates.Get(formID)
		if lookupErr != nil {
			httpx.Error(w, http.StatusNotFound, "template not found")
			return
		}
		content, err = Template(t, h.submissions.ListByForm(formID))
	} else {
		scope = ScopeAll
		templates := h.templates.List()
		byID := make(map[string]forms.FormTemplate, len(templates))
		for _, t := range templates {
			byID[t.ID] = t
		}
		content, err = All(h.submissions.List(), func(id string) (forms.FormTemplate, bool) {
			t, ok := byID[id]
			return t, ok
		})
	}

	if errors.Is(err, ErrNoSubmissions) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	label := "single"
	if scope == ScopeAll {
		label = ScopeAll
	}
	observability.Exports.WithLabelValues(label).Inc()

	filename := Filename(scope, forms.NowMillis())
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(content))
}
