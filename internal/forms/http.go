package forms

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vadilazy/HSE-App/internal/events"
	"github.com/vadilazy/HSE-App/internal/httpx"
	"github.com/vadilazy/HSE-App/internal/observability"
)

// OrphanTitle labels submissions whose template has been deleted.
const OrphanTitle = "Unknown Form"

// Handler exposes the template and submission endpoints.
type Handler struct {
	templates   *TemplateStore
	submissions *SubmissionStore
	publisher   *events.Publisher
}

// NewHandler constructs a Handler over the two stores. publisher may be nil.
func NewHandler(templates *TemplateStore, submissions *SubmissionStore, publisher *events.Publisher) *Handler {
	return &Handler{templates: templates, submissions: submissions, publisher: publisher}
}

// RegisterRoutes wires the HTTP handlers to the provided router group.
func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Route("/templates", func(r chi.Router) {
		r.Get("/", h.listTemplates)
		r.Post("/", h.createTemplate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.getTemplate)
			r.Delete("/", h.deleteTemplate)
			r.Post("/submissions", h.fillTemplate)
		})
	})

	router.Route("/submissions", func(r chi.Router) {
		r.Get("/", h.listSubmissions)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.getSubmission)
			r.Delete("/", h.deleteSubmission)
		})
	})
}

type createTemplateRequest struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Fields      []FormField `json:"fields"`
}

type fillRequest struct {
	Data map[string]any `json:"data"`
}

func (h *Handler) listTemplates(w http.ResponseWriter, r *http.Request) {
	templates := h.templates.List()
	items := make([]map[string]any, 0, len(templates))
	for _, t := range templates {
		items = append(items, t.ToDTO())
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": items})
}

func (h *Handler) getTemplate(w http.ResponseWriter, r *http.Request) {
	t, err := h.templates.Get(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, http.StatusNotFound, "template not found")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": t.ToDTO()})
}

func (h *Handler) createTemplate(w http.ResponseWriter, r *http.Request) {
	var payload createTemplateRequest
	if err := decodeJSON(r, &payload); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	fields := make([]FormField, 0, len(payload.Fields))
	for _, f := range payload.Fields {
		if strings.TrimSpace(f.ID) == "" {
			f.ID = NewID()
		}
		fields = append(fields, f)
	}

	t := FormTemplate{
		ID:          NewID(),
		Title:       strings.TrimSpace(payload.Title),
		Description: strings.TrimSpace(payload.Description),
		Fields:      fields,
		CreatedAt:   NowMillis(),
	}

	if err := h.templates.Create(r.Context(), t); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	observability.TemplatesCreated.Inc()
	h.publisher.Publish(r.Context(), events.TemplateCreated, t.ID)
	httpx.JSON(w, http.StatusCreated, map[string]any{"data": t.ToDTO()})
}

// deleteTemplate cascades to the template's submissions. The mutation is
// destructive, so it requires explicit confirmation; declining is a no-op.
func (h *Handler) deleteTemplate(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("confirm") != "true" {
		httpx.Error(w, http.StatusConflict, "deleting a template removes all of its submissions; pass confirm=true to proceed")
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.templates.Delete(r.Context(), id); err != nil {
		if IsNotFound(err) {
			httpx.Error(w, http.StatusNotFound, "template not found")
			return
		}
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Independent second write: a crash in between leaves orphans, which the
	// read path tolerates.
	if _, err := h.submissions.DeleteByForm(r.Context(), id); err != nil {
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	observability.TemplatesDeleted.Inc()
	h.publisher.Publish(r.Context(), events.TemplateDeleted, id)
	w.WriteHeader(http.StatusNoContent)
}

// fillTemplate runs one form session over the posted data: every value goes
// through the field write contract, then a submit attempt either persists a
// submission or reports the per-field validation errors.
func (h *Handler) fillTemplate(w http.ResponseWriter, r *http.Request) {
	t, err := h.templates.Get(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, http.StatusNotFound, "template not found")
		return
	}

	var payload fillRequest
	if err := decodeJSON(r, &payload); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	session := NewSession(t)
	for _, f := range t.Fields {
		value, ok := payload.Data[f.ID]
		if !ok {
			continue
		}
		if err := session.Set(f.ID, value); err != nil {
			httpx.Error(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	for key := range payload.Data {
		if _, ok := t.Field(key); !ok {
			httpx.Error(w, http.StatusBadRequest, "unknown field id "+key)
			return
		}
	}

	submission, err := session.Submit(NowMillis())
	if err != nil {
		var invalid *ValidationError
		if errors.As(err, &invalid) {
			observability.SubmissionsRejected.Inc()
			httpx.JSON(w, http.StatusUnprocessableEntity, map[string]any{
				"errors":     invalid.Fields,
				"firstError": invalid.First,
			})
			return
		}
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := h.submissions.Create(r.Context(), *submission); err != nil {
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	observability.SubmissionsCreated.Inc()
	h.publisher.Publish(r.Context(), events.SubmissionCreated, submission.ID)
	httpx.JSON(w, http.StatusCreated, map[string]any{"data": submission.ToDTO(t.Title)})
}

func (h *Handler) listSubmissions(w http.ResponseWriter, r *http.Request) {
	formID := strings.TrimSpace(r.URL.Query().Get("formId"))

	var subs []FormSubmission
	if formID == "" {
		subs = h.submissions.List()
	} else {
		subs = h.submissions.ListByForm(formID)
	}

	items := make([]map[string]any, 0, len(subs))
	for _, sub := range subs {
		items = append(items, sub.ToDTO(h.resolveTitle(sub.FormID)))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": items})
}

func (h *Handler) getSubmission(w http.ResponseWriter, r *http.Request) {
	sub, err := h.submissions.Get(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, http.StatusNotFound, "submission not found")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": sub.ToDTO(h.resolveTitle(sub.FormID))})
}

func (h *Handler) deleteSubmission(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.submissions.Delete(r.Context(), id); err != nil {
		if IsNotFound(err) {
			httpx.Error(w, http.StatusNotFound, "submission not found")
			return
		}
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.publisher.Publish(r.Context(), events.SubmissionDeleted, id)
	w.WriteHeader(http.StatusNoContent)
}

// resolveTitle follows the weak template reference, falling back to the
// orphan placeholder.
func (h *Handler) resolveTitle(formID string) string {
	if t, err := h.templates.Get(formID); err == nil {
		return t.Title
	}
	return OrphanTitle
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return err
	}
	return nil
}
