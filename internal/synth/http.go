package synth

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vadilazy/HSE-App/internal/events"
	"github.com/vadilazy/HSE-App/internal/forms"
	"github.com/vadilazy/HSE-App/internal/httpx"
	"github.com/vadilazy/HSE-App/internal/observability"
)

// RetryMessage is the user-facing text for a failed synthesis; the operation
// is always safe to retry.
const RetryMessage = "Could not generate form. Please try again."

// Handler exposes the synthesis endpoint.
type Handler struct {
	builder   *Builder
	templates *forms.TemplateStore
	publisher *events.Publisher
}

// NewHandler constructs the synthesis handler. builder may be nil when no
// synthesizer is configured.
func NewHandler(builder *Builder, templates *forms.TemplateStore, publisher *events.Publisher) *Handler {
	return &Handler{builder: builder, templates: templates, publisher: publisher}
}

// RegisterRoutes wires the synthesis endpoint to the provided router group.
func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/synthesize", h.synthesize)
}

type synthesizePayload struct {
	Prompt string `json:"prompt"`
}

func (h *Handler) synthesize(w http.ResponseWriter, r *http.Request) {
	if h.builder == nil {
		httpx.Error(w, http.StatusServiceUnavailable, "synthesizer is not configured")
		return
	}

	var payload synthesizePayload
	if err := decodeJSON(r, &payload); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	t, err := h.builder.Build(r.Context(), payload.Prompt, forms.NowMillis())
	if err != nil {
		if errors.Is(err, ErrEmptyPrompt) {
			observability.SynthRequests.WithLabelValues("rejected").Inc()
			httpx.Error(w, http.StatusBadRequest, "prompt is required")
			return
		}
		observability.SynthRequests.WithLabelValues("error").Inc()
		httpx.Error(w, http.StatusBadGateway, RetryMessage)
		return
	}

	if err := h.templates.Create(r.Context(), t); err != nil {
		observability.SynthRequests.WithLabelValues("error").Inc()
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	observability.SynthRequests.WithLabelValues("ok").Inc()
	observability.TemplatesCreated.Inc()
	h.publisher.Publish(r.Context(), events.TemplateCreated, t.ID)
	httpx.JSON(w, http.StatusCreated, map[string]any{"data": t.ToDTO()})
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
