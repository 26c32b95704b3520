package intake

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/warden/internal/moderation"
	"github.com/JaimeStill/warden/internal/pipeline"
	"github.com/JaimeStill/warden/internal/submissions"
	"github.com/JaimeStill/warden/pkg/handlers"
	"github.com/JaimeStill/warden/pkg/routes"
)

// Receipt is returned to the submitter. Severity is not disclosed.
type Receipt struct {
	ID        uuid.UUID            `json:"id"`
	Category  submissions.Category `json:"category"`
	Moderated bool                 `json:"moderated"`
	CreatedAt time.Time            `json:"created_at"`
}

// Handler serves the public feedback endpoints.
type Handler struct {
	assessor *moderation.Assessor
	rt       *pipeline.Runtime
	logger   *slog.Logger
}

// NewHandler creates a Handler that screens with a and processes through rt.
func NewHandler(a *moderation.Assessor, rt *pipeline.Runtime, logger *slog.Logger) *Handler {
	return &Handler{
		assessor: a,
		rt:       rt,
		logger:   logger.With("handler", "intake"),
	}
}

// Routes returns the route group for intake endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/feedback",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/{category}", Handler: h.Submit},
		},
	}
}

// Submit decodes, screens, and records one form submission.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	category, err := submissions.CategoryFromSlug(r.PathValue("category"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusNotFound, fmt.Errorf("%w: %s", ErrUnknownForm, r.PathValue("category")))
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, err)
			return
		}
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: %v", ErrInvalidPayload, err))
		return
	}

	payload, err := submissions.DecodePayload(category, body)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrInvalidPayload, err)
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	screening, err := Screen(h.assessor, payload)
	if err != nil {
		h.logger.Info("submission rejected by moderation", "category", category)
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	sub, err := pipeline.Process(r.Context(), h.rt, payload, screening.Original)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, Receipt{
		ID:        sub.ID,
		Category:  sub.Category,
		Moderated: len(screening.Masked) > 0,
		CreatedAt: sub.CreatedAt,
	})
}
