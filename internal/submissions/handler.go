package submissions

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/warden/pkg/handlers"
	"github.com/JaimeStill/warden/pkg/pagination"
	"github.com/JaimeStill/warden/pkg/routes"
)

// Handler serves the review dashboard endpoints.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// NewHandler creates a Handler over sys.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "submissions"),
		pagination: pagination,
	}
}

// Routes returns the route group for submission endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/submissions",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/stats", Handler: h.Stats},
			{Method: "GET", Pattern: "/export", Handler: h.Export},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "POST", Pattern: "/{id}/read", Handler: h.MarkRead},
			{Method: "POST", Pattern: "/{id}/unread", Handler: h.MarkUnread},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Trash},
			{Method: "POST", Pattern: "/{id}/restore", Handler: h.Restore},
			{Method: "DELETE", Pattern: "/{id}/purge", Handler: h.Purge},
		},
	}
}

// List returns a page of submissions, newest first unless sorted otherwise.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Stats returns dashboard counts.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.sys.Stats(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, stats)
}

// Export streams the filtered submissions as a CSV attachment.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	subs, err := h.sys.Export(r.Context(), FiltersFromQuery(r.URL.Query()))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	name := fmt.Sprintf("submissions-%s.csv", time.Now().UTC().Format(time.DateOnly))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)

	if err := WriteCSV(w, subs); err != nil {
		h.logger.Error("csv export failed", "error", err)
	}
}

// Find returns a single submission.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	s, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, s)
}

// MarkRead flags a submission as reviewed.
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	h.setRead(w, r, true)
}

// MarkUnread clears the reviewed flag.
func (h *Handler) MarkUnread(w http.ResponseWriter, r *http.Request) {
	h.setRead(w, r, false)
}

// Trash moves a submission to the trash.
func (h *Handler) Trash(w http.ResponseWriter, r *http.Request) {
	h.exec(w, r, h.sys.Trash)
}

// Restore brings a submission back from the trash.
func (h *Handler) Restore(w http.ResponseWriter, r *http.Request) {
	h.exec(w, r, h.sys.Restore)
}

// Purge permanently deletes a trashed submission.
func (h *Handler) Purge(w http.ResponseWriter, r *http.Request) {
	h.exec(w, r, h.sys.Purge)
}

func (h *Handler) setRead(w http.ResponseWriter, r *http.Request, read bool) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	s, err := h.sys.SetRead(r.Context(), id, read)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, s)
}

func (h *Handler) exec(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, id uuid.UUID) error,
) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := op(r.Context(), id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondNoContent(w)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("invalid submission id: %w", err))
		return uuid.Nil, false
	}
	return id, true
}
