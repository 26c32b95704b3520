package moderation

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/warden/pkg/handlers"
	"github.com/JaimeStill/warden/pkg/routes"
)

// AssessRequest is the body of the assess endpoint.
type AssessRequest struct {
	Text string `json:"text"`
}

// Handler exposes the assessor so forms can warn before submitting.
type Handler struct {
	assessor *Assessor
	dicts    *Dictionaries
	logger   *slog.Logger
}

// NewHandler creates a Handler over a.
func NewHandler(a *Assessor, d *Dictionaries, logger *slog.Logger) *Handler {
	return &Handler{
		assessor: a,
		dicts:    d,
		logger:   logger.With("handler", "moderation"),
	}
}

// Routes returns the route group for moderation endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/moderation",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/assess", Handler: h.Assess},
			{Method: "GET", Pattern: "/dictionaries", Handler: h.Version},
		},
	}
}

// Assess returns the moderation result for a single text value.
func (h *Handler) Assess(w http.ResponseWriter, r *http.Request) {
	var req AssessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	if req.Text == "" {
		handlers.RespondError(w, h.logger, MapHTTPStatus(ErrEmptyText), ErrEmptyText)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, h.assessor.Assess(req.Text))
}

// Version reports which dictionary version is loaded. The term lists are
// not exposed.
func (h *Handler) Version(w http.ResponseWriter, r *http.Request) {
	lists := make(map[string]int, len(h.dicts.Profanity))
	for name, terms := range h.dicts.Profanity {
		lists[name] = len(terms)
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]any{
		"version":       h.dicts.Version,
		"high_severity": len(h.dicts.HighSeverity),
		"emergency":     len(h.dicts.Emergency),
		"profanity":     lists,
	})
}
