package cooldown

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/JaimeStill/warden/pkg/handlers"
	"github.com/JaimeStill/warden/pkg/routes"
)

// Entry describes one category's cooldown state.
type Entry struct {
	LastSentAt    time.Time `json:"last_sent_at"`
	NextAllowedAt time.Time `json:"next_allowed_at"`
	Throttled     bool      `json:"throttled"`
}

// Status is the cooldown record as served to operators.
type Status struct {
	Window     string           `json:"window"`
	FailOpen   bool             `json:"fail_open"`
	Categories map[string]Entry `json:"categories"`
}

// Handler exposes the cooldown record.
type Handler struct {
	throttle *Throttle
	logger   *slog.Logger
}

// NewHandler creates a Handler over t.
func NewHandler(t *Throttle, logger *slog.Logger) *Handler {
	return &Handler{
		throttle: t,
		logger:   logger.With("handler", "cooldown"),
	}
}

// Routes returns the route group for alert endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/alerts",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/cooldowns", Handler: h.Cooldowns},
		},
	}
}

// Cooldowns returns the last-sent time and next permitted alert per category.
func (h *Handler) Cooldowns(w http.ResponseWriter, r *http.Request) {
	snap, err := h.throttle.Snapshot(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	now := h.throttle.clock()
	status := Status{
		Window:     h.throttle.window.String(),
		FailOpen:   h.throttle.failOpen,
		Categories: make(map[string]Entry, len(snap)),
	}

	for category, last := range snap {
		next := last.Add(h.throttle.window)
		status.Categories[category] = Entry{
			LastSentAt:    last,
			NextAllowedAt: next,
			Throttled:     now.Before(next),
		}
	}

	handlers.RespondJSON(w, http.StatusOK, status)
}
