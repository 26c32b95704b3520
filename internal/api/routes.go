package api

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/warden/internal/cooldown"
	"github.com/JaimeStill/warden/internal/intake"
	"github.com/JaimeStill/warden/internal/moderation"
	"github.com/JaimeStill/warden/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain, logger *slog.Logger) []string {
	return routes.Register(
		mux,
		intake.NewHandler(domain.Assessor, domain.Pipeline, logger).Routes(),
		domain.Submissions.Handler().Routes(),
		moderation.NewHandler(domain.Assessor, domain.Dictionaries, logger).Routes(),
		cooldown.NewHandler(domain.Throttle, logger).Routes(),
	)
}
