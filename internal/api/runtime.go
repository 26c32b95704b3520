package api

import (
	"github.com/JaimeStill/warden/internal/config"
	"github.com/JaimeStill/warden/internal/infrastructure"
	"github.com/JaimeStill/warden/pkg/pagination"
)

// Runtime extends Infrastructure with the API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
	Moderation config.ModerationConfig
	Alerts     config.AlertsConfig
	Notify     config.NotifyConfig
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Storage:   infra.Storage,
		},
		Pagination: cfg.API.Pagination,
		Moderation: cfg.Moderation,
		Alerts:     cfg.Alerts,
		Notify:     cfg.Notify,
	}
}
