package main

import (
	"net/http"

	"github.com/JaimeStill/warden/internal/infrastructure"
	"github.com/JaimeStill/warden/pkg/handlers"
	"github.com/JaimeStill/warden/pkg/module"
)

type readiness struct {
	Status  string          `json:"status"`
	Systems map[string]bool `json:"systems"`
}

func buildRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ready, systems := infra.Lifecycle.Readiness()
		if !ready {
			handlers.RespondJSON(w, http.StatusServiceUnavailable, readiness{"not ready", systems})
			return
		}
		handlers.RespondJSON(w, http.StatusOK, readiness{"ready", systems})
	})

	return router
}
