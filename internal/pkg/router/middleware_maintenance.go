package router

import (
	"net/http"
	"strings"

	"github.com/shiftbuddy/shiftbuddy/internal/pkg/config"
)

// middlewareMaintenance answers 503 for routes listed in the
// maintenance config, letting operators fence off endpoints without a
// deploy. The route set is read once at startup.
func middlewareMaintenance(cfg config.Config) Middleware {
	blocked := maintenanceRoutes(cfg)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, down := blocked[matchedRoutePath(r)]; down {
				writeJSON(w, errorResponse{Message: "service is under maintenance"}, http.StatusServiceUnavailable)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func maintenanceRoutes(cfg config.Config) map[string]struct{} {
	routes := make(map[string]struct{})
	if cfg == nil {
		return routes
	}
	for _, endpoint := range cfg.GetArray("app.maintenance.endpoints") {
		endpoint = strings.TrimSpace(endpoint)
		if endpoint != "" {
			routes[endpoint] = struct{}{}
		}
	}
	return routes
}
