package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthHandler serves liveness and prometheus metrics endpoints
type HealthHandler struct {
	startedAt time.Time
	version   string
}

// NewHealthHandler creates a health handler
func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{
		startedAt: time.Now(),
		version:   version,
	}
}

// Routes returns the health and metrics routes
func (h *HealthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", h.GetHealth)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

// GetHealth handles GET /healthz
func (h *HealthHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"status":  "ok",
		"version": h.version,
		"uptime":  time.Since(h.startedAt).String(),
	})
}
