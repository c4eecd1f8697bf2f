// Package handler provides HTTP handlers for the chat ingress and basic
// health checks. Chat requests are delegated to the orchestrator; handlers
// hold no business logic of their own.
package handler

import (
	"net/http"
	"time"

	"github.com/albapepper/scoracle-persona/internal/api/respond"
	"github.com/albapepper/scoracle-persona/internal/db"
	"github.com/albapepper/scoracle-persona/internal/orchestrator"
)

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	pool *db.Pool
	orch *orchestrator.Orchestrator
}

// New creates a Handler with shared dependencies.
func New(pool *db.Pool, orch *orchestrator.Orchestrator) *Handler {
	return &Handler{pool: pool, orch: orch}
}

// Root serves API info at /.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":    "Scoracle Persona API",
		"version": "1.0.0",
		"status":  "running",
	})
}

// HealthCheck returns basic health status.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckDB verifies database connectivity.
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	if err := h.pool.HealthCheck(r.Context()); err != nil {
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"database":  "disconnected",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
