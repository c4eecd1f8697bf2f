package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	corslib "github.com/rs/cors"

	"github.com/albapepper/scoracle-persona/internal/api/handler"
	"github.com/albapepper/scoracle-persona/internal/config"
	"github.com/albapepper/scoracle-persona/internal/db"
	"github.com/albapepper/scoracle-persona/internal/orchestrator"
)

// NewRouter creates and configures the Chi router with all middleware and
// routes: health checks plus the single chat ingress.
func NewRouter(pool *db.Pool, orch *orchestrator.Orchestrator, cfg *config.Config) *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(TimingMiddleware)
	r.Use(middleware.Compress(5)) // gzip

	// CORS
	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Content-Type", "Authorization"},
		ExposedHeaders:   []string{"X-Process-Time"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	// Rate limiting (IP-based, independent of the per-session security
	// rate limit applied inside the orchestrator).
	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitWindow))
	}

	// --- Handler dependencies ---
	h := handler.New(pool, orch)

	// --- Routes ---
	r.Get("/", h.Root)

	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HealthCheck)
		r.Get("/db", h.HealthCheckDB)
	})

	r.Route("/v1", func(r chi.Router) {
		r.Post("/chat", h.Chat)
	})

	// Scraped by the Prometheus collector backing internal/telemetry's
	// OTel meter provider.
	r.Handle("/metrics", promhttp.Handler())

	return r
}
