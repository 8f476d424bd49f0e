// Package main provides the API router setup.
package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/AioliaTech/api-ia/cmd/api-ia/handlers"
	"github.com/AioliaTech/api-ia/cmd/api-ia/middleware"
	"github.com/AioliaTech/api-ia/internal/inventory"
	"github.com/AioliaTech/api-ia/internal/observability"
)

// Dependencies are the services the routes call into.
type Dependencies struct {
	Searcher  handlers.Searcher
	Reader    inventory.Reader
	Refresher handlers.Refresher
	Stats     handlers.QueryStats
	Ready     func() bool
}

// AppConfig holds router configuration.
type AppConfig struct {
	ServiceName    string
	RequestTimeout time.Duration
	AllowedOrigins []string
	Auth           middleware.AuthConfig
	RateLimit      middleware.RateLimitConfig
}

// DefaultAppConfig returns default configuration values.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		ServiceName:    "api-ia",
		RequestTimeout: 20 * time.Second,
		AllowedOrigins: []string{"*"},
		RateLimit: middleware.RateLimitConfig{
			Enabled:           true,
			RequestsPerSecond: 10,
			Burst:             20,
		},
	}
}

// NewRouter creates the main API router with all routes configured.
func NewRouter(logger *observability.Logger, deps Dependencies, cfg *AppConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(chimiddleware.Timeout(cfg.RequestTimeout))

	// Health checks (unauthenticated)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"healthy","service":"` + cfg.ServiceName + `"}`))
	})

	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !deps.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"not_ready"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":   "ready",
			"vehicles": deps.Reader.Current().Len(),
		})
	})

	searchHandler := handlers.NewSearchHandler(logger, deps.Searcher, deps.Ready)
	inventoryHandler := handlers.NewInventoryHandler(logger, deps.Reader, deps.Refresher, deps.Stats)
	limiter := middleware.NewRateLimiter(cfg.RateLimit)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.APIKey(cfg.Auth))
		r.Use(limiter.Middleware)

		r.Post("/search", searchHandler.Search)
		r.Post("/interpret", searchHandler.Interpret)
		r.Get("/search/stats", inventoryHandler.TopQueries)

		r.Route("/inventory", func(r chi.Router) {
			r.Get("/", inventoryHandler.Status)
			r.Post("/refresh", inventoryHandler.Refresh)
		})
	})

	return otelhttp.NewHandler(r, cfg.ServiceName)
}
