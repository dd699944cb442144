package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	corslib "github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/strikebook/strikebook/internal/api/handler"
	"github.com/strikebook/strikebook/internal/cache"
	"github.com/strikebook/strikebook/internal/config"
	"github.com/strikebook/strikebook/internal/external"
)

// NewRouter creates and configures the Chi router with all middleware and routes.
func NewRouter(pool *pgxpool.Pool, appCache *cache.Cache, reader *external.ScorecardReader, cfg *config.Config) *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(TimingMiddleware)
	r.Use(middleware.Compress(5)) // gzip

	// CORS
	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "HEAD", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Content-Type", "If-None-Match", "Cache-Control"},
		ExposedHeaders:   []string{"X-Process-Time", "X-Cache", "ETag"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	// Rate limiting
	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitWindow))
	}

	// --- Handler dependencies ---
	h := handler.New(pool, appCache, reader, cfg)

	// --- Routes ---

	// Root
	r.Get("/", h.Root)

	// Health checks
	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HealthCheck)
		r.Get("/db", h.HealthCheckDB)
		r.Get("/cache", h.HealthCheckCache)
	})

	// Swagger UI
	r.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/doc.json"),
	))

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Score submission & settlement
		r.Post("/matches/{matchID}/scores", h.SubmitScores)

		// Scorecard vision reader (proposal only, never committed)
		r.Post("/matches/{matchID}/scorecard", h.ReadScorecard)

		// Substitutions
		r.Post("/matches/{matchID}/substitutions", h.CreateSubstitution)
		r.Delete("/matches/{matchID}/substitutions/{subID}", h.DeleteSubstitution)

		// Schedule & statistics
		r.Post("/seasons/{seasonID}/schedule", h.GenerateSchedule)
		r.Get("/seasons/{seasonID}/stats", h.GetSeasonStats)
	})

	return r
}
