package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/sparktsao/ai-news-aggregator-pub/internal/handler"
	"github.com/sparktsao/ai-news-aggregator-pub/internal/metrics"
	"github.com/sparktsao/ai-news-aggregator-pub/internal/middleware"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	Vote     *handler.VoteHandler
	Counts   *handler.CountsHandler
	Rankings *handler.RankingsHandler
	Stats    *handler.StatsHandler
	Health   *handler.HealthHandler
}

// Setup configures the middleware stack and all API routes on the given Fiber app.
func Setup(app *fiber.App, h *Handlers, corsOrigins string) {
	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestLogger())
	app.Use(metrics.Middleware())
	app.Use(middleware.NewCORS(corsOrigins))

	// Probes and metrics live outside the API group
	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)
	app.Get("/metrics", metrics.Handler())

	// IP limiters are shared between the routes they guard, so the single
	// and batch reads draw from one budget.
	voteLimiter := middleware.NewVoteSubmitLimiter()
	readLimiter := middleware.NewReadLimiter()
	aggregateLimiter := middleware.NewAggregateLimiter()

	// API routes
	api := app.Group("/api")

	// Vote submission
	api.Post("/vote", h.Vote.Submit, voteLimiter.Handler())

	// Count reads (batch uses the bare collection path)
	api.Get("/votes", h.Counts.Batch, readLimiter.Handler())
	api.Get("/votes/:itemId", h.Counts.Get, readLimiter.Handler())

	// Aggregates
	api.Get("/rankings", h.Rankings.GetRankings, aggregateLimiter.Handler())
	api.Get("/stats", h.Stats.GetStats, aggregateLimiter.Handler())

	// Anything unmatched gets the standard error shape instead of Fiber's
	// plain-text 404.
	app.Use(func(c fiber.Ctx) error {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "Not found")
	})
}
