package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/sparktsao/ai-news-aggregator-pub/internal/kv"
)

type HealthHandler struct {
	store   kv.Store
	backend string
	startAt time.Time
}

func NewHealthHandler(store kv.Store, backend string) *HealthHandler {
	return &HealthHandler{
		store:   store,
		backend: backend,
		startAt: time.Now(),
	}
}

// Live handles GET /health/live, the liveness probe.
func (h *HealthHandler) Live(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Ready handles GET /health/ready, the readiness probe with a store check.
func (h *HealthHandler) Ready(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 3*time.Second)
	defer cancel()

	overallStatus := "healthy"
	storeCheck := checkStore(ctx, h.store, h.backend)
	if storeCheck["status"] != "up" {
		overallStatus = "degraded"
	}

	resp := fiber.Map{
		"status":         overallStatus,
		"checks":         fiber.Map{"store": storeCheck},
		"uptime_seconds": int(time.Since(h.startAt).Seconds()),
	}

	status := fiber.StatusOK
	if overallStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(resp)
}

func checkStore(ctx context.Context, store kv.Store, backend string) fiber.Map {
	start := time.Now()
	err := store.Ping(ctx)
	latency := time.Since(start).Milliseconds()

	if err != nil {
		return fiber.Map{
			"status":     "down",
			"backend":    backend,
			"latency_ms": latency,
			"error":      "connection failed",
		}
	}
	return fiber.Map{
		"status":     "up",
		"backend":    backend,
		"latency_ms": latency,
	}
}
