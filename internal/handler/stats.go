package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/sparktsao/ai-news-aggregator-pub/internal/service"
)

type StatsHandler struct {
	svc *service.RankingService
}

func NewStatsHandler(svc *service.RankingService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

// GetStats handles GET /api/stats
func (h *StatsHandler) GetStats(c fiber.Ctx) error {
	return c.JSON(h.svc.Stats(c.Context()))
}
