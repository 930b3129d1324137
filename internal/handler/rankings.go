package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/sparktsao/ai-news-aggregator-pub/internal/model"
	"github.com/sparktsao/ai-news-aggregator-pub/internal/service"
)

type RankingsHandler struct {
	svc *service.RankingService
}

func NewRankingsHandler(svc *service.RankingService) *RankingsHandler {
	return &RankingsHandler{svc: svc}
}

// GetRankings handles GET /api/rankings
func (h *RankingsHandler) GetRankings(c fiber.Ctx) error {
	rankings := h.svc.Rankings(c.Context())

	return c.JSON(model.RankingsResponse{
		Success:  true,
		Rankings: rankings,
		Count:    len(rankings),
	})
}
