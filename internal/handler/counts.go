package handler

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/samber/lo"

	"github.com/sparktsao/ai-news-aggregator-pub/internal/middleware"
	"github.com/sparktsao/ai-news-aggregator-pub/internal/model"
	"github.com/sparktsao/ai-news-aggregator-pub/internal/service"
)

type CountsHandler struct {
	svc *service.SummaryService
}

func NewCountsHandler(svc *service.SummaryService) *CountsHandler {
	return &CountsHandler{svc: svc}
}

// Get handles GET /api/votes/:itemId
func (h *CountsHandler) Get(c fiber.Ctx) error {
	itemID, errMsg := middleware.ValidateItemID(c.Params("itemId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, errMsg)
	}

	summary := h.svc.Counts(c.Context(), itemID)

	return c.JSON(model.CountsResponse{
		Success: true,
		ItemID:  itemID,
		Summary: summary,
	})
}

// Batch handles GET /api/votes?ids=a,b,c
func (h *CountsHandler) Batch(c fiber.Ctx) error {
	raw := fiber.Query[string](c, "ids")

	var ids []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, errMsg := middleware.ValidateItemID(part)
		if errMsg != "" {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, errMsg)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "ids query parameter is required")
	}

	// Duplicate ids resolve once and produce one map entry anyway.
	ids = lo.Uniq(ids)

	if len(ids) > middleware.MaxBatchIDs {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "too many ids (max 200)")
	}

	counts := h.svc.BatchCounts(c.Context(), ids)

	return c.JSON(model.BatchCountsResponse{
		Success: true,
		Counts:  counts,
		Count:   len(ids),
	})
}
