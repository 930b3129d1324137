package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/sparktsao/ai-news-aggregator-pub/internal/middleware"
	"github.com/sparktsao/ai-news-aggregator-pub/internal/model"
	"github.com/sparktsao/ai-news-aggregator-pub/internal/repository"
	"github.com/sparktsao/ai-news-aggregator-pub/internal/service"
)

type VoteHandler struct {
	svc *service.VoteService
}

func NewVoteHandler(svc *service.VoteService) *VoteHandler {
	return &VoteHandler{svc: svc}
}

// Submit handles POST /api/vote
func (h *VoteHandler) Submit(c fiber.Ctx) error {
	var req model.VoteRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	itemID, errMsg := middleware.ValidateItemID(req.ItemID)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, errMsg)
	}
	req.ItemID = itemID

	token, errMsg := middleware.ValidateToken(req.Token)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, errMsg)
	}
	req.Token = token

	voteType, errMsg := middleware.ValidateVoteType(req.VoteType)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, errMsg)
	}
	req.VoteType = voteType

	date, errMsg := middleware.ValidateDate(req.Date)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, errMsg)
	}
	req.Date = date

	resp, err := h.svc.Submit(c.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadyVoted):
			return middleware.ErrorResponse(c, fiber.StatusConflict, "Already voted on this item")
		case errors.Is(err, repository.ErrRateLimitExceeded):
			return middleware.ErrorResponse(c, fiber.StatusTooManyRequests, "Daily vote limit reached")
		default:
			return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to submit vote")
		}
	}

	return c.JSON(resp)
}
