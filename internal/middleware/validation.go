package middleware

import (
	"regexp"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/sparktsao/ai-news-aggregator-pub/internal/model"
)

// Field shape limits. Item ids and tokens become segments of store keys, so
// the allowed alphabet deliberately excludes the ':' separator.
const (
	MaxItemIDLen = 64
	MinTokenLen  = 8
	MaxTokenLen  = 128
	MaxBatchIDs  = 200

	dateFormat = "2006-01-02"
)

var (
	// itemIDRe matches aggregator item ids: alphanumeric, dash, underscore.
	itemIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	// tokenRe matches the browser identity tokens minted by the frontend.
	tokenRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

// ErrorResponse writes the standard API error body.
func ErrorResponse(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(model.ErrorResponse{Success: false, Error: message})
}

// ValidateItemID checks that an item id is well-formed and key-safe.
func ValidateItemID(id string) (string, string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", "item_id is required"
	}
	if len(id) > MaxItemIDLen {
		return "", "item_id must be at most 64 characters"
	}
	if !itemIDRe.MatchString(id) {
		return "", "item_id contains invalid characters"
	}
	return id, ""
}

// ValidateToken checks the voter token shape.
func ValidateToken(token string) (string, string) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", "token is required"
	}
	if len(token) < MinTokenLen {
		return "", "token must be at least 8 characters"
	}
	if len(token) > MaxTokenLen {
		return "", "token must be at most 128 characters"
	}
	if !tokenRe.MatchString(token) {
		return "", "token contains invalid characters"
	}
	return token, ""
}

// ValidateVoteType normalizes and checks the vote type.
func ValidateVoteType(voteType string) (string, string) {
	voteType = strings.ToLower(strings.TrimSpace(voteType))
	if voteType == "" {
		return "", "vote_type is required"
	}
	if !model.ValidVoteTypes[voteType] {
		return "", "vote_type must be like or dislike"
	}
	return voteType, ""
}

// ValidateDate checks the optional client-supplied day bucket. Empty is
// allowed; the server then buckets under its own UTC day.
func ValidateDate(date string) (string, string) {
	date = strings.TrimSpace(date)
	if date == "" {
		return "", ""
	}
	if _, err := time.Parse(dateFormat, date); err != nil {
		return "", "date must be formatted YYYY-MM-DD"
	}
	return date, ""
}
