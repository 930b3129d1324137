package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/sparktsao/ai-news-aggregator-pub/internal/kv"
)

const (
	// DailyVoteLimit is the maximum number of votes one token may cast on
	// one day bucket.
	DailyVoteLimit = 50

	// RateCounterTTL slides forward on every accepted vote, so the counter
	// follows activity for a rolling 24 hours instead of resetting at a
	// fixed boundary.
	RateCounterTTL = 24 * time.Hour
)

// ErrRateLimitExceeded is returned when a token is out of daily vote budget.
var ErrRateLimitExceeded = errors.New("daily vote limit reached")

// RateRepo bounds how many votes a token can cast per day.
type RateRepo struct {
	store kv.Store
}

func NewRateRepo(store kv.Store) *RateRepo {
	return &RateRepo{store: store}
}

// CheckAndIncrement consumes one unit of the token's budget for the given
// day and returns the new count. At or above the limit it fails without
// touching the counter, so rejected requests never extend the rolling
// window. The counter is written as an absolute value rather than a
// store-side increment: concurrent votes may lose an increment, but the
// count can never pass the limit.
func (r *RateRepo) CheckAndIncrement(ctx context.Context, token, day string) (int64, error) {
	key := rateKey(token, day)

	var count int64
	val, err := r.store.Get(ctx, key)
	switch {
	case err == nil:
		count, err = strconv.ParseInt(val, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("rate counter %s corrupt: %w", key, err)
		}
	case errors.Is(err, kv.ErrNotFound):
		count = 0
	default:
		return 0, err
	}

	if count >= DailyVoteLimit {
		return count, ErrRateLimitExceeded
	}

	count++
	if err := r.store.Set(ctx, key, strconv.FormatInt(count, 10), RateCounterTTL); err != nil {
		return 0, err
	}
	return count, nil
}
