package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/sparktsao/ai-news-aggregator-pub/internal/kv"
	"github.com/sparktsao/ai-news-aggregator-pub/internal/metrics"
	"github.com/sparktsao/ai-news-aggregator-pub/internal/model"
)

// SummaryCacheTTL bounds how stale a served snapshot can be. Entries are
// never invalidated by incoming votes; they simply expire.
const SummaryCacheTTL = 60 * time.Second

// CacheService is the read-through cache for per-item summaries. It shares
// the backing store with the counters, under its own key prefix.
type CacheService struct {
	store kv.Store
	ttl   time.Duration
}

func NewCacheService(store kv.Store) *CacheService {
	return &CacheService{store: store, ttl: SummaryCacheTTL}
}

// GetSummary returns the cached snapshot for an item and whether it was
// present. Absent, expired, and unreadable entries all count as misses;
// store failures are logged and degrade to a miss rather than erroring.
func (c *CacheService) GetSummary(ctx context.Context, itemID string) (model.Summary, bool) {
	data, err := c.store.Get(ctx, cacheKey(itemID))
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			log.Printf("cache: get %s failed: %v", itemID, err)
		}
		metrics.Metrics.CacheMisses.Inc()
		return model.Summary{}, false
	}

	var summary model.Summary
	if err := json.Unmarshal([]byte(data), &summary); err != nil {
		log.Printf("cache: decode %s failed: %v", itemID, err)
		metrics.Metrics.CacheMisses.Inc()
		return model.Summary{}, false
	}

	metrics.Metrics.CacheHits.Inc()
	return summary, true
}

// SetSummary stores a fresh snapshot under the cache TTL. A snapshot that
// fails to cache is still served, so callers only log the returned error.
func (c *CacheService) SetSummary(ctx context.Context, itemID string, summary model.Summary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, cacheKey(itemID), string(payload), c.ttl)
}

func cacheKey(itemID string) string {
	return fmt.Sprintf("cache:votes:%s", itemID)
}
