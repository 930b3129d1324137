package service

import (
	"context"
	"log"
	"sync"

	"github.com/sparktsao/ai-news-aggregator-pub/internal/model"
	"github.com/sparktsao/ai-news-aggregator-pub/internal/repository"
)

// SummaryService serves per-item summaries through the cache. Read failures
// never propagate: vote display is non-critical, so a broken store yields
// zeroed counts instead of an error page.
type SummaryService struct {
	counters *repository.CounterRepo
	cache    *CacheService
}

func NewSummaryService(counters *repository.CounterRepo, cache *CacheService) *SummaryService {
	return &SummaryService{counters: counters, cache: cache}
}

// Counts returns the summary for one item: straight from the cache when
// fresh, otherwise recomputed from the counters and cached for the next
// reader.
func (s *SummaryService) Counts(ctx context.Context, itemID string) model.Summary {
	if summary, ok := s.cache.GetSummary(ctx, itemID); ok {
		return summary
	}

	summary, err := s.counters.Read(ctx, itemID)
	if err != nil {
		log.Printf("counts: read %s failed: %v", itemID, err)
		return model.Summary{}
	}

	if err := s.cache.SetSummary(ctx, itemID, summary); err != nil {
		log.Printf("counts: cache set %s failed: %v", itemID, err)
	}

	return summary
}

// BatchCounts resolves each id concurrently and independently: every
// requested id gets exactly one entry and items do not share hit/miss
// fate. Ids are deduplicated by the handler before they get here.
func (s *SummaryService) BatchCounts(ctx context.Context, itemIDs []string) map[string]model.Summary {
	results := make([]model.Summary, len(itemIDs))

	var wg sync.WaitGroup
	for i, id := range itemIDs {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			results[i] = s.Counts(ctx, id)
		}(i, id)
	}
	wg.Wait()

	counts := make(map[string]model.Summary, len(itemIDs))
	for i, id := range itemIDs {
		counts[id] = results[i]
	}
	return counts
}
