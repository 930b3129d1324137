package service

import (
	"context"
	"log"
	"math"
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/sparktsao/ai-news-aggregator-pub/internal/metrics"
	"github.com/sparktsao/ai-news-aggregator-pub/internal/model"
	"github.com/sparktsao/ai-news-aggregator-pub/internal/repository"
)

// RankingService derives rankings and global statistics by scanning every
// item's counters. Each call recomputes from scratch, O(items); the service
// tracks tens to hundreds of items, so a full scan stays cheap.
type RankingService struct {
	counters *repository.CounterRepo
}

func NewRankingService(counters *repository.CounterRepo) *RankingService {
	return &RankingService{counters: counters}
}

// Rankings returns every known item ordered by net score descending. Ties
// keep the store's enumeration order, which is arbitrary and may differ
// between calls. A failed scan degrades to an empty ranking.
func (s *RankingService) Rankings(ctx context.Context) []model.ItemSummary {
	items := s.scan(ctx)

	sort.Slice(items, func(i, j int) bool {
		return items[i].NetScore > items[j].NetScore
	})
	return items
}

// Stats aggregates all counters into global totals.
func (s *RankingService) Stats(ctx context.Context) model.StatsResponse {
	items := s.scan(ctx)

	totalLikes := lo.SumBy(items, func(it model.ItemSummary) int64 { return it.Likes })
	totalDislikes := lo.SumBy(items, func(it model.ItemSummary) int64 { return it.Dislikes })
	totalVotes := totalLikes + totalDislikes

	likePercentage := 0
	if totalVotes > 0 {
		likePercentage = int(math.Round(float64(totalLikes) / float64(totalVotes) * 100))
	}

	return model.StatsResponse{
		Success:        true,
		TotalLikes:     totalLikes,
		TotalDislikes:  totalDislikes,
		TotalVotes:     totalVotes,
		TotalItems:     len(items),
		LikePercentage: likePercentage,
	}
}

// scan reads a summary for every enumerated item. Failures degrade instead
// of propagating: a broken enumeration yields no items, a broken single
// item yields zeroed counts.
func (s *RankingService) scan(ctx context.Context) []model.ItemSummary {
	start := time.Now()
	defer func() {
		metrics.Metrics.RankingsScanDuration.Observe(time.Since(start).Seconds())
	}()

	ids, err := s.counters.ItemIDs(ctx)
	if err != nil {
		log.Printf("rankings: item scan failed: %v", err)
		return []model.ItemSummary{}
	}

	items := make([]model.ItemSummary, 0, len(ids))
	for _, id := range ids {
		summary, err := s.counters.Read(ctx, id)
		if err != nil {
			log.Printf("rankings: read %s failed: %v", id, err)
			summary = model.Summary{}
		}
		items = append(items, model.ItemSummary{ItemID: id, Summary: summary})
	}
	return items
}
