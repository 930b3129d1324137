package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/sparktsao/ai-news-aggregator-pub/internal/metrics"
	"github.com/sparktsao/ai-news-aggregator-pub/internal/model"
	"github.com/sparktsao/ai-news-aggregator-pub/internal/repository"
	"github.com/sparktsao/ai-news-aggregator-pub/pkg/hash"
)

// dayFormat is the day bucket format used by rate limiter keys.
const dayFormat = "2006-01-02"

// VoteService runs the vote pipeline: duplicate ledger, daily rate budget,
// counters, audit trail. Requests reach it already validated.
type VoteService struct {
	ledger   *repository.LedgerRepo
	rate     *repository.RateRepo
	counters *repository.CounterRepo
	meta     *repository.MetaRepo
}

func NewVoteService(ledger *repository.LedgerRepo, rate *repository.RateRepo, counters *repository.CounterRepo, meta *repository.MetaRepo) *VoteService {
	return &VoteService{ledger: ledger, rate: rate, counters: counters, meta: meta}
}

// Submit processes one vote. The ledger check runs before the rate check,
// so a rejected duplicate never consumes budget. The steps are separate
// single-key writes, not a transaction: a vote that fails partway leaves
// the earlier writes in place.
func (s *VoteService) Submit(ctx context.Context, req model.VoteRequest) (*model.VoteResponse, error) {
	day := req.Date
	if day == "" {
		day = time.Now().UTC().Format(dayFormat)
	}

	if err := s.ledger.TryRecord(ctx, req.Token, req.ItemID, req.VoteType); err != nil {
		if errors.Is(err, repository.ErrAlreadyVoted) {
			metrics.Metrics.RejectedVotes.WithLabelValues("duplicate").Inc()
		}
		return nil, err
	}

	if _, err := s.rate.CheckAndIncrement(ctx, req.Token, day); err != nil {
		if errors.Is(err, repository.ErrRateLimitExceeded) {
			metrics.Metrics.RejectedVotes.WithLabelValues("rate_limited").Inc()
		}
		return nil, err
	}

	summary, err := s.counters.Increment(ctx, req.ItemID, req.VoteType)
	if err != nil {
		return nil, err
	}

	// The audit record is analytics-only; its failure must not undo a
	// counted vote.
	if err := s.meta.Record(ctx, req.ItemID, hash.TokenHashPrefix(req.Token), req.VoteType, time.Now()); err != nil {
		log.Printf("vote: metadata record failed for %s: %v", req.ItemID, err)
	}

	metrics.Metrics.VotesTotal.WithLabelValues(req.VoteType).Inc()

	return &model.VoteResponse{
		Success: true,
		ItemID:  req.ItemID,
		Summary: summary,
	}, nil
}
