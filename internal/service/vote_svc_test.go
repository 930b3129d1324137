package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/sparktsao/ai-news-aggregator-pub/internal/kv"
	"github.com/sparktsao/ai-news-aggregator-pub/internal/model"
	"github.com/sparktsao/ai-news-aggregator-pub/internal/repository"
	"github.com/sparktsao/ai-news-aggregator-pub/pkg/hash"
)

func newVoteService(store kv.Store) *VoteService {
	return NewVoteService(
		repository.NewLedgerRepo(store),
		repository.NewRateRepo(store),
		repository.NewCounterRepo(store),
		repository.NewMetaRepo(store),
	)
}

func likeRequest(token, itemID string) model.VoteRequest {
	return model.VoteRequest{
		ItemID:   itemID,
		Token:    token,
		VoteType: model.VoteTypeLike,
		Date:     "2026-03-15",
	}
}

func TestVoteServiceSubmit(t *testing.T) {
	ctx := context.Background()
	svc := newVoteService(kv.NewMemoryStore())

	resp, err := svc.Submit(ctx, likeRequest("token-alpha-1", "story-1"))
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	if !resp.Success {
		t.Error("Success = false, want true")
	}
	if resp.ItemID != "story-1" {
		t.Errorf("ItemID = %q, want %q", resp.ItemID, "story-1")
	}
	want := model.Summary{Likes: 1, Dislikes: 0, NetScore: 1, TotalVotes: 1}
	if resp.Summary != want {
		t.Errorf("Summary = %+v, want %+v", resp.Summary, want)
	}
}

func TestVoteServiceSubmitAggregates(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	svc := newVoteService(store)

	// Three likes and two dislikes from five distinct tokens.
	var last *model.VoteResponse
	for i := 0; i < 3; i++ {
		resp, err := svc.Submit(ctx, likeRequest(fmt.Sprintf("like-token-%d", i), "story-1"))
		if err != nil {
			t.Fatalf("like %d returned error: %v", i, err)
		}
		last = resp
	}
	for i := 0; i < 2; i++ {
		req := likeRequest(fmt.Sprintf("dislike-token-%d", i), "story-1")
		req.VoteType = model.VoteTypeDislike
		resp, err := svc.Submit(ctx, req)
		if err != nil {
			t.Fatalf("dislike %d returned error: %v", i, err)
		}
		last = resp
	}

	want := model.Summary{Likes: 3, Dislikes: 2, NetScore: 1, TotalVotes: 5}
	if last.Summary != want {
		t.Errorf("final Summary = %+v, want %+v", last.Summary, want)
	}
}

func TestVoteServiceDuplicateDoesNotConsumeBudget(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	svc := newVoteService(store)

	if _, err := svc.Submit(ctx, likeRequest("token-alpha-1", "story-1")); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	req := likeRequest("token-alpha-1", "story-1")
	req.VoteType = model.VoteTypeDislike
	if _, err := svc.Submit(ctx, req); !errors.Is(err, repository.ErrAlreadyVoted) {
		t.Fatalf("duplicate Submit = %v, want ErrAlreadyVoted", err)
	}

	// Only the accepted vote may hit the rate counter.
	got, err := store.Get(ctx, "rate:token-alpha-1:2026-03-15")
	if err != nil {
		t.Fatalf("rate counter missing: %v", err)
	}
	if got != "1" {
		t.Errorf("rate counter after duplicate = %s, want 1", got)
	}

	// And the counters must not move.
	counters := repository.NewCounterRepo(store)
	summary, err := counters.Read(ctx, "story-1")
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	want := model.Summary{Likes: 1, Dislikes: 0, NetScore: 1, TotalVotes: 1}
	if summary != want {
		t.Errorf("counters after duplicate = %+v, want %+v", summary, want)
	}
}

func TestVoteServiceDailyLimit(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	svc := newVoteService(store)

	for i := 1; i <= repository.DailyVoteLimit; i++ {
		if _, err := svc.Submit(ctx, likeRequest("token-alpha-1", fmt.Sprintf("story-%d", i))); err != nil {
			t.Fatalf("vote %d unexpectedly rejected: %v", i, err)
		}
	}

	over := fmt.Sprintf("story-%d", repository.DailyVoteLimit+1)
	if _, err := svc.Submit(ctx, likeRequest("token-alpha-1", over)); !errors.Is(err, repository.ErrRateLimitExceeded) {
		t.Fatalf("vote past limit = %v, want ErrRateLimitExceeded", err)
	}

	// The rejected vote must not reach the counters. Its ledger record does
	// get written before the rate check; that partial write is accepted
	// behavior, not a bug.
	if _, err := store.Get(ctx, "like:"+over); !errors.Is(err, kv.ErrNotFound) {
		t.Errorf("counter for rejected vote exists, want absent (err=%v)", err)
	}
	if _, err := store.Get(ctx, "vote:token-alpha-1:"+over); err != nil {
		t.Errorf("ledger record for rejected vote missing: %v", err)
	}
}

func TestVoteServiceWritesAuditRecord(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	svc := newVoteService(store)

	if _, err := svc.Submit(ctx, likeRequest("token-alpha-1", "story-1")); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	keys, err := store.Keys(ctx, "meta:story-1:")
	if err != nil {
		t.Fatalf("Keys returned error: %v", err)
	}
	if len(keys) != 1 {
		t.Fatalf("got %d audit records, want 1", len(keys))
	}

	raw, _ := store.Get(ctx, keys[0])
	var meta model.VoteMetadata
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		t.Fatalf("audit record is not valid JSON: %v", err)
	}

	if want := hash.TokenHashPrefix("token-alpha-1"); meta.TokenHash != want {
		t.Errorf("TokenHash = %q, want %q", meta.TokenHash, want)
	}
	if meta.TokenHash == "token-alpha-1" || strings.Contains(raw, "token-alpha-1") {
		t.Error("audit record leaks the raw token")
	}
	if meta.VoteType != model.VoteTypeLike {
		t.Errorf("VoteType = %q, want %q", meta.VoteType, model.VoteTypeLike)
	}
	if meta.Timestamp <= 0 {
		t.Errorf("Timestamp = %d, want positive epoch millis", meta.Timestamp)
	}
}

func TestVoteServiceDateFallback(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	svc := newVoteService(store)

	req := likeRequest("token-alpha-1", "story-1")
	req.Date = ""
	if _, err := svc.Submit(ctx, req); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	keys, err := store.Keys(ctx, "rate:token-alpha-1:")
	if err != nil {
		t.Fatalf("Keys returned error: %v", err)
	}
	if len(keys) != 1 {
		t.Fatalf("got %d rate counters, want 1", len(keys))
	}
	// The server must have bucketed under some well-formed day, not an
	// empty segment.
	if strings.HasSuffix(keys[0], ":") {
		t.Errorf("rate key %q has empty day bucket", keys[0])
	}
}
