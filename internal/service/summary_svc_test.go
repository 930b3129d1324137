package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sparktsao/ai-news-aggregator-pub/internal/kv"
	"github.com/sparktsao/ai-news-aggregator-pub/internal/model"
	"github.com/sparktsao/ai-news-aggregator-pub/internal/repository"
)

// brokenStore fails every operation, standing in for an unreachable backend.
type brokenStore struct{}

var errStoreDown = errors.New("store down")

func (brokenStore) Get(ctx context.Context, key string) (string, error) {
	return "", errStoreDown
}
func (brokenStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return errStoreDown
}
func (brokenStore) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	return false, errStoreDown
}
func (brokenStore) Incr(ctx context.Context, key string, delta int64) (int64, error) {
	return 0, errStoreDown
}
func (brokenStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	return nil, errStoreDown
}
func (brokenStore) Ping(ctx context.Context) error { return errStoreDown }
func (brokenStore) Close() error                   { return nil }

func TestSummaryServiceReadThrough(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	counters := repository.NewCounterRepo(store)
	cache := &CacheService{store: store, ttl: 40 * time.Millisecond}
	svc := NewSummaryService(counters, cache)

	if _, err := counters.Increment(ctx, "story-1", model.VoteTypeLike); err != nil {
		t.Fatalf("Increment returned error: %v", err)
	}

	// First read misses and populates the cache.
	got := svc.Counts(ctx, "story-1")
	if got.Likes != 1 {
		t.Fatalf("first read Likes = %d, want 1", got.Likes)
	}

	raw, err := store.Get(ctx, "cache:votes:story-1")
	if err != nil {
		t.Fatalf("cache entry missing after read: %v", err)
	}
	var cached model.Summary
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		t.Fatalf("cache entry is not valid JSON: %v", err)
	}
	if cached != got {
		t.Errorf("cached summary = %+v, want %+v", cached, got)
	}

	// A write behind the cache stays invisible until the entry expires.
	if _, err := counters.Increment(ctx, "story-1", model.VoteTypeLike); err != nil {
		t.Fatalf("Increment returned error: %v", err)
	}
	if got := svc.Counts(ctx, "story-1"); got.Likes != 1 {
		t.Errorf("read within TTL Likes = %d, want stale 1", got.Likes)
	}

	time.Sleep(60 * time.Millisecond)

	if got := svc.Counts(ctx, "story-1"); got.Likes != 2 {
		t.Errorf("read after TTL Likes = %d, want fresh 2", got.Likes)
	}
}

func TestSummaryServiceUnknownItem(t *testing.T) {
	store := kv.NewMemoryStore()
	svc := NewSummaryService(repository.NewCounterRepo(store), NewCacheService(store))

	got := svc.Counts(context.Background(), "never-voted")
	if got != (model.Summary{}) {
		t.Errorf("Counts on unknown item = %+v, want all zeros", got)
	}
}

func TestSummaryServiceBatchCounts(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	counters := repository.NewCounterRepo(store)
	svc := NewSummaryService(counters, NewCacheService(store))

	if _, err := counters.Increment(ctx, "story-a", model.VoteTypeLike); err != nil {
		t.Fatalf("Increment returned error: %v", err)
	}
	if _, err := counters.Increment(ctx, "story-a", model.VoteTypeLike); err != nil {
		t.Fatalf("Increment returned error: %v", err)
	}
	if _, err := counters.Increment(ctx, "story-b", model.VoteTypeDislike); err != nil {
		t.Fatalf("Increment returned error: %v", err)
	}

	counts := svc.BatchCounts(ctx, []string{"story-a", "story-b", "story-c"})

	if len(counts) != 3 {
		t.Fatalf("got %d entries, want 3", len(counts))
	}
	if got := counts["story-a"]; got.Likes != 2 || got.NetScore != 2 {
		t.Errorf("story-a = %+v, want 2 likes", got)
	}
	if got := counts["story-b"]; got.Dislikes != 1 || got.NetScore != -1 {
		t.Errorf("story-b = %+v, want 1 dislike", got)
	}
	if got := counts["story-c"]; got != (model.Summary{}) {
		t.Errorf("story-c = %+v, want all zeros", got)
	}
}

func TestSummaryServiceDegradesToZeros(t *testing.T) {
	svc := NewSummaryService(repository.NewCounterRepo(brokenStore{}), NewCacheService(brokenStore{}))

	got := svc.Counts(context.Background(), "story-1")
	if got != (model.Summary{}) {
		t.Errorf("Counts with broken store = %+v, want all zeros", got)
	}
}
