package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/sparktsao/ai-news-aggregator-pub/internal/kv"
	"github.com/sparktsao/ai-news-aggregator-pub/internal/model"
)

func TestMetaRepoRecord(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	repo := NewMetaRepo(store)

	at := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)
	if err := repo.Record(ctx, "story-1", "a1b2c3d4e5f6", "like", at); err != nil {
		t.Fatalf("Record returned error: %v", err)
	}

	keys, err := store.Keys(ctx, "meta:story-1:")
	if err != nil {
		t.Fatalf("Keys returned error: %v", err)
	}
	if len(keys) != 1 {
		t.Fatalf("got %d metadata keys, want 1", len(keys))
	}

	raw, err := store.Get(ctx, keys[0])
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}

	var meta model.VoteMetadata
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		t.Fatalf("metadata payload is not valid JSON: %v", err)
	}

	if meta.TokenHash != "a1b2c3d4e5f6" {
		t.Errorf("TokenHash = %q, want %q", meta.TokenHash, "a1b2c3d4e5f6")
	}
	if meta.VoteType != "like" {
		t.Errorf("VoteType = %q, want %q", meta.VoteType, "like")
	}
	if meta.Timestamp != at.UnixMilli() {
		t.Errorf("Timestamp = %d, want %d", meta.Timestamp, at.UnixMilli())
	}
}

func TestMetaRepoDistinctVotesDistinctKeys(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	repo := NewMetaRepo(store)

	base := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		at := base.Add(time.Duration(i) * time.Millisecond)
		if err := repo.Record(ctx, "story-1", "a1b2c3d4e5f6", "like", at); err != nil {
			t.Fatalf("Record returned error: %v", err)
		}
	}

	keys, err := store.Keys(ctx, "meta:story-1:")
	if err != nil {
		t.Fatalf("Keys returned error: %v", err)
	}
	if len(keys) != 3 {
		t.Errorf("got %d metadata keys, want 3", len(keys))
	}
}
