package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/sparktsao/ai-news-aggregator-pub/internal/kv"
	"github.com/sparktsao/ai-news-aggregator-pub/internal/model"
)

// CounterRepo maintains the per-item like and dislike totals. Counters only
// ever grow; there is no retraction path.
type CounterRepo struct {
	store kv.Store
}

func NewCounterRepo(store kv.Store) *CounterRepo {
	return &CounterRepo{store: store}
}

// Increment adds one vote of the given type to an item and returns the
// updated snapshot. The store-side increment is atomic per key, so two
// simultaneous votes for the same item both count.
func (r *CounterRepo) Increment(ctx context.Context, itemID, voteType string) (model.Summary, error) {
	voted, err := r.store.Incr(ctx, counterKey(voteType, itemID), 1)
	if err != nil {
		return model.Summary{}, err
	}

	other, err := r.readCounter(ctx, counterKey(opposite(voteType), itemID))
	if err != nil {
		return model.Summary{}, err
	}

	if voteType == model.VoteTypeLike {
		return model.NewSummary(voted, other), nil
	}
	return model.NewSummary(other, voted), nil
}

// Read projects the raw counters into a summary. Absent counters read as
// zero, so unknown items yield an all-zero snapshot rather than an error.
func (r *CounterRepo) Read(ctx context.Context, itemID string) (model.Summary, error) {
	likes, err := r.readCounter(ctx, counterKey(model.VoteTypeLike, itemID))
	if err != nil {
		return model.Summary{}, err
	}
	dislikes, err := r.readCounter(ctx, counterKey(model.VoteTypeDislike, itemID))
	if err != nil {
		return model.Summary{}, err
	}
	return model.NewSummary(likes, dislikes), nil
}

// ItemIDs enumerates every item holding at least one counter. Both prefixes
// are scanned so items voted only one way are still found; order is
// whatever the store yields and may change between calls.
func (r *CounterRepo) ItemIDs(ctx context.Context) ([]string, error) {
	var ids []string
	for _, voteType := range []string{model.VoteTypeLike, model.VoteTypeDislike} {
		prefix := voteType + ":"
		keys, err := r.store.Keys(ctx, prefix)
		if err != nil {
			return nil, err
		}
		for _, k := range keys {
			ids = append(ids, strings.TrimPrefix(k, prefix))
		}
	}
	return lo.Uniq(ids), nil
}

func (r *CounterRepo) readCounter(ctx context.Context, key string) (int64, error) {
	val, err := r.store.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("counter %s corrupt: %w", key, err)
	}
	return n, nil
}

func opposite(voteType string) string {
	if voteType == model.VoteTypeLike {
		return model.VoteTypeDislike
	}
	return model.VoteTypeLike
}
