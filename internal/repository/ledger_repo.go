package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sparktsao/ai-news-aggregator-pub/internal/kv"
)

// VoteRecordTTL bounds how long a (token, item) pair stays in the ledger.
// Tokens are only semi-stable browser identities, so records age out with
// them instead of accumulating forever.
const VoteRecordTTL = 30 * 24 * time.Hour

// ErrAlreadyVoted is returned when a token has already voted on an item.
var ErrAlreadyVoted = errors.New("already voted on this item")

// LedgerRepo records which token has voted on which item. It is the source
// of truth for duplicate detection.
type LedgerRepo struct {
	store kv.Store
}

func NewLedgerRepo(store kv.Store) *LedgerRepo {
	return &LedgerRepo{store: store}
}

// TryRecord writes the ledger record for (token, itemID) unless one exists.
// The set-if-absent write makes the duplicate check atomic: two concurrent
// submissions from the same token cannot both pass. Records are immutable
// once written, so retrying with the opposite vote type still fails.
func (r *LedgerRepo) TryRecord(ctx context.Context, token, itemID, voteType string) error {
	ok, err := r.store.SetNX(ctx, voteKey(token, itemID), voteType, VoteRecordTTL)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAlreadyVoted
	}
	return nil
}
