package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sparktsao/ai-news-aggregator-pub/internal/kv"
	"github.com/sparktsao/ai-news-aggregator-pub/internal/model"
)

// MetadataTTL keeps audit records for the same horizon as the ledger.
const MetadataTTL = 30 * 24 * time.Hour

// MetaRepo appends one analytics record per accepted vote. The records are
// write-only as far as the service is concerned; offline tooling reads them
// out of the store directly.
type MetaRepo struct {
	store kv.Store
}

func NewMetaRepo(store kv.Store) *MetaRepo {
	return &MetaRepo{store: store}
}

// Record writes the audit entry for a vote accepted at the given instant.
// tokenHash must be the truncated token digest, never the raw token.
func (r *MetaRepo) Record(ctx context.Context, itemID, tokenHash, voteType string, at time.Time) error {
	payload, err := json.Marshal(model.VoteMetadata{
		TokenHash: tokenHash,
		VoteType:  voteType,
		Timestamp: at.UnixMilli(),
	})
	if err != nil {
		return err
	}
	return r.store.Set(ctx, metaKey(itemID, at), string(payload), MetadataTTL)
}
