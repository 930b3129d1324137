package repository

import (
	"fmt"
	"time"
)

// Key layout in the backing store. The scheme is shared with earlier
// deployments of this service, so the builders must stay byte-compatible
// with existing data:
//
//	vote:{token}:{itemId}            one ledger record per (token, item)
//	{voteType}:{itemId}              per-item like/dislike counters
//	rate:{token}:{day}               votes cast by a token on a given day
//	cache:votes:{itemId}             cached summary snapshot (see service)
//	meta:{itemId}:{timestampMillis}  analytics audit record
//
// Item ids and tokens are validated to an alphabet that excludes ':', so
// the segments never collide.

func voteKey(token, itemID string) string {
	return fmt.Sprintf("vote:%s:%s", token, itemID)
}

func counterKey(voteType, itemID string) string {
	return fmt.Sprintf("%s:%s", voteType, itemID)
}

func rateKey(token, day string) string {
	return fmt.Sprintf("rate:%s:%s", token, day)
}

func metaKey(itemID string, at time.Time) string {
	return fmt.Sprintf("meta:%s:%d", itemID, at.UnixMilli())
}
