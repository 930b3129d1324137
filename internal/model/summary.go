package model

// Summary is the per-item vote snapshot served to clients. NetScore and
// TotalVotes are always derived from the two counters, never stored.
type Summary struct {
	Likes      int64 `json:"likes"`
	Dislikes   int64 `json:"dislikes"`
	NetScore   int64 `json:"net_score"`
	TotalVotes int64 `json:"total_votes"`
}

// NewSummary derives the full snapshot from the two raw counters.
func NewSummary(likes, dislikes int64) Summary {
	return Summary{
		Likes:      likes,
		Dislikes:   dislikes,
		NetScore:   likes - dislikes,
		TotalVotes: likes + dislikes,
	}
}

// ItemSummary is a Summary tagged with its item id, used by rankings.
type ItemSummary struct {
	ItemID string `json:"item_id"`
	Summary
}

// CountsResponse is the API response for a single item lookup.
type CountsResponse struct {
	Success bool   `json:"success"`
	ItemID  string `json:"item_id"`
	Summary
}

// BatchCountsResponse maps each requested item id to its summary. Count is
// the number of unique ids resolved.
type BatchCountsResponse struct {
	Success bool               `json:"success"`
	Counts  map[string]Summary `json:"counts"`
	Count   int                `json:"count"`
}

// RankingsResponse lists every known item ordered by net score descending.
type RankingsResponse struct {
	Success  bool          `json:"success"`
	Rankings []ItemSummary `json:"rankings"`
	Count    int           `json:"count"`
}
