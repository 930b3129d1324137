package model

// Vote type values accepted on the wire and used as counter key prefixes.
const (
	VoteTypeLike    = "like"
	VoteTypeDislike = "dislike"
)

// ValidVoteTypes is the set of accepted vote_type values.
var ValidVoteTypes = map[string]bool{
	VoteTypeLike:    true,
	VoteTypeDislike: true,
}

// VoteRequest is the API request body for submitting a vote. Date is the
// client's local day bucket for rate limiting; when omitted the server
// falls back to its own UTC day.
type VoteRequest struct {
	ItemID   string `json:"item_id"`
	Token    string `json:"token"`
	VoteType string `json:"vote_type"`
	Date     string `json:"date,omitempty"`
}

// VoteResponse is the API response after a vote is accepted, carrying the
// item's updated totals.
type VoteResponse struct {
	Success bool   `json:"success"`
	ItemID  string `json:"item_id"`
	Summary
}

// ErrorResponse is the wire shape of every error the API returns.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// VoteMetadata is the analytics-only audit record written after each
// accepted vote. The service never reads it back.
type VoteMetadata struct {
	TokenHash string `json:"token_hash"`
	VoteType  string `json:"vote_type"`
	Timestamp int64  `json:"timestamp"`
}
