package model

// StatsResponse is the API response for global vote statistics.
// LikePercentage is rounded to the nearest whole percent and 0 when no
// votes exist.
type StatsResponse struct {
	Success        bool  `json:"success"`
	TotalLikes     int64 `json:"total_likes"`
	TotalDislikes  int64 `json:"total_dislikes"`
	TotalVotes     int64 `json:"total_votes"`
	TotalItems     int   `json:"total_items"`
	LikePercentage int   `json:"like_percentage"`
}
