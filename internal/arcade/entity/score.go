package entity

import "time"

// Score is a submitted game result. The leaderboard keeps every submission
// and ranks by points.
type Score struct {
	ID        int64
	UserID    int64
	UserEmail string
	Game      string
	Points    int64
	CreatedAt time.Time
}
