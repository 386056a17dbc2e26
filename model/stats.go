package model

import "time"

// UserStats holds derived per-user metrics. Track totals are sums of the
// user's tracks' denormalized counters; follower/following counts are live
// counts over the follows table.
type UserStats struct {
	UserID           string    `json:"userId"`
	TotalTracks      int64     `json:"totalTracks"`
	TotalPlays       int64     `json:"totalPlays"`
	TotalLikes       int64     `json:"totalLikes"`
	TotalDownloads   int64     `json:"totalDownloads"`
	TotalFollowers   int64     `json:"totalFollowers"`
	TotalFollowing   int64     `json:"totalFollowing"`
	MonthlyListeners int64     `json:"monthlyListeners"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// TrackStats holds derived per-track metrics computed from play events.
type TrackStats struct {
	TrackID              string           `json:"trackId"`
	DailyPlays           map[string]int64 `json:"dailyPlays"` // UTC date -> play count
	TotalUniqueListeners int64            `json:"totalUniqueListeners"`
	AvgListenDuration    float64          `json:"avgListenDuration"`
	CompletionRate       float64          `json:"completionRate"` // percent
	UpdatedAt            time.Time        `json:"updatedAt"`
}
