package model

import "time"

// Like is a (user, track) relationship edge. At most one row may exist per
// pair; creation is idempotent (get-or-create).
type Like struct {
	ID        string    `json:"id" gorm:"type:char(36);primaryKey"`
	UserID    string    `json:"userId" gorm:"type:char(36);uniqueIndex:idx_likes_user_track"`
	TrackID   string    `json:"trackId" gorm:"type:char(36);uniqueIndex:idx_likes_user_track"`
	CreatedAt time.Time `json:"createdAt"`
}

// Follow is a (follower, following) relationship edge with the same
// idempotent creation semantics as Like. Follower/following counts are
// computed live rather than denormalized.
type Follow struct {
	ID          string    `json:"id" gorm:"type:char(36);primaryKey"`
	FollowerID  string    `json:"followerId" gorm:"type:char(36);uniqueIndex:idx_follows_pair"`
	FollowingID string    `json:"followingId" gorm:"type:char(36);uniqueIndex:idx_follows_pair"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Play is an immutable playback event. One row per playback, never updated
// or deduplicated: the plays counter models raw playback events, not unique
// listens.
type Play struct {
	ID        string    `json:"id" gorm:"type:char(36);primaryKey"`
	UserID    *string   `json:"userId" gorm:"type:char(36);index"`
	TrackID   string    `json:"trackId" gorm:"type:char(36);index"`
	Duration  float64   `json:"duration"`  // seconds listened
	Completed bool      `json:"completed"` // listened past the completion threshold
	IPAddress string    `json:"ipAddress,omitempty" gorm:"size:45"`
	UserAgent string    `json:"userAgent,omitempty" gorm:"type:text"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`
}

// Download is an immutable download event.
type Download struct {
	ID        string    `json:"id" gorm:"type:char(36);primaryKey"`
	UserID    *string   `json:"userId" gorm:"type:char(36);index"`
	TrackID   string    `json:"trackId" gorm:"type:char(36);index"`
	IPAddress string    `json:"ipAddress,omitempty" gorm:"size:45"`
	UserAgent string    `json:"userAgent,omitempty" gorm:"type:text"`
	CreatedAt time.Time `json:"createdAt"`
}
