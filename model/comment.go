package model

import "time"

// Comment is a user comment on a track, optionally anchored to a position
// within the track.
type Comment struct {
	ID        string    `json:"id" gorm:"type:char(36);primaryKey"`
	UserID    string    `json:"userId" gorm:"type:char(36);index"`
	TrackID   string    `json:"trackId" gorm:"type:char(36);index"`
	Content   string    `json:"content" gorm:"size:500"`
	Timestamp *float64  `json:"timestamp,omitempty"` // position in track, seconds
	Likes     int64     `json:"likes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
