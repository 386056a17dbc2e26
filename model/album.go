package model

import "time"

// Album groups tracks owned by a user. Deleting an album detaches its
// tracks (album reference set to null) rather than deleting them.
type Album struct {
	ID            string    `json:"id" gorm:"type:char(36);primaryKey"`
	UserID        string    `json:"userId" gorm:"type:char(36);index"`
	Title         string    `json:"title" gorm:"size:200"`
	Artist        string    `json:"artist" gorm:"size:200"`
	Description   string    `json:"description,omitempty" gorm:"size:2000"`
	CoverURL      string    `json:"coverUrl,omitempty" gorm:"size:500"`
	CoverGradient string    `json:"coverGradient,omitempty" gorm:"size:255"`
	ReleaseDate   time.Time `json:"releaseDate"`
	Genre         string    `json:"genre" gorm:"size:50"`
	Published     bool      `json:"published"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
