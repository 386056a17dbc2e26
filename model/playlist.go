package model

import "time"

// Playlist is a user-curated list of tracks.
type Playlist struct {
	ID          string    `json:"id" gorm:"type:char(36);primaryKey"`
	UserID      string    `json:"userId" gorm:"type:char(36);index"`
	Name        string    `json:"name" gorm:"size:200"`
	Description string    `json:"description,omitempty" gorm:"size:1000"`
	CoverURL    string    `json:"coverUrl,omitempty" gorm:"size:500"`
	Public      bool      `json:"public"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// PlaylistTrack is the playlist/track join row.
type PlaylistTrack struct {
	PlaylistID string    `json:"playlistId" gorm:"type:char(36);uniqueIndex:idx_playlist_track"`
	TrackID    string    `json:"trackId" gorm:"type:char(36);uniqueIndex:idx_playlist_track"`
	AddedAt    time.Time `json:"addedAt"`
}
