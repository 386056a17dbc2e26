package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Tags is a JSON-encoded string list stored in a single column.
type Tags []string

// Value implements driver.Valuer so Tags can be bound as a query parameter.
func (t Tags) Value() (driver.Value, error) {
	if t == nil {
		t = Tags{}
	}
	b, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tags: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner for reading the JSON column back.
func (t *Tags) Scan(src interface{}) error {
	if src == nil {
		*t = Tags{}
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported source type for tags: %T", src)
	}
	if len(data) == 0 {
		*t = Tags{}
		return nil
	}
	return json.Unmarshal(data, t)
}

// Track represents an audio track in the catalog.
//
// The plays/likes/downloads/shares counters are denormalized aggregates.
// They are maintained incrementally and must only be mutated through the
// engagement engine, in the same transaction as the event or relationship
// row that justifies the change.
type Track struct {
	ID          string  `json:"id" gorm:"type:char(36);primaryKey"`
	UserID      string  `json:"userId" gorm:"type:char(36);index:idx_tracks_user_published"`
	AlbumID     *string `json:"albumId" gorm:"type:char(36);index"`
	Title       string  `json:"title" gorm:"size:200"`
	Artist      string  `json:"artist" gorm:"size:200"`
	ArtistSlug  string  `json:"artistSlug" gorm:"size:200"`
	Description string  `json:"description,omitempty" gorm:"size:2000"`
	Genre       string  `json:"genre" gorm:"size:50;index"`
	Mood        string  `json:"mood,omitempty" gorm:"size:50"`
	Tags        Tags    `json:"tags" gorm:"type:json"`

	// Audio file metadata.
	AudioURL      string  `json:"audioUrl" gorm:"size:500"`
	AudioFileSize int64   `json:"audioFileSize"`
	AudioDuration float64 `json:"audioDuration"` // seconds
	AudioFormat   string  `json:"audioFormat" gorm:"size:20"`

	CoverURL      string `json:"coverUrl,omitempty" gorm:"size:500"`
	CoverGradient string `json:"coverGradient,omitempty" gorm:"size:255"`
	WaveformData  string `json:"waveformData,omitempty" gorm:"type:text"`
	BPM           *int   `json:"bpm,omitempty"`
	Key           string `json:"key,omitempty" gorm:"size:10;column:track_key"` // Musical key

	// Denormalized engagement counters.
	Plays     int64 `json:"plays"`
	Likes     int64 `json:"likes"`
	Downloads int64 `json:"downloads"`
	Shares    int64 `json:"shares"`

	Published   bool       `json:"published" gorm:"index:idx_tracks_user_published"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"` // set once, on first publish
	CreatedAt   time.Time  `json:"createdAt" gorm:"index"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
