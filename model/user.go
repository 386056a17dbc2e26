package model

import "time"

// User represents a registered user of the platform.
type User struct {
	ID           string    `json:"id" gorm:"type:char(36);primaryKey"`
	Username     string    `json:"username" gorm:"size:30;uniqueIndex"`
	Email        string    `json:"email" gorm:"size:254;uniqueIndex"`
	PasswordHash string    `json:"-" gorm:"size:255"` // Not exposed in API responses
	DisplayName  string    `json:"displayName,omitempty" gorm:"size:100"`
	Bio          string    `json:"bio,omitempty" gorm:"size:500"`
	AvatarURL    string    `json:"avatarUrl,omitempty" gorm:"size:500"`
	HeaderURL    string    `json:"headerUrl,omitempty" gorm:"size:500"`
	Location     string    `json:"location,omitempty" gorm:"size:100"`
	Website      string    `json:"website,omitempty" gorm:"size:500"`
	Twitter      string    `json:"twitter,omitempty" gorm:"size:100"`
	Instagram    string    `json:"instagram,omitempty" gorm:"size:100"`
	Spotify      string    `json:"spotify,omitempty" gorm:"size:100"`
	Soundcloud   string    `json:"soundcloud,omitempty" gorm:"size:100"`
	Verified     bool      `json:"verified"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
