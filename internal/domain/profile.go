package domain

import "time"

// Profile is the secondary matchmaking profile document, keyed one-per-user.
type Profile struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ExternalID string    `gorm:"uniqueIndex;size:36;not null" json:"external_id"`
	UserID     uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	FullName   string    `gorm:"size:255;not null" json:"full_name"`
	Age        int       `gorm:"not null" json:"age"`
	DOB        time.Time `gorm:"not null" json:"dob"`
	Location   string    `gorm:"size:255;not null" json:"location"`
	Language   string    `gorm:"size:64;not null" json:"language"`
	Religion   string    `gorm:"size:64;not null" json:"religion"`
	Community  string    `gorm:"size:64" json:"community,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
