// Package models contains data structures for the application's domain models.
package models

import "time"

// ProfileVisibility is the account-level policy gating all of a user's
// content regardless of per-post tier.
type ProfileVisibility string

const (
	// ProfilePublic allows anyone to view the user's profile and content
	// (subject to per-post tiers).
	ProfilePublic ProfileVisibility = "public"
	// ProfilePrivate hides all of the user's content from non-friends.
	ProfilePrivate ProfileVisibility = "private"
)

// User represents a registered account.
type User struct {
	ID                uint              `gorm:"primaryKey" json:"id"`
	Username          string            `gorm:"size:30;not null;uniqueIndex" json:"username"`
	Email             string            `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password          string            `gorm:"size:255;not null" json:"-"`
	Bio               string            `gorm:"size:500" json:"bio"`
	AvatarURL         string            `json:"avatar_url"`
	ProfileVisibility ProfileVisibility `gorm:"type:varchar(10);not null;default:'public'" json:"profile_visibility"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

// Summary returns the public projection of a user used inside
// friendship, notification and post payloads.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:        u.ID,
		Username:  u.Username,
		AvatarURL: u.AvatarURL,
	}
}

// UserSummary is the minimal user projection embedded in other payloads.
type UserSummary struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
}
