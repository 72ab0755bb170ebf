package models

import "time"

// LikeTarget tags which collection a like (or notification entity)
// points into. The tag replaces runtime type dispatch: every consumer
// resolves the backing table and its author column through this enum.
type LikeTarget string

const (
	// TargetPost marks a like on a post.
	TargetPost LikeTarget = "post"
	// TargetComment marks a like on a comment.
	TargetComment LikeTarget = "comment"
)

// ValidLikeTarget reports whether t is a known target type.
func ValidLikeTarget(t LikeTarget) bool {
	return t == TargetPost || t == TargetComment
}

// Like represents a user liking a post or a comment. The composite
// unique index makes the toggle race safe: concurrent double-likes
// collapse into one row and one counter increment.
type Like struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"not null;uniqueIndex:idx_likes_user_target" json:"user_id"`
	User       User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	TargetType LikeTarget `gorm:"type:varchar(10);not null;uniqueIndex:idx_likes_user_target;index:idx_likes_target" json:"target_type"`
	TargetID   uint       `gorm:"not null;uniqueIndex:idx_likes_user_target;index:idx_likes_target" json:"target_id"`
	CreatedAt  time.Time  `json:"created_at"`
}

// TableName specifies the table name for GORM
func (Like) TableName() string {
	return "likes"
}
