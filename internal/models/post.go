package models

import "time"

// PostVisibility is the per-post access tier.
type PostVisibility string

const (
	// PostPublic is visible to anyone allowed past the owner's profile tier.
	PostPublic PostVisibility = "public"
	// PostFriends is visible only to the author's friends.
	PostFriends PostVisibility = "friends"
	// PostPrivate is visible to the author alone.
	PostPrivate PostVisibility = "private"
)

// ValidPostVisibility reports whether v is one of the three tiers.
func ValidPostVisibility(v PostVisibility) bool {
	switch v {
	case PostPublic, PostFriends, PostPrivate:
		return true
	}
	return false
}

// Post represents a user post. LikesCount and CommentsCount are
// persisted counters mutated atomically with the corresponding Like or
// Comment row in the same transaction.
type Post struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	AuthorID      uint           `gorm:"not null;index" json:"author_id"`
	Author        User           `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Content       string         `gorm:"type:text;not null" json:"content"`
	Visibility    PostVisibility `gorm:"type:varchar(10);not null;default:'public';index" json:"visibility"`
	LikesCount    int            `gorm:"not null;default:0" json:"likes_count"`
	CommentsCount int            `gorm:"not null;default:0" json:"comments_count"`
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Post) TableName() string {
	return "posts"
}

// CreatePostInput is the payload for creating a post.
type CreatePostInput struct {
	Content    string         `json:"content"`
	Visibility PostVisibility `json:"visibility"`
}
