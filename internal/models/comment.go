package models

import "time"

// DeletedCommentPlaceholder replaces the content of tombstoned comments.
const DeletedCommentPlaceholder = "This comment was deleted"

// Comment represents a comment on a post, optionally replying to another
// comment. Comments are never physically removed: deletion sets the
// tombstone flag and redacts the content so reply threads stay intact.
type Comment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PostID     uint      `gorm:"not null;index" json:"post_id"`
	AuthorID   uint      `gorm:"not null;index" json:"author_id"`
	Author     User      `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	ParentID   *uint     `gorm:"index" json:"parent_id,omitempty"`
	Content    string    `gorm:"size:4000;not null" json:"content"`
	LikesCount int       `gorm:"not null;default:0" json:"likes_count"`
	IsDeleted  bool      `gorm:"not null;default:false" json:"is_deleted"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Comment) TableName() string {
	return "comments"
}

// IsReply reports whether the comment targets another comment.
func (c *Comment) IsReply() bool {
	return c.ParentID != nil
}
