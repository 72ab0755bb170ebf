package repository

import (
	"context"

	"kinship/internal/models"

	"gorm.io/gorm"
)

// BookmarkRepository persists saved posts.
type BookmarkRepository struct {
	db *gorm.DB
}

// NewBookmarkRepository creates a new BookmarkRepository.
func NewBookmarkRepository(db *gorm.DB) *BookmarkRepository {
	return &BookmarkRepository{db: db}
}

// Create saves the post for the user. A duplicate bookmark surfaces as
// gorm.ErrDuplicatedKey.
func (r *BookmarkRepository) Create(ctx context.Context, userID, postID uint) error {
	return r.db.WithContext(ctx).Create(&models.Bookmark{UserID: userID, PostID: postID}).Error
}

// Delete removes the user's bookmark on the post. Returns
// gorm.ErrRecordNotFound when none existed.
func (r *BookmarkRepository) Delete(ctx context.Context, userID, postID uint) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Bookmark{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListByUser returns the user's bookmarks newest first with posts and
// their authors preloaded.
func (r *BookmarkRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Bookmark, error) {
	var bookmarks []models.Bookmark
	err := r.db.WithContext(ctx).
		Preload("Post").
		Preload("Post.Author").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&bookmarks).Error
	return bookmarks, err
}
