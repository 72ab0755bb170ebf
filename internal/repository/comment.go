package repository

import (
	"context"

	"kinship/internal/models"

	"gorm.io/gorm"
)

// CommentRepository persists comments. The post's comments counter is
// mutated in the same transaction as the comment row.
type CommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository.
func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create inserts the comment and increments the post's counter
// atomically.
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).
			Where("id = ?", comment.PostID).
			UpdateColumn("comments_count", gorm.Expr("comments_count + 1")).Error
	})
}

// GetByID fetches a comment with its author preloaded.
func (r *CommentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).Preload("Author").First(&comment, id).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByPost returns the post's comments oldest first, with authors
// preloaded. Tombstoned comments are included; their content is already
// redacted in the store.
func (r *CommentRepository) ListByPost(ctx context.Context, postID uint, limit, offset int) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&comments).Error
	return comments, err
}

// SoftDelete tombstones the comment and decrements the post's counter
// atomically. The row stays so replies keep their anchor. Returns
// gorm.ErrRecordNotFound when no live comment matched.
func (r *CommentRepository) SoftDelete(ctx context.Context, id, authorID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		if err := tx.First(&comment, id).Error; err != nil {
			return err
		}
		if comment.AuthorID != authorID {
			return models.NewForbiddenError("Only the author can delete a comment")
		}
		if comment.IsDeleted {
			return gorm.ErrRecordNotFound
		}

		res := tx.Model(&models.Comment{}).
			Where("id = ? AND is_deleted = ?", id, false).
			Updates(map[string]interface{}{
				"content":    models.DeletedCommentPlaceholder,
				"is_deleted": true,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Model(&models.Post{}).
			Where("id = ? AND comments_count > 0", comment.PostID).
			UpdateColumn("comments_count", gorm.Expr("comments_count - 1")).Error
	})
}
