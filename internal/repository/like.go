package repository

import (
	"context"
	"errors"

	"kinship/internal/models"

	"gorm.io/gorm"
)

// LikeRepository persists likes. The target's like counter (on posts
// and comments alike) is mutated in the same transaction as the like
// row; the unique index on (user, target_type, target_id) collapses
// racing toggles.
type LikeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new LikeRepository.
func NewLikeRepository(db *gorm.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

// Create inserts the like and increments the target's counter
// atomically. A duplicate like surfaces as gorm.ErrDuplicatedKey with
// no counter change.
func (r *LikeRepository) Create(ctx context.Context, like *models.Like) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(like).Error; err != nil {
			return err
		}
		switch like.TargetType {
		case models.TargetPost:
			return tx.Model(&models.Post{}).
				Where("id = ?", like.TargetID).
				UpdateColumn("likes_count", gorm.Expr("likes_count + 1")).Error
		case models.TargetComment:
			return tx.Model(&models.Comment{}).
				Where("id = ?", like.TargetID).
				UpdateColumn("likes_count", gorm.Expr("likes_count + 1")).Error
		}
		return nil
	})
}

// Delete removes the user's like on the target and decrements the
// target's counter. Returns gorm.ErrRecordNotFound when no like
// existed.
func (r *LikeRepository) Delete(ctx context.Context, userID uint, targetType models.LikeTarget, targetID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).
			Delete(&models.Like{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		switch targetType {
		case models.TargetPost:
			return tx.Model(&models.Post{}).
				Where("id = ? AND likes_count > 0", targetID).
				UpdateColumn("likes_count", gorm.Expr("likes_count - 1")).Error
		case models.TargetComment:
			return tx.Model(&models.Comment{}).
				Where("id = ? AND likes_count > 0", targetID).
				UpdateColumn("likes_count", gorm.Expr("likes_count - 1")).Error
		}
		return nil
	})
}

// Exists reports whether the user has liked the target.
func (r *LikeRepository) Exists(ctx context.Context, userID uint, targetType models.LikeTarget, targetID uint) (bool, error) {
	var like models.Like
	err := r.db.WithContext(ctx).
		Select("id").
		Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).
		First(&like).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListRecent returns the most recent likers of the target, newest
// first, capped at limit, with users preloaded.
func (r *LikeRepository) ListRecent(ctx context.Context, targetType models.LikeTarget, targetID uint, limit int) ([]models.Like, error) {
	var likes []models.Like
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Order("created_at DESC").
		Limit(limit).
		Find(&likes).Error
	return likes, err
}

// Count counts all likes on the target.
func (r *LikeRepository) Count(ctx context.Context, targetType models.LikeTarget, targetID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Count(&count).Error
	return count, err
}
