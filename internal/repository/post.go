package repository

import (
	"context"

	"kinship/internal/models"

	"gorm.io/gorm"
)

// PostRepository persists posts.
type PostRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new PostRepository.
func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

// Create inserts a new post.
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// GetByID fetches a post with its author preloaded.
func (r *PostRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).Preload("Author").First(&post, id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// ListByAuthor returns the author's posts restricted to the given
// visibility tiers, newest first, paginated.
func (r *PostRepository) ListByAuthor(ctx context.Context, authorID uint, tiers []models.PostVisibility, limit, offset int) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("author_id = ? AND visibility IN ?", authorID, tiers).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

// ListFeed returns the newest posts on the viewer's timeline: their own
// posts at every tier, public posts from authors with open profiles,
// and public or friends-tier posts from the given friend authors. The
// join applies the profile gate to the public clause; friends pass it
// through the friend clause regardless of the author's profile tier.
func (r *PostRepository) ListFeed(ctx context.Context, viewerID uint, friendIDs []uint, limit, offset int) ([]models.Post, error) {
	var posts []models.Post
	q := r.db.WithContext(ctx).
		Preload("Author").
		Joins("JOIN users ON users.id = posts.author_id")
	if len(friendIDs) > 0 {
		q = q.Where(
			"posts.author_id = ? OR (posts.visibility = ? AND users.profile_visibility = ?) OR (posts.author_id IN ? AND posts.visibility IN ?)",
			viewerID, models.PostPublic, models.ProfilePublic,
			friendIDs, []models.PostVisibility{models.PostPublic, models.PostFriends},
		)
	} else {
		q = q.Where(
			"posts.author_id = ? OR (posts.visibility = ? AND users.profile_visibility = ?)",
			viewerID, models.PostPublic, models.ProfilePublic,
		)
	}
	err := q.Order("posts.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

// CountByAuthor counts the author's posts at the given tiers.
func (r *PostRepository) CountByAuthor(ctx context.Context, authorID uint, tiers []models.PostVisibility) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("author_id = ? AND visibility IN ?", authorID, tiers).
		Count(&count).Error
	return count, err
}

// Delete removes a post scoped to its author, along with its likes,
// comments and bookmarks. Returns gorm.ErrRecordNotFound when the post
// does not exist or belongs to someone else.
func (r *PostRepository) Delete(ctx context.Context, id, authorID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND author_id = ?", id, authorID).Delete(&models.Post{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		var commentIDs []uint
		if err := tx.Model(&models.Comment{}).Where("post_id = ?", id).
			Pluck("id", &commentIDs).Error; err != nil {
			return err
		}
		if len(commentIDs) > 0 {
			if err := tx.Where("target_type = ? AND target_id IN ?", models.TargetComment, commentIDs).
				Delete(&models.Like{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("target_type = ? AND target_id = ?", models.TargetPost, id).
			Delete(&models.Like{}).Error; err != nil {
			return err
		}
		return tx.Where("post_id = ?", id).Delete(&models.Bookmark{}).Error
	})
}
