package service

import (
	"context"
	"errors"
	"strings"

	"kinship/internal/models"
	"kinship/internal/repository"
	"kinship/internal/validation"

	"gorm.io/gorm"
)

// LikersListLimit caps how many recent likers a fetch returns.
const LikersListLimit = 10

// EngagementService manages likes and comments on visible content and
// fans out the resulting notifications.
type EngagementService struct {
	likes         *repository.LikeRepository
	comments      *repository.CommentRepository
	posts         *repository.PostRepository
	gate          *AccessGate
	notifications *NotificationService
}

// NewEngagementService creates a new EngagementService.
func NewEngagementService(
	likes *repository.LikeRepository,
	comments *repository.CommentRepository,
	posts *repository.PostRepository,
	gate *AccessGate,
	notifications *NotificationService,
) *EngagementService {
	return &EngagementService{
		likes:         likes,
		comments:      comments,
		posts:         posts,
		gate:          gate,
		notifications: notifications,
	}
}

// resolveTarget checks the like target exists and is visible to the
// viewer, returning the id of the author to notify.
func (s *EngagementService) resolveTarget(ctx context.Context, viewerID *uint, targetType models.LikeTarget, targetID uint) (uint, error) {
	switch targetType {
	case models.TargetPost:
		post, err := s.posts.GetByID(ctx, targetID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, models.NewNotFoundError("Post", targetID)
			}
			return 0, models.NewInternalError(err)
		}
		if err := s.gate.CheckPost(ctx, viewerID, post); err != nil {
			return 0, err
		}
		return post.AuthorID, nil

	case models.TargetComment:
		comment, err := s.comments.GetByID(ctx, targetID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, models.NewNotFoundError("Comment", targetID)
			}
			return 0, models.NewInternalError(err)
		}
		post, err := s.posts.GetByID(ctx, comment.PostID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, models.NewNotFoundError("Comment", targetID)
			}
			return 0, models.NewInternalError(err)
		}
		if err := s.gate.CheckPost(ctx, viewerID, post); err != nil {
			// Mask the containing post too.
			return 0, models.NewNotFoundError("Comment", targetID)
		}
		return comment.AuthorID, nil

	default:
		return 0, models.NewValidationError("Target type must be post or comment")
	}
}

// ToggleLike flips the user's like on the target: the first call
// records it and notifies the author, the next removes it again and
// stays silent. Returns whether the target is liked afterwards.
func (s *EngagementService) ToggleLike(ctx context.Context, userID uint, targetType models.LikeTarget, targetID uint) (bool, error) {
	authorID, err := s.resolveTarget(ctx, &userID, targetType, targetID)
	if err != nil {
		return false, err
	}

	like := &models.Like{UserID: userID, TargetType: targetType, TargetID: targetID}
	if err := s.likes.Create(ctx, like); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// A like already exists, so this toggle removes it. Losing
			// a race against a concurrent removal lands in the same
			// end state.
			if err := s.likes.Delete(ctx, userID, targetType, targetID); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return false, models.NewInternalError(err)
			}
			return false, nil
		}
		return false, models.NewInternalError(err)
	}

	s.notifications.NotifyEngagement(ctx, models.NotificationLike, userID, authorID, targetType, targetID)
	return true, nil
}

// Unlike removes the user's like on the target.
func (s *EngagementService) Unlike(ctx context.Context, userID uint, targetType models.LikeTarget, targetID uint) error {
	if !models.ValidLikeTarget(targetType) {
		return models.NewValidationError("Target type must be post or comment")
	}
	err := s.likes.Delete(ctx, userID, targetType, targetID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError("Like", targetID)
	}
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// ListLikers returns the most recent likers of a visible target along
// with the total count.
func (s *EngagementService) ListLikers(ctx context.Context, viewerID *uint, targetType models.LikeTarget, targetID uint) ([]models.UserSummary, int64, error) {
	if _, err := s.resolveTarget(ctx, viewerID, targetType, targetID); err != nil {
		return nil, 0, err
	}

	likes, err := s.likes.ListRecent(ctx, targetType, targetID, LikersListLimit)
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	total, err := s.likes.Count(ctx, targetType, targetID)
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	users := make([]models.UserSummary, 0, len(likes))
	for i := range likes {
		users = append(users, likes[i].User.Summary())
	}
	return users, total, nil
}

// AddComment creates a comment (or reply) on a visible post. A comment
// notifies the post author; a reply notifies the parent comment's
// author instead.
func (s *EngagementService) AddComment(ctx context.Context, userID, postID uint, parentID *uint, content string) (*models.Comment, error) {
	if err := validation.ValidateCommentContent(content); err != nil {
		return nil, err
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", postID)
		}
		return nil, models.NewInternalError(err)
	}
	if err := s.gate.CheckPost(ctx, &userID, post); err != nil {
		return nil, err
	}

	notifyID := post.AuthorID
	notifyType := models.NotificationComment
	if parentID != nil {
		parent, err := s.comments.GetByID(ctx, *parentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.NewNotFoundError("Comment", *parentID)
			}
			return nil, models.NewInternalError(err)
		}
		if parent.PostID != postID {
			return nil, models.NewValidationError("Parent comment belongs to a different post")
		}
		// Replies to tombstoned comments are allowed; the thread
		// anchor outlives its content.
		notifyID = parent.AuthorID
		notifyType = models.NotificationReply
	}

	comment := &models.Comment{
		PostID:   postID,
		AuthorID: userID,
		ParentID: parentID,
		Content:  strings.TrimSpace(content),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, models.NewInternalError(err)
	}

	s.notifications.NotifyEngagement(ctx, notifyType, userID, notifyID, models.TargetComment, comment.ID)
	return comment, nil
}

// DeleteComment tombstones the user's comment.
func (s *EngagementService) DeleteComment(ctx context.Context, userID, commentID uint) error {
	err := s.comments.SoftDelete(ctx, commentID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError("Comment", commentID)
	}
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return appErr
		}
		return models.NewInternalError(err)
	}
	return nil
}

// ListComments returns the comments of a visible post, oldest first.
func (s *EngagementService) ListComments(ctx context.Context, viewerID *uint, postID uint, limit, offset int) ([]models.Comment, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", postID)
		}
		return nil, models.NewInternalError(err)
	}
	if err := s.gate.CheckPost(ctx, viewerID, post); err != nil {
		return nil, err
	}

	comments, err := s.comments.ListByPost(ctx, postID, limit, offset)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}
