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

// PostService manages posts, the feed and bookmarks. All reads go
// through the access gate.
type PostService struct {
	posts     *repository.PostRepository
	bookmarks *repository.BookmarkRepository
	users     *repository.UserRepository
	graph     *FriendGraph
	gate      *AccessGate
}

// NewPostService creates a new PostService.
func NewPostService(
	posts *repository.PostRepository,
	bookmarks *repository.BookmarkRepository,
	users *repository.UserRepository,
	graph *FriendGraph,
	gate *AccessGate,
) *PostService {
	return &PostService{posts: posts, bookmarks: bookmarks, users: users, graph: graph, gate: gate}
}

// Create inserts a new post for the author. Visibility defaults to
// public.
func (s *PostService) Create(ctx context.Context, authorID uint, input models.CreatePostInput) (*models.Post, error) {
	if err := validation.ValidatePostContent(input.Content); err != nil {
		return nil, err
	}
	visibility := input.Visibility
	if visibility == "" {
		visibility = models.PostPublic
	}
	if !models.ValidPostVisibility(visibility) {
		return nil, models.NewValidationError("Visibility must be public, friends or private")
	}

	post := &models.Post{
		AuthorID:   authorID,
		Content:    strings.TrimSpace(input.Content),
		Visibility: visibility,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, models.NewInternalError(err)
	}
	return post, nil
}

// Get returns the post if viewer may see it; any denial is not-found.
func (s *PostService) Get(ctx context.Context, viewerID *uint, postID uint) (*models.Post, error) {
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
	return post, nil
}

// ListByUser returns owner's posts at the tiers viewer is entitled to.
func (s *PostService) ListByUser(ctx context.Context, viewerID *uint, ownerID uint, limit, offset int) ([]models.Post, error) {
	owner, err := s.users.GetByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", ownerID)
		}
		return nil, models.NewInternalError(err)
	}

	tiers, err := s.gate.ListableTiers(ctx, viewerID, owner)
	if err != nil {
		return nil, err
	}

	posts, err := s.posts.ListByAuthor(ctx, ownerID, tiers, limit, offset)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// CountByUser counts owner's posts visible to viewer.
func (s *PostService) CountByUser(ctx context.Context, viewerID *uint, ownerID uint) (int64, error) {
	owner, err := s.users.GetByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, models.NewNotFoundError("User", ownerID)
		}
		return 0, models.NewInternalError(err)
	}
	tiers, err := s.gate.ListableTiers(ctx, viewerID, owner)
	if err != nil {
		return 0, err
	}
	count, err := s.posts.CountByAuthor(ctx, ownerID, tiers)
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

// Feed returns the viewer's timeline: their own posts, public posts
// from open profiles, and friends' public and friends-tier posts,
// newest first.
func (s *PostService) Feed(ctx context.Context, viewerID uint, limit, offset int) ([]models.Post, error) {
	friendIDs, err := s.graph.FriendIDs(ctx, viewerID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	posts, err := s.posts.ListFeed(ctx, viewerID, friendIDs, limit, offset)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// Delete removes the caller's post with all attached engagement.
func (s *PostService) Delete(ctx context.Context, callerID, postID uint) error {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Post", postID)
		}
		return models.NewInternalError(err)
	}
	if post.AuthorID != callerID {
		// A viewer who cannot even see the post gets the same
		// not-found as everyone else; one who can see it learns it is
		// not theirs to delete.
		if err := s.gate.CheckPost(ctx, &callerID, post); err != nil {
			return err
		}
		return models.NewForbiddenError("Only the author can delete a post")
	}

	if err := s.posts.Delete(ctx, postID, callerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Post", postID)
		}
		return models.NewInternalError(err)
	}
	return nil
}

// Bookmark saves the post for the user. Saving requires the post to be
// visible.
func (s *PostService) Bookmark(ctx context.Context, userID, postID uint) error {
	if _, err := s.Get(ctx, &userID, postID); err != nil {
		return err
	}
	if err := s.bookmarks.Create(ctx, userID, postID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.NewConflictError("Post already bookmarked")
		}
		return models.NewInternalError(err)
	}
	return nil
}

// Unbookmark removes the user's bookmark on the post.
func (s *PostService) Unbookmark(ctx context.Context, userID, postID uint) error {
	err := s.bookmarks.Delete(ctx, userID, postID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError("Bookmark", postID)
	}
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// ListBookmarks returns the user's saved posts, silently dropping any
// that have since become invisible to them.
func (s *PostService) ListBookmarks(ctx context.Context, userID uint, limit, offset int) ([]models.Post, error) {
	bookmarks, err := s.bookmarks.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	posts := make([]models.Post, 0, len(bookmarks))
	for i := range bookmarks {
		post := bookmarks[i].Post
		if post.ID == 0 {
			continue
		}
		if err := s.gate.CheckPost(ctx, &userID, &post); err != nil {
			continue
		}
		posts = append(posts, post)
	}
	return posts, nil
}
