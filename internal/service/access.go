package service

import (
	"context"
	"errors"

	"kinship/internal/models"
	"kinship/internal/observability"
	"kinship/internal/repository"

	"gorm.io/gorm"
)

// AccessGate is the single enforcement point for content access. Every
// read of a post or anything attached to one (comments, likes,
// bookmarks) passes through it.
type AccessGate struct {
	users *repository.UserRepository
	graph *FriendGraph
}

// NewAccessGate creates a new AccessGate.
func NewAccessGate(users *repository.UserRepository, graph *FriendGraph) *AccessGate {
	return &AccessGate{users: users, graph: graph}
}

func (g *AccessGate) isFriend(ctx context.Context, viewerID *uint, ownerID uint) (bool, error) {
	if viewerID == nil || *viewerID == ownerID {
		return false, nil
	}
	return g.graph.IsFriend(ctx, *viewerID, ownerID)
}

// CheckPost returns nil when viewer may see the post. Every denial is
// reported as not-found: a denied viewer must not learn whether the
// post exists.
func (g *AccessGate) CheckPost(ctx context.Context, viewerID *uint, post *models.Post) error {
	owner, err := g.users.GetByID(ctx, post.AuthorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Orphaned post; treat like any other denial.
			return models.NewNotFoundError("Post", post.ID)
		}
		return models.NewInternalError(err)
	}

	isFriend, err := g.isFriend(ctx, viewerID, post.AuthorID)
	if err != nil {
		return models.NewInternalError(err)
	}

	if allowed, reason := CanView(viewerID, owner, post, isFriend); !allowed {
		observability.VisibilityDenials.WithLabelValues(string(reason)).Inc()
		return models.NewNotFoundError("Post", post.ID)
	}
	return nil
}

// ListableTiers returns the tiers viewer may list on owner's profile.
// A closed profile is an explicit Forbidden here, unlike single-post
// reads: the profile's existence is already public via its username.
func (g *AccessGate) ListableTiers(ctx context.Context, viewerID *uint, owner *models.User) ([]models.PostVisibility, error) {
	isFriend, err := g.isFriend(ctx, viewerID, owner.ID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	tiers, reason := VisibleTiers(viewerID, owner, isFriend)
	if reason != "" {
		observability.VisibilityDenials.WithLabelValues(string(reason)).Inc()
		return nil, models.NewForbiddenError("This profile is private")
	}
	return tiers, nil
}
