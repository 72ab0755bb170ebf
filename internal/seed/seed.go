// Package seed populates a development database with plausible data.
package seed

import (
	"context"
	"fmt"

	"kinship/internal/middleware"
	"kinship/internal/models"
	"kinship/internal/repository"
	"kinship/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options controls how much data Run generates.
type Options struct {
	Users          int
	PostsPerUser   int
	FriendDensity  float64 // probability that any two users are friends
	CommentsChance float64 // probability a user comments on a visible post
}

// DefaultOptions is a small but connected graph for local development.
var DefaultOptions = Options{
	Users:          25,
	PostsPerUser:   4,
	FriendDensity:  0.2,
	CommentsChance: 0.3,
}

// Run fills the database with fake users, a friendship graph, posts at
// every visibility tier and some engagement. Everything goes through
// the service layer so counters and notifications stay consistent.
func Run(ctx context.Context, db *gorm.DB, opts Options) error {
	userRepo := repository.NewUserRepository(db)
	relRepo := repository.NewRelationshipRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	bookmarkRepo := repository.NewBookmarkRepository(db)

	graph := service.NewFriendGraph(relRepo, nil)
	gate := service.NewAccessGate(userRepo, graph)
	notifications := service.NewNotificationService(notifRepo)
	graphSvc := service.NewGraphService(relRepo, userRepo, graph, notifications)
	postSvc := service.NewPostService(postRepo, bookmarkRepo, userRepo, graph, gate)
	engagement := service.NewEngagementService(likeRepo, commentRepo, postRepo, gate, notifications)

	hash, err := bcrypt.GenerateFromPassword([]byte("password1"), bcrypt.MinCost)
	if err != nil {
		return err
	}

	users := make([]*models.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		visibility := models.ProfilePublic
		if gofakeit.Number(0, 9) == 0 {
			visibility = models.ProfilePrivate
		}
		u := &models.User{
			Username:          fmt.Sprintf("%s%d", gofakeit.Username(), i),
			Email:             fmt.Sprintf("seed%d@%s", i, gofakeit.DomainName()),
			Password:          string(hash),
			Bio:               gofakeit.Sentence(8),
			ProfileVisibility: visibility,
		}
		if err := userRepo.Create(ctx, u); err != nil {
			return fmt.Errorf("seed user: %w", err)
		}
		users = append(users, u)
	}
	middleware.Logger.Info("seeded users", "count", len(users))

	// Friendships via the real request flow.
	var friendships int
	for i := 0; i < len(users); i++ {
		for j := i + 1; j < len(users); j++ {
			if gofakeit.Float64() > opts.FriendDensity {
				continue
			}
			res, err := graphSvc.SendRequest(ctx, users[i].ID, users[j].ID)
			if err != nil {
				continue
			}
			if res.Status == service.RequestPending {
				if _, err := graphSvc.AcceptRequest(ctx, res.Request.ID, users[j].ID); err != nil {
					continue
				}
			}
			friendships++
		}
	}
	middleware.Logger.Info("seeded friendships", "count", friendships)

	tiers := []models.PostVisibility{models.PostPublic, models.PostPublic, models.PostFriends, models.PostPrivate}
	var posts []*models.Post
	for _, u := range users {
		for p := 0; p < opts.PostsPerUser; p++ {
			post, err := postSvc.Create(ctx, u.ID, models.CreatePostInput{
				Content:    gofakeit.Paragraph(1, 3, 12, " "),
				Visibility: tiers[gofakeit.Number(0, len(tiers)-1)],
			})
			if err != nil {
				return fmt.Errorf("seed post: %w", err)
			}
			posts = append(posts, post)
		}
	}
	middleware.Logger.Info("seeded posts", "count", len(posts))

	// Engagement, skipping whatever the gate denies.
	var likes, comments int
	for _, u := range users {
		for _, p := range posts {
			if gofakeit.Float64() < 0.15 {
				if liked, err := engagement.ToggleLike(ctx, u.ID, models.TargetPost, p.ID); err == nil && liked {
					likes++
				}
			}
			if gofakeit.Float64() < opts.CommentsChance*0.3 {
				if _, err := engagement.AddComment(ctx, u.ID, p.ID, nil, gofakeit.Sentence(10)); err == nil {
					comments++
				}
			}
		}
	}
	middleware.Logger.Info("seeded engagement", "likes", likes, "comments", comments)

	return nil
}
