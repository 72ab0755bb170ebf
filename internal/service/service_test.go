package service

import (
	"testing"

	"kinship/internal/repository"
	"kinship/internal/testutil"

	"gorm.io/gorm"
)

// testEnv wires the full service stack onto an in-memory database with
// no Redis; the friend graph falls through to the store on every query.
type testEnv struct {
	db            *gorm.DB
	users         *UserService
	graph         *GraphService
	posts         *PostService
	engagement    *EngagementService
	notifications *NotificationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewDB(t)

	userRepo := repository.NewUserRepository(db)
	relRepo := repository.NewRelationshipRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	bookmarkRepo := repository.NewBookmarkRepository(db)

	friendGraph := NewFriendGraph(relRepo, nil)
	gate := NewAccessGate(userRepo, friendGraph)
	notifications := NewNotificationService(notifRepo)

	return &testEnv{
		db:            db,
		users:         NewUserService(userRepo),
		graph:         NewGraphService(relRepo, userRepo, friendGraph, notifications),
		posts:         NewPostService(postRepo, bookmarkRepo, userRepo, friendGraph, gate),
		engagement:    NewEngagementService(likeRepo, commentRepo, postRepo, gate, notifications),
		notifications: notifications,
	}
}
