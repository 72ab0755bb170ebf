// Package server wires the HTTP surface of the application.
package server

import (
	"time"

	"kinship/internal/config"
	"kinship/internal/database"
	"kinship/internal/middleware"
	"kinship/internal/repository"
	"kinship/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds the fiber app and the service stack behind it.
type Server struct {
	App *fiber.App
	Cfg *config.Config
	DB  *gorm.DB
	RDB *redis.Client

	users         *service.UserService
	graph         *service.GraphService
	posts         *service.PostService
	engagement    *service.EngagementService
	notifications *service.NotificationService
}

// NewServer connects to the database and builds a fully wired server.
func NewServer(cfg *config.Config, rdb *redis.Client) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	return NewServerWithDeps(cfg, db, rdb), nil
}

// NewServerWithDeps builds the server on top of existing connections.
// Tests use it with sqlite and miniredis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *Server {
	userRepo := repository.NewUserRepository(db)
	relRepo := repository.NewRelationshipRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	bookmarkRepo := repository.NewBookmarkRepository(db)

	friendGraph := service.NewFriendGraph(relRepo, rdb)
	gate := service.NewAccessGate(userRepo, friendGraph)
	notifications := service.NewNotificationService(notifRepo)

	s := &Server{
		App: fiber.New(fiber.Config{
			AppName:      "kinship",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		}),
		Cfg:           cfg,
		DB:            db,
		RDB:           rdb,
		users:         service.NewUserService(userRepo),
		graph:         service.NewGraphService(relRepo, userRepo, friendGraph, notifications),
		posts:         service.NewPostService(postRepo, bookmarkRepo, userRepo, friendGraph, gate),
		engagement:    service.NewEngagementService(likeRepo, commentRepo, postRepo, gate, notifications),
		notifications: notifications,
	}

	s.SetupMiddleware()
	s.SetupRoutes()
	return s
}

// SetupMiddleware installs the global middleware chain.
func (s *Server) SetupMiddleware() {
	s.App.Use(recover.New())
	s.App.Use(requestid.New())
	s.App.Use(helmet.New())
	s.App.Use(cors.New(cors.Config{
		AllowOrigins: s.Cfg.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PATCH, DELETE, OPTIONS",
	}))

	prometheus := fiberprometheus.New("kinship")
	prometheus.RegisterAt(s.App, "/metrics")
	s.App.Use(prometheus.Middleware)

	s.App.Use(middleware.ContextMiddleware())
	s.App.Use(middleware.TracingMiddleware())
	s.App.Use(middleware.StructuredLogger())
}

// SetupRoutes registers every route of the API.
func (s *Server) SetupRoutes() {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := s.App.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", middleware.RateLimit(s.RDB, 5, time.Minute, "register"), s.handleRegister)
	auth.Post("/login", middleware.RateLimit(s.RDB, 10, time.Minute, "login"), s.handleLogin)

	users := api.Group("/users")
	users.Get("/me", middleware.AuthRequired, s.handleGetMe)
	users.Patch("/me", middleware.AuthRequired, s.handleUpdateMe)
	users.Get("/search", middleware.AuthRequired, s.handleSearchUsers)
	users.Get("/:id", middleware.OptionalAuth, s.handleGetUser)
	users.Get("/:id/posts", middleware.OptionalAuth, s.handleListUserPosts)

	friends := api.Group("/friends", middleware.AuthRequired)
	friends.Get("/", s.handleListFriends)
	friends.Delete("/:userId", s.handleRemoveFriend)
	friends.Get("/recommendations", s.handleRecommendations)
	friends.Post("/requests", s.handleSendRequest)
	friends.Get("/requests", s.handleListRequests)
	friends.Get("/requests/sent", s.handleListSentRequests)
	friends.Post("/requests/:id/accept", s.handleAcceptRequest)
	friends.Post("/requests/:id/reject", s.handleRejectRequest)
	friends.Delete("/requests/:id", s.handleCancelRequest)

	posts := api.Group("/posts")
	posts.Post("/", middleware.AuthRequired, s.handleCreatePost)
	posts.Get("/feed", middleware.AuthRequired, s.handleFeed)
	posts.Get("/:id", middleware.OptionalAuth, s.handleGetPost)
	posts.Delete("/:id", middleware.AuthRequired, s.handleDeletePost)
	posts.Post("/:id/comments", middleware.AuthRequired, s.handleAddComment)
	posts.Get("/:id/comments", middleware.OptionalAuth, s.handleListComments)
	posts.Post("/:id/like", middleware.AuthRequired, s.handleLikePost)
	posts.Delete("/:id/like", middleware.AuthRequired, s.handleUnlikePost)
	posts.Get("/:id/likes", middleware.OptionalAuth, s.handleListPostLikers)
	posts.Post("/:id/bookmark", middleware.AuthRequired, s.handleBookmark)
	posts.Delete("/:id/bookmark", middleware.AuthRequired, s.handleUnbookmark)

	comments := api.Group("/comments")
	comments.Delete("/:id", middleware.AuthRequired, s.handleDeleteComment)
	comments.Post("/:id/like", middleware.AuthRequired, s.handleLikeComment)
	comments.Delete("/:id/like", middleware.AuthRequired, s.handleUnlikeComment)
	comments.Get("/:id/likes", middleware.OptionalAuth, s.handleListCommentLikers)

	api.Get("/bookmarks", middleware.AuthRequired, s.handleListBookmarks)

	notifications := api.Group("/notifications", middleware.AuthRequired)
	notifications.Get("/", s.handleListNotifications)
	notifications.Get("/unread-count", s.handleUnreadCount)
	notifications.Post("/read-all", s.handleMarkAllRead)
	notifications.Post("/:id/read", s.handleMarkRead)
	notifications.Delete("/", s.handleDeleteAllNotifications)
	notifications.Delete("/:id", s.handleDeleteNotification)
}

// Listen starts serving on the configured port.
func (s *Server) Listen() error {
	return s.App.Listen(":" + s.Cfg.Port)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.App.Shutdown()
}
