package main

import (
	"context"
	"flag"
	"os"

	"kinship/internal/config"
	"kinship/internal/database"
	"kinship/internal/middleware"
	"kinship/internal/seed"
)

func main() {
	users := flag.Int("users", seed.DefaultOptions.Users, "number of users to create")
	posts := flag.Int("posts", seed.DefaultOptions.PostsPerUser, "posts per user")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		middleware.Logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if cfg.IsProduction() {
		middleware.Logger.Error("refusing to seed a production database")
		os.Exit(1)
	}

	middleware.InitMiddleware(cfg)

	db, err := database.Connect(cfg)
	if err != nil {
		middleware.Logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	opts := seed.DefaultOptions
	opts.Users = *users
	opts.PostsPerUser = *posts

	if err := seed.Run(context.Background(), db, opts); err != nil {
		middleware.Logger.Error("seeding failed", "error", err)
		os.Exit(1)
	}

	middleware.Logger.Info("seeding complete")
}
