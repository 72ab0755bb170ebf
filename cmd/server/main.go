package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kinship/internal/cache"
	"kinship/internal/config"
	"kinship/internal/middleware"
	"kinship/internal/observability"
	"kinship/internal/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		middleware.Logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	middleware.InitMiddleware(cfg)

	shutdownTracing, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:    "kinship-api",
		ServiceVersion: "1.0.0",
		Environment:    cfg.Env,
		Enabled:        cfg.TracingEnabled,
		Exporter:       cfg.TracingExporter,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SamplerRatio:   cfg.TracingSampler,
	})
	if err != nil {
		middleware.Logger.Error("failed to initialize tracing", "error", err)
		os.Exit(1)
	}

	rdb := cache.InitRedis(cfg.RedisURL)

	srv, err := server.NewServer(cfg, rdb)
	if err != nil {
		middleware.Logger.Error("failed to initialize server", "error", err)
		os.Exit(1)
	}

	go func() {
		middleware.Logger.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.Listen(); err != nil {
			middleware.Logger.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	middleware.Logger.Info("shutting down")

	if err := srv.Shutdown(); err != nil {
		middleware.Logger.Error("server shutdown failed", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracing(ctx); err != nil {
		middleware.Logger.Error("tracing shutdown failed", "error", err)
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			middleware.Logger.Error("redis close failed", "error", err)
		}
	}

	middleware.Logger.Info("shutdown complete")
}
