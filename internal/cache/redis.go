// Package cache provides Redis-backed caching for the application.
package cache

import (
	"context"
	"net"
	"time"

	"kinship/internal/middleware"
	"kinship/internal/observability"

	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// metricsHook records Redis command failures as Prometheus counters.
type metricsHook struct{}

func (metricsHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := next(ctx, network, addr)
		if err != nil {
			observability.RedisErrors.WithLabelValues("dial").Inc()
		}
		return conn, err
	}
}

func (metricsHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if err != nil && err != redis.Nil {
			observability.RedisErrors.WithLabelValues(cmd.Name()).Inc()
		}
		return err
	}
}

func (metricsHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		if err != nil && err != redis.Nil {
			observability.RedisErrors.WithLabelValues("pipeline").Inc()
		}
		return err
	}
}

// InitRedis connects to Redis at addr and installs the metrics hook.
// A failed ping is logged but not fatal; callers treat the cache as
// best-effort and fall through to the database.
func InitRedis(addr string) *redis.Client {
	client = redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})
	client.AddHook(metricsHook{})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		middleware.Logger.Warn("Redis unavailable, continuing without cache", "addr", addr, "error", err)
	} else {
		middleware.Logger.Info("Redis connected", "addr", addr)
	}

	return client
}

// GetClient returns the global Redis client, or nil when uninitialized.
func GetClient() *redis.Client {
	return client
}

// SetClient replaces the global client. Used by tests with miniredis.
func SetClient(c *redis.Client) {
	client = c
}
