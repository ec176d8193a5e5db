// Package cache provides the Redis client shared by the rate limiter.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"togather/internal/middleware"
	"togather/internal/observability"

	"github.com/redis/go-redis/v9"
)

var client *redis.Client

type metricsHook struct{}

func (metricsHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (metricsHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if err != nil && !errors.Is(err, redis.Nil) {
			observability.RedisErrorRate.WithLabelValues(cmd.Name()).Inc()
		}
		return err
	}
}

func (metricsHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		if err != nil && !errors.Is(err, redis.Nil) {
			observability.RedisErrorRate.WithLabelValues("pipeline").Inc()
		}
		return err
	}
}

// NewClient parses addr, either a redis:// URL or host:port, and returns a
// client with the metrics hook installed. It does not dial.
func NewClient(addr string) (*redis.Client, error) {
	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL %q: %w", addr, err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}

	rdb := redis.NewClient(opts)
	rdb.AddHook(metricsHook{})
	return rdb, nil
}

// InitRedis connects to Redis. On failure the client stays nil and the
// application runs without rate limiting.
func InitRedis(addr string) {
	rdb, err := NewClient(addr)
	if err != nil {
		middleware.Logger.Warn("Redis disabled", slog.String("error", err.Error()))
		client = nil
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		middleware.Logger.Warn("Redis unreachable, continuing without rate limiting", slog.String("error", err.Error()))
		_ = rdb.Close()
		client = nil
		return
	}
	middleware.Logger.Info("Redis connected successfully")
	client = rdb
}

// GetClient returns the current Redis client, or nil when Redis is disabled.
func GetClient() *redis.Client {
	return client
}
