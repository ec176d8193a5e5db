package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"togather/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// FailPolicy defines the behavior when the rate limit store is unavailable.
type FailPolicy int

const (
	// FailOpen lets the request through when Redis is unavailable.
	FailOpen FailPolicy = iota
	// FailClosed answers 503 when Redis is unavailable.
	FailClosed
)

// rateLimitBypassed reports whether limits are off for the current APP_ENV.
func rateLimitBypassed() bool {
	switch os.Getenv("APP_ENV") {
	case "", "test", "development":
		return true
	}
	return false
}

// CheckRateLimit counts one hit for (resource, id) in a fixed window and
// reports whether the caller is still within limit.
func CheckRateLimit(ctx context.Context, rdb *redis.Client, resource, id string, limit int, window time.Duration) (bool, error) {
	if rateLimitBypassed() {
		return true, nil
	}
	if rdb == nil {
		return false, fmt.Errorf("redis client is nil")
	}

	ctx, span := observability.StartRedisOperation(ctx, "incr")
	defer span.End()

	key := fmt.Sprintf("rl:%s:%s", resource, id)
	cnt, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if cnt == 1 {
		if err := rdb.Expire(ctx, key, window).Err(); err != nil {
			return false, err
		}
	}
	return cnt <= int64(limit), nil
}

// RateLimit enforces limit requests per window, keyed by user when
// authenticated and by IP otherwise. It fails open.
func RateLimit(rdb *redis.Client, limit int, window time.Duration, name ...string) fiber.Handler {
	return RateLimitWithPolicy(rdb, limit, window, FailOpen, name...)
}

// RateLimitWithPolicy is RateLimit with an explicit failure policy.
func RateLimitWithPolicy(rdb *redis.Client, limit int, window time.Duration, policy FailPolicy, name ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var id string
		if uid, ok := CurrentUserID(c); ok {
			id = fmt.Sprintf("user:%d", uid)
		} else {
			id = fmt.Sprintf("ip:%s", c.IP())
		}

		resource := c.Path()
		if len(name) > 0 {
			resource = name[0]
		}

		allowed, err := CheckRateLimit(c.UserContext(), rdb, resource, id, limit, window)
		if err != nil {
			if policy == FailClosed {
				Logger.WarnContext(c.UserContext(), "rate limit store unavailable, failing closed",
					slog.String("resource", resource),
					slog.String("error", err.Error()),
				)
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"error": "잠시 후 다시 시도해 주세요.",
				})
			}
			return c.Next()
		}

		if !allowed {
			observability.RateLimitRejections.WithLabelValues(resource).Inc()
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "요청이 너무 많습니다. 잠시 후 다시 시도해 주세요.",
			})
		}
		return c.Next()
	}
}
