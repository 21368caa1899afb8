package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimitConfig defines the submission budget per student.
type RateLimitConfig struct {
	MaxSubmissions int
	Window         time.Duration
}

// RateLimiter counts submissions per student in fixed windows.
type RateLimiter struct {
	rdb    redis.Cmdable
	config RateLimitConfig
}

// InitRedis connects to Redis and verifies the connection.
func InitRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return rdb, nil
}

func NewRateLimiter(rdb redis.Cmdable, config RateLimitConfig) *RateLimiter {
	return &RateLimiter{rdb: rdb, config: config}
}

func submissionKey(student string) string {
	return fmt.Sprintf("rate:submission:%s", strings.ToLower(strings.TrimSpace(student)))
}

// Allow records a submission attempt and reports whether it fits the budget.
func (rl *RateLimiter) Allow(ctx context.Context, student string) (bool, error) {
	if rl == nil || rl.rdb == nil {
		return false, fmt.Errorf("Redis client not available")
	}

	key := submissionKey(student)
	count, err := rl.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}

	allowed := count <= int64(rl.config.MaxSubmissions)

	// NX on every hit: a window whose first EXPIRE failed gets its TTL on
	// the next attempt instead of living forever.
	if err := rl.rdb.ExpireNX(ctx, key, rl.config.Window).Err(); err != nil {
		return allowed, err
	}

	return allowed, nil
}
