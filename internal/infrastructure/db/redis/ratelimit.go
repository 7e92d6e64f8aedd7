package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const loginWindow = time.Minute

// LoginLimiter throttles login attempts per email using a fixed one-minute
// window counter in Redis.
// Key format: login_attempts:<email>
type LoginLimiter struct {
	client    *redis.Client
	perMinute int
}

// NewLoginLimiter creates a LoginLimiter allowing perMinute attempts per
// email per minute.
func NewLoginLimiter(client *redis.Client, perMinute int) *LoginLimiter {
	return &LoginLimiter{client: client, perMinute: perMinute}
}

// Allow reports whether another login attempt for this email fits in the
// current window, counting the attempt as a side effect.
func (l *LoginLimiter) Allow(ctx context.Context, email string) (bool, error) {
	key := l.key(email)

	n, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("rate limit incr: %w", err)
	}
	if n == 1 {
		if err := l.client.Expire(ctx, key, loginWindow).Err(); err != nil {
			return false, fmt.Errorf("rate limit expire: %w", err)
		}
	}

	return n <= int64(l.perMinute), nil
}

func (l *LoginLimiter) key(email string) string {
	return fmt.Sprintf("login_attempts:%s", email)
}
