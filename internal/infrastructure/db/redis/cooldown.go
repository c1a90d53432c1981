package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultCooldown = time.Minute

// CooldownLimiter rate-limits token issuance per key, backed by Redis.
// Key format: cooldown:<flow>:<user_or_email_id>
type CooldownLimiter struct {
	client *redis.Client
	window time.Duration
}

// NewCooldownLimiter creates a CooldownLimiter wrapping the given client.
// If window <= 0, defaultCooldown is used.
func NewCooldownLimiter(client *redis.Client, window time.Duration) *CooldownLimiter {
	if window <= 0 {
		window = defaultCooldown
	}
	return &CooldownLimiter{client: client, window: window}
}

// TryAcquire reports whether the key was free. On success the key is held
// for the cooldown window; a second call inside the window returns false.
func (c *CooldownLimiter) TryAcquire(ctx context.Context, key string) (bool, error) {
	ok, err := c.client.SetNX(ctx, "cooldown:"+key, "1", c.window).Result()
	if err != nil {
		return false, fmt.Errorf("cooldown acquire: %w", err)
	}
	return ok, nil
}
