// Package cache mirrors small, hot read paths in Redis: the per-user
// onboarding flag (the database stays the source of truth) and the
// leaderboard page. The cache is optional; without a configured Redis
// address every operation is a no-op and callers fall through to the
// database.
package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kim-yukonthorn/bible-tracker/internal/models"
)

const (
	onboardingKeyPrefix = "onboarding_seen:"
	leaderboardKey      = "leaderboard:top"
	leaderboardTTL      = 30 * time.Second
)

// Cache wraps an optional Redis client
type Cache struct {
	client *redis.Client
}

// New connects to Redis, or returns a disabled cache when addr is empty
func New(addr, password string) *Cache {
	if addr == "" {
		log.Println("Cache disabled: REDIS_ADDR not configured")
		return &Cache{}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Printf("Cache disabled: failed to connect to Redis at %s: %v", addr, err)
		return &Cache{}
	}

	log.Printf("Cache enabled: redis at %s", addr)
	return &Cache{client: client}
}

// IsEnabled returns whether a Redis connection is available
func (c *Cache) IsEnabled() bool {
	return c.client != nil
}

// MarkOnboardingSeen records that the user has completed onboarding.
// The mark never expires; it mirrors a write-once flag
func (c *Cache) MarkOnboardingSeen(ctx context.Context, userID string) {
	if c.client == nil {
		return
	}
	if err := c.client.Set(ctx, onboardingKeyPrefix+userID, "1", 0).Err(); err != nil {
		log.Printf("cache: failed to mark onboarding for %s: %v", userID, err)
	}
}

// HasSeenOnboarding reports (seen, known). known=false means the cache
// has no answer and the caller must ask the database
func (c *Cache) HasSeenOnboarding(ctx context.Context, userID string) (bool, bool) {
	if c.client == nil {
		return false, false
	}
	val, err := c.client.Get(ctx, onboardingKeyPrefix+userID).Result()
	if err == redis.Nil {
		return false, false
	}
	if err != nil {
		log.Printf("cache: failed to read onboarding for %s: %v", userID, err)
		return false, false
	}
	return val == "1", true
}

// GetLeaderboard returns the cached leaderboard page if present
func (c *Cache) GetLeaderboard(ctx context.Context) ([]models.LeaderboardEntry, bool) {
	if c.client == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, leaderboardKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("cache: failed to read leaderboard: %v", err)
		}
		return nil, false
	}

	var entries []models.LeaderboardEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, false
	}
	return entries, true
}

// SetLeaderboard stores the leaderboard page with a short TTL
func (c *Cache) SetLeaderboard(ctx context.Context, entries []models.LeaderboardEntry) {
	if c.client == nil {
		return
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, leaderboardKey, data, leaderboardTTL).Err(); err != nil {
		log.Printf("cache: failed to store leaderboard: %v", err)
	}
}

// InvalidateLeaderboard drops the cached page. Called after any score
// resync so ranks never lag a submission by more than one read
func (c *Cache) InvalidateLeaderboard(ctx context.Context) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, leaderboardKey).Err(); err != nil {
		log.Printf("cache: failed to invalidate leaderboard: %v", err)
	}
}
