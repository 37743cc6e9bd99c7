package booking

import (
	"context"
	"encoding/json"
	"time"

	"huddle/models"

	"github.com/go-redis/redis/v8"
)

// ViewCache caches the read-only occupancy view served to clients. The
// authoritative conflict check never reads it; a miss or a stale entry only
// costs a trip to the store.
type ViewCache interface {
	Get(ctx context.Context) ([]models.Booking, bool)
	Set(ctx context.Context, bookings []models.Booking)
}

const viewCacheKey = "bookings:view"

// RedisViewCache holds the occupancy view under a short TTL, so a fresh
// commit becomes visible within one TTL at worst.
type RedisViewCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisViewCache(client *redis.Client, ttl time.Duration) *RedisViewCache {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &RedisViewCache{client: client, ttl: ttl}
}

func (c *RedisViewCache) Get(ctx context.Context) ([]models.Booking, bool) {
	val, err := c.client.Get(ctx, viewCacheKey).Result()
	if err != nil {
		return nil, false
	}
	var bookings []models.Booking
	if err := json.Unmarshal([]byte(val), &bookings); err != nil {
		return nil, false
	}
	return bookings, true
}

func (c *RedisViewCache) Set(ctx context.Context, bookings []models.Booking) {
	data, err := json.Marshal(bookings)
	if err != nil {
		return
	}
	c.client.Set(ctx, viewCacheKey, data, c.ttl)
}
