// Package cache holds the status cache backends and the Redis lock used by the sweeper.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"jan-server/services/voicebot-api/internal/domain/bot"
	"jan-server/services/voicebot-api/internal/infrastructure/metrics"
)

const redisOpTimeout = 250 * time.Millisecond

func statusKey(uuid string) string {
	return keyPrefix + "status:" + uuid
}

// RedisStatusCache shares usable bots across replicas. Redis failures degrade to misses.
type RedisStatusCache struct {
	client redis.UniversalClient
	ttl    time.Duration
	log    zerolog.Logger
}

func NewRedisStatusCache(r *RedisClient, ttl time.Duration, log zerolog.Logger) *RedisStatusCache {
	return &RedisStatusCache{
		client: r.Client(),
		ttl:    ttl,
		log:    log.With().Str("component", "redis-status-cache").Logger(),
	}
}

func (c *RedisStatusCache) Get(ctx context.Context, uuid string) (*bot.Bot, bool) {
	opCtx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	raw, err := c.client.Get(opCtx, statusKey(uuid)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn().Err(err).Str("bot_uuid", uuid).Msg("status cache read failed")
		}
		metrics.RecordStatusCache("redis", false)
		return nil, false
	}

	var b bot.Bot
	if err := json.Unmarshal(raw, &b); err != nil {
		c.log.Warn().Err(err).Str("bot_uuid", uuid).Msg("discarding corrupt status cache entry")
		metrics.RecordStatusCache("redis", false)
		return nil, false
	}
	metrics.RecordStatusCache("redis", true)
	return &b, true
}

func (c *RedisStatusCache) Set(ctx context.Context, b *bot.Bot) {
	raw, err := json.Marshal(b)
	if err != nil {
		return
	}
	opCtx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()
	if err := c.client.Set(opCtx, statusKey(b.UUID), raw, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("bot_uuid", b.UUID).Msg("status cache write failed")
	}
}

func (c *RedisStatusCache) Invalidate(ctx context.Context, uuid string) {
	opCtx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()
	if err := c.client.Del(opCtx, statusKey(uuid)).Err(); err != nil {
		c.log.Warn().Err(err).Str("bot_uuid", uuid).Msg("status cache invalidation failed")
	}
}

type memoryEntry struct {
	bot       bot.Bot
	expiresAt time.Time
}

// MemoryStatusCache is a bounded in-process cache with per-entry expiry.
type MemoryStatusCache struct {
	cache *lru.Cache
	ttl   time.Duration
	now   func() time.Time
	mu    sync.Mutex
}

func NewMemoryStatusCache(maxEntries int, ttl time.Duration) (*MemoryStatusCache, error) {
	if maxEntries <= 0 {
		maxEntries = 4096
	}
	c, err := lru.New(maxEntries)
	if err != nil {
		return nil, err
	}
	return &MemoryStatusCache{cache: c, ttl: ttl, now: time.Now}, nil
}

func (c *MemoryStatusCache) Get(_ context.Context, uuid string) (*bot.Bot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.cache.Get(uuid)
	if !ok {
		metrics.RecordStatusCache("memory", false)
		return nil, false
	}
	entry := v.(memoryEntry)
	if c.now().After(entry.expiresAt) {
		c.cache.Remove(uuid)
		metrics.RecordStatusCache("memory", false)
		return nil, false
	}
	metrics.RecordStatusCache("memory", true)
	b := entry.bot
	return &b, true
}

func (c *MemoryStatusCache) Set(_ context.Context, b *bot.Bot) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Add(b.UUID, memoryEntry{bot: *b, expiresAt: c.now().Add(c.ttl)})
}

func (c *MemoryStatusCache) Invalidate(_ context.Context, uuid string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Remove(uuid)
}
