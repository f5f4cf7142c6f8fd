package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	appval "github.com/assetreg/backend/internal/application/valuation"
	"github.com/assetreg/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	defaultSummaryKeyPrefix = "valuation:summary:"
	defaultSummaryTTL       = 10 * time.Minute
)

// RedisSummaryCache implements SummaryCache using Redis.
// Summaries are msgpack-encoded under "<prefix><generation>:<label>".
// Invalidate bumps the generation so every older key becomes unreachable
// and expires through its TTL.
type RedisSummaryCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisSummaryCache creates a new Redis-based summary cache
func NewRedisSummaryCache(cfg config.RedisConfig, ttl time.Duration) (*RedisSummaryCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisSummaryCacheWithClient(client, "", ttl), nil
}

// NewRedisSummaryCacheWithClient creates a cache with an existing Redis client
func NewRedisSummaryCacheWithClient(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisSummaryCache {
	if keyPrefix == "" {
		keyPrefix = defaultSummaryKeyPrefix
	}
	if ttl <= 0 {
		ttl = defaultSummaryTTL
	}
	return &RedisSummaryCache{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

// Get returns the cached summary of a financial year
func (c *RedisSummaryCache) Get(ctx context.Context, label string) (*appval.SummaryResponse, bool, error) {
	key, err := c.key(ctx, label)
	if err != nil {
		return nil, false, err
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read summary %s: %w", label, err)
	}

	var summary appval.SummaryResponse
	if err := msgpack.Unmarshal(raw, &summary); err != nil {
		return nil, false, fmt.Errorf("failed to decode summary %s: %w", label, err)
	}
	return &summary, true, nil
}

// Set stores a summary under the current generation
func (c *RedisSummaryCache) Set(ctx context.Context, label string, summary *appval.SummaryResponse) error {
	raw, err := msgpack.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to encode summary %s: %w", label, err)
	}

	key, err := c.key(ctx, label)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store summary %s: %w", label, err)
	}
	return nil
}

// Invalidate drops every cached summary
func (c *RedisSummaryCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, c.generationKey()).Err(); err != nil {
		return fmt.Errorf("failed to invalidate summaries: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (c *RedisSummaryCache) Close() error {
	return c.client.Close()
}

func (c *RedisSummaryCache) generationKey() string {
	return c.keyPrefix + "generation"
}

func (c *RedisSummaryCache) key(ctx context.Context, label string) (string, error) {
	gen, err := c.client.Get(ctx, c.generationKey()).Int64()
	if errors.Is(err, redis.Nil) {
		gen = 0
	} else if err != nil {
		return "", fmt.Errorf("failed to read summary generation: %w", err)
	}
	return c.keyPrefix + strconv.FormatInt(gen, 10) + ":" + label, nil
}

// Ensure RedisSummaryCache implements SummaryCache
var _ appval.SummaryCache = (*RedisSummaryCache)(nil)
