package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/assetreg/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
)

// TokenBlacklist records revoked access tokens. A single token is revoked on
// logout; all of a user's tokens are revoked when the user is deactivated.
type TokenBlacklist interface {
	// Revoke rejects the token with this JTI until ttl has passed
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)

	// RevokeUser rejects every token issued to the user up to now
	RevokeUser(ctx context.Context, userID string, ttl time.Duration) error
	IsUserRevoked(ctx context.Context, userID string, issuedAt time.Time) (bool, error)
}

const blacklistKeyPrefix = "ams:token:revoked:"

// RedisTokenBlacklist shares revocations between instances through Redis
type RedisTokenBlacklist struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisTokenBlacklist connects to Redis and verifies the connection
func NewRedisTokenBlacklist(cfg config.RedisConfig) (*RedisTokenBlacklist, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis for token blacklist: %w", err)
	}

	return &RedisTokenBlacklist{client: client, now: time.Now}, nil
}

func jtiKey(jti string) string       { return blacklistKeyPrefix + "jti:" + jti }
func userKey(userID string) string   { return blacklistKeyPrefix + "user:" + userID }
func unixNano(t time.Time) string    { return strconv.FormatInt(t.UnixNano(), 10) }
func keepFor(ttl time.Duration) bool { return ttl > 0 }

// Revoke implements TokenBlacklist
func (b *RedisTokenBlacklist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if !keepFor(ttl) {
		return nil
	}
	if err := b.client.Set(ctx, jtiKey(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsRevoked implements TokenBlacklist
func (b *RedisTokenBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := b.client.Exists(ctx, jtiKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return n > 0, nil
}

// RevokeUser implements TokenBlacklist. Tokens whose issued-at is at or
// before the stored revocation time are rejected.
func (b *RedisTokenBlacklist) RevokeUser(ctx context.Context, userID string, ttl time.Duration) error {
	if !keepFor(ttl) {
		return nil
	}
	if err := b.client.Set(ctx, userKey(userID), unixNano(b.now()), ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke user tokens: %w", err)
	}
	return nil
}

// IsUserRevoked implements TokenBlacklist
func (b *RedisTokenBlacklist) IsUserRevoked(ctx context.Context, userID string, issuedAt time.Time) (bool, error) {
	revokedAt, err := b.client.Get(ctx, userKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check user revocation: %w", err)
	}
	return issuedAt.UnixNano() <= revokedAt, nil
}

// Ping reports whether Redis is reachable
func (b *RedisTokenBlacklist) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

// Close closes the Redis client
func (b *RedisTokenBlacklist) Close() error {
	return b.client.Close()
}

var _ TokenBlacklist = (*RedisTokenBlacklist)(nil)

// InMemoryTokenBlacklist keeps revocations in process. Revocations are lost on
// restart and not shared between instances.
type InMemoryTokenBlacklist struct {
	mu    sync.Mutex
	jtis  map[string]time.Time // jti -> expiry
	users map[string]revocation
	now   func() time.Time
}

type revocation struct {
	at      time.Time
	expires time.Time
}

// NewInMemoryTokenBlacklist creates an empty in-memory blacklist
func NewInMemoryTokenBlacklist() *InMemoryTokenBlacklist {
	return &InMemoryTokenBlacklist{
		jtis:  make(map[string]time.Time),
		users: make(map[string]revocation),
		now:   time.Now,
	}
}

// Revoke implements TokenBlacklist
func (b *InMemoryTokenBlacklist) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if !keepFor(ttl) {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.jtis[jti] = b.now().Add(ttl)
	return nil
}

// IsRevoked implements TokenBlacklist
func (b *InMemoryTokenBlacklist) IsRevoked(_ context.Context, jti string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	expires, ok := b.jtis[jti]
	if !ok {
		return false, nil
	}
	if !b.now().Before(expires) {
		delete(b.jtis, jti)
		return false, nil
	}
	return true, nil
}

// RevokeUser implements TokenBlacklist
func (b *InMemoryTokenBlacklist) RevokeUser(_ context.Context, userID string, ttl time.Duration) error {
	if !keepFor(ttl) {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	now := b.now()
	b.users[userID] = revocation{at: now, expires: now.Add(ttl)}
	return nil
}

// IsUserRevoked implements TokenBlacklist
func (b *InMemoryTokenBlacklist) IsUserRevoked(_ context.Context, userID string, issuedAt time.Time) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	r, ok := b.users[userID]
	if !ok {
		return false, nil
	}
	if !b.now().Before(r.expires) {
		delete(b.users, userID)
		return false, nil
	}
	return !issuedAt.After(r.at), nil
}

var _ TokenBlacklist = (*InMemoryTokenBlacklist)(nil)
