package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "lectern:narration:"

// Store is a string key/value store with expiry.
type Store interface {
	// Get returns ok=false on a miss.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// CachedBackend serves repeated prompts from a Store.
// Only non-blank responses are cached; cache failures fall through to the backend.
type CachedBackend struct {
	next  Backend
	store Store
	ttl   time.Duration
}

// NewCached wraps next with a response cache.
func NewCached(next Backend, store Store, ttl time.Duration) *CachedBackend {
	return &CachedBackend{next: next, store: store, ttl: ttl}
}

// Name returns the wrapped backend's name.
func (c *CachedBackend) Name() string { return c.next.Name() }

// Model returns the wrapped backend's model.
func (c *CachedBackend) Model() string { return c.next.Model() }

// Generate returns a cached response when present, else calls the backend.
func (c *CachedBackend) Generate(ctx context.Context, prompt string, temperature float64) (string, error) {
	key := c.key(prompt, temperature)

	if v, ok, err := c.store.Get(ctx, key); err != nil {
		slog.Warn("narration cache read failed", "error", err)
	} else if ok {
		return v, nil
	}

	out, err := c.next.Generate(ctx, prompt, temperature)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(out) != "" {
		if err := c.store.Set(ctx, key, out, c.ttl); err != nil {
			slog.Warn("narration cache write failed", "error", err)
		}
	}
	return out, nil
}

func (c *CachedBackend) key(prompt string, temperature float64) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%.3f\x00", c.next.Name(), c.next.Model(), temperature)
	h.Write([]byte(prompt))
	return cacheKeyPrefix + hex.EncodeToString(h.Sum(nil))
}

// RedisStore is a Store on a Redis server.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore connects lazily to addr.
func NewRedisStore(addr string) *RedisStore {
	return &RedisStore{rdb: redis.NewClient(&redis.Options{Addr: addr})}
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.rdb.Get(ctx, key).Result()
	if stderrors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// Set implements Store.
func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.rdb.Set(ctx, key, value, ttl).Err()
}

// Close releases the Redis connection pool.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
