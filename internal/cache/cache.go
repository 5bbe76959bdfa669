package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Tiered is an in-process LRU (L1) in front of redis (L2). Values are stored
// as JSON so any serialisable type can be cached. A nil redis client turns it
// into an L1-only cache.
type Tiered struct {
	l1     *LRU[[]byte]
	l2     *redis.Client
	l2TTL  time.Duration
	prefix string
}

func NewTiered(prefix string, l1Capacity int, redisClient *redis.Client, l2TTL time.Duration) *Tiered {
	return &Tiered{
		l1:     NewLRU[[]byte](l1Capacity, l2TTL),
		l2:     redisClient,
		l2TTL:  l2TTL,
		prefix: prefix,
	}
}

// Get decodes the cached value for key into dest and reports whether it was found.
// L2 failures are treated as misses.
func (c *Tiered) Get(ctx context.Context, key string, dest any) (bool, error) {
	k := c.prefix + key

	raw, found := c.l1.Get(k)
	if !found && c.l2 != nil {
		val, err := c.l2.Get(ctx, k).Bytes()
		if err != nil && !errors.Is(err, redis.Nil) {
			return false, nil
		}
		if err == nil {
			raw, found = val, true
			c.l1.Set(k, val)
		}
	}
	if !found {
		return false, nil
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("failed to decode cached %s: %w", k, err)
	}
	return true, nil
}

func (c *Tiered) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	k := c.prefix + key
	c.l1.Set(k, raw)
	if c.l2 == nil {
		return nil
	}
	return c.l2.Set(ctx, k, raw, c.l2TTL).Err()
}

func (c *Tiered) Delete(ctx context.Context, key string) error {
	k := c.prefix + key
	c.l1.Delete(k)
	if c.l2 == nil {
		return nil
	}
	return c.l2.Del(ctx, k).Err()
}
