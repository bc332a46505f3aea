package freecache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	fc "github.com/coocood/freecache"
	"github.com/ssuji15/pokecli/internal/cache"
	"github.com/ssuji15/pokecli/internal/config"
)

type FreeCache struct {
	cache *fc.Cache
	ttl   time.Duration
}

// NewFreeCache returns a size-bounded in-process cache. freecache tracks
// expiry in whole seconds, so ttls are rounded up.
func NewFreeCache(cfg *config.FreeCacheConfig, ttl time.Duration) *FreeCache {
	return &FreeCache{
		cache: fc.NewCache(cfg.SIZE_BYTES),
		ttl:   ttl,
	}
}

func (c *FreeCache) Put(ctx context.Context, key string, value any, ttl time.Duration) error {
	if key == "" {
		return cache.NewError("put", key, cache.ErrInvalidKey, nil)
	}
	if value == nil {
		return cache.NewError("put", key, cache.ErrInvalidValue, nil)
	}
	data, err := json.Marshal(value)
	if err != nil {
		return cache.NewError("put", key, cache.ErrSerialize, err)
	}

	// freecache treats 0 as "never expires"
	if ttl <= 0 {
		c.cache.Del([]byte(key))
		return nil
	}
	if err := c.cache.Set([]byte(key), data, seconds(ttl)); err != nil {
		return cache.NewError("put", key, cache.ErrBackend, err)
	}
	return nil
}

func (c *FreeCache) Get(ctx context.Context, key string, out any) (bool, error) {
	if key == "" {
		return false, cache.NewError("get", key, cache.ErrInvalidKey, nil)
	}
	if out == nil {
		return false, cache.NewError("get", key, cache.ErrInvalidValue, nil)
	}
	data, err := c.cache.Get([]byte(key))
	if errors.Is(err, fc.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, cache.NewError("get", key, cache.ErrBackend, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, cache.NewError("get", key, cache.ErrDeserialize, err)
	}
	return true, nil
}

func (c *FreeCache) Clear(ctx context.Context) error {
	c.cache.Clear()
	return nil
}

func (c *FreeCache) GetDefaultTTL() time.Duration {
	return c.ttl
}

func (c *FreeCache) ShutDown(ctx context.Context) {
	c.cache.Clear()
}

func seconds(ttl time.Duration) int {
	s := int(ttl / time.Second)
	if ttl%time.Second != 0 {
		s++
	}
	return s
}

var _ cache.Cache = (*FreeCache)(nil)
