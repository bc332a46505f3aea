package component

import (
	"context"

	"github.com/ssuji15/pokecli/internal/cache"
	"github.com/ssuji15/pokecli/internal/cache/freecache"
	"github.com/ssuji15/pokecli/internal/cache/jetstream"
	"github.com/ssuji15/pokecli/internal/cache/memory"
	"github.com/ssuji15/pokecli/internal/cache/redis"
	cjetstream "github.com/ssuji15/pokecli/internal/component/jetstream"
	credis "github.com/ssuji15/pokecli/internal/component/redis"
	"github.com/ssuji15/pokecli/internal/config"
	"github.com/ssuji15/pokecli/internal/tracer"
)

// GetCache builds the backend named by cacheType. It returns a nil Cache
// for "none" or when caching is disabled.
func GetCache(ctx context.Context, cacheType string, cacheCfg *config.CacheConfig) (cache.Cache, error) {
	if !cacheCfg.ENABLED {
		return nil, nil
	}
	switch cacheType {
	case "none":
		return nil, nil
	case "freecache":
		cfg, err := config.GetFreeCacheConfig()
		if err != nil {
			return nil, err
		}
		return freecache.NewFreeCache(cfg, cacheCfg.TTL), nil
	case "redis":
		cfg, err := config.GetRedisConfig()
		if err != nil {
			return nil, err
		}
		rc, err := credis.NewRedisClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return redis.NewRedisCache(rc, cfg.KEY_PREFIX, cacheCfg.TTL), nil
	case "jetstream":
		cfg, err := config.GetNatsConfig()
		if err != nil {
			return nil, err
		}
		nc, err := cjetstream.NewJetStreamClient(cfg)
		if err != nil {
			return nil, err
		}
		jc, err := jetstream.NewJetStreamCache(nc, cfg, cacheCfg.TTL)
		if err != nil {
			nc.Close()
			return nil, err
		}
		return jc, nil
	default:
		return memory.New(
			memory.WithDefaultTTL(cacheCfg.TTL),
			memory.WithMeter(tracer.GetMeter()),
		), nil
	}
}
