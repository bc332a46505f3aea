package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/ssuji15/pokecli/internal/cache"
	"github.com/ssuji15/pokecli/internal/service/logger"
	"github.com/ssuji15/pokecli/internal/tracer"
	"github.com/ssuji15/pokecli/internal/util"
	"github.com/vmihailenco/msgpack/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const scanBatch = 100

type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCache namespaces every key with prefix so Clear only touches
// entries this cache wrote.
func NewRedisCache(client *redis.Client, prefix string, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (r *RedisCache) Put(ctx context.Context, key string, value any, ttl time.Duration) error {
	ctx, span := tracer.GetTracer().Start(ctx, "Redis/Put")
	defer span.End()
	if key == "" {
		err := cache.NewError("put", key, cache.ErrInvalidKey, nil)
		util.RecordSpanError(span, err)
		return err
	}
	span.AddEvent("redis.context",
		trace.WithAttributes(attribute.String("key", key)),
	)
	if value == nil {
		err := cache.NewError("put", key, cache.ErrInvalidValue, nil)
		util.RecordSpanError(span, err)
		return err
	}
	b, err := msgpack.Marshal(value)
	if err != nil {
		err := cache.NewError("put", key, cache.ErrSerialize, err)
		util.RecordSpanError(span, err)
		return err
	}

	// redis treats a zero expiration as "keep forever"
	if ttl <= 0 {
		err = r.client.Del(ctx, r.prefix+key).Err()
	} else {
		err = r.client.Set(ctx, r.prefix+key, b, ttl).Err()
	}
	if err != nil {
		err = cache.NewError("put", key, cache.ErrBackend, err)
		util.RecordSpanError(span, err)
		return err
	}
	return nil
}

// out must be a non-nil pointer to the destination type.
func (r *RedisCache) Get(ctx context.Context, key string, out any) (bool, error) {
	ctx, span := tracer.GetTracer().Start(ctx, "Redis/Get")
	defer span.End()
	if key == "" {
		err := cache.NewError("get", key, cache.ErrInvalidKey, nil)
		util.RecordSpanError(span, err)
		return false, err
	}
	span.AddEvent("redis.context",
		trace.WithAttributes(attribute.String("key", key)),
	)
	if out == nil {
		err := cache.NewError("get", key, cache.ErrInvalidValue, nil)
		util.RecordSpanError(span, err)
		return false, err
	}

	val, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		span.SetAttributes(attribute.Bool("cache.hit", false))
		return false, nil
	}
	if err != nil {
		err = cache.NewError("get", key, cache.ErrBackend, err)
		util.RecordSpanError(span, err)
		return false, err
	}
	if err := msgpack.Unmarshal(val, out); err != nil {
		err := cache.NewError("get", key, cache.ErrDeserialize, err)
		util.RecordSpanError(span, err)
		return false, err
	}
	span.SetAttributes(attribute.Bool("cache.hit", true))
	return true, nil
}

func (r *RedisCache) Clear(ctx context.Context) error {
	ctx, span := tracer.GetTracer().Start(ctx, "Redis/Clear")
	defer span.End()

	iter := r.client.Scan(ctx, 0, r.prefix+"*", scanBatch).Iterator()
	batch := make([]string, 0, scanBatch)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanBatch {
			if err := r.client.Del(ctx, batch...).Err(); err != nil {
				util.RecordSpanError(span, err)
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		util.RecordSpanError(span, err)
		return err
	}
	if len(batch) > 0 {
		if err := r.client.Del(ctx, batch...).Err(); err != nil {
			util.RecordSpanError(span, err)
			return err
		}
	}
	return nil
}

func (r *RedisCache) GetDefaultTTL() time.Duration {
	return r.ttl
}

func (r *RedisCache) ShutDown(ctx context.Context) {
	if err := r.client.Close(); err != nil {
		logger.Log.Err(err).Msg("unable to close redis connection")
	}
}

var _ cache.Cache = (*RedisCache)(nil)
