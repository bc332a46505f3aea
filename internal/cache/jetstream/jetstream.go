package jetstream

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/ssuji15/pokecli/internal/cache"
	"github.com/ssuji15/pokecli/internal/config"
	"github.com/ssuji15/pokecli/internal/service/logger"
	"github.com/ssuji15/pokecli/internal/tracer"
	"github.com/ssuji15/pokecli/internal/util"
	"github.com/vmihailenco/msgpack/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// envelope carries the per-entry deadline. Object store TTL is bucket wide,
// so liveness is checked on read the same way the memory store does it.
type envelope struct {
	Payload   []byte `msgpack:"p"`
	ExpiresAt int64  `msgpack:"e"`
}

type JetStreamCache struct {
	connection *nats.Conn
	bucket     nats.ObjectStore
	ttl        time.Duration
	now        func() time.Time
}

func NewJetStreamCache(nc *nats.Conn, cfg *config.NatsConfig, ttl time.Duration) (*JetStreamCache, error) {
	js, err := nc.JetStream()
	if err != nil {
		return nil, err
	}
	os, err := createOrGetObjectStore(js, cfg.BUCKET_NAME, cfg.TTL, cfg.BUCKET_SIZE_BYTES)
	if err != nil {
		return nil, err
	}
	return &JetStreamCache{
		connection: nc,
		bucket:     os,
		ttl:        ttl,
		now:        time.Now,
	}, nil
}

func (j *JetStreamCache) Put(ctx context.Context, key string, value any, ttl time.Duration) error {
	_, span := tracer.GetTracer().Start(ctx, "Nats/Put")
	defer span.End()

	if key == "" {
		err := cache.NewError("put", key, cache.ErrInvalidKey, nil)
		util.RecordSpanError(span, err)
		return err
	}
	span.AddEvent("nats.context",
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
	env, err := msgpack.Marshal(envelope{Payload: b, ExpiresAt: j.now().Add(ttl).UnixNano()})
	if err != nil {
		err := cache.NewError("put", key, cache.ErrSerialize, err)
		util.RecordSpanError(span, err)
		return err
	}

	if _, err := j.bucket.PutBytes(key, env); err != nil {
		err = cache.NewError("put", key, cache.ErrBackend, err)
		util.RecordSpanError(span, err)
		return err
	}
	return nil
}

func (j *JetStreamCache) Get(ctx context.Context, key string, out any) (bool, error) {
	_, span := tracer.GetTracer().Start(ctx, "Nats/Get")
	defer span.End()
	if key == "" {
		err := cache.NewError("get", key, cache.ErrInvalidKey, nil)
		util.RecordSpanError(span, err)
		return false, err
	}
	span.AddEvent("nats.context",
		trace.WithAttributes(attribute.String("key", key)),
	)
	if out == nil {
		err := cache.NewError("get", key, cache.ErrInvalidValue, nil)
		util.RecordSpanError(span, err)
		return false, err
	}

	b, err := j.bucket.GetBytes(key)
	if errors.Is(err, nats.ErrObjectNotFound) {
		return false, nil
	}
	if err != nil {
		err := cache.NewError("get", key, cache.ErrBackend, err)
		util.RecordSpanError(span, err)
		return false, err
	}

	var env envelope
	if err := msgpack.Unmarshal(b, &env); err != nil {
		err := cache.NewError("get", key, cache.ErrDeserialize, err)
		util.RecordSpanError(span, err)
		return false, err
	}
	if !j.now().Before(time.Unix(0, env.ExpiresAt)) {
		if err := j.bucket.Delete(key); err != nil && !errors.Is(err, nats.ErrObjectNotFound) {
			log := logger.FromContext(ctx)
			log.Debug().Err(err).Str("key", key).Msg("unable to drop expired object")
		}
		return false, nil
	}
	if err := msgpack.Unmarshal(env.Payload, out); err != nil {
		err := cache.NewError("get", key, cache.ErrDeserialize, err)
		util.RecordSpanError(span, err)
		return false, err
	}
	return true, nil
}

func (j *JetStreamCache) Clear(ctx context.Context) error {
	_, span := tracer.GetTracer().Start(ctx, "Nats/Clear")
	defer span.End()

	objects, err := j.bucket.List()
	if errors.Is(err, nats.ErrNoObjectsFound) {
		return nil
	}
	if err != nil {
		util.RecordSpanError(span, err)
		return err
	}
	for _, o := range objects {
		if o.Deleted {
			continue
		}
		if err := j.bucket.Delete(o.Name); err != nil && !errors.Is(err, nats.ErrObjectNotFound) {
			util.RecordSpanError(span, err)
			return err
		}
	}
	return nil
}

func (j *JetStreamCache) GetDefaultTTL() time.Duration {
	return j.ttl
}

func (j *JetStreamCache) Close() error {
	return j.connection.Drain()
}

func createOrGetObjectStore(js nats.JetStreamContext, bucket string, ttl time.Duration, bucketSizeBytes int) (nats.ObjectStore, error) {
	os, err := js.ObjectStore(bucket)
	if err != nil {
		if errors.Is(err, nats.ErrStreamNotFound) {
			os, err = js.CreateObjectStore(&nats.ObjectStoreConfig{
				Bucket:      bucket,
				Description: "pokecli response cache",
				TTL:         ttl,
				MaxBytes:    int64(bucketSizeBytes),
				Storage:     nats.FileStorage,
			})
			if err != nil {
				return nil, fmt.Errorf("could not create nats bucket: %w", err)
			}
			return os, nil
		}
		return nil, fmt.Errorf("error retrieving nats bucket instance: %w", err)
	}
	return os, nil
}

func (j *JetStreamCache) ShutDown(ctx context.Context) {
	done := make(chan struct{})
	j.connection.SetClosedHandler(func(_ *nats.Conn) {
		close(done)
	})

	if err := j.Close(); err != nil {
		logger.Log.Err(err).Msg("unable to close nats connection")
		j.connection.Close()
		return
	}

	select {
	case <-done:
		return
	case <-ctx.Done():
		j.connection.Close()
	}
}

var _ cache.Cache = (*JetStreamCache)(nil)
