package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samber/mo"
)

// Cache stores serialisable values under string keys with a time-to-live.
// A miss (never set, or expired) is reported as found == false with a nil
// error; errors are reserved for lock, encoding and backend failures.
type Cache interface {
	// Get decodes the live value stored under key into out, which must be a
	// non-nil pointer.
	Get(ctx context.Context, key string, out any) (bool, error)
	// Put stores value under key until now+ttl, replacing any prior entry.
	// A ttl <= 0 leaves nothing that will ever be returned by Get.
	Put(ctx context.Context, key string, value any, ttl time.Duration) error
	// Clear drops every entry, live or expired.
	Clear(ctx context.Context) error
	GetDefaultTTL() time.Duration
	ShutDown(ctx context.Context)
}

var (
	ErrLockUnavailable = errors.New("cache lock unavailable")
	ErrSerialize       = errors.New("cache serialization failed")
	ErrDeserialize     = errors.New("cache deserialization failed")
	ErrInvalidKey      = errors.New("key cannot be empty")
	ErrInvalidValue    = errors.New("value cannot be nil")
	ErrBackend         = errors.New("cache backend failure")
)

// Error carries the failing operation and key alongside one of the sentinel
// errors above.
type Error struct {
	Op   string
	Key  string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Key != "" {
		msg = fmt.Sprintf("%s %s: %s", e.Op, e.Key, msg)
	} else {
		msg = fmt.Sprintf("%s: %s", e.Op, msg)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func NewError(op, key string, kind, err error) error {
	return &Error{Op: op, Key: key, Kind: kind, Err: err}
}

// Get returns the live value stored under key as a T, or mo.None when absent.
func Get[T any](ctx context.Context, c Cache, key string) (mo.Option[T], error) {
	var v T
	found, err := c.Get(ctx, key, &v)
	if err != nil {
		return mo.None[T](), err
	}
	if !found {
		return mo.None[T](), nil
	}
	return mo.Some(v), nil
}

// Set stores value under key for ttl.
func Set[T any](ctx context.Context, c Cache, key string, value T, ttl time.Duration) error {
	return c.Put(ctx, key, value, ttl)
}
