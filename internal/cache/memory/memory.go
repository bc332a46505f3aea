// Package memory implements cache.Cache as a process-local map guarded by a
// single reader/writer lock.
//
// Expiration is lazy. There is no reaper goroutine: expired entries are swept
// as a side effect of Get and Put, and an entry whose deadline has passed is
// never returned even if no sweep has removed it yet.
package memory

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ssuji15/pokecli/internal/cache"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const DefaultTTL = time.Hour

type entry struct {
	payload   []byte
	expiresAt time.Time
}

func (e entry) live(now time.Time) bool {
	return now.Before(e.expiresAt)
}

type Store struct {
	mu       sync.RWMutex
	entries  map[string]entry
	poisoned atomic.Bool
	closed   atomic.Bool

	now        func() time.Time
	defaultTTL time.Duration

	hits    metric.Int64Counter
	misses  metric.Int64Counter
	evicted metric.Int64Counter
}

type Option func(*Store)

// WithClock replaces time.Now. Tests use it to move time without sleeping.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithDefaultTTL(ttl time.Duration) Option {
	return func(s *Store) { s.defaultTTL = ttl }
}

// WithMeter records hit, miss and expired-removed counts. Without it the
// store counts into a no-op meter.
func WithMeter(m metric.Meter) Option {
	return func(s *Store) { s.registerInstruments(m) }
}

// New returns an empty store. The returned pointer is the shared handle:
// every holder sees the same entries.
func New(opts ...Option) *Store {
	s := &Store{
		entries:    make(map[string]entry),
		now:        time.Now,
		defaultTTL: DefaultTTL,
	}
	s.registerInstruments(noop.NewMeterProvider().Meter(""))
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) registerInstruments(m metric.Meter) {
	// instrument creation only fails on invalid names; a nil counter is skipped in add
	s.hits, _ = m.Int64Counter("cache.memory.hits")
	s.misses, _ = m.Int64Counter("cache.memory.misses")
	s.evicted, _ = m.Int64Counter("cache.memory.expired_removed")
}

func (s *Store) Get(ctx context.Context, key string, out any) (bool, error) {
	if key == "" {
		return false, cache.NewError("get", key, cache.ErrInvalidKey, nil)
	}
	if out == nil {
		return false, cache.NewError("get", key, cache.ErrInvalidValue, nil)
	}
	if err := s.usable("get", key); err != nil {
		return false, err
	}

	s.trySweep(ctx)

	var (
		e     entry
		found bool
	)
	err := s.read("get", key, func() {
		e, found = s.entries[key]
	})
	if err != nil {
		return false, err
	}
	// An expired entry that the sweep has not removed yet is still a miss.
	if !found || !e.live(s.now()) {
		add(ctx, s.misses, 1)
		return false, nil
	}

	if err := json.Unmarshal(e.payload, out); err != nil {
		return false, cache.NewError("get", key, cache.ErrDeserialize, err)
	}
	add(ctx, s.hits, 1)
	return true, nil
}

func (s *Store) Put(ctx context.Context, key string, value any, ttl time.Duration) error {
	if key == "" {
		return cache.NewError("put", key, cache.ErrInvalidKey, nil)
	}
	if value == nil {
		return cache.NewError("put", key, cache.ErrInvalidValue, nil)
	}
	if err := s.usable("put", key); err != nil {
		return err
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return cache.NewError("put", key, cache.ErrSerialize, err)
	}
	e := entry{payload: payload, expiresAt: s.now().Add(ttl)}

	s.trySweep(ctx)

	return s.write("put", key, func() {
		s.entries[key] = e
	})
}

func (s *Store) Clear(ctx context.Context) error {
	if err := s.usable("clear", ""); err != nil {
		return err
	}
	return s.write("clear", "", func() {
		s.entries = make(map[string]entry)
	})
}

// Sweep removes every expired entry, waiting for the write lock, and reports
// how many were removed.
func (s *Store) Sweep(ctx context.Context) (int, error) {
	if err := s.usable("sweep", ""); err != nil {
		return 0, err
	}
	var n int
	err := s.write("sweep", "", func() {
		n = s.sweepLocked()
	})
	add(ctx, s.evicted, int64(n))
	return n, err
}

// Len counts stored entries, including expired ones not yet swept.
func (s *Store) Len() int {
	var n int
	_ = s.read("len", "", func() {
		n = len(s.entries)
	})
	return n
}

func (s *Store) GetDefaultTTL() time.Duration {
	return s.defaultTTL
}

// ShutDown drops all entries. Every later operation fails with
// cache.ErrLockUnavailable.
func (s *Store) ShutDown(ctx context.Context) {
	if s.closed.Swap(true) {
		return
	}
	_ = s.write("shutdown", "", func() {
		s.entries = make(map[string]entry)
	})
}

// trySweep skips the sweep rather than wait when another goroutine holds the
// lock. Lookups re-check liveness, so a skipped sweep only delays removal.
func (s *Store) trySweep(ctx context.Context) {
	if !s.mu.TryLock() {
		return
	}
	var n int
	func() {
		defer s.unlockWrite()
		n = s.sweepLocked()
	}()
	add(ctx, s.evicted, int64(n))
}

func (s *Store) sweepLocked() int {
	now := s.now()
	n := 0
	for k, e := range s.entries {
		if !e.live(now) {
			delete(s.entries, k)
			n++
		}
	}
	return n
}

func (s *Store) usable(op, key string) error {
	if s.poisoned.Load() || s.closed.Load() {
		return cache.NewError(op, key, cache.ErrLockUnavailable, nil)
	}
	return nil
}

func (s *Store) read(op, key string, fn func()) error {
	s.mu.RLock()
	defer s.unlockRead()
	if s.poisoned.Load() {
		return cache.NewError(op, key, cache.ErrLockUnavailable, nil)
	}
	fn()
	return nil
}

func (s *Store) write(op, key string, fn func()) error {
	s.mu.Lock()
	defer s.unlockWrite()
	if s.poisoned.Load() {
		return cache.NewError(op, key, cache.ErrLockUnavailable, nil)
	}
	fn()
	return nil
}

// A panic inside a critical section leaves the map in an unknown state, so
// the store refuses further use.
func (s *Store) unlockRead() {
	if r := recover(); r != nil {
		s.poisoned.Store(true)
		s.mu.RUnlock()
		panic(r)
	}
	s.mu.RUnlock()
}

func (s *Store) unlockWrite() {
	if r := recover(); r != nil {
		s.poisoned.Store(true)
		s.mu.Unlock()
		panic(r)
	}
	s.mu.Unlock()
}

func add(ctx context.Context, c metric.Int64Counter, n int64) {
	if c == nil || n == 0 {
		return
	}
	c.Add(ctx, n)
}

var _ cache.Cache = (*Store)(nil)
