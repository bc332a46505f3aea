//go:build integration
// +build integration

package redis

import (
	"context"
	"flag"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/ssuji15/pokecli/internal/cache"
	rc "github.com/ssuji15/pokecli/internal/component/redis"
	"github.com/ssuji15/pokecli/internal/config"
	infra "github.com/ssuji15/pokecli/tests/integration_test/infra/redis"
	"github.com/stretchr/testify/require"
)

var REDIS_ENDPOINT string

// ------------------------
// TestMain: spin up Redis container
// ------------------------
func TestMain(m *testing.M) {
	flag.Parse()

	if testing.Short() {
		fmt.Println("skipping integration tests")
		os.Exit(0)
	}

	ctx := context.Background()
	container, endpoint := infra.SetupContainer(ctx)
	REDIS_ENDPOINT = endpoint

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func newTestCache(t *testing.T, prefix string) *RedisCache {
	t.Helper()
	client, err := rc.NewRedisClient(context.Background(), &config.RedisConfig{URL: REDIS_ENDPOINT, KEY_PREFIX: prefix})
	require.NoError(t, err)
	c := NewRedisCache(client, prefix, 2*time.Second)
	t.Cleanup(func() { c.ShutDown(context.Background()) })
	return c
}

type pokemonRecord struct {
	ID   int
	Name string
}

// ------------------------
// 1. Connection tests
// ------------------------
func TestNewRedisClient(t *testing.T) {
	tests := []struct {
		name      string
		endpoint  string
		expectErr bool
	}{
		{"Reachable endpoint succeeds", REDIS_ENDPOINT, false},
		{"Unreachable endpoint fails", "127.0.0.1:1", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			client, err := rc.NewRedisClient(context.Background(), &config.RedisConfig{URL: tt.endpoint})
			if tt.expectErr {
				require.Error(t, err)
				require.Nil(t, client)
				return
			}
			require.NoError(t, err)
			require.NoError(t, client.Close())
		})
	}
}

// ------------------------
// 2. Put / Get tests
// ------------------------
func TestRedisCache_PutGet(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t, "test-putget:")

	require.ErrorIs(t, c.Put(ctx, "", "value", time.Minute), cache.ErrInvalidKey)
	require.ErrorIs(t, c.Put(ctx, "nil_val", nil, time.Minute), cache.ErrInvalidValue)

	pikachu := pokemonRecord{ID: 25, Name: "pikachu"}
	require.NoError(t, cache.Set(ctx, c, "pokemon:pikachu", pikachu, time.Hour))

	got, err := cache.Get[pokemonRecord](ctx, c, "pokemon:pikachu")
	require.NoError(t, err)
	require.Equal(t, pikachu, got.MustGet())

	_, err = c.Get(ctx, "pokemon:pikachu", nil)
	require.ErrorIs(t, err, cache.ErrInvalidValue)

	missing, err := cache.Get[pokemonRecord](ctx, c, "pokemon:bulbasaur")
	require.NoError(t, err)
	require.True(t, missing.IsAbsent())

	require.NoError(t, cache.Set(ctx, c, "pokemon:pikachu", pokemonRecord{ID: 25, Name: "raichu"}, time.Hour))
	got, err = cache.Get[pokemonRecord](ctx, c, "pokemon:pikachu")
	require.NoError(t, err)
	require.Equal(t, "raichu", got.MustGet().Name)

	require.NoError(t, cache.Set(ctx, c, "str", "text", time.Hour))
	_, err = cache.Get[pokemonRecord](ctx, c, "str")
	require.ErrorIs(t, err, cache.ErrDeserialize)
}

// ------------------------
// 3. TTL tests
// ------------------------
func TestRedisCache_TTL(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t, "test-ttl:")

	require.NoError(t, c.Put(ctx, "zero", "v", time.Minute))
	require.NoError(t, c.Put(ctx, "zero", "v", 0))
	got, err := cache.Get[string](ctx, c, "zero")
	require.NoError(t, err)
	require.True(t, got.IsAbsent())

	require.NoError(t, c.Put(ctx, "short", "v", 500*time.Millisecond))
	time.Sleep(time.Second)
	got, err = cache.Get[string](ctx, c, "short")
	require.NoError(t, err)
	require.True(t, got.IsAbsent())
}

// ------------------------
// 4. Clear tests
// ------------------------
func TestRedisCache_Clear(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t, "test-clear:")
	other := newTestCache(t, "test-other:")

	for i := 0; i < 250; i++ {
		require.NoError(t, c.Put(ctx, fmt.Sprintf("k%d", i), i, time.Hour))
	}
	require.NoError(t, other.Put(ctx, "keep", "v", time.Hour))

	require.NoError(t, c.Clear(ctx))

	got, err := cache.Get[int](ctx, c, "k0")
	require.NoError(t, err)
	require.True(t, got.IsAbsent())

	kept, err := cache.Get[string](ctx, other, "keep")
	require.NoError(t, err)
	require.Equal(t, "v", kept.MustGet())
}
