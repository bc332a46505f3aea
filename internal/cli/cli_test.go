package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/ssuji15/pokecli/model"
	"github.com/stretchr/testify/require"
)

func setupAPI(t *testing.T) *atomic.Int32 {
	t.Helper()
	var hits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/pokemon/pikachu", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_ = json.NewEncoder(w).Encode(model.Pokemon{ID: 25, Name: "pikachu", Height: 4, Weight: 60})
	})
	mux.HandleFunc("/move/tackle", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_ = json.NewEncoder(w).Encode(model.Move{ID: 33, Name: "tackle"})
	})
	mux.HandleFunc("/item/potion", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_ = json.NewEncoder(w).Encode(model.Item{ID: 17, Name: "potion", Cost: 200})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	t.Setenv("POKEAPI_URL", srv.URL)
	t.Setenv("POKEAPI_TIMEOUT", "5s")
	t.Setenv("POKEAPI_RATE_LIMIT", "")
	t.Setenv("CACHE_TYPE", "memory")
	t.Setenv("CACHE_ENABLED", "")
	t.Setenv("CACHE_TTL", "")
	t.Setenv("OUTPUT_FORMAT", "")
	t.Setenv("OUTPUT_COLORED", "false")
	t.Setenv("TRACE_URL", "")
	t.Setenv("SERVICE_NAME", "")
	return &hits
}

func run(args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	err := Execute(context.Background(), args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestExecute_Pokemon(t *testing.T) {
	setupAPI(t)

	tests := []struct {
		name     string
		args     []string
		contains string
	}{
		{"table", []string{"pokemon", "pikachu"}, "PIKACHU #25"},
		{"json", []string{"pokemon", "Pikachu", "-o", "json"}, `"name": "pikachu"`},
		{"yaml without cache", []string{"--output", "yaml", "pokemon", "pikachu", "--no-cache"}, "name: pikachu"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := run(tt.args...)
			require.NoError(t, err)
			require.Contains(t, stdout, tt.contains)
		})
	}
}

func TestExecute_MoveAndItem(t *testing.T) {
	setupAPI(t)

	stdout, _, err := run("move", "tackle")
	require.NoError(t, err)
	require.Contains(t, stdout, "TACKLE #33")

	stdout, _, err = run("item", "potion", "-o", "yaml")
	require.NoError(t, err)
	require.Contains(t, stdout, "cost: 200")
}

func TestExecute_NotFound(t *testing.T) {
	setupAPI(t)

	stdout, stderr, err := run("pokemon", "missingno", "-o", "json")
	require.Error(t, err)
	require.Empty(t, stdout)
	require.Contains(t, stderr, `"error":`)
	require.Contains(t, stderr, "not found")
}

func TestExecute_InvalidFormat(t *testing.T) {
	setupAPI(t)

	_, stderr, err := run("pokemon", "pikachu", "-o", "xml")
	require.Error(t, err)
	require.Contains(t, stderr, "Error: unknown output format")
}

func TestExecute_ClearCache(t *testing.T) {
	setupAPI(t)

	stdout, _, err := run("clear-cache")
	require.NoError(t, err)
	require.Contains(t, stdout, "Cache cleared")

	stdout, _, err = run("clear-cache", "--no-cache")
	require.NoError(t, err)
	require.Contains(t, stdout, "nothing to clear")
}

func TestExecute_UsageErrors(t *testing.T) {
	setupAPI(t)

	_, _, err := run("pokemon")
	require.Error(t, err)

	_, _, err = run("evolve", "eevee")
	require.Error(t, err)
}

func TestExecute_VerboseLogsToStderr(t *testing.T) {
	setupAPI(t)

	stdout, stderr, err := run("pokemon", "pikachu", "-v")
	require.NoError(t, err)
	require.NotContains(t, stdout, "run_id")
	require.Contains(t, stderr, `"run_id":`)
	require.Contains(t, stderr, "fetching pokemon")
}
