package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInitWithWriter(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "pokecli", false)

	Log.Debug().Msg("hidden")
	Log.Warn().Msg("shown")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "pokecli", line["service"])
	require.Equal(t, "shown", line["message"])
	require.Equal(t, "warn", line["level"])
}

func TestInitWithWriter_Verbose(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "pokecli", true)

	Log.Debug().Msg("visible")
	require.Contains(t, buf.String(), "visible")
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "pokecli", true)

	require.Equal(t, Log, FromContext(context.Background()))

	runLog := Log.With().Str("run_id", "abc").Logger()
	ctx := WithContext(context.Background(), runLog)
	log := FromContext(ctx)
	log.Info().Msg("tagged")
	require.Contains(t, buf.String(), `"run_id":"abc"`)
}
