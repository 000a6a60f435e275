package log

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureJSONWritesComponentField(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "debug", JSON: true, Output: &buf})
	t.Cleanup(func() { Configure(Config{}) })

	logger := WithComponent("sync")
	logger.Info().Str("file", "mappings.js").Msg("updated")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "sync", entry["component"])
	assert.Equal(t, "mappings.js", entry["file"])
	assert.Equal(t, "info", entry["level"])
}

func TestConfigureInvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "loud", JSON: true, Output: &buf})
	t.Cleanup(func() { Configure(Config{}) })

	logger := Base()
	logger.Debug().Msg("hidden")
	assert.Empty(t, buf.String())
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestFromContextPrefersContextLogger(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf)
	ctx := l.WithContext(context.Background())

	FromContext(ctx).Info().Msg("ctx")
	assert.Contains(t, buf.String(), `"message":"ctx"`)

	assert.NotNil(t, FromContext(context.Background()))
}
