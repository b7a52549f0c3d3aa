package strapi_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/fivetwenty-io/strapi-client/pkg/strapi"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZerologLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := strapi.NewZerologLogger(zerolog.New(&buf).Level(zerolog.InfoLevel))

	logger.Debug("hidden", nil)
	logger.Info("HTTP Request", map[string]interface{}{"method": "GET", "status_code": 200})

	var entry map[string]interface{}

	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "HTTP Request", entry["message"])
	assert.Equal(t, "GET", entry["method"])
	assert.InDelta(t, 200, entry["status_code"], 0)
}

func TestZapLogger(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	logger := strapi.NewZapLogger(zap.New(core))

	logger.Warn("API Response Error", map[string]interface{}{"b": 2, "a": "x"})

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "API Response Error", entries[0].Message)
	assert.Equal(t, "a", entries[0].Context[0].Key)
	assert.Equal(t, map[string]interface{}{"a": "x", "b": int64(2)}, entries[0].ContextMap())
}

func TestNopLoggers(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() {
		var logger strapi.Logger = strapi.NopLogger{}
		logger.Error("ignored", nil)

		strapi.NewZapLogger(nil).Info("ignored", map[string]interface{}{"k": "v"})
	})
}
