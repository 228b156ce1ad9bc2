package security

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kevin07696/ucp-client/internal/adapters/ports"
)

func TestZapLoggerAdapter_ForwardsFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	adapter := NewZapLogger(zap.New(core))

	adapter.Info("making request", ports.String("endpoint", "/ucp/transactions"), ports.Int("status_code", 200))
	adapter.Error("request failed", ports.Err(errors.New("boom")))

	require.Equal(t, 2, logs.Len())

	first := logs.All()[0]
	assert.Equal(t, "making request", first.Message)
	assert.Equal(t, "/ucp/transactions", first.ContextMap()["endpoint"])
	assert.EqualValues(t, 200, first.ContextMap()["status_code"])

	second := logs.All()[1]
	assert.Equal(t, zapcore.ErrorLevel, second.Level)
	assert.Equal(t, "boom", second.ContextMap()["error"])
}

func TestNewZapLoggerFromLevel(t *testing.T) {
	adapter, err := NewZapLoggerFromLevel("warn", false)
	require.NoError(t, err)
	assert.False(t, adapter.Zap().Core().Enabled(zapcore.InfoLevel))
	assert.True(t, adapter.Zap().Core().Enabled(zapcore.WarnLevel))

	_, err = NewZapLoggerFromLevel("loud", false)
	assert.Error(t, err)
}
