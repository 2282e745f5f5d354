package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("info"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
}

func TestNew_BuildsBothFormats(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		l, err := New("debug", format)
		require.NoError(t, err, format)
		assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
	}
}

func TestZapWrapper_FieldsAndError(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core))

	log.WithFields(map[string]interface{}{"requestId": "abc"}).
		WithError(errors.New("boom")).
		Warn("search failed", map[string]interface{}{"statusCode": 500})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "search failed", entry.Message)
	ctx := entry.ContextMap()
	assert.Equal(t, "abc", ctx["requestId"])
	assert.Equal(t, "boom", ctx["error"])
	assert.EqualValues(t, 500, ctx["statusCode"])
}

func TestForClient_DisabledIsNoOp(t *testing.T) {
	log := ForClient(false, "debug", "json")

	assert.NotPanics(t, func() {
		log.Info("ignored", map[string]interface{}{"k": "v"})
	})
}

func TestNewTestLogger(t *testing.T) {
	log := NewTestLogger(t)
	log.Info("hello", nil)
	log.Debug("debug", map[string]interface{}{"n": 1})
}
