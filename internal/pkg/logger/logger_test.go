package logger_test

import (
	"testing"

	"takeout/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	t.Run("should honour the configured level", func(t *testing.T) {
		l, err := logger.New(logger.Config{Level: "WARN", Encoding: "json", ServiceName: "takeout"})

		require.NoError(t, err)
		assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
		assert.True(t, l.Core().Enabled(zapcore.WarnLevel))
	})

	t.Run("should fall back to info on unknown level", func(t *testing.T) {
		l, err := logger.New(logger.Config{Level: "loud"})

		require.NoError(t, err)
		assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
		assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("should build console logger", func(t *testing.T) {
		l, err := logger.New(logger.Config{Level: "debug", Encoding: "console"})

		require.NoError(t, err)
		assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
	})
}
