package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/sanspareilsmyn/vecstat/internal/config"
)

func TestParseLevel(t *testing.T) {
	level, err := parseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, zapcore.WarnLevel, level)

	level, err = parseLevel("loud")
	assert.Error(t, err)
	assert.Equal(t, zapcore.InfoLevel, level)
}

func TestNewLoggerNoOutputs(t *testing.T) {
	_, err := NewLogger(config.LogConfig{Level: "info", Format: "json"})
	assert.ErrorIs(t, err, ErrNoOutputs)
}

func TestNewLoggerFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	logger, err := NewLogger(config.LogConfig{
		Level:              "info",
		Format:             "json",
		FileLoggingEnabled: true,
		Directory:          dir,
		Filename:           "test.log",
		MaxSize:            1,
	})
	require.NoError(t, err)

	logger.Info("written to file")
	logger.Debug("below level")
	_ = logger.Sync()

	data, err := os.ReadFile(filepath.Join(dir, "test.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"written to file"`)
	assert.Contains(t, string(data), `"level":"INFO"`)
	assert.NotContains(t, string(data), "below level")
}

func TestNewLoggerConsole(t *testing.T) {
	logger, err := NewLogger(config.LogConfig{Level: "bogus", Format: "Console"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}
