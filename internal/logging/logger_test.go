package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"leadcap/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestGetDefaultsToNop(t *testing.T) {
	SetRoot(nil)
	logger := Get(CategoryAPI)
	require.NotNil(t, logger)
	assert.False(t, logger.Core().Enabled(zapcore.ErrorLevel))
}

func TestGetNamesCategory(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetRoot(zap.New(core))
	t.Cleanup(func() { SetRoot(nil) })

	Get(CategoryPage).Info("hello")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "page", entries[0].LoggerName)
	assert.Equal(t, "hello", entries[0].Message)
}

func TestBuildInteractiveWithoutFileIsNop(t *testing.T) {
	logger, err := Build(config.LoggingConfig{Level: "info", Format: "json"}, false, true)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.ErrorLevel))
}

func TestBuildRejectsBadLevel(t *testing.T) {
	_, err := Build(config.LoggingConfig{Level: "loud", Format: "json"}, false, false)
	assert.Error(t, err)
}

func TestBuildWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leadcap.log")
	cfg := config.LoggingConfig{Level: "warn", Format: "json", File: path}

	logger, err := Build(cfg, false, true)
	require.NoError(t, err)

	logger.Named("api").Info("filtered out")
	logger.Named("api").Warn("kept", zap.Int("status", 500))
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.NotContains(t, out, "filtered out")
	assert.Contains(t, out, `"msg":"kept"`)
	assert.Contains(t, out, `"logger":"api"`)
	assert.Equal(t, 1, strings.Count(out, "\n"))
}

func TestBuildVerboseForcesDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leadcap.log")
	logger, err := Build(config.LoggingConfig{Level: "error", Format: "console", File: path}, true, false)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}
