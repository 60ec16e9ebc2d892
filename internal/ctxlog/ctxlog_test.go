package ctxlog

import (
	"context"
	"log/slog"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerFallsBackToDefault(t *testing.T) {
	assert.Same(t, DefaultLogger, Logger(context.Background()))
	assert.Same(t, DefaultLogger, Logger(New(context.Background(), nil)))
}

func TestLoggerRoundTrip(t *testing.T) {
	l := slog.New(slog.NewTextHandler(nil, nil))
	ctx := New(context.Background(), l)
	assert.Same(t, l, Logger(ctx))
}

func TestLevelFromEnv(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, levelFromEnv("debug"))
	assert.Equal(t, slog.LevelInfo, levelFromEnv("INFO"))
	assert.Equal(t, slog.LevelError, levelFromEnv(" ERROR "))
	assert.Equal(t, slog.LevelWarn, levelFromEnv(""))
	assert.Equal(t, slog.LevelWarn, levelFromEnv("verbose"))
}

func TestNewFileWritesRecords(t *testing.T) {
	fs := afero.NewMemMapFs()
	logger, closer, err := NewFile(fs, "/home/u/.ccli/ccli.log")
	require.NoError(t, err)

	logger.Error("boom", "command", "cd")
	require.NoError(t, closer.Close())

	data, err := afero.ReadFile(fs, "/home/u/.ccli/ccli.log")
	require.NoError(t, err)
	assert.Contains(t, string(data), "msg=boom")
	assert.Contains(t, string(data), "command=cd")
}
