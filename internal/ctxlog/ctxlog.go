// Package ctxlog carries a *slog.Logger on a context.Context.
//
// The level is read from CCLI_LOG_LEVEL ("DEBUG", "INFO", "WARN", "ERROR");
// anything else means WARN. The terminal belongs to the UI, so NewFile is
// the usual way to build the logger handed to New.
package ctxlog

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// LevelEnv names the environment variable holding the log level.
const LevelEnv = "CCLI_LOG_LEVEL"

type loggerKey struct{}

// LevelVar is shared by every logger built in this package.
var LevelVar = &slog.LevelVar{}

// DefaultLogger discards everything. It is returned when no logger was attached.
var DefaultLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: LevelVar}))

func init() {
	LevelVar.Set(levelFromEnv(os.Getenv(LevelEnv)))
}

// New returns a copy of ctx carrying logger. A nil logger means DefaultLogger.
func New(ctx context.Context, logger *slog.Logger) context.Context {
	if logger == nil {
		logger = DefaultLogger
	}
	return context.WithValue(ctx, loggerKey{}, logger)
}

// Logger returns the logger on ctx, or DefaultLogger.
func Logger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(loggerKey{}).(*slog.Logger)
	if !ok || logger == nil {
		return DefaultLogger
	}
	return logger
}

// NewFile opens (appending) a text log at path on fs. The returned closer
// must be closed on shutdown.
func NewFile(fs afero.Fs, path string) (*slog.Logger, io.Closer, error) {
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := fs.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: LevelVar})), f, nil
}

// Debug logs at debug level using the logger on ctx.
func Debug(ctx context.Context, msg string, args ...any) {
	Logger(ctx).Debug(msg, args...)
}

// Info logs at info level using the logger on ctx.
func Info(ctx context.Context, msg string, args ...any) {
	Logger(ctx).Info(msg, args...)
}

// Warn logs at warn level using the logger on ctx.
func Warn(ctx context.Context, msg string, args ...any) {
	Logger(ctx).Warn(msg, args...)
}

// Error logs at error level using the logger on ctx.
func Error(ctx context.Context, msg string, args ...any) {
	Logger(ctx).Error(msg, args...)
}

func levelFromEnv(v string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
