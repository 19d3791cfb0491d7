package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/castlekeep/castlectl/internal/util"
)

type Key struct{}

var LoggerKey = Key{}

// LevelTrace sits below debug and is used for raw HTTP exchange logs.
const LevelTrace = slog.LevelDebug - 4

func ConfigLevelStringToSlogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// Options configures the process logger.
type Options struct {
	Level slog.Level
	// FilePath receives JSON records. Empty means records go to Fallback.
	FilePath string
	// Fallback is used when no log file is configured or it cannot be opened.
	Fallback io.Writer
	// Console receives friendly copies of error records.
	Console io.Writer
}

// New builds the CLI logger. The returned closer releases the log file.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	var sink io.Writer = io.Discard
	if opts.Fallback != nil {
		sink = opts.Fallback
	}
	closer := io.Closer(nopCloser{})

	var openErr error
	if path := strings.TrimSpace(opts.FilePath); path != "" {
		f, err := openLogFile(path)
		if err != nil {
			openErr = err
		} else {
			sink = f
			closer = f
		}
	}

	primary := slog.NewJSONHandler(sink, &slog.HandlerOptions{
		Level: opts.Level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelTrace {
					a.Value = slog.StringValue("TRACE")
				}
			}
			return a
		},
	})

	var secondary slog.Handler
	if opts.Console != nil {
		secondary = NewFriendlyErrorHandler(opts.Console)
	}

	return slog.New(NewDualHandler(primary, secondary)), closer, openErr
}

func openLogFile(path string) (*os.File, error) {
	if err := util.InitDir(path, 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	return f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
