package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDualHandlerMirrorsOnlyErrors(t *testing.T) {
	t.Cleanup(EnableErrorMirroring)
	EnableErrorMirroring()

	var primaryBuf, secondaryBuf bytes.Buffer
	primary := slog.NewTextHandler(&primaryBuf, &slog.HandlerOptions{Level: slog.LevelInfo})
	secondary := slog.NewTextHandler(&secondaryBuf, &slog.HandlerOptions{Level: slog.LevelError})
	logger := slog.New(NewDualHandler(primary, secondary))

	logger.Error("load failed", slog.String("resource", "users"))
	logger.Info("page loaded")

	require.Contains(t, primaryBuf.String(), "load failed")
	require.Contains(t, primaryBuf.String(), "page loaded")
	require.Contains(t, secondaryBuf.String(), "load failed")
	require.NotContains(t, secondaryBuf.String(), "page loaded")
}

func TestDualHandlerMirroringDisabled(t *testing.T) {
	t.Cleanup(EnableErrorMirroring)
	DisableErrorMirroring()

	var primaryBuf, secondaryBuf bytes.Buffer
	primary := slog.NewTextHandler(&primaryBuf, &slog.HandlerOptions{Level: slog.LevelInfo})
	secondary := slog.NewTextHandler(&secondaryBuf, &slog.HandlerOptions{Level: slog.LevelError})
	logger := slog.New(NewDualHandler(primary, secondary))

	logger.Error("delete failed")

	require.Contains(t, primaryBuf.String(), "delete failed")
	require.Empty(t, secondaryBuf.String())
}

func TestDualHandlerWithAttrsReachesBoth(t *testing.T) {
	t.Cleanup(EnableErrorMirroring)
	EnableErrorMirroring()

	var primaryBuf, secondaryBuf bytes.Buffer
	primary := slog.NewTextHandler(&primaryBuf, &slog.HandlerOptions{Level: slog.LevelInfo})
	logger := slog.New(NewDualHandler(primary, NewFriendlyErrorHandler(&secondaryBuf))).
		With(slog.String("resource", "castle-grounds"))

	logger.Error("update failed")

	require.Contains(t, primaryBuf.String(), "resource=castle-grounds")
	require.Contains(t, secondaryBuf.String(), "resource: castle-grounds")
}

func TestFriendlyHandlerFormatsSummaryAndFields(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewFriendlyErrorHandler(&buf))

	logger.Error("",
		slog.Any("error", errors.New("status 500")),
		slog.String("suggestion", "check the admin API"),
		slog.String("zeta", "last"),
		slog.String("alpha", "first\nsecond line"),
	)

	want := strings.Join([]string{
		"Error: status 500",
		"  suggestion: check the admin API",
		"  alpha: first",
		"    second line",
		"  zeta: last",
		"",
	}, "\n")
	require.Equal(t, want, buf.String())
}

func TestFriendlyHandlerIgnoresBelowError(t *testing.T) {
	h := NewFriendlyErrorHandler(&bytes.Buffer{})
	require.False(t, h.Enabled(context.Background(), slog.LevelWarn))
	require.True(t, h.Enabled(context.Background(), slog.LevelError))
}

func TestConfigLevelStringToSlogLevel(t *testing.T) {
	require.Equal(t, LevelTrace, ConfigLevelStringToSlogLevel("trace"))
	require.Equal(t, slog.LevelDebug, ConfigLevelStringToSlogLevel(" DEBUG "))
	require.Equal(t, slog.LevelInfo, ConfigLevelStringToSlogLevel("info"))
	require.Equal(t, slog.LevelError, ConfigLevelStringToSlogLevel("bogus"))
}

func TestNewWritesJSONToLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "castlectl.log")

	logger, closer, err := New(Options{Level: LevelTrace, FilePath: path})
	require.NoError(t, err)

	logger.Log(context.Background(), LevelTrace, "request", slog.String("method", "GET"))
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `"level":"TRACE"`)
	require.Contains(t, string(data), `"method":"GET"`)
}

func TestHTTPLogContextMerges(t *testing.T) {
	ctx := WithHTTPLogContext(context.Background(), HTTPLogContext{CommandPath: "castlectl get users", Resource: "users"})
	ctx = WithHTTPLogContext(ctx, HTTPLogContext{Operation: "list", Page: 3, Resource: "  "})

	meta := HTTPLogContextFromContext(ctx)
	require.Equal(t, "castlectl get users", meta.CommandPath)
	require.Equal(t, "users", meta.Resource)
	require.Equal(t, "list", meta.Operation)
	require.Equal(t, 3, meta.Page)

	attrs := HTTPLogContextAttrs(ctx)
	keys := make([]string, 0, len(attrs))
	for _, a := range attrs {
		keys = append(keys, a.Key)
	}
	require.Equal(t, []string{"command_path", "resource", "operation", "page"}, keys)
}
