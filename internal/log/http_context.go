package log

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
)

type httpLogContextKey struct{}

var HTTPLogContextKey = httpLogContextKey{}

// HTTPLogContext is attached to admin API request logs so a trace line can be
// tied back to the command or console page that triggered it.
type HTTPLogContext struct {
	CommandPath string
	CommandVerb string
	// Surface is "cli" or "console".
	Surface   string
	Resource  string
	Operation string
	Page      int
}

// WithHTTPLogContext merges the non-zero fields of update into ctx.
func WithHTTPLogContext(ctx context.Context, update HTTPLogContext) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	current := HTTPLogContextFromContext(ctx)

	merge := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
	merge(&current.CommandPath, update.CommandPath)
	merge(&current.CommandVerb, update.CommandVerb)
	merge(&current.Surface, update.Surface)
	merge(&current.Resource, update.Resource)
	merge(&current.Operation, update.Operation)
	if update.Page > 0 {
		current.Page = update.Page
	}

	return context.WithValue(ctx, HTTPLogContextKey, current)
}

func HTTPLogContextFromContext(ctx context.Context) HTTPLogContext {
	if ctx == nil {
		return HTTPLogContext{}
	}
	if v, ok := ctx.Value(HTTPLogContextKey).(HTTPLogContext); ok {
		return v
	}
	return HTTPLogContext{}
}

// HTTPLogContextAttrs converts the metadata stored in ctx to slog attributes.
func HTTPLogContextAttrs(ctx context.Context) []slog.Attr {
	meta := HTTPLogContextFromContext(ctx)
	attrs := make([]slog.Attr, 0, 6)
	for _, kv := range [][2]string{
		{"command_path", meta.CommandPath},
		{"command_verb", meta.CommandVerb},
		{"surface", meta.Surface},
		{"resource", meta.Resource},
		{"operation", meta.Operation},
	} {
		if kv[1] != "" {
			attrs = append(attrs, slog.String(kv[0], kv[1]))
		}
	}
	if meta.Page > 0 {
		attrs = append(attrs, slog.String("page", strconv.Itoa(meta.Page)))
	}
	return attrs
}
