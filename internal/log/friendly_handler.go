package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
)

// NewFriendlyErrorHandler renders error records as short "Error: ..." blocks
// meant for a person reading stderr.
func NewFriendlyErrorHandler(w io.Writer) slog.Handler {
	return &friendlyHandler{w: w}
}

type friendlyHandler struct {
	w      io.Writer
	attrs  []slog.Attr
	groups []string
}

type field struct {
	key   string
	value string
}

func (h *friendlyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelError
}

func (h *friendlyHandler) Handle(_ context.Context, record slog.Record) error {
	fields := h.fields(record)

	summary := strings.TrimSpace(record.Message)
	if summary == "" {
		summary = lookup(fields, "error")
	}
	if summary == "" {
		summary = "an unknown error occurred"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Error: %s\n", summary)
	if hint := lookup(fields, "suggestion"); hint != "" {
		fmt.Fprintf(&sb, "  suggestion: %s\n", hint)
	}

	rest := make([]field, 0, len(fields))
	for _, f := range fields {
		if f.key == "error" || f.key == "suggestion" || f.value == "" {
			continue
		}
		rest = append(rest, f)
	}
	sort.SliceStable(rest, func(i, j int) bool { return rest[i].key < rest[j].key })
	for _, f := range rest {
		writeField(&sb, f)
	}

	_, err := io.WriteString(h.w, sb.String())
	return err
}

func (h *friendlyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := h.copy()
	next.attrs = append(next.attrs, attrs...)
	return next
}

func (h *friendlyHandler) WithGroup(name string) slog.Handler {
	next := h.copy()
	next.groups = append(next.groups, name)
	return next
}

func (h *friendlyHandler) copy() *friendlyHandler {
	return &friendlyHandler{
		w:      h.w,
		attrs:  append([]slog.Attr(nil), h.attrs...),
		groups: append([]string(nil), h.groups...),
	}
}

func (h *friendlyHandler) fields(record slog.Record) []field {
	out := make([]field, 0, len(h.attrs)+record.NumAttrs())
	add := func(a slog.Attr) bool {
		key := a.Key
		if len(h.groups) > 0 {
			key = strings.Join(append(append([]string(nil), h.groups...), key), ".")
		}
		out = append(out, field{key: key, value: valueString(a.Value.Resolve())})
		return true
	}
	for _, a := range h.attrs {
		add(a)
	}
	record.Attrs(add)
	return out
}

func valueString(val slog.Value) string {
	switch val.Kind() {
	case slog.KindGroup:
		parts := make([]string, 0, len(val.Group()))
		for _, a := range val.Group() {
			parts = append(parts, a.Key+"="+valueString(a.Value.Resolve()))
		}
		return strings.Join(parts, ", ")
	case slog.KindAny:
		if err, ok := val.Any().(error); ok {
			return err.Error()
		}
		return fmt.Sprint(val.Any())
	default:
		return val.String()
	}
}

func lookup(fields []field, key string) string {
	for _, f := range fields {
		if f.key == key && f.value != "" {
			return f.value
		}
	}
	return ""
}

func writeField(sb *strings.Builder, f field) {
	lines := strings.Split(strings.TrimSpace(f.value), "\n")
	fmt.Fprintf(sb, "  %s: %s\n", f.key, strings.TrimSpace(lines[0]))
	for _, line := range lines[1:] {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			fmt.Fprintf(sb, "    %s\n", trimmed)
		}
	}
}
