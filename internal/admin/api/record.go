package api

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Record is one decoded JSON object returned by the admin API. Backends differ
// in the exact shape of rows so values are read through tolerant accessors.
type Record map[string]any

// ID returns the record identifier, accepting both "id" and "_id".
func (r Record) ID() string {
	for _, key := range []string{"id", "_id"} {
		if v, ok := r[key]; ok && v != nil {
			return r.String(key)
		}
	}
	return ""
}

// Value returns the raw value stored under key.
func (r Record) Value(key string) any {
	if r == nil {
		return nil
	}
	return r[key]
}

// Has reports whether key is present with a non-null value.
func (r Record) Has(key string) bool {
	v, ok := r[key]
	return ok && v != nil
}

// String returns key as text. Numbers are formatted without exponent.
func (r Record) String(key string) string {
	return Stringify(r.Value(key))
}

// Int returns key as an integer, or 0 when missing or not numeric.
func (r Record) Int(key string) int64 {
	n, _ := r.Float(key)
	return int64(n)
}

// Float returns key as a float and whether the value was numeric.
func (r Record) Float(key string) (float64, bool) {
	return ParseFloat(r.Value(key))
}

// ParseFloat converts a decoded JSON value to a float.
func ParseFloat(v any) (float64, bool) {
	f, ok := parseFloat(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func parseFloat(v any) (float64, bool) {
	switch v := v.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Bool returns key as a boolean. Missing or unparsable values are false.
func (r Record) Bool(key string) bool {
	return ParseBool(r.Value(key))
}

// ParseBool converts a decoded JSON value to a boolean.
func ParseBool(v any) bool {
	switch v := v.(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	default:
		return false
	}
}

// Time parses key as an RFC 3339 timestamp or epoch milliseconds.
func (r Record) Time(key string) (time.Time, bool) {
	return ParseTime(r.Value(key))
}

// ParseTime accepts the timestamp encodings produced by the admin API.
func ParseTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed, true
			}
		}
		return time.Time{}, false
	case float64:
		return time.UnixMilli(int64(t)), true
	case int64:
		return time.UnixMilli(t), true
	case time.Time:
		return t, !t.IsZero()
	default:
		return time.Time{}, false
	}
}

// Stringify renders a decoded JSON value as plain text. nil becomes "".
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case map[string]any, []any:
		raw, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(raw)
	default:
		return fmt.Sprint(t)
	}
}

// Clone returns a shallow copy of r.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
