package pagectl

import (
	"fmt"
	"maps"
	"math"
	"net/mail"
	"slices"
	"strconv"
	"strings"

	"github.com/castlekeep/castlectl/internal/admin/api"
)

// FieldKind controls how a draft value is validated and encoded.
type FieldKind int

const (
	FieldText FieldKind = iota
	FieldEmail
	FieldNumber
)

func (k FieldKind) String() string {
	switch k {
	case FieldEmail:
		return "email"
	case FieldNumber:
		return "number"
	default:
		return "text"
	}
}

// EditField is one editable record field.
type EditField struct {
	Key   string
	Label string
	Kind  FieldKind
}

// Draft holds the uncommitted input for an edit in field order.
type Draft struct {
	fields []EditField
	values map[string]string
}

func newDraft(fields []EditField, rec api.Record) Draft {
	d := Draft{fields: fields, values: make(map[string]string, len(fields))}
	for _, f := range fields {
		d.values[f.Key] = rec.String(f.Key)
	}
	return d
}

// PartialDraft holds only the given values, in field order. It is used when
// the current record is not at hand and only changed fields are sent.
func PartialDraft(fields []EditField, values map[string]string) (Draft, error) {
	d := Draft{values: make(map[string]string, len(values))}
	known := make(map[string]bool, len(fields))
	for _, f := range fields {
		known[f.Key] = true
		if v, ok := values[f.Key]; ok {
			d.fields = append(d.fields, f)
			d.values[f.Key] = v
		}
	}
	for _, k := range slices.Sorted(maps.Keys(values)) {
		if !known[k] {
			return Draft{}, fmt.Errorf("%q is not an editable field", k)
		}
	}
	return d, nil
}

func (d Draft) Fields() []EditField { return d.fields }

func (d Draft) Value(key string) string { return d.values[key] }

// Empty reports whether the draft has no fields, i.e. no edit is in progress.
func (d Draft) Empty() bool { return len(d.fields) == 0 }

func (d *Draft) set(key, value string) bool {
	if _, ok := d.values[key]; !ok {
		return false
	}
	d.values[key] = value
	return true
}

// Payload validates the draft and returns the request body for an update.
// Empty number fields are left out.
func (d Draft) Payload() (map[string]any, error) {
	out := make(map[string]any, len(d.fields))
	for _, f := range d.fields {
		raw := strings.TrimSpace(d.values[f.Key])
		label := f.Label
		if label == "" {
			label = f.Key
		}
		switch f.Kind {
		case FieldNumber:
			if raw == "" {
				continue
			}
			if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
				out[f.Key] = n
				continue
			}
			n, err := strconv.ParseFloat(raw, 64)
			if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
				return nil, fmt.Errorf("%s must be a number, got %q", label, raw)
			}
			out[f.Key] = n
		case FieldEmail:
			addr, err := mail.ParseAddress(raw)
			if err != nil || addr.Address != raw {
				return nil, fmt.Errorf("%s must be a valid email address, got %q", label, raw)
			}
			out[f.Key] = raw
		default:
			out[f.Key] = d.values[f.Key]
		}
	}
	return out, nil
}
