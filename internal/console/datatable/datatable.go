// Package datatable projects records and column descriptors into rows of
// display text. It owns no pagination, sorting or filtering.
package datatable

import (
	"strings"

	"github.com/castlekeep/castlectl/internal/admin/api"
)

// RenderFunc turns a cell value into display text. rec is the whole row so a
// renderer can combine several fields.
type RenderFunc func(value any, rec api.Record) string

// Column describes one table column. Key may name a synthetic field that is
// not present on the record when Render builds the text from other fields.
type Column struct {
	Key    string
	Label  string
	Render RenderFunc
	// MaxWidth caps the column width. Zero uses the table default.
	MaxWidth int
}

// ActionFunc returns the action labels offered for a row.
type ActionFunc func(rec api.Record) []string

// Projection is the displayable form of a table.
type Projection struct {
	Headers []string
	Rows    [][]string
	Loading bool
	// Empty is the message shown when there are no rows and nothing is loading.
	Empty    string
	maxWidth []int
}

const (
	DefaultPlaceholder  = "-"
	DefaultEmptyMessage = "No data to display."
	ActionsHeader       = "Actions"
)

type options struct {
	placeholder string
	empty       string
	actions     ActionFunc
}

type Option func(*options)

// WithPlaceholder sets the text shown for nil values in columns without a
// custom renderer.
func WithPlaceholder(p string) Option {
	return func(o *options) { o.placeholder = p }
}

// WithEmptyMessage overrides the message shown for an empty, loaded table.
func WithEmptyMessage(msg string) Option {
	return func(o *options) { o.empty = msg }
}

// WithActions appends a trailing actions column filled by fn.
func WithActions(fn ActionFunc) Option {
	return func(o *options) { o.actions = fn }
}

// Project builds the projection. While loading no rows are produced even
// when records is non-empty, so stale rows never show during a refetch.
func Project(columns []Column, records []api.Record, loading bool, opts ...Option) Projection {
	o := options{placeholder: DefaultPlaceholder, empty: DefaultEmptyMessage}
	for _, opt := range opts {
		opt(&o)
	}

	p := Projection{
		Headers:  make([]string, 0, len(columns)+1),
		maxWidth: make([]int, 0, len(columns)+1),
		Loading:  loading,
		Empty:    o.empty,
	}
	for _, col := range columns {
		p.Headers = append(p.Headers, col.Label)
		p.maxWidth = append(p.maxWidth, col.MaxWidth)
	}
	if o.actions != nil {
		p.Headers = append(p.Headers, ActionsHeader)
		p.maxWidth = append(p.maxWidth, 0)
	}

	if loading {
		return p
	}

	p.Rows = make([][]string, 0, len(records))
	for _, rec := range records {
		row := make([]string, 0, len(p.Headers))
		for _, col := range columns {
			row = append(row, cell(col, rec, o.placeholder))
		}
		if o.actions != nil {
			row = append(row, strings.Join(o.actions(rec), " "))
		}
		p.Rows = append(p.Rows, row)
	}
	return p
}

func cell(col Column, rec api.Record, placeholder string) string {
	value := rec.Value(col.Key)
	if col.Render != nil {
		return singleLine(col.Render(value, rec))
	}
	if value == nil {
		return placeholder
	}
	return singleLine(api.Stringify(value))
}

func singleLine(s string) string {
	if !strings.ContainsAny(s, "\r\n\t") {
		return s
	}
	return strings.Join(strings.Fields(s), " ")
}
