package datatable

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

const (
	columnGap      = "  "
	loadingMessage = "Loading..."
)

// WriteStatic writes p as an aligned plain text table that fits in width
// columns. A width of zero or less disables fitting.
func WriteStatic(w io.Writer, p Projection, width int) error {
	if p.Loading {
		_, err := fmt.Fprintln(w, loadingMessage)
		return err
	}
	if len(p.Rows) == 0 {
		_, err := fmt.Fprintln(w, p.Empty)
		return err
	}

	limit := 0
	if width > 0 {
		limit = max(width-len(columnGap)*(len(p.Headers)-1), len(p.Headers))
	}
	widths := columnWidths(p, limit)

	var sb strings.Builder
	writeRow(&sb, upper(p.Headers), widths)
	for _, row := range p.Rows {
		writeRow(&sb, row, widths)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeRow(sb *strings.Builder, cells []string, widths []int) {
	for i, wdt := range widths {
		var cell string
		if i < len(cells) {
			cell = fit(cells[i], wdt)
		}
		if i == len(widths)-1 {
			sb.WriteString(strings.TrimRight(cell, " "))
			break
		}
		sb.WriteString(runewidth.FillRight(cell, wdt))
		sb.WriteString(columnGap)
	}
	sb.WriteString("\n")
}

// fit truncates s to width display cells with a trailing ellipsis.
func fit(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, "…")
}

func upper(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		out[i] = strings.ToUpper(h)
	}
	return out
}
