package datatable

import (
	"math"

	"github.com/mattn/go-runewidth"
)

const (
	minColumnWidth = 4
	maxColumnWidth = 48
)

// columnWidths sizes each column to its widest cell, then shrinks the widest
// columns one cell at a time until the table fits widthLimit or every column
// is at its minimum.
func columnWidths(p Projection, widthLimit int) []int {
	widths := make([]int, len(p.Headers))
	mins := make([]int, len(p.Headers))
	for i, header := range p.Headers {
		upper := maxColumnWidth
		if i < len(p.maxWidth) && p.maxWidth[i] > 0 {
			upper = p.maxWidth[i]
		}
		hw := runewidth.StringWidth(header)
		mins[i] = clamp(hw, minColumnWidth, upper)

		widest := hw
		for _, row := range p.Rows {
			if i < len(row) {
				widest = max(widest, runewidth.StringWidth(row[i]))
			}
		}
		widths[i] = max(clamp(widest, minColumnWidth, upper), mins[i])
	}

	if widthLimit <= 0 {
		return widths
	}
	total := sum(widths)
	for total > widthLimit {
		idx := widestAboveMin(widths, mins)
		if idx < 0 {
			break
		}
		widths[idx]--
		total--
	}
	return widths
}

func widestAboveMin(widths, mins []int) int {
	idx, best := -1, math.MinInt
	for i, w := range widths {
		if w > best && w > mins[i] {
			best, idx = w, i
		}
	}
	return idx
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func sum(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}
