// Package pagination holds the page arithmetic shared by the CLI and the console.
package pagination

import "fmt"

// TotalPages normalises a server supplied page count. Anything below one
// (missing, zero, negative) is treated as a single page.
func TotalPages(pages int) int {
	if pages < 1 {
		return 1
	}
	return pages
}

// Clamp keeps page inside [1, total].
func Clamp(page, total int) int {
	total = TotalPages(total)
	switch {
	case page < 1:
		return 1
	case page > total:
		return total
	default:
		return page
	}
}

// Step moves page by delta and reports whether the result differs from page.
// Moving past either end is not an error, the page simply stays put.
func Step(page, total, delta int) (int, bool) {
	next := Clamp(page+delta, total)
	return next, next != Clamp(page, total)
}

// Label renders the "Page X of Y" caption.
func Label(page, total int) string {
	return fmt.Sprintf("Page %d of %d", Clamp(page, total), TotalPages(total))
}
