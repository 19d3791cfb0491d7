// Package format renders admin API values for table cells and detail views.
package format

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/castlekeep/castlectl/internal/admin/api"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// Dash marks a missing timestamp or value.
	Dash = "-"
	// NotAvailable marks a missing name.
	NotAvailable = "N/A"

	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

var printer = message.NewPrinter(language.English)

// Location is used for every rendered timestamp. Tests pin it to UTC.
var Location = time.Local

// Duration renders whole seconds as "Xh Ym", with "Ym" under one hour.
func Duration(totalSeconds int64) string {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// Thousands renders n with locale thousands separators, e.g. 12,500.
func Thousands(n int64) string {
	return printer.Sprintf("%d", n)
}

// Decimal renders f with thousands separators and the given precision.
func Decimal(f float64, precision int) string {
	return printer.Sprintf(fmt.Sprintf("%%.%df", precision), f)
}

// Percent renders f with one decimal and a % suffix.
func Percent(f float64) string {
	if math.IsNaN(f) {
		f = 0
	}
	return fmt.Sprintf("%.1f%%", f)
}

// Date renders v as a local calendar date, or Dash when it is not a time.
func Date(v any) string {
	t, ok := api.ParseTime(v)
	if !ok {
		return Dash
	}
	return t.In(Location).Format(dateLayout)
}

// DateTime renders v as a local date and time, or Dash when it is not a time.
func DateTime(v any) string {
	t, ok := api.ParseTime(v)
	if !ok {
		return Dash
	}
	return t.In(Location).Format(dateTimeLayout)
}

// OrElse returns s, or fallback when s is blank.
func OrElse(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

// Status renders a completion flag.
func Status(completed bool) string {
	if completed {
		return "Completed"
	}
	return "Incomplete"
}

// Resources renders a coin, stone and wood triple.
func Resources(coins, stones, wood int64) string {
	return fmt.Sprintf("coins %s · stones %s · wood %s", Thousands(coins), Thousands(stones), Thousands(wood))
}

// ProgressBar renders pct (0-100) as a fixed width bar.
func ProgressBar(pct float64, width int) string {
	if width <= 0 {
		return ""
	}
	if math.IsNaN(pct) {
		pct = 0
	}
	pct = math.Max(0, math.Min(100, pct))
	filled := int(math.Round(pct / 100 * float64(width)))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
