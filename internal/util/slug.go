package util

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	combiningMarks = regexp.MustCompile(`[\x{0300}-\x{036F}]`)
	camelBoundary  = regexp.MustCompile(`([a-z0-9])([A-Z])`)
	nonSlugChars   = regexp.MustCompile(`[^a-z0-9]+`)
)

// Slugify turns user input such as "Focus Sessions", "focusSessions" or
// "castle_grounds" into the dashed form used for resource names.
func Slugify(s string) string {
	slug := norm.NFKD.String(strings.TrimSpace(s))
	slug = combiningMarks.ReplaceAllString(slug, "")
	slug = camelBoundary.ReplaceAllString(slug, "$1 $2")
	slug = strings.ToLower(slug)
	slug = nonSlugChars.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
