// Package normalizers tidies the help text embedded in command definitions.
package normalizers

import (
	"fmt"
	"strings"

	"github.com/castlekeep/castlectl/internal/meta"
)

const Indentation = `  `

// LongDesc trims a long description and removes the common leading indentation
// left over from raw string literals.
func LongDesc(s string) string {
	lines := strings.Split(strings.Trim(s, "\n"), "\n")
	prefix := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if prefix < 0 || n < prefix {
			prefix = n
		}
	}
	for i, line := range lines {
		if len(line) >= prefix && prefix > 0 {
			lines[i] = line[prefix:]
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// Examples indents every example line and substitutes the CLI name for %[1]s.
func Examples(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	if strings.Contains(s, "%[1]s") {
		s = fmt.Sprintf(s, meta.CLIName)
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = Indentation + strings.TrimSpace(line)
	}
	return strings.Join(lines, "\n")
}
