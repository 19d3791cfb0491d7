// Package modal renders dialog overlays for the console. Modals are
// stateless about visibility: the owning page passes isOpen on every call.
package modal

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/wordwrap"

	"github.com/castlekeep/castlectl/internal/theme"
)

type Size int

const (
	SizeSmall Size = iota
	SizeMedium
	SizeLarge
)

// Width is the outer box width for a terminal of termWidth columns.
func (s Size) Width(termWidth int) int {
	w := [...]int{44, 64, 88}[s]
	if termWidth > 0 && w > termWidth-2 {
		w = termWidth - 2
	}
	return max(w, 20)
}

func (s Size) String() string {
	return [...]string{"small", "medium", "large"}[s]
}

// Modal is a titled dialog box.
type Modal struct {
	Title   string
	Size    Size
	OnClose func()
	// Footer is an optional key hint rendered under the body.
	Footer string
	// Input marks a modal that holds text fields. q is typed there, so only
	// esc closes it.
	Input bool
}

// View renders the modal centered in a width x height area. It returns ""
// when the modal is closed.
func (m Modal) View(isOpen bool, body string, width, height int) string {
	if !isOpen {
		return ""
	}
	return place(m.box(body, width, height, theme.ColorBorder), width, height)
}

// HandleKey closes the modal on esc, or on q unless it holds input fields.
// It reports whether the key was consumed.
func (m Modal) HandleKey(isOpen bool, msg tea.KeyMsg) bool {
	if !isOpen {
		return false
	}
	if msg.Type == tea.KeyEsc || (!m.Input && msg.String() == "q") {
		m.close()
		return true
	}
	return false
}

// HandleMouse closes the modal when the backdrop outside the box is clicked.
func (m Modal) HandleMouse(isOpen bool, msg tea.MouseMsg, body string, width, height int) bool {
	if !isOpen || !isLeftPress(msg) {
		return false
	}
	box := m.box(body, width, height, theme.ColorBorder)
	if outside(box, msg.X, msg.Y, width, height) {
		m.close()
		return true
	}
	return false
}

func (m Modal) close() {
	if m.OnClose != nil {
		m.OnClose()
	}
}

func (m Modal) box(body string, width, height int, border theme.Token) string {
	pal := theme.Current()
	outer := m.Size.Width(width)
	inner := outer - 4

	var sb strings.Builder
	if m.Title != "" {
		title := pal.ForegroundStyle(theme.ColorPrimary).Bold(true).Render(ansi.Truncate(m.Title, inner, "…"))
		sb.WriteString(title)
		sb.WriteString("\n\n")
	}
	sb.WriteString(clip(wrap(body, inner), maxBodyLines(height)))
	if m.Footer != "" {
		sb.WriteString("\n\n")
		sb.WriteString(pal.ForegroundStyle(theme.ColorTextMuted).Render(wrap(m.Footer, inner)))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(pal.Adaptive(border)).
		Padding(0, 1).
		Width(outer - 2).
		Render(sb.String())
}

func wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	lines := strings.Split(wordwrap.String(s, width), "\n")
	for i, line := range lines {
		if ansi.StringWidth(line) > width {
			lines[i] = ansi.Truncate(line, width, "…")
		}
	}
	return strings.Join(lines, "\n")
}

func clip(s string, maxLines int) string {
	if maxLines <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) <= maxLines {
		return s
	}
	return strings.Join(append(lines[:maxLines-1], "…"), "\n")
}

func maxBodyLines(height int) int {
	if height <= 0 {
		return 0
	}
	return max(height-10, 3)
}

func place(box string, width, height int) string {
	if width <= 0 || height <= 0 {
		return box
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

// outside reports whether (x, y) misses box once box is centered.
func outside(box string, x, y, width, height int) bool {
	w, h := lipgloss.Width(box), lipgloss.Height(box)
	left := max((width-w)/2, 0)
	top := max((height-h)/2, 0)
	return x < left || x >= left+w || y < top || y >= top+h
}

func isLeftPress(msg tea.MouseMsg) bool {
	return msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft
}
