package modal

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/castlekeep/castlectl/internal/theme"
)

// Type only changes how a confirmation is drawn.
type Type int

const (
	TypeDanger Type = iota
	TypeWarning
)

// Action is the outcome of a key or mouse event on a Confirm.
type Action int

const (
	ActionNone Action = iota
	ActionConfirm
	ActionClose
)

// Confirm asks a yes/no question. A single event triggers at most one of
// OnConfirm and OnClose.
type Confirm struct {
	Title        string
	Message      string
	Type         Type
	ConfirmLabel string
	CancelLabel  string
	OnConfirm    func()
	OnClose      func()

	// focusConfirm selects which button enter activates. Cancel is focused
	// first so a stray enter never deletes anything.
	focusConfirm bool
}

func (c *Confirm) labels() (string, string) {
	confirm, cancel := c.ConfirmLabel, c.CancelLabel
	if confirm == "" {
		confirm = "Confirm"
	}
	if cancel == "" {
		cancel = "Cancel"
	}
	return confirm, cancel
}

// Reset returns focus to the cancel button. Call it when the dialog opens.
func (c *Confirm) Reset() {
	c.focusConfirm = false
}

func (c *Confirm) HandleKey(isOpen bool, msg tea.KeyMsg) Action {
	if !isOpen {
		return ActionNone
	}
	switch msg.String() {
	case "y", "Y":
		return c.confirm()
	case "n", "N", "esc":
		return c.close()
	case "tab", "shift+tab", "left", "right", "h", "l":
		c.focusConfirm = !c.focusConfirm
		return ActionNone
	case "enter":
		if c.focusConfirm {
			return c.confirm()
		}
		return c.close()
	}
	return ActionNone
}

// HandleMouse treats a backdrop click as cancel.
func (c *Confirm) HandleMouse(isOpen bool, msg tea.MouseMsg, width, height int) Action {
	if !isOpen || !isLeftPress(msg) {
		return ActionNone
	}
	if outside(c.box(width, height), msg.X, msg.Y, width, height) {
		return c.close()
	}
	return ActionNone
}

func (c *Confirm) confirm() Action {
	if c.OnConfirm != nil {
		c.OnConfirm()
	}
	return ActionConfirm
}

func (c *Confirm) close() Action {
	if c.OnClose != nil {
		c.OnClose()
	}
	return ActionClose
}

func (c *Confirm) View(isOpen bool, width, height int) string {
	if !isOpen {
		return ""
	}
	return place(c.box(width, height), width, height)
}

func (c *Confirm) box(width, height int) string {
	pal := theme.Current()
	tone, toneText := theme.ColorDanger, theme.ColorDangerText
	if c.Type == TypeWarning {
		tone, toneText = theme.ColorWarning, theme.ColorWarningText
	}

	confirmLabel, cancelLabel := c.labels()
	button := lipgloss.NewStyle().Padding(0, 2)
	confirmBtn := button.Foreground(pal.Adaptive(tone)).Render(confirmLabel)
	cancelBtn := button.Foreground(pal.Adaptive(theme.ColorTextSecondary)).Render(cancelLabel)
	if c.focusConfirm {
		confirmBtn = button.Background(pal.Adaptive(tone)).Foreground(pal.Adaptive(toneText)).Bold(true).Render(confirmLabel)
	} else {
		cancelBtn = button.Background(pal.Adaptive(theme.ColorBorder)).Bold(true).Render(cancelLabel)
	}

	var body strings.Builder
	body.WriteString(c.Message)
	body.WriteString("\n\n")
	body.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cancelBtn, "  ", confirmBtn))

	m := Modal{Title: c.Title, Size: SizeSmall, Footer: "y confirm · n/esc cancel · tab switch"}
	return m.box(body.String(), width, height, tone)
}
