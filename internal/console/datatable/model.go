package datatable

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/castlekeep/castlectl/internal/theme"
)

// Model is the interactive rendering of a Projection.
type Model struct {
	table   table.Model
	spinner spinner.Model
	proj    Projection
	noun    string
	width   int
	height  int
}

// New returns an empty table. noun is used in the loading line, e.g. "users".
func New(noun string) Model {
	keys := table.DefaultKeyMap()
	keys.LineUp = key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up"))
	keys.LineDown = key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down"))

	m := Model{
		table:   table.New(table.WithFocused(true), table.WithKeyMap(keys)),
		spinner: newSpinner(),
		noun:    noun,
	}
	m.applyTheme()
	return m
}

func (m *Model) applyTheme() {
	pal := theme.Current()
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Bold(true).
		Foreground(pal.Adaptive(theme.ColorTextPrimary)).
		BorderForeground(pal.Adaptive(theme.ColorBorder))
	styles.Cell = styles.Cell.Foreground(pal.Adaptive(theme.ColorTextPrimary))
	styles.Selected = styles.Selected.
		Foreground(pal.Adaptive(theme.ColorPrimaryText)).
		Background(pal.Adaptive(theme.ColorPrimary))
	m.table.SetStyles(styles)
	m.spinner.Style = pal.ForegroundStyle(theme.ColorAccent)
}

// RefreshTheme re-reads the current palette.
func (m *Model) RefreshTheme() {
	m.applyTheme()
}

func newSpinner() spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = theme.Current().ForegroundStyle(theme.ColorAccent)
	return s
}

// SetProjection replaces what the table shows and keeps the cursor in range.
// Entering the loading state starts a fresh spinner and returns its tick.
func (m *Model) SetProjection(p Projection) tea.Cmd {
	var cmd tea.Cmd
	if p.Loading && !m.proj.Loading {
		// ticks from an earlier spinner carry its id and are ignored
		m.spinner = newSpinner()
		cmd = m.spinner.Tick
	}
	m.proj = p
	cursor := m.table.Cursor()

	m.table.SetRows(nil)
	m.table.SetColumns(m.columns())
	rows := make([]table.Row, 0, len(p.Rows))
	if !p.Loading {
		for _, r := range p.Rows {
			rows = append(rows, padRow(r, len(p.Headers)))
		}
	}
	m.table.SetRows(rows)

	switch {
	case len(rows) == 0:
		m.table.SetCursor(0)
	case cursor >= len(rows):
		m.table.SetCursor(len(rows) - 1)
	case cursor < 0:
		m.table.SetCursor(0)
	}
	return cmd
}

func (m *Model) SetSize(width, height int) {
	m.width, m.height = width, height
	m.table.SetWidth(width)
	m.table.SetHeight(max(height, 3))
	m.table.SetColumns(m.columns())
}

func (m *Model) columns() []table.Column {
	limit := 0
	if m.width > 0 {
		// bubbles pads every cell by one column on each side
		limit = m.width - 2*len(m.proj.Headers)
	}
	widths := columnWidths(m.proj, limit)
	cols := make([]table.Column, len(m.proj.Headers))
	for i, h := range m.proj.Headers {
		cols[i] = table.Column{Title: h, Width: widths[i]}
	}
	return cols
}

func padRow(r []string, n int) table.Row {
	row := make(table.Row, n)
	for i := 0; i < n && i < len(r); i++ {
		row[i] = r[i]
	}
	return row
}

// Loading reports whether the projection is in its loading state.
func (m Model) Loading() bool { return m.proj.Loading }

// Cursor returns the selected row index, or -1 when there are no rows.
func (m Model) Cursor() int {
	if m.proj.Loading || len(m.proj.Rows) == 0 {
		return -1
	}
	return m.table.Cursor()
}

func (m *Model) SetCursor(i int) {
	m.table.SetCursor(i)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if !m.proj.Loading {
			cmd = nil
		}
		return m, cmd
	case tea.KeyMsg:
		if m.proj.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	pal := theme.Current()
	switch {
	case m.proj.Loading:
		line := m.spinner.View() + " Loading " + m.noun + "..."
		return lipgloss.NewStyle().Padding(1, 2).Render(line)
	case len(m.proj.Rows) == 0:
		return lipgloss.NewStyle().Padding(1, 2).
			Foreground(pal.Adaptive(theme.ColorTextMuted)).
			Render(m.proj.Empty)
	}
	return m.table.View()
}
