// Package console is the interactive admin dashboard started by
// "castlectl view".
package console

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/castlekeep/castlectl/internal/admin/helpers"
	"github.com/castlekeep/castlectl/internal/console/pagectl"
	"github.com/castlekeep/castlectl/internal/iostreams"
	"github.com/castlekeep/castlectl/internal/log"
	"github.com/castlekeep/castlectl/internal/resources"
	"github.com/castlekeep/castlectl/internal/theme"
	"github.com/castlekeep/castlectl/internal/util"
)

// DashboardName is the page name of the dashboard tab.
const DashboardName = "dashboard"

type Options struct {
	Admin    helpers.AdminAPI
	Logger   *slog.Logger
	PageSize int
	// Start names the first page. Empty selects the dashboard.
	Start string
}

// page is one tab of the console.
type page interface {
	Title() string
	// Init runs when the page is first shown.
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View() string
	SetSize(width, height int)
	RefreshTheme()
	// Capturing reports whether a dialog or input owns the keyboard.
	Capturing() bool
	Bindings() []key.Binding
}

type model struct {
	pages  []page
	names  []string
	active int

	keys     globalKeyMap
	help     help.Model
	showHelp bool

	width  int
	height int
}

// PageNames lists the console pages in tab order.
func PageNames() []string {
	return append([]string{DashboardName}, resources.Names()...)
}

func newModel(ctx context.Context, opts Options) (*model, error) {
	if opts.Admin == nil {
		return nil, fmt.Errorf("console requires an admin API client")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	ctx = log.WithHTTPLogContext(ctx, log.HTTPLogContext{Surface: "console"})

	m := &model{
		keys: newGlobalKeyMap(),
		help: help.New(),
	}
	m.pages = append(m.pages, newDashboardPage(ctx, opts.Admin.GetDashboardAPI(), logger))
	m.names = append(m.names, DashboardName)
	for _, res := range resources.All() {
		ctl := res.Controller(opts.Admin, pagectl.Options{
			PageSize: opts.PageSize,
			Logger:   logger,
			Context:  ctx,
		})
		m.pages = append(m.pages, newResourcePage(res, ctl))
		m.names = append(m.names, res.Name)
	}

	start, err := startIndex(opts.Start)
	if err != nil {
		return nil, err
	}
	m.active = start
	m.styleHelp()
	return m, nil
}

// ValidateStart reports whether name can be passed as Options.Start.
func ValidateStart(name string) error {
	_, err := startIndex(name)
	return err
}

func startIndex(name string) (int, error) {
	slug := util.Slugify(name)
	if slug == "" || slug == DashboardName {
		return 0, nil
	}
	res, ok := resources.Lookup(slug)
	if !ok {
		return 0, fmt.Errorf("unknown page %q, must be one of %s", name, strings.Join(PageNames(), ", "))
	}
	for i, n := range resources.Names() {
		if n == res.Name {
			return i + 1, nil
		}
	}
	return 0, nil
}

// Run starts the console and blocks until the user quits.
func Run(ctx context.Context, streams *iostreams.IOStreams, opts Options) error {
	m, err := newModel(ctx, opts)
	if err != nil {
		return err
	}
	program := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(streams.In),
		tea.WithOutput(streams.Out),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err = program.Run()
	return err
}

func (m *model) Init() tea.Cmd {
	return m.pages[m.active].Init()
}

func (m *model) titles() []string {
	titles := make([]string, len(m.pages))
	for i, p := range m.pages {
		titles[i] = p.Title()
	}
	return titles
}

func (m *model) activate(i int) tea.Cmd {
	m.active = (i + len(m.pages)) % len(m.pages)
	return m.pages[m.active].Init()
}

func (m *model) styleHelp() {
	pal := theme.Current()
	m.help.Styles.ShortKey = pal.ForegroundStyle(theme.ColorAccent)
	m.help.Styles.ShortDesc = pal.ForegroundStyle(theme.ColorTextMuted)
	m.help.Styles.FullKey = pal.ForegroundStyle(theme.ColorAccent)
	m.help.Styles.FullDesc = pal.ForegroundStyle(theme.ColorTextMuted)
}

func (m *model) headerHeight() int {
	return lipgloss.Height(renderHeader(m.titles(), m.active, m.width))
}

func (m *model) resize() {
	m.help.Width = m.width
	body := max(m.height-m.headerHeight()-lipgloss.Height(m.helpView()), 3)
	for _, p := range m.pages {
		p.SetSize(m.width, body)
	}
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case tea.MouseMsg:
		top := m.headerHeight()
		if msg.Y < top {
			if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && !m.pages[m.active].Capturing() {
				if i := tabAt(m.titles(), msg.X); i >= 0 {
					return m, m.activate(i)
				}
			}
			return m, nil
		}
		msg.Y -= top
		return m, m.pages[m.active].Update(msg)
	}

	// results and spinner ticks are routed to every page; each ignores
	// messages it did not start
	cmds := make([]tea.Cmd, 0, len(m.pages))
	for _, p := range m.pages {
		cmds = append(cmds, p.Update(msg))
	}
	return m, tea.Batch(cmds...)
}

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		return tea.Quit
	}
	active := m.pages[m.active]
	if active.Capturing() {
		return active.Update(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.NextTab):
		return m.activate(m.active + 1)
	case key.Matches(msg, m.keys.PrevTab):
		return m.activate(m.active - 1)
	case key.Matches(msg, m.keys.GoTo):
		if i := int(msg.Runes[0] - '1'); i < len(m.pages) {
			return m.activate(i)
		}
		return nil
	case key.Matches(msg, m.keys.Theme):
		theme.Cycle()
		m.styleHelp()
		for _, p := range m.pages {
			p.RefreshTheme()
		}
		return nil
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.resize()
		return nil
	}
	return active.Update(msg)
}

func (m *model) helpView() string {
	km := helpKeyMap{
		short: append(m.pages[m.active].Bindings(), m.keys.Help, m.keys.Quit),
		full:  [][]key.Binding{m.pages[m.active].Bindings(), m.keys.bindings()},
	}
	if m.showHelp {
		return m.help.FullHelpView(km.FullHelp())
	}
	return m.help.ShortHelpView(km.ShortHelp())
}

func (m *model) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		renderHeader(m.titles(), m.active, m.width),
		m.pages[m.active].View(),
		m.helpView(),
	)
}
