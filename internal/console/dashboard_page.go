package console

import (
	"context"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/castlekeep/castlectl/internal/admin/api"
	"github.com/castlekeep/castlectl/internal/console/datatable"
	"github.com/castlekeep/castlectl/internal/console/modal"
	"github.com/castlekeep/castlectl/internal/log"
	"github.com/castlekeep/castlectl/internal/resources"
	"github.com/castlekeep/castlectl/internal/theme"
)

const (
	cardWidth  = 22
	cardHeight = 4
)

type dashboardLoadedMsg struct {
	gen      uint64
	stats    api.Record
	activity []api.Record
	err      error
}

type dashboardPage struct {
	api    api.DashboardAPI
	ctx    context.Context
	logger *slog.Logger
	keys   pageKeyMap

	stats    api.Record
	activity []api.Record
	loading  bool
	err      error
	gen      uint64
	cancel   context.CancelFunc

	table    datatable.Model
	view     modal.Modal
	selected api.Record

	started bool
	width   int
	height  int
}

func newDashboardPage(ctx context.Context, dash api.DashboardAPI, logger *slog.Logger) *dashboardPage {
	p := &dashboardPage{
		api:    dash,
		ctx:    ctx,
		logger: logger.With("resource", "dashboard"),
		keys:   newPageKeyMap(),
		table:  datatable.New("dashboard"),
	}
	p.view = modal.Modal{
		Title:   "Activity Details",
		Size:    modal.SizeMedium,
		OnClose: func() { p.selected = nil },
		Footer:  "enter/esc/q close",
	}
	p.sync()
	return p
}

func (p *dashboardPage) Title() string { return "Dashboard" }

func (p *dashboardPage) Init() tea.Cmd {
	if p.started {
		return nil
	}
	p.started = true
	return p.load()
}

// load fetches the stats and the recent activity concurrently. Nothing is
// shown until both have finished.
func (p *dashboardPage) load() tea.Cmd {
	if p.cancel != nil {
		p.cancel()
	}
	p.gen++
	gen := p.gen
	p.loading = true
	p.err = nil

	ctx, cancel := context.WithCancel(log.WithHTTPLogContext(p.ctx, log.HTTPLogContext{Resource: "dashboard"}))
	p.cancel = cancel
	dash := p.api

	fetch := func() tea.Msg {
		defer cancel()
		var (
			stats    api.Record
			activity []api.Record
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			stats, err = dash.Stats(log.WithHTTPLogContext(gctx, log.HTTPLogContext{Operation: "stats"}))
			return err
		})
		g.Go(func() error {
			var err error
			activity, err = dash.RecentActivity(log.WithHTTPLogContext(gctx, log.HTTPLogContext{Operation: "activity"}))
			return err
		})
		err := g.Wait()
		return dashboardLoadedMsg{gen: gen, stats: stats, activity: activity, err: err}
	}
	return tea.Batch(fetch, p.sync())
}

func (p *dashboardPage) sync() tea.Cmd {
	return p.table.SetProjection(resources.ProjectActivity(p.activity, p.loading))
}

func (p *dashboardPage) SetSize(width, height int) {
	p.width, p.height = width, height
	p.table.SetSize(width, max(height-p.cardsHeight()-3, 3))
}

func (p *dashboardPage) RefreshTheme() { p.table.RefreshTheme() }

func (p *dashboardPage) Capturing() bool { return p.selected != nil }

func (p *dashboardPage) Bindings() []key.Binding {
	return []key.Binding{p.keys.Up, p.keys.Down, p.keys.View, p.keys.Reload}
}

func (p *dashboardPage) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		p.apply(msg)
		return p.sync()
	case tea.KeyMsg:
		return p.handleKey(msg)
	case tea.MouseMsg:
		if p.selected != nil {
			p.view.HandleMouse(true, msg, p.detailBody(), p.width, p.height)
		}
		return nil
	}
	var cmd tea.Cmd
	p.table, cmd = p.table.Update(msg)
	return cmd
}

func (p *dashboardPage) apply(msg dashboardLoadedMsg) {
	if msg.gen != p.gen {
		return
	}
	p.cancel = nil
	p.loading = false
	if msg.err != nil {
		p.logger.Error("failed to load dashboard", "error", msg.err)
		p.err = msg.err
		p.stats = nil
		p.activity = []api.Record{}
		return
	}
	p.stats = msg.stats
	p.activity = msg.activity
}

func (p *dashboardPage) handleKey(msg tea.KeyMsg) tea.Cmd {
	if p.selected != nil {
		if !p.view.HandleKey(true, msg) && msg.Type == tea.KeyEnter {
			p.selected = nil
		}
		return nil
	}
	switch {
	case key.Matches(msg, p.keys.Reload):
		return p.load()
	case key.Matches(msg, p.keys.View):
		if i := p.table.Cursor(); i >= 0 && i < len(p.activity) {
			p.selected = p.activity[i]
		}
		return nil
	}
	var cmd tea.Cmd
	p.table, cmd = p.table.Update(msg)
	return cmd
}

func (p *dashboardPage) View() string {
	if p.selected != nil {
		return p.view.View(true, p.detailBody(), p.width, p.height)
	}
	pal := theme.Current()
	if p.loading {
		return p.table.View()
	}

	sections := []string{p.cards()}
	if p.err != nil {
		sections = append(sections, pal.ForegroundStyle(theme.ColorDanger).Render("Failed to load dashboard: "+p.err.Error()))
	}
	title := pal.ForegroundStyle(theme.ColorTextPrimary).Bold(true).Render("Recent Activity")
	sections = append(sections, title, p.table.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// cards lays the stat cards out in as many rows as the width needs.
func (p *dashboardPage) cards() string {
	pal := theme.Current()
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(pal.Adaptive(theme.ColorBorder)).
		Padding(0, 1).
		Width(cardWidth - 2)
	valueStyle := pal.ForegroundStyle(theme.ColorPrimary).Bold(true)
	titleStyle := pal.ForegroundStyle(theme.ColorTextSecondary)

	perRow := p.cardsPerRow()
	var rows, row []string
	for _, kv := range resources.DescribeStats(p.stats) {
		row = append(row, box.Render(valueStyle.Render(kv[1])+"\n"+titleStyle.Render(kv[0])))
		if len(row) == perRow {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return strings.Join(rows, "\n")
}

func (p *dashboardPage) cardsPerRow() int {
	if p.width <= 0 {
		return len(resources.StatCards())
	}
	return max(p.width/cardWidth, 1)
}

func (p *dashboardPage) cardsHeight() int {
	n := len(resources.StatCards())
	perRow := p.cardsPerRow()
	return ((n + perRow - 1) / perRow) * cardHeight
}

func (p *dashboardPage) detailBody() string {
	pal := theme.Current()
	label := pal.ForegroundStyle(theme.ColorTextSecondary).Bold(true)
	lines := make([]string, 0, 5)
	for _, kv := range resources.DescribeActivity(p.selected) {
		lines = append(lines, label.Render(kv[0]+":")+" "+kv[1])
	}
	return strings.Join(lines, "\n")
}
