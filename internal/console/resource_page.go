package console

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/castlekeep/castlectl/internal/admin/api"
	"github.com/castlekeep/castlectl/internal/console/datatable"
	"github.com/castlekeep/castlectl/internal/console/modal"
	"github.com/castlekeep/castlectl/internal/console/pagectl"
	"github.com/castlekeep/castlectl/internal/resources"
	"github.com/castlekeep/castlectl/internal/theme"
	"github.com/castlekeep/castlectl/internal/util"
	"github.com/castlekeep/castlectl/internal/util/pagination"
)

// writeClipboard is replaced in tests.
var writeClipboard = clipboard.WriteAll

// statusLines is the height reserved under the table.
const statusLines = 2

type resourcePage struct {
	res  resources.Resource
	ctl  *pagectl.Controller
	keys pageKeyMap

	table   datatable.Model
	view    modal.Modal
	edit    modal.Modal
	confirm modal.Confirm
	alert   modal.Modal

	inputs []textinput.Model
	focus  int

	filter    textinput.Model
	filtering bool
	visible   []api.Record

	status  string
	started bool
	width   int
	height  int
}

func newResourcePage(res resources.Resource, ctl *pagectl.Controller) *resourcePage {
	filter := textinput.New()
	filter.Prompt = "/"
	filter.Placeholder = "filter this page"
	filter.Cursor.SetMode(cursor.CursorStatic)

	p := &resourcePage{
		res:    res,
		ctl:    ctl,
		keys:   newPageKeyMap(),
		table:  datatable.New(strings.ToLower(res.Title)),
		filter: filter,
	}
	p.view = modal.Modal{
		Title:   res.TitleNoun() + " Details",
		Size:    modal.SizeMedium,
		OnClose: ctl.Close,
		Footer:  "enter/esc/q close",
	}
	p.edit = modal.Modal{
		Title:   "Edit " + res.TitleNoun(),
		Size:    modal.SizeMedium,
		OnClose: ctl.Close,
		Footer:  "tab next field · ctrl+s save · esc cancel",
		Input:   true,
	}
	p.confirm = modal.Confirm{
		Title:        "Delete " + res.TitleNoun(),
		Type:         modal.TypeDanger,
		ConfirmLabel: "Delete",
		OnClose:      ctl.Close,
	}
	p.alert = modal.Modal{Title: "Error", Size: modal.SizeSmall, OnClose: ctl.DismissAlert, Footer: "enter/esc dismiss"}
	p.sync()
	return p
}

func (p *resourcePage) Title() string { return p.res.Title }

// Init loads the first page. It runs once, on first activation.
func (p *resourcePage) Init() tea.Cmd {
	if p.started {
		return nil
	}
	p.started = true
	return p.after(p.ctl.Load(1))
}

func (p *resourcePage) SetSize(width, height int) {
	p.width, p.height = width, height
	p.table.SetSize(width, max(height-statusLines, 3))
	p.filter.Width = max(width-4, 10)
}

func (p *resourcePage) RefreshTheme() {
	p.table.RefreshTheme()
}

// Capturing reports whether keys belong to a dialog or the filter input.
func (p *resourcePage) Capturing() bool {
	st := p.ctl.State()
	return st.Alert != "" || st.Modal != pagectl.ModalNone || p.filtering
}

func (p *resourcePage) Bindings() []key.Binding {
	bindings := []key.Binding{p.keys.Up, p.keys.Down}
	if p.res.Allows(resources.ActionView) {
		bindings = append(bindings, p.keys.View)
	}
	if p.res.Allows(resources.ActionEdit) {
		bindings = append(bindings, p.keys.Edit)
	}
	if p.res.Allows(resources.ActionDelete) {
		bindings = append(bindings, p.keys.Delete)
	}
	p.keys.Prev.SetEnabled(p.ctl.CanPrev())
	p.keys.Next.SetEnabled(p.ctl.CanNext())
	return append(bindings, p.keys.Prev, p.keys.Next, p.keys.Reload, p.keys.Filter, p.keys.Copy)
}

func (p *resourcePage) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return p.handleKey(msg)
	case tea.MouseMsg:
		p.handleMouse(msg)
		return nil
	}

	cmd := p.ctl.Update(msg)
	var tick tea.Cmd
	p.table, tick = p.table.Update(msg)
	return tea.Batch(p.after(cmd), tick)
}

// after re-syncs the table with the controller once cmd has been issued.
func (p *resourcePage) after(cmd tea.Cmd) tea.Cmd {
	return tea.Batch(cmd, p.sync())
}

func (p *resourcePage) sync() tea.Cmd {
	st := p.ctl.State()
	p.visible = p.filtered(st.Records)
	return p.table.SetProjection(p.res.Project(p.visible, st.Loading, datatable.WithActions(p.actionLabels)))
}

func (p *resourcePage) actionLabels(api.Record) []string {
	labels := make([]string, 0, len(p.res.Actions))
	for _, a := range p.res.Actions {
		labels = append(labels, string(a))
	}
	return labels
}

// filtered applies the fuzzy filter to the current page.
func (p *resourcePage) filtered(records []api.Record) []api.Record {
	query := strings.TrimSpace(p.filter.Value())
	if query == "" || len(records) == 0 {
		return records
	}
	rows := p.res.Project(records, false).Rows
	matches := fuzzy.FindFrom(query, rowSource(rows))
	out := make([]api.Record, 0, len(matches))
	for _, m := range matches {
		out = append(out, records[m.Index])
	}
	return out
}

type rowSource [][]string

func (r rowSource) String(i int) string { return strings.Join(r[i], " ") }

func (r rowSource) Len() int { return len(r) }

func (p *resourcePage) selected() api.Record {
	i := p.table.Cursor()
	if i < 0 || i >= len(p.visible) {
		return nil
	}
	return p.visible[i]
}

func (p *resourcePage) handleKey(msg tea.KeyMsg) tea.Cmd {
	st := p.ctl.State()
	if st.Alert != "" {
		if p.alert.HandleKey(true, msg) || msg.Type == tea.KeyEnter {
			p.ctl.DismissAlert()
		}
		return nil
	}

	switch st.Modal {
	case pagectl.ModalView:
		if !p.view.HandleKey(true, msg) && msg.Type == tea.KeyEnter {
			p.ctl.Close()
		}
		return p.sync()
	case pagectl.ModalEdit:
		return p.handleEditKey(msg)
	case pagectl.ModalDelete:
		if p.confirm.HandleKey(true, msg) == modal.ActionConfirm {
			return p.after(p.ctl.ConfirmDelete())
		}
		return p.sync()
	}

	if p.filtering {
		return p.handleFilterKey(msg)
	}

	p.status = ""
	switch {
	case key.Matches(msg, p.keys.View):
		if rec := p.selected(); rec != nil && p.res.Allows(resources.ActionView) {
			p.ctl.View(rec)
		}
	case key.Matches(msg, p.keys.Edit):
		if rec := p.selected(); rec != nil && p.res.Allows(resources.ActionEdit) {
			p.ctl.StartEdit(rec)
			return p.openEditForm()
		}
	case key.Matches(msg, p.keys.Delete):
		if rec := p.selected(); rec != nil && p.res.Allows(resources.ActionDelete) {
			p.ctl.StartDelete(rec)
			p.confirm.Reset()
			p.confirm.Message = fmt.Sprintf("Are you sure you want to delete %s %s? This cannot be undone.", p.res.Noun, rec.ID())
		}
	case key.Matches(msg, p.keys.Prev):
		return p.after(p.ctl.ChangePage(-1))
	case key.Matches(msg, p.keys.Next):
		return p.after(p.ctl.ChangePage(1))
	case key.Matches(msg, p.keys.Reload):
		return p.after(p.ctl.Reload())
	case key.Matches(msg, p.keys.Filter):
		p.filtering = true
		return p.filter.Focus()
	case key.Matches(msg, p.keys.Copy):
		p.copySelectedID()
	default:
		var cmd tea.Cmd
		p.table, cmd = p.table.Update(msg)
		return cmd
	}
	return nil
}

func (p *resourcePage) copySelectedID() {
	rec := p.selected()
	if rec == nil {
		return
	}
	if err := writeClipboard(rec.ID()); err != nil {
		p.status = "Copy failed: " + err.Error()
		return
	}
	p.status = "Copied " + util.AbbreviateID(rec.ID())
}

func (p *resourcePage) handleFilterKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		p.filter.SetValue("")
		p.filter.Blur()
		p.filtering = false
		return p.sync()
	case tea.KeyEnter:
		p.filter.Blur()
		p.filtering = false
		return nil
	}
	var cmd tea.Cmd
	p.filter, cmd = p.filter.Update(msg)
	return tea.Batch(cmd, p.sync())
}

func (p *resourcePage) openEditForm() tea.Cmd {
	draft := p.ctl.State().Draft
	p.inputs = p.inputs[:0]
	for _, f := range draft.Fields() {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = f.Label
		in.CharLimit = 256
		in.Cursor.SetMode(cursor.CursorStatic)
		in.Width = max(modal.SizeMedium.Width(p.width)-8, 10)
		in.SetValue(draft.Value(f.Key))
		p.inputs = append(p.inputs, in)
	}
	p.focus = 0
	return p.focusInput(0)
}

func (p *resourcePage) focusInput(i int) tea.Cmd {
	if len(p.inputs) == 0 {
		return nil
	}
	p.focus = (i + len(p.inputs)) % len(p.inputs)
	for j := range p.inputs {
		p.inputs[j].Blur()
	}
	return p.inputs[p.focus].Focus()
}

func (p *resourcePage) handleEditKey(msg tea.KeyMsg) tea.Cmd {
	if p.edit.HandleKey(true, msg) {
		p.inputs = nil
		return p.sync()
	}
	last := p.focus == len(p.inputs)-1
	switch msg.String() {
	case "tab", "down":
		return p.focusInput(p.focus + 1)
	case "shift+tab", "up":
		return p.focusInput(p.focus - 1)
	case "ctrl+s":
		return p.after(p.ctl.CommitEdit())
	case "enter":
		if last {
			return p.after(p.ctl.CommitEdit())
		}
		return p.focusInput(p.focus + 1)
	}
	if len(p.inputs) == 0 {
		return nil
	}
	var cmd tea.Cmd
	p.inputs[p.focus], cmd = p.inputs[p.focus].Update(msg)
	p.ctl.SetDraft(p.ctl.State().Draft.Fields()[p.focus].Key, p.inputs[p.focus].Value())
	return cmd
}

func (p *resourcePage) handleMouse(msg tea.MouseMsg) {
	st := p.ctl.State()
	switch {
	case st.Alert != "":
		p.alert.HandleMouse(true, msg, st.Alert, p.width, p.height)
	case st.Modal == pagectl.ModalView:
		p.view.HandleMouse(true, msg, p.detailBody(st.Selected), p.width, p.height)
	case st.Modal == pagectl.ModalEdit:
		if p.edit.HandleMouse(true, msg, p.editBody(), p.width, p.height) {
			p.inputs = nil
		}
	case st.Modal == pagectl.ModalDelete:
		p.confirm.HandleMouse(true, msg, p.width, p.height)
	default:
		return
	}
	p.sync()
}

func (p *resourcePage) View() string {
	st := p.ctl.State()
	switch {
	case st.Alert != "":
		return p.alert.View(true, st.Alert, p.width, p.height)
	case st.Modal == pagectl.ModalView:
		return p.view.View(true, p.detailBody(st.Selected), p.width, p.height)
	case st.Modal == pagectl.ModalEdit:
		return p.edit.View(true, p.editBody(), p.width, p.height)
	case st.Modal == pagectl.ModalDelete:
		return p.confirm.View(true, p.width, p.height)
	}

	return lipgloss.JoinVertical(lipgloss.Left, p.table.View(), p.statusLine(st))
}

func (p *resourcePage) detailBody(rec api.Record) string {
	pal := theme.Current()
	label := pal.ForegroundStyle(theme.ColorTextSecondary).Bold(true)
	var sb strings.Builder
	for i, kv := range p.res.Describe(rec) {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(label.Render(kv[0] + ":"))
		sb.WriteString(" ")
		sb.WriteString(kv[1])
	}
	return sb.String()
}

func (p *resourcePage) editBody() string {
	pal := theme.Current()
	label := pal.ForegroundStyle(theme.ColorTextSecondary).Bold(true)
	focused := pal.ForegroundStyle(theme.ColorPrimary).Bold(true)
	fields := p.ctl.State().Draft.Fields()

	var sb strings.Builder
	for i, in := range p.inputs {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		style := label
		if i == p.focus {
			style = focused
		}
		name := ""
		if i < len(fields) {
			name = fields[i].Label
		}
		sb.WriteString(style.Render(name))
		sb.WriteString("\n")
		sb.WriteString(in.View())
	}
	if p.ctl.Busy() {
		sb.WriteString("\n\nSaving...")
	}
	return sb.String()
}

func (p *resourcePage) statusLine(st pagectl.State) string {
	pal := theme.Current()
	enabled := pal.ForegroundStyle(theme.ColorAccent)
	disabled := pal.ForegroundStyle(theme.ColorTextMuted).Faint(true)

	prev, next := disabled.Render("‹ Previous"), disabled.Render("Next ›")
	if p.ctl.CanPrev() {
		prev = enabled.Render("‹ Previous")
	}
	if p.ctl.CanNext() {
		next = enabled.Render("Next ›")
	}

	parts := []string{prev, pagination.Label(st.Page, st.TotalPages), next}
	switch {
	case st.Err != nil:
		parts = append(parts, pal.ForegroundStyle(theme.ColorDanger).Render("Failed to load "+strings.ToLower(p.res.Title)+": "+st.Err.Error()))
	case p.status != "":
		parts = append(parts, pal.ForegroundStyle(theme.ColorSuccess).Render(p.status))
	case st.Notice != "":
		parts = append(parts, pal.ForegroundStyle(theme.ColorSuccess).Render(st.Notice))
	}
	line := strings.Join(parts, "  ")
	if p.filtering || p.filter.Value() != "" {
		return p.filter.View() + "\n" + line
	}
	return "\n" + line
}
