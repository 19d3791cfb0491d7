// Package pagectl drives one paginated admin resource: loading pages from its
// API binding, tracking the selected record and modal, and committing edits
// and deletes.
//
// All methods must be called from the Bubble Tea update goroutine. API calls
// run inside the returned commands and report back through Update.
package pagectl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/castlekeep/castlectl/internal/admin/api"
	"github.com/castlekeep/castlectl/internal/config"
	"github.com/castlekeep/castlectl/internal/log"
	"github.com/castlekeep/castlectl/internal/util/pagination"
)

// ModalKind is the dialog currently shown for the selected record.
type ModalKind int

const (
	ModalNone ModalKind = iota
	ModalView
	ModalEdit
	ModalDelete
)

func (k ModalKind) String() string {
	switch k {
	case ModalView:
		return "view"
	case ModalEdit:
		return "edit"
	case ModalDelete:
		return "delete"
	default:
		return "none"
	}
}

type Options struct {
	// Name tags the controller's messages and log lines, e.g. "users".
	Name string
	// Noun is the singular used in alerts, e.g. "user".
	Noun       string
	PageSize   int
	EditFields []EditField
	Logger     *slog.Logger
	// Context bounds every request. Cancelling it abandons in-flight work.
	Context context.Context
}

// State is a snapshot of the controller for rendering.
type State struct {
	Page       int
	TotalPages int
	Records    []api.Record
	Loading    bool
	Selected   api.Record
	Modal      ModalKind
	Draft      Draft
	Err        error
	Alert      string
	Notice     string
	Busy       bool
}

type Controller struct {
	binding api.ResourceAPI
	name    string
	noun    string
	size    int
	fields  []EditField
	logger  *slog.Logger
	ctx     context.Context

	page       int
	totalPages int
	records    []api.Record
	loading    bool
	selected   api.Record
	modal      ModalKind
	draft      Draft
	err        error
	alert      string
	notice     string
	busy       bool

	gen    uint64
	cancel context.CancelFunc
}

type loadedMsg struct {
	owner  string
	gen    uint64
	page   int
	result *api.Page
	err    error
}

type mutation int

const (
	mutationUpdate mutation = iota
	mutationDelete
)

type mutatedMsg struct {
	owner string
	kind  mutation
	id    string
	err   error
}

func New(binding api.ResourceAPI, opts Options) *Controller {
	size := opts.PageSize
	if size <= 0 {
		size = config.DefaultPageSize
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	noun := strings.TrimSpace(opts.Noun)
	if noun == "" {
		noun = "record"
	}
	return &Controller{
		binding:    binding,
		name:       opts.Name,
		noun:       noun,
		size:       size,
		fields:     opts.EditFields,
		logger:     logger.With("resource", opts.Name),
		ctx:        ctx,
		page:       1,
		totalPages: 1,
	}
}

func (c *Controller) Name() string { return c.name }

func (c *Controller) State() State {
	return State{
		Page:       c.page,
		TotalPages: c.totalPages,
		Records:    c.records,
		Loading:    c.loading,
		Selected:   c.selected,
		Modal:      c.modal,
		Draft:      c.draft,
		Err:        c.err,
		Alert:      c.alert,
		Notice:     c.notice,
		Busy:       c.busy,
	}
}

// Load fetches page. Any load still in flight is cancelled and its result
// will be dropped when it arrives.
func (c *Controller) Load(page int) tea.Cmd {
	if c.cancel != nil {
		c.cancel()
	}
	c.gen++
	gen := c.gen
	page = max(page, 1)
	c.page = page
	c.loading = true
	c.err = nil

	ctx, cancel := context.WithCancel(log.WithHTTPLogContext(c.ctx, log.HTTPLogContext{
		Resource:  c.name,
		Operation: "list",
		Page:      page,
	}))
	c.cancel = cancel

	binding, size, owner := c.binding, c.size, c.name
	c.logger.Debug("loading page", "page", page, "page_size", size, "generation", gen)
	return func() tea.Msg {
		defer cancel()
		result, err := binding.List(ctx, page, size)
		return loadedMsg{owner: owner, gen: gen, page: page, result: result, err: err}
	}
}

// Reload fetches the current page again.
func (c *Controller) Reload() tea.Cmd {
	return c.Load(c.page)
}

// ChangePage moves by delta pages, clamped to the known range. It returns nil
// when the clamped page is the current one.
func (c *Controller) ChangePage(delta int) tea.Cmd {
	next, moved := pagination.Step(c.page, c.totalPages, delta)
	if !moved {
		return nil
	}
	return c.Load(next)
}

func (c *Controller) CanPrev() bool { return !c.loading && c.page > 1 }

func (c *Controller) CanNext() bool { return !c.loading && c.page < c.totalPages }

// Editable reports whether StartEdit will open an edit modal.
func (c *Controller) Editable() bool { return len(c.fields) > 0 }

func (c *Controller) View(rec api.Record) {
	if rec == nil {
		return
	}
	c.open(rec, ModalView)
}

func (c *Controller) StartEdit(rec api.Record) {
	if rec == nil || !c.Editable() {
		return
	}
	c.open(rec, ModalEdit)
	c.draft = newDraft(c.fields, rec)
}

func (c *Controller) StartDelete(rec api.Record) {
	if rec == nil {
		return
	}
	c.open(rec, ModalDelete)
}

func (c *Controller) open(rec api.Record, kind ModalKind) {
	c.selected = rec
	c.modal = kind
	c.draft = Draft{}
	c.notice = ""
}

// SetDraft updates one draft value. It is ignored outside an edit.
func (c *Controller) SetDraft(key, value string) bool {
	if c.modal != ModalEdit {
		return false
	}
	return c.draft.set(key, value)
}

// Close dismisses the open modal and discards the draft.
func (c *Controller) Close() {
	c.modal = ModalNone
	c.selected = nil
	c.draft = Draft{}
}

// CommitEdit validates the draft and sends it to the API. Invalid input
// raises an alert without calling the API.
func (c *Controller) CommitEdit() tea.Cmd {
	if c.modal != ModalEdit || c.selected == nil || c.busy {
		return nil
	}
	fields, err := c.draft.Payload()
	if err != nil {
		c.alert = fmt.Sprintf("Invalid %s: %v", c.noun, err)
		return nil
	}
	id := c.selected.ID()
	binding := c.binding
	return c.mutate(mutationUpdate, id, "update", func(ctx context.Context) error {
		return binding.Update(ctx, id, fields)
	})
}

// ConfirmDelete deletes the selected record.
func (c *Controller) ConfirmDelete() tea.Cmd {
	if c.modal != ModalDelete || c.selected == nil || c.busy {
		return nil
	}
	id := c.selected.ID()
	binding := c.binding
	return c.mutate(mutationDelete, id, "delete", func(ctx context.Context) error {
		return binding.Delete(ctx, id)
	})
}

func (c *Controller) mutate(kind mutation, id, operation string, call func(context.Context) error) tea.Cmd {
	c.busy = true
	ctx := log.WithHTTPLogContext(c.ctx, log.HTTPLogContext{Resource: c.name, Operation: operation})
	owner := c.name
	return func() tea.Msg {
		return mutatedMsg{owner: owner, kind: kind, id: id, err: call(ctx)}
	}
}

// Busy reports whether an update or delete is in flight.
func (c *Controller) Busy() bool { return c.busy }

// Alert returns the pending blocking alert, if any.
func (c *Controller) Alert() string { return c.alert }

func (c *Controller) DismissAlert() { c.alert = "" }

// Update applies results of commands returned by this controller. Messages
// belonging to other controllers are ignored.
func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.owner != c.name {
			return nil
		}
		return c.applyLoad(msg)
	case mutatedMsg:
		if msg.owner != c.name {
			return nil
		}
		return c.applyMutation(msg)
	}
	return nil
}

func (c *Controller) applyLoad(msg loadedMsg) tea.Cmd {
	if msg.gen != c.gen {
		c.logger.Debug("dropping superseded page", "page", msg.page, "generation", msg.gen)
		return nil
	}
	c.cancel = nil
	c.loading = false

	if msg.err != nil || msg.result == nil {
		err := msg.err
		if err == nil {
			err = errors.New("empty response")
		}
		c.logger.Error("failed to load "+c.name, "page", msg.page, "error", err)
		c.records = []api.Record{}
		c.totalPages = 1
		c.page = 1
		c.err = err
		return nil
	}

	c.records = msg.result.Records
	if c.records == nil {
		c.records = []api.Record{}
	}
	c.totalPages = max(1, msg.result.Pages)
	if c.page > c.totalPages {
		return c.Load(c.totalPages)
	}
	return nil
}

func (c *Controller) applyMutation(msg mutatedMsg) tea.Cmd {
	c.busy = false
	verb := "update"
	if msg.kind == mutationDelete {
		verb = "delete"
	}
	if msg.err != nil {
		c.logger.Error("failed to "+verb+" "+c.noun, "id", msg.id, "error", msg.err)
		c.alert = fmt.Sprintf("Failed to %s %s: %v", verb, c.noun, msg.err)
		return nil
	}

	c.logger.Info(verb+"d "+c.noun, "id", msg.id)
	if c.selected != nil && c.selected.ID() == msg.id {
		c.Close()
	}
	c.notice = fmt.Sprintf("%s %s %sd", capitalize(c.noun), msg.id, verb)
	return c.Reload()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
