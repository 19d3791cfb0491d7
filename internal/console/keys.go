package console

import "github.com/charmbracelet/bubbles/key"

type globalKeyMap struct {
	NextTab key.Binding
	PrevTab key.Binding
	GoTo    key.Binding
	Theme   key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func newGlobalKeyMap() globalKeyMap {
	return globalKeyMap{
		NextTab: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next page")),
		PrevTab: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev page")),
		GoTo:    key.NewBinding(key.WithKeys("1", "2", "3", "4"), key.WithHelp("1-4", "jump")),
		Theme:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k globalKeyMap) bindings() []key.Binding {
	return []key.Binding{k.NextTab, k.PrevTab, k.GoTo, k.Theme, k.Help, k.Quit}
}

type pageKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	View   key.Binding
	Edit   key.Binding
	Delete key.Binding
	Prev   key.Binding
	Next   key.Binding
	Reload key.Binding
	Filter key.Binding
	Copy   key.Binding
}

func newPageKeyMap() pageKeyMap {
	return pageKeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		View:   key.NewBinding(key.WithKeys("enter", "v"), key.WithHelp("enter/v", "view")),
		Edit:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Delete: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Prev:   key.NewBinding(key.WithKeys("left", "p"), key.WithHelp("←/p", "prev page")),
		Next:   key.NewBinding(key.WithKeys("right", "n"), key.WithHelp("→/n", "next page")),
		Reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Filter: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Copy:   key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy id")),
	}
}

// helpKeyMap adapts the active bindings to bubbles/help.
type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (h helpKeyMap) ShortHelp() []key.Binding { return h.short }

func (h helpKeyMap) FullHelp() [][]key.Binding { return h.full }
