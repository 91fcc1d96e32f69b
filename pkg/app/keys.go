package app

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sgaunet/s3tui/pkg/nav"
)

// KeyMap defines the key bindings of every logical action.
type KeyMap struct {
	Up             key.Binding
	Down           key.Binding
	Top            key.Binding
	Bottom         key.Binding
	PageUp         key.Binding
	PageDown       key.Binding
	Open           key.Binding
	Back           key.Binding
	Root           key.Binding
	Refresh        key.Binding
	Filter         key.Binding
	ResetFilter    key.Binding
	Sort           key.Binding
	Versions       key.Binding
	Preview        key.Binding
	Download       key.Binding
	DownloadAs     key.Binding
	Encoding       key.Binding
	Wrap           key.Binding
	Numbers        key.Binding
	Console        key.Binding
	CancelDownload key.Binding
	Help           key.Binding
	Quit           key.Binding

	// Dialog keys, only active while an overlay is open.
	Confirm key.Binding
	Cancel  key.Binding
	Yes     key.Binding
	No      key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:             key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "move up")),
		Down:           key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "move down")),
		Top:            key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("home/g", "go to top")),
		Bottom:         key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("end/G", "go to bottom")),
		PageUp:         key.NewBinding(key.WithKeys("pgup", "ctrl+b"), key.WithHelp("pgup", "page up")),
		PageDown:       key.NewBinding(key.WithKeys("pgdown", "ctrl+f"), key.WithHelp("pgdn", "page down")),
		Open:           key.NewBinding(key.WithKeys("enter", "right", "l"), key.WithHelp("enter", "open")),
		Back:           key.NewBinding(key.WithKeys("backspace", "left", "h", "esc"), key.WithHelp("←/esc", "back")),
		Root:           key.NewBinding(key.WithKeys("~"), key.WithHelp("~", "bucket list")),
		Refresh:        key.NewBinding(key.WithKeys("R", "f5"), key.WithHelp("R", "refresh")),
		Filter:         key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		ResetFilter:    key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reset filter")),
		Sort:           key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "sort")),
		Versions:       key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "versions")),
		Preview:        key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "preview")),
		Download:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "download")),
		DownloadAs:     key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "download as")),
		Encoding:       key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "encoding")),
		Wrap:           key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "wrap")),
		Numbers:        key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "line numbers")),
		Console:        key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "console")),
		CancelDownload: key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "cancel download")),
		Help:           key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:           key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		Confirm: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		Cancel:  key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "cancel")),
		Yes:     key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "yes")),
		No:      key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "no")),
	}
}

func (k KeyMap) bindings() []struct {
	binding key.Binding
	action  nav.Action
} {
	return []struct {
		binding key.Binding
		action  nav.Action
	}{
		{k.Up, nav.MoveUp},
		{k.Down, nav.MoveDown},
		{k.Top, nav.GoTop},
		{k.Bottom, nav.GoBottom},
		{k.PageUp, nav.PageUp},
		{k.PageDown, nav.PageDown},
		{k.Open, nav.Open},
		{k.Back, nav.Back},
		{k.Root, nav.BackToRoot},
		{k.Refresh, nav.Refresh},
		{k.Filter, nav.Filter},
		{k.ResetFilter, nav.ResetFilter},
		{k.Sort, nav.Sort},
		{k.Versions, nav.Versions},
		{k.Preview, nav.Preview},
		{k.Download, nav.Download},
		{k.DownloadAs, nav.DownloadAs},
		{k.Encoding, nav.Encoding},
		{k.Wrap, nav.ToggleWrap},
		{k.Numbers, nav.ToggleNumbers},
		{k.Console, nav.OpenConsole},
		{k.CancelDownload, nav.CancelDownload},
		{k.Help, nav.Help},
		{k.Quit, nav.Quit},
	}
}

// Resolve returns the action bound to msg in a view kind. A chord bound to
// several actions resolves to the first one the view allows.
func (k KeyMap) Resolve(msg tea.KeyMsg, kind nav.ViewKind) (nav.Action, bool) {
	for _, b := range k.bindings() {
		if key.Matches(msg, b.binding) && nav.Allowed(kind, b.action) {
			return b.action, true
		}
	}
	return nav.ActionNone, false
}

// binding returns the key binding of an action.
func (k KeyMap) binding(action nav.Action) (key.Binding, bool) {
	for _, b := range k.bindings() {
		if b.action == action {
			return b.binding, true
		}
	}
	return key.Binding{}, false
}

// For returns the help of the actions available in a view kind.
func (k KeyMap) For(kind nav.ViewKind) ViewKeys {
	var keys []key.Binding
	for _, a := range nav.Actions(kind) {
		if b, ok := k.binding(a); ok {
			keys = append(keys, b)
		}
	}
	return ViewKeys{keys: keys, help: k.Help, quit: k.Quit}
}

// ViewKeys implements help.KeyMap for one view kind.
type ViewKeys struct {
	keys []key.Binding
	help key.Binding
	quit key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (v ViewKeys) ShortHelp() []key.Binding {
	short := make([]key.Binding, 0, 8)
	for _, b := range v.keys {
		if len(short) == 6 {
			break
		}
		if b.Help() == v.help.Help() || b.Help() == v.quit.Help() {
			continue
		}
		short = append(short, b)
	}
	return append(short, v.help, v.quit)
}

// FullHelp returns keybindings for the expanded help view
func (v ViewKeys) FullHelp() [][]key.Binding {
	const perColumn = 6
	var columns [][]key.Binding
	for i := 0; i < len(v.keys); i += perColumn {
		columns = append(columns, v.keys[i:min(i+perColumn, len(v.keys))])
	}
	return columns
}
