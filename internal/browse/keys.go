package browse

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the browser.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding // Detail only.
	PageDown key.Binding // Detail only.
	NextTab  key.Binding
	PrevTab  key.Binding

	TabSearch   key.Binding
	TabRecent   key.Binding
	TabTrending key.Binding
	TabCompare  key.Binding
	TabHelp     key.Binding

	Open    key.Binding
	Back    key.Binding
	Search  key.Binding
	Add     key.Binding
	Remove  key.Binding
	Refresh key.Binding
	Period  key.Binding

	Submit    key.Binding
	Cancel    key.Binding
	Backspace key.Binding

	Quit      key.Binding
	ForceQuit key.Binding
}

// DefaultKeyMap is the built-in key binding set.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup"),
		key.WithHelp("pgup", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown"),
		key.WithHelp("pgdn", "page down"),
	),
	NextTab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next tab"),
	),
	PrevTab: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("S-tab", "prev tab"),
	),
	TabSearch: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "search"),
	),
	TabRecent: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "recent"),
	),
	TabTrending: key.NewBinding(
		key.WithKeys("3"),
		key.WithHelp("3", "trending"),
	),
	TabCompare: key.NewBinding(
		key.WithKeys("5"),
		key.WithHelp("5", "compare"),
	),
	TabHelp: key.NewBinding(
		key.WithKeys("4"),
		key.WithHelp("4", "help"),
	),
	Open: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "details"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Add: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "add to compare"),
	),
	Remove: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "remove"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Period: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "period"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "submit"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	Backspace: key.NewBinding(
		key.WithKeys("backspace"),
		key.WithHelp("⌫", "delete"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q"),
		key.WithHelp("q", "quit"),
	),
	ForceQuit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("C-c", "quit"),
	),
}

// ShortHelp implements help.KeyMap for the status bar.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.Up, k.Down, k.Open, k.Search, k.Add, k.Quit}
}

// FullHelp implements help.KeyMap for the Help tab.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextTab, k.PrevTab, k.TabSearch, k.TabRecent, k.TabTrending, k.TabCompare, k.TabHelp},
		{k.Up, k.Down, k.Open, k.Back, k.PageUp, k.PageDown},
		{k.Search, k.Add, k.Remove, k.Refresh, k.Period},
		{k.Quit, k.ForceQuit},
	}
}

// contextHelp is the short help for the current tab and mode.
type contextHelp []key.Binding

func (c contextHelp) ShortHelp() []key.Binding  { return c }
func (c contextHelp) FullHelp() [][]key.Binding { return [][]key.Binding{c} }

// jump returns the binding that jumps straight to t.
func (k KeyMap) jump(t Tab) key.Binding {
	switch t {
	case TabRecent:
		return k.TabRecent
	case TabTrending:
		return k.TabTrending
	case TabCompare:
		return k.TabCompare
	case TabHelp:
		return k.TabHelp
	default:
		return k.TabSearch
	}
}

func (k KeyMap) helpFor(tab Tab, mode Mode) contextHelp {
	switch mode.(type) {
	case Detail:
		return contextHelp{k.Up, k.Down, k.PageUp, k.PageDown, k.Back, k.Quit}
	case Input:
		return contextHelp{k.Submit, k.Cancel, k.Backspace}
	}
	switch tab {
	case TabSearch:
		return contextHelp{k.NextTab, k.Up, k.Down, k.Open, k.Search, k.Add, k.Quit}
	case TabRecent:
		return contextHelp{k.NextTab, k.Up, k.Down, k.Open, k.Add, k.Refresh, k.Quit}
	case TabTrending:
		return contextHelp{k.NextTab, k.Up, k.Down, k.Open, k.Period, k.Refresh, k.Quit}
	case TabCompare:
		return contextHelp{k.NextTab, k.Up, k.Down, k.Open, k.Add, k.Remove, k.Refresh, k.Quit}
	default:
		return contextHelp{k.NextTab, k.PrevTab, k.Quit}
	}
}
