package browse

// Tab is one of the top-level views, in display order.
type Tab int

const (
	TabSearch Tab = iota
	TabRecent
	TabTrending
	TabCompare
	TabHelp
	tabCount
)

var tabNames = [...]string{
	TabSearch:   "Search",
	TabRecent:   "Recent",
	TabTrending: "Trending",
	TabCompare:  "Compare",
	TabHelp:     "Help",
}

func (t Tab) String() string {
	if t < 0 || t >= tabCount {
		return "Unknown"
	}
	return tabNames[t]
}

// Next returns the following tab, wrapping from Help to Search.
func (t Tab) Next() Tab {
	return (t + 1) % tabCount
}

// Prev returns the preceding tab, wrapping from Search to Help.
func (t Tab) Prev() Tab {
	return (t + tabCount - 1) % tabCount
}

// Tabs lists every tab in order.
func Tabs() []Tab {
	return []Tab{TabSearch, TabRecent, TabTrending, TabCompare, TabHelp}
}
