package browse

import (
	"fmt"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/git-pkgs/cratescope/internal/core"
)

const pageScroll = 10

// Update applies one message to the state. It is the only place the App
// changes.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.KeyMsg:
		return a, a.handleKey(m)
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		a.help.Width = m.Width
	case tickMsg:
		return a, tea.Batch(a.fetchActive(), a.tick())
	case packagesMsg:
		a.applyPackages(m)
	case reposMsg:
		a.applyRepos(m)
	case detailsMsg:
		if m.err != nil || m.pkg == nil {
			a.logger.Debug("detail fetch failed", "name", m.name, "error", m.err)
			return a, nil
		}
		a.details[m.name] = *m.pkg
	case compareAddMsg:
		a.applyCompareAdd(m)
	case refreshMsg:
		n := a.compare.Refresh(m.pkgs)
		for name, pkg := range m.pkgs {
			a.details[name] = *pkg
		}
		a.status = fmt.Sprintf("Refreshed %d of %d compared packages", n, a.compare.Len())
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, a.keys.ForceQuit) {
		return a.quit()
	}
	// Quit is checked before Detail; in Input mode q is just text.
	if _, typing := a.mode.(Input); !typing && key.Matches(msg, a.keys.Quit) {
		return a.quit()
	}
	switch mode := a.mode.(type) {
	case Detail:
		a.handleDetailKey(msg, mode)
		return nil
	case Input:
		return a.handleInputKey(msg, mode)
	default:
		return a.handleNormalKey(msg)
	}
}

func (a *App) quit() tea.Cmd {
	a.running = false
	return tea.Quit
}

func (a *App) handleDetailKey(msg tea.KeyMsg, mode Detail) {
	limit := maxScroll(a.detailLines())
	switch {
	case key.Matches(msg, a.keys.Back):
		a.mode = Normal{}
	case key.Matches(msg, a.keys.Up):
		a.mode = Detail{Scroll: scrollBy(mode.Scroll, -1, limit)}
	case key.Matches(msg, a.keys.Down):
		a.mode = Detail{Scroll: scrollBy(mode.Scroll, 1, limit)}
	case key.Matches(msg, a.keys.PageUp):
		a.mode = Detail{Scroll: scrollBy(mode.Scroll, -pageScroll, limit)}
	case key.Matches(msg, a.keys.PageDown):
		a.mode = Detail{Scroll: scrollBy(mode.Scroll, pageScroll, limit)}
	}
}

func (a *App) handleInputKey(msg tea.KeyMsg, mode Input) tea.Cmd {
	switch {
	case key.Matches(msg, a.keys.Cancel):
		a.mode = Normal{}
	case key.Matches(msg, a.keys.Submit):
		a.mode = Normal{}
		if mode.Buffer == "" {
			return nil
		}
		if mode.Target == TargetCompare {
			return a.commitCompare(mode.Buffer)
		}
		return a.commitSearch(mode.Buffer)
	case key.Matches(msg, a.keys.Backspace):
		if mode.Buffer != "" {
			_, size := utf8.DecodeLastRuneInString(mode.Buffer)
			mode.Buffer = mode.Buffer[:len(mode.Buffer)-size]
		}
		a.mode = mode
	case msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace:
		mode.Buffer += string(msg.Runes)
		a.mode = mode
	}
	return nil
}

func (a *App) commitSearch(query string) tea.Cmd {
	a.query = query
	a.selected = 0
	a.search.markLoading()
	if a.search.inFlight {
		// The running fetch is for an older query; its result is dropped
		// and the tick fetches this one.
		return nil
	}
	return a.fetchSearch()
}

func (a *App) commitCompare(input string) tea.Cmd {
	name, err := core.ResolveName(a.src.Ecosystem(), input)
	if err != nil {
		a.status = fmt.Sprintf("Ignored %q: %v", input, err)
		return nil
	}
	if name == "" {
		return nil
	}
	if a.compare.Contains(name) {
		a.status = fmt.Sprintf("%s is already in the comparison", name)
		return nil
	}
	a.status = fmt.Sprintf("Fetching %s…", name)
	return a.fetchForCompare(name, nil)
}

func (a *App) handleNormalKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, a.keys.NextTab):
		return a.switchTab(a.tab.Next(), false)
	case key.Matches(msg, a.keys.PrevTab):
		return a.switchTab(a.tab.Prev(), false)
	case key.Matches(msg, a.keys.TabSearch):
		return a.switchTab(TabSearch, true)
	case key.Matches(msg, a.keys.TabRecent):
		return a.switchTab(TabRecent, true)
	case key.Matches(msg, a.keys.TabTrending):
		return a.switchTab(TabTrending, true)
	case key.Matches(msg, a.keys.TabCompare):
		return a.switchTab(TabCompare, true)
	case key.Matches(msg, a.keys.TabHelp):
		return a.switchTab(TabHelp, true)
	case key.Matches(msg, a.keys.Up):
		a.moveSelection(-1)
	case key.Matches(msg, a.keys.Down):
		a.moveSelection(1)
	case key.Matches(msg, a.keys.Open):
		return a.openDetail()
	case key.Matches(msg, a.keys.Search):
		if a.tab == TabSearch {
			a.mode = Input{Target: TargetPrimary}
		}
	case key.Matches(msg, a.keys.Add):
		return a.add()
	case key.Matches(msg, a.keys.Remove):
		if a.tab == TabCompare && a.compare.RemoveAt(a.selected) {
			a.selected = a.compare.Clamp(a.selected)
		}
	case key.Matches(msg, a.keys.Refresh):
		return a.refresh()
	case key.Matches(msg, a.keys.Period):
		if a.tab == TabTrending {
			a.period = a.period.Next()
			a.selected = 0
			a.trending.markLoading()
			return a.fetchActive()
		}
	}
	return nil
}

// switchTab moves to t, resets the cursor and leaves any mode. Empty lists
// are marked Loading; eager starts the fetch now instead of on the next
// tick.
func (a *App) switchTab(t Tab, eager bool) tea.Cmd {
	a.tab = t
	a.selected = 0
	a.mode = Normal{}

	switch t {
	case TabSearch:
		if a.search.len() == 0 && !a.search.inFlight && a.search.state.Status != Loaded {
			if a.query == "" {
				a.query = a.defaultQuery
			}
			a.search.markLoading()
		}
	case TabRecent:
		if a.recent.len() == 0 && !a.recent.inFlight {
			a.recent.markLoading()
		}
	case TabTrending:
		if a.trending.len() == 0 && !a.trending.inFlight {
			a.trending.markLoading()
		}
	}

	if eager && (t == TabRecent || t == TabTrending) {
		return a.fetchActive()
	}
	return nil
}

func (a *App) moveSelection(delta int) {
	n := a.listLen()
	if n == 0 {
		return
	}
	a.selected = ((a.selected+delta)%n + n) % n
}

func (a *App) openDetail() tea.Cmd {
	if a.tab == TabHelp || !a.hasSelection() {
		return nil
	}
	a.mode = Detail{}
	if a.tab == TabSearch || a.tab == TabRecent {
		pkg, _ := a.selectedPackage()
		if _, ok := a.details[pkg.Name]; !ok {
			return a.fetchDetails(pkg.Name)
		}
	}
	return nil
}

func (a *App) add() tea.Cmd {
	switch a.tab {
	case TabSearch, TabRecent:
		pkg, ok := a.selectedPackage()
		if !ok {
			return nil
		}
		if a.compare.Contains(pkg.Name) {
			a.status = fmt.Sprintf("%s is already in the comparison", pkg.Name)
			return nil
		}
		a.status = fmt.Sprintf("Fetching %s…", pkg.Name)
		return a.fetchForCompare(pkg.Name, &pkg)
	case TabCompare:
		a.mode = Input{Target: TargetCompare}
	}
	return nil
}

func (a *App) refresh() tea.Cmd {
	switch a.tab {
	case TabSearch:
		if a.query == "" {
			a.query = a.defaultQuery
		}
		a.search.markLoading()
	case TabRecent:
		a.recent.markLoading()
	case TabTrending:
		a.trending.markLoading()
	case TabCompare:
		if a.compare.Len() == 0 {
			return nil
		}
		a.status = "Refreshing comparison…"
		return a.refreshComparison()
	}
	return a.fetchActive()
}

func (a *App) applyPackages(m packagesMsg) {
	f, tab := &a.recent, TabRecent
	if m.list == listSearch {
		f, tab = &a.search, TabSearch
		if m.query != a.query {
			f.stale()
			return
		}
	}

	if m.err != nil {
		a.logger.Warn("list fetch failed", "list", tab.String(), "error", m.err)
		f.fail(m.err)
	} else {
		f.succeed(m.pkgs)
	}
	if a.tab == tab {
		a.clampSelection()
	}
}

func (a *App) applyRepos(m reposMsg) {
	if m.period != a.period {
		a.trending.stale()
		return
	}
	if m.err != nil {
		a.logger.Warn("list fetch failed", "list", TabTrending.String(), "error", m.err)
		a.trending.fail(m.err)
	} else {
		a.trending.succeed(m.repos)
	}
	if a.tab == TabTrending {
		a.clampSelection()
	}
}

func (a *App) applyCompareAdd(m compareAddMsg) {
	var added bool
	switch {
	case m.err == nil && m.pkg != nil:
		a.details[m.pkg.Name] = *m.pkg
		added = a.compare.AddByName(a.ctx, prefetched{pkg: m.pkg}, m.name)
	case m.summary != nil:
		a.logger.Debug("detail fetch failed, using summary", "name", m.name, "error", m.err)
		added = a.compare.Add(*m.summary)
	default:
		added = a.compare.AddByName(a.ctx, prefetched{err: m.err}, m.name)
	}
	if added {
		a.status = fmt.Sprintf("Added %s to comparison", m.name)
	} else {
		a.status = ""
	}
}
