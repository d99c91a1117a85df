package browse

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/git-pkgs/cratescope/internal/core"
)

type listID int

const (
	listSearch listID = iota
	listRecent
)

type packagesMsg struct {
	list  listID
	query string
	pkgs  []core.Package
	err   error
}

type reposMsg struct {
	period core.Period
	repos  []core.Repository
	err    error
}

// detailsMsg carries a full record fetched for the detail view.
type detailsMsg struct {
	name string
	pkg  *core.Package
	err  error
}

// compareAddMsg carries the result of fetching a package that is about to
// be added to the comparison. summary is the list record to fall back on,
// nil when the name was typed in.
type compareAddMsg struct {
	name    string
	summary *core.Package
	pkg     *core.Package
	err     error
}

type refreshMsg struct {
	pkgs map[string]*core.Package
}

type tickMsg time.Time

func (a *App) tick() tea.Cmd {
	return tea.Tick(a.tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a *App) fetchSearch() tea.Cmd {
	a.search.begin()
	ctx, src, query, limit := a.ctx, a.src, a.query, a.pageSize
	return func() tea.Msg {
		pkgs, err := src.Search(ctx, query, limit)
		return packagesMsg{list: listSearch, query: query, pkgs: pkgs, err: err}
	}
}

func (a *App) fetchRecent() tea.Cmd {
	a.recent.begin()
	ctx, src, limit := a.ctx, a.src, a.pageSize
	return func() tea.Msg {
		pkgs, err := src.Recent(ctx, limit)
		return packagesMsg{list: listRecent, pkgs: pkgs, err: err}
	}
}

func (a *App) fetchTrending() tea.Cmd {
	a.trending.begin()
	ctx, src, period, limit := a.ctx, a.src, a.period, a.pageSize
	return func() tea.Msg {
		repos, err := src.Trending(ctx, period, limit)
		return reposMsg{period: period, repos: repos, err: err}
	}
}

func (a *App) fetchDetails(name string) tea.Cmd {
	ctx, src := a.ctx, a.src
	return func() tea.Msg {
		pkg, err := src.Details(ctx, name)
		return detailsMsg{name: name, pkg: pkg, err: err}
	}
}

func (a *App) fetchForCompare(name string, summary *core.Package) tea.Cmd {
	ctx, src := a.ctx, a.src
	return func() tea.Msg {
		pkg, err := src.Details(ctx, name)
		return compareAddMsg{name: name, summary: summary, pkg: pkg, err: err}
	}
}

func (a *App) refreshComparison() tea.Cmd {
	ctx, src, names := a.ctx, a.src, a.compare.Names()
	return func() tea.Msg {
		return refreshMsg{pkgs: src.DetailsMany(ctx, names)}
	}
}

// fetchActive starts the fetch for the current tab's list when it is
// Loading and nothing is in flight.
func (a *App) fetchActive() tea.Cmd {
	switch a.tab {
	case TabSearch:
		if a.search.needsFetch() {
			return a.fetchSearch()
		}
	case TabRecent:
		if a.recent.needsFetch() {
			return a.fetchRecent()
		}
	case TabTrending:
		if a.trending.needsFetch() {
			return a.fetchTrending()
		}
	}
	return nil
}

// prefetched adapts an already fetched result to compare.Fetcher.
type prefetched struct {
	pkg *core.Package
	err error
}

func (p prefetched) Details(_ context.Context, _ string) (*core.Package, error) {
	return p.pkg, p.err
}
