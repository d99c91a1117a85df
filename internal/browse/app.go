// Package browse implements the interactive crate browser: a bubbletea
// model that owns every piece of UI state and mutates it only in Update.
package browse

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/git-pkgs/cratescope/internal/compare"
	"github.com/git-pkgs/cratescope/internal/core"
	"github.com/git-pkgs/cratescope/internal/security"
)

// Source supplies the data shown by the browser. Implementations must be
// safe for concurrent use; every call runs inside a tea.Cmd goroutine.
type Source interface {
	Search(ctx context.Context, query string, limit int) ([]core.Package, error)
	Recent(ctx context.Context, limit int) ([]core.Package, error)
	Trending(ctx context.Context, period core.Period, limit int) ([]core.Repository, error)
	Details(ctx context.Context, name string) (*core.Package, error)
	DetailsMany(ctx context.Context, names []string) map[string]*core.Package
	Ecosystem() string
	URLs() core.URLBuilder
}

const (
	defaultPageSize     = 20
	defaultTickInterval = 250 * time.Millisecond
	defaultQuery        = "rust"
)

// Option configures an App.
type Option func(*App)

// WithPageSize sets how many items each list requests.
func WithPageSize(n int) Option {
	return func(a *App) {
		if n > 0 {
			a.pageSize = n
		}
	}
}

// WithTickInterval sets how often pending loads are re-driven.
func WithTickInterval(d time.Duration) Option {
	return func(a *App) {
		if d > 0 {
			a.tickInterval = d
		}
	}
}

// WithDefaultQuery sets the search run at startup.
func WithDefaultQuery(q string) Option {
	return func(a *App) {
		if q != "" {
			a.defaultQuery = q
		}
	}
}

// WithPeriod sets the initial trending period.
func WithPeriod(p core.Period) Option {
	return func(a *App) {
		if p.Valid() {
			a.period = p
		}
	}
}

// WithAnalyzer replaces the security analyzer.
func WithAnalyzer(an *security.Analyzer) Option {
	return func(a *App) {
		a.analyzer = an
	}
}

// WithLogger sets the logger for fetch failures.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		a.logger = l
	}
}

// WithKeyMap replaces the key bindings.
func WithKeyMap(k KeyMap) Option {
	return func(a *App) {
		a.keys = k
	}
}

// App is the browser state. The bubbletea program owns the only instance.
type App struct {
	ctx      context.Context
	src      Source
	analyzer *security.Analyzer
	compare  *compare.Set
	keys     KeyMap
	help     help.Model
	logger   *slog.Logger

	pageSize     int
	tickInterval time.Duration
	defaultQuery string

	tab      Tab
	selected int
	mode     Mode
	query    string
	period   core.Period

	search   feed[core.Package]
	recent   feed[core.Package]
	trending feed[core.Repository]

	// details caches full records fetched for the detail view, by name.
	details map[string]core.Package

	status  string
	running bool
	width   int
	height  int
}

// New returns an App on the Search tab in Normal mode with empty lists.
func New(ctx context.Context, src Source, opts ...Option) *App {
	a := &App{
		ctx:          ctx,
		src:          src,
		keys:         DefaultKeyMap,
		help:         help.New(),
		pageSize:     defaultPageSize,
		tickInterval: defaultTickInterval,
		defaultQuery: defaultQuery,
		period:       core.PeriodWeekly,
		tab:          TabSearch,
		mode:         Normal{},
		details:      make(map[string]core.Package),
		running:      true,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.analyzer == nil {
		a.analyzer = security.Default()
	}
	if a.logger == nil {
		a.logger = slog.New(slog.DiscardHandler)
	}
	a.compare = compare.New(a.analyzer, a.logger)
	return a
}

// Init starts the default search and arms the tick.
func (a *App) Init() tea.Cmd {
	a.query = a.defaultQuery
	a.search.markLoading()
	return tea.Batch(a.fetchSearch(), a.tick())
}

// Running reports whether the browser has not been asked to quit.
func (a *App) Running() bool {
	return a.running
}

// listLen is the length of the list shown on the current tab.
func (a *App) listLen() int {
	switch a.tab {
	case TabSearch:
		return a.search.len()
	case TabRecent:
		return a.recent.len()
	case TabTrending:
		return a.trending.len()
	case TabCompare:
		return a.compare.Len()
	default:
		return 0
	}
}

// hasSelection reports whether the current tab has an item under the
// cursor.
func (a *App) hasSelection() bool {
	return a.selected < a.listLen()
}

// selectedPackage returns the package under the cursor on Search, Recent
// or Compare.
func (a *App) selectedPackage() (core.Package, bool) {
	if !a.hasSelection() {
		return core.Package{}, false
	}
	switch a.tab {
	case TabSearch:
		return a.search.visible()[a.selected], true
	case TabRecent:
		return a.recent.visible()[a.selected], true
	case TabCompare:
		e, ok := a.compare.At(a.selected)
		return e.Package, ok
	default:
		return core.Package{}, false
	}
}

func (a *App) selectedRepository() (core.Repository, bool) {
	if a.tab != TabTrending || !a.hasSelection() {
		return core.Repository{}, false
	}
	return a.trending.visible()[a.selected], true
}

// clampSelection keeps the cursor inside the current list.
func (a *App) clampSelection() {
	n := a.listLen()
	if a.selected >= n {
		a.selected = max(n-1, 0)
	}
	if a.selected < 0 {
		a.selected = 0
	}
	if _, ok := a.mode.(Detail); ok && !a.hasSelection() {
		a.mode = Normal{}
	}
}
