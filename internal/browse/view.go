package browse

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/git-pkgs/cratescope/internal/core"
	"github.com/git-pkgs/cratescope/internal/security"
)

const (
	fallbackWidth = 80
	chromeLines   = 6 // title, tabs, blank, status, help, margin
	dateLayout    = "2006-01-02 15:04"
)

// View renders the current state. It never changes the App.
func (a *App) View() string {
	if !a.running {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("cratescope"))
	b.WriteString(subtitleStyle.Render("  crates.io browser"))
	b.WriteString("\n")
	b.WriteString(a.renderTabs())
	b.WriteString("\n\n")
	b.WriteString(a.renderBody())
	b.WriteString("\n\n")
	b.WriteString(a.renderStatus())
	return b.String()
}

func (a *App) contentWidth() int {
	if a.width > 0 {
		return a.width
	}
	return fallbackWidth
}

func (a *App) renderTabs() string {
	parts := make([]string, 0, tabCount)
	for _, t := range Tabs() {
		label := fmt.Sprintf("%s %s", a.keys.jump(t).Help().Key, t)
		if t == a.tab {
			parts = append(parts, activeTabStyle.Render(label))
		} else {
			parts = append(parts, tabStyle.Render(label))
		}
	}
	return strings.Join(parts, "│")
}

func (a *App) renderBody() string {
	if d, ok := a.mode.(Detail); ok {
		return a.renderDetail(d.Scroll)
	}
	switch a.tab {
	case TabSearch:
		return a.renderSearch()
	case TabRecent:
		return a.renderPackageList("Recently updated", a.recent)
	case TabTrending:
		return a.renderTrending()
	case TabCompare:
		return a.renderCompare()
	default:
		return a.renderHelp()
	}
}

func (a *App) renderSearch() string {
	var b strings.Builder
	if in, ok := a.mode.(Input); ok && in.Target == TargetPrimary {
		b.WriteString(promptStyle.Render("Search: ") + in.Buffer + "█\n\n")
	}

	title := "Popular packages"
	if a.query != a.defaultQuery {
		title = fmt.Sprintf("Found %d results for %q", a.search.len(), a.query)
	}
	b.WriteString(a.renderPackageList(title, a.search))
	return b.String()
}

func (a *App) renderPackageList(title string, f feed[core.Package]) string {
	if banner, ok := loadBanner(f.state, "packages"); ok {
		return headerStyle.Render(title) + "\n" + banner
	}
	if f.len() == 0 {
		return headerStyle.Render(title) + "\n" + dimStyle.Render("No packages found")
	}

	lines := []string{headerStyle.Render(title)}
	width := a.contentWidth()
	for i, pkg := range f.visible() {
		lines = append(lines, a.packageRow(pkg, i == a.selected, width))
	}
	return strings.Join(lines, "\n")
}

func (a *App) packageRow(pkg core.Package, selected bool, width int) string {
	marker, name := "  ", nameStyle.Render(pkg.Name)
	if selected {
		marker, name = "> ", selectedStyle.Render(pkg.Name)
	}
	head := fmt.Sprintf("%s%s %s  %s", marker, name,
		dimStyle.Render("v"+pkg.MaxVersion),
		dimStyle.Render("↓"+humanize.Comma(pkg.Downloads)))
	if a.compare.Contains(pkg.Name) {
		head += safeStyle.Render("  [compared]")
	}
	if pkg.Description == "" {
		return head
	}
	room := width - ansi.StringWidth(head) - 2
	if room < 10 {
		return head
	}
	return head + "  " + ansi.Truncate(oneLine(pkg.Description), room, "…")
}

func (a *App) renderTrending() string {
	title := fmt.Sprintf("Trending repositories (%s)", a.period)
	if banner, ok := loadBanner(a.trending.state, "repositories"); ok {
		return headerStyle.Render(title) + "\n" + banner
	}
	if a.trending.len() == 0 {
		return headerStyle.Render(title) + "\n" + dimStyle.Render("No repositories found")
	}

	lines := []string{headerStyle.Render(title)}
	width := a.contentWidth()
	for i, repo := range a.trending.visible() {
		marker, name := "  ", nameStyle.Render(repo.FullName)
		if i == a.selected {
			marker, name = "> ", selectedStyle.Render(repo.FullName)
		}
		head := fmt.Sprintf("%s%s  %s  %s", marker, name,
			dimStyle.Render("★"+humanize.Comma(repo.Stars)),
			dimStyle.Render("⑂"+humanize.Comma(repo.Forks)))
		room := width - ansi.StringWidth(head) - 2
		if repo.Description != "" && room >= 10 {
			head += "  " + ansi.Truncate(oneLine(repo.Description), room, "…")
		}
		lines = append(lines, head)
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderCompare() string {
	var b strings.Builder
	if in, ok := a.mode.(Input); ok && in.Target == TargetCompare {
		b.WriteString(promptStyle.Render("Add package: ") + in.Buffer + "█\n\n")
	}
	b.WriteString(headerStyle.Render("Comparison"))
	b.WriteString("\n")

	entries := a.compare.Entries()
	if len(entries) == 0 {
		b.WriteString(dimStyle.Render("No packages in the comparison. Press a to add one."))
		return b.String()
	}

	row := func(marker, name, version, downloads, license, status string) string {
		return fmt.Sprintf("%s%-24s %-12s %14s  %-22s %s", marker,
			ansi.Truncate(name, 24, "…"),
			ansi.Truncate(version, 12, "…"),
			downloads,
			ansi.Truncate(license, 22, "…"),
			status)
	}
	b.WriteString(dimStyle.Render(row("  ", "Name", "Version", "Downloads", "License", "Security")))
	for i, e := range entries {
		marker := "  "
		if i == a.selected {
			marker = "> "
		}
		license := security.NormalizeLicense(e.Package.License)
		if license == "" {
			license = "none"
		}
		b.WriteString("\n")
		b.WriteString(row(marker, e.Package.Name, e.Package.MaxVersion,
			humanize.Comma(e.Package.Downloads), license, reportSummary(e.Report)))
	}

	if e, ok := a.compare.At(a.selected); ok {
		b.WriteString("\n\n")
		b.WriteString(headerStyle.Render("Security check for " + e.Package.Name))
		b.WriteString("\n")
		b.WriteString(strings.Join(reportLines(e.Report), "\n"))
	}
	return b.String()
}

func (a *App) renderHelp() string {
	intro := []string{
		headerStyle.Render("About"),
		"Browse crates.io, inspect packages and compare them side by side.",
		"The security check is a set of heuristics, not a verdict.",
		"",
		headerStyle.Render("Keys"),
	}
	return strings.Join(intro, "\n") + "\n" + a.help.FullHelpView(a.keys.FullHelp())
}

func (a *App) renderDetail(scroll int) string {
	wrapped := a.detailLines()
	scroll = min(scroll, maxScroll(wrapped))
	visible := wrapped[scroll:]
	if a.height > chromeLines && len(visible) > a.height-chromeLines {
		visible = visible[:a.height-chromeLines]
	}
	return strings.Join(visible, "\n")
}

// detailLines is the detail view of the selected item, wrapped to the
// content width.
func (a *App) detailLines() []string {
	var lines []string
	if repo, ok := a.selectedRepository(); ok {
		lines = repositoryDetail(repo)
	} else if pkg, ok := a.selectedPackage(); ok {
		full, cached := a.details[pkg.Name]
		if cached {
			pkg = full
		}
		lines = a.packageDetail(pkg, cached || a.tab == TabCompare)
	}

	width := a.contentWidth()
	var wrapped []string
	for _, l := range lines {
		wrapped = append(wrapped, strings.Split(ansi.Wordwrap(l, width, ""), "\n")...)
	}
	return wrapped
}

// maxScroll keeps at least the last line on screen.
func maxScroll(lines []string) int {
	return max(len(lines)-1, 0)
}

func (a *App) packageDetail(pkg core.Package, complete bool) []string {
	lines := []string{titleStyle.Render(pkg.Name) + " " + dimStyle.Render("v"+pkg.MaxVersion)}
	if !complete {
		lines = append(lines, statusStyle.Render("Loading full details…"))
	}
	lines = append(lines, "")
	if pkg.Description != "" {
		lines = append(lines, oneLine(pkg.Description), "")
	}

	license := "none"
	if pkg.HasLicense() {
		license = security.NormalizeLicense(pkg.License)
		if license != strings.TrimSpace(pkg.License) {
			license += dimStyle.Render(" (" + pkg.License + ")")
		}
	}
	lines = append(lines,
		field("License", license),
		field("Downloads", humanize.Comma(pkg.Downloads)),
	)
	if pkg.RecentDownloads > 0 {
		lines = append(lines, field("Recent", humanize.Comma(pkg.RecentDownloads)))
	}
	lines = append(lines,
		field("Created", formatDate(pkg.CreatedAt)),
		field("Updated", formatDate(pkg.UpdatedAt)),
	)
	if len(pkg.Keywords) > 0 {
		lines = append(lines, field("Keywords", strings.Join(pkg.Keywords, ", ")))
	}
	if len(pkg.Categories) > 0 {
		lines = append(lines, field("Categories", strings.Join(pkg.Categories, ", ")))
	}

	lines = append(lines, "")
	for _, l := range []struct{ label, url string }{
		{"Documentation", pkg.Documentation},
		{"Repository", pkg.Repository},
		{"Homepage", pkg.Homepage},
	} {
		if l.url != "" {
			lines = append(lines, field(l.label, l.url))
		}
	}
	if urls := a.src.URLs(); urls != nil {
		for _, link := range core.BuildURLs(urls, pkg.Name, pkg.MaxVersion) {
			lines = append(lines, field(link.Label, link.URL))
		}
	}

	lines = append(lines, "", headerStyle.Render("Security check"))
	return append(lines, reportLines(a.analyzer.Analyze(pkg))...)
}

func repositoryDetail(repo core.Repository) []string {
	lines := []string{titleStyle.Render(repo.FullName), ""}
	if repo.Description != "" {
		lines = append(lines, oneLine(repo.Description), "")
	}
	language := repo.Language
	if language == "" {
		language = "unknown"
	}
	return append(lines,
		field("Stars", humanize.Comma(repo.Stars)),
		field("Forks", humanize.Comma(repo.Forks)),
		field("Language", language),
		field("URL", repo.URL),
	)
}

func (a *App) renderStatus() string {
	var parts []string
	if a.status != "" {
		parts = append(parts, statusStyle.Render(a.status))
	}
	parts = append(parts, a.help.View(a.keys.helpFor(a.tab, a.mode)))
	return strings.Join(parts, "\n")
}

func loadBanner(state LoadState, what string) (string, bool) {
	switch state.Status {
	case Loading:
		return dimStyle.Render("Loading " + what + "…"), true
	case Failed:
		return errorStyle.Render("Error: " + state.Message), true
	default:
		return "", false
	}
}

func reportSummary(r security.Report) string {
	if r.Safe() {
		return safeStyle.Render("✓ safe")
	}
	return warningStyle.Render(fmt.Sprintf("⚠ %d %s", len(r.Warnings), plural(len(r.Warnings), "warning")))
}

func reportLines(r security.Report) []string {
	if r.Safe() {
		return []string{safeStyle.Render("✓ No issues found")}
	}
	lines := make([]string, len(r.Warnings))
	for i, w := range r.Warnings {
		lines[i] = warningStyle.Render("⚠ " + w)
	}
	return lines
}

func field(label, value string) string {
	return labelStyle.Render(label+":") + value
}

func formatDate(s string) string {
	if s == "" {
		return "unknown"
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return s
	}
	return t.Format(dateLayout)
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
