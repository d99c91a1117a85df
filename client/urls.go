package client

// URLBuilder constructs URLs for a registry.
type URLBuilder interface {
	Registry(name, version string) string
	Download(name, version string) string
	Documentation(name, version string) string
	PURL(name, version string) string
}

// Link is a labelled URL shown in detail views.
type Link struct {
	Label string
	URL   string
}

// BuildURLs returns the non-empty URLs for a package in display order:
// registry page, documentation, download, purl.
func BuildURLs(urls URLBuilder, name, version string) []Link {
	candidates := []Link{
		{Label: "registry", URL: urls.Registry(name, version)},
		{Label: "docs", URL: urls.Documentation(name, version)},
		{Label: "download", URL: urls.Download(name, version)},
		{Label: "purl", URL: urls.PURL(name, version)},
	}

	links := make([]Link, 0, len(candidates))
	for _, l := range candidates {
		if l.URL != "" {
			links = append(links, l)
		}
	}
	return links
}
