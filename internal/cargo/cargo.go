// Package cargo provides a registry client for crates.io.
package cargo

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/git-pkgs/cratescope/internal/core"
)

const (
	DefaultURL = "https://crates.io"
	ecosystem  = "cargo"
)

func init() {
	core.Register(ecosystem, DefaultURL, func(baseURL string, client *core.Client) core.Registry {
		return New(baseURL, client)
	})
}

type Registry struct {
	baseURL string
	client  *core.Client
	urls    *URLs
}

func New(baseURL string, client *core.Client) *Registry {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if client == nil {
		client = core.DefaultClient()
	}
	r := &Registry{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  client,
	}
	r.urls = &URLs{baseURL: r.baseURL}
	return r
}

func (r *Registry) Ecosystem() string {
	return ecosystem
}

func (r *Registry) URLs() core.URLBuilder {
	return r.urls
}

type cratesResponse struct {
	Crates []crateInfo `json:"crates"`
	Meta   struct {
		Total int `json:"total"`
	} `json:"meta"`
}

type crateResponse struct {
	Crate    crateInfo     `json:"crate"`
	Versions []versionInfo `json:"versions"`
}

// crateInfo is the crate object shared by the list and detail endpoints.
// Nullable fields are pointers so an explicit null reads as absent.
type crateInfo struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Description     *string  `json:"description"`
	Homepage        *string  `json:"homepage"`
	Documentation   *string  `json:"documentation"`
	Repository      *string  `json:"repository"`
	Keywords        []string `json:"keywords"`
	Categories      []string `json:"categories"`
	Downloads       int64    `json:"downloads"`
	RecentDownloads *int64   `json:"recent_downloads"`
	CreatedAt       string   `json:"created_at"`
	UpdatedAt       string   `json:"updated_at"`
	MaxVersion      string   `json:"max_version"`
	NewestVersion   string   `json:"newest_version"`
}

type versionInfo struct {
	Num       string  `json:"num"`
	License   *string `json:"license"`
	Yanked    bool    `json:"yanked"`
	CreatedAt string  `json:"created_at"`
}

// Search returns crates matching query, most downloaded first.
func (r *Registry) Search(ctx context.Context, query string, limit int) ([]core.Package, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("sort", "downloads")
	params.Set("per_page", fmt.Sprint(limit))
	return r.list(ctx, params)
}

// Recent returns the most recently updated crates.
func (r *Registry) Recent(ctx context.Context, limit int) ([]core.Package, error) {
	params := url.Values{}
	params.Set("sort", "recent-updates")
	params.Set("per_page", fmt.Sprint(limit))
	return r.list(ctx, params)
}

func (r *Registry) list(ctx context.Context, params url.Values) ([]core.Package, error) {
	u := fmt.Sprintf("%s/api/v1/crates?%s", r.baseURL, params.Encode())

	var resp cratesResponse
	if err := r.client.GetJSON(ctx, u, &resp); err != nil {
		return nil, err
	}

	pkgs := make([]core.Package, len(resp.Crates))
	for i, c := range resp.Crates {
		pkgs[i] = c.toPackage()
	}
	return pkgs, nil
}

// FetchPackage retrieves the full record for one crate. The license is
// taken from the version matching max_version, or the newest version
// when none matches.
func (r *Registry) FetchPackage(ctx context.Context, name string) (*core.Package, error) {
	u := fmt.Sprintf("%s/api/v1/crates/%s", r.baseURL, url.PathEscape(name))

	var resp crateResponse
	if err := r.client.GetJSON(ctx, u, &resp); err != nil {
		var httpErr *core.HTTPError
		if errors.As(err, &httpErr) && httpErr.IsNotFound() {
			return nil, &core.NotFoundError{Ecosystem: ecosystem, Name: name}
		}
		return nil, err
	}

	pkg := resp.Crate.toPackage()
	pkg.License = licenseFor(resp.Crate.MaxVersion, resp.Versions)
	return &pkg, nil
}

func licenseFor(maxVersion string, versions []versionInfo) string {
	for _, v := range versions {
		if v.Num == maxVersion {
			return deref(v.License)
		}
	}
	if len(versions) > 0 {
		return deref(versions[0].License)
	}
	return ""
}

func (c crateInfo) toPackage() core.Package {
	name := c.Name
	if name == "" {
		name = c.ID
	}
	maxVersion := c.MaxVersion
	if maxVersion == "" {
		maxVersion = c.NewestVersion
	}
	var recent int64
	if c.RecentDownloads != nil {
		recent = *c.RecentDownloads
	}
	return core.Package{
		Name:            name,
		Description:     strings.TrimSpace(deref(c.Description)),
		Downloads:       c.Downloads,
		RecentDownloads: recent,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
		Documentation:   deref(c.Documentation),
		Repository:      deref(c.Repository),
		Homepage:        deref(c.Homepage),
		MaxVersion:      maxVersion,
		Keywords:        c.Keywords,
		Categories:      c.Categories,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

type URLs struct {
	baseURL string
}

func (u *URLs) Registry(name, version string) string {
	if version != "" {
		return fmt.Sprintf("%s/crates/%s/%s", u.baseURL, name, version)
	}
	return fmt.Sprintf("%s/crates/%s", u.baseURL, name)
}

func (u *URLs) Download(name, version string) string {
	if version == "" {
		return ""
	}
	return fmt.Sprintf("https://static.crates.io/crates/%s/%s-%s.crate", name, name, version)
}

func (u *URLs) Documentation(name, version string) string {
	if version != "" {
		return fmt.Sprintf("https://docs.rs/%s/%s", name, version)
	}
	return fmt.Sprintf("https://docs.rs/%s", name)
}

func (u *URLs) PURL(name, version string) string {
	if version != "" {
		return fmt.Sprintf("pkg:cargo/%s@%s", name, version)
	}
	return fmt.Sprintf("pkg:cargo/%s", name)
}
