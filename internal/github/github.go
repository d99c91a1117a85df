// Package github lists trending repositories using the GitHub search API.
package github

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/git-pkgs/cratescope/internal/core"
)

const (
	DefaultURL      = "https://api.github.com"
	DefaultLanguage = "rust"
)

// Trending approximates GitHub's trending page: the most starred
// repositories in a language created within the selected period.
type Trending struct {
	baseURL  string
	language string
	client   *core.Client
	now      func() time.Time
}

// Option configures a Trending client.
type Option func(*Trending)

// WithLanguage sets the repository language filter.
func WithLanguage(lang string) Option {
	return func(t *Trending) {
		if lang != "" {
			t.language = lang
		}
	}
}

// WithClock replaces time.Now when computing the period start.
func WithClock(now func() time.Time) Option {
	return func(t *Trending) {
		t.now = now
	}
}

func New(baseURL string, client *core.Client, opts ...Option) *Trending {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if client == nil {
		client = core.DefaultClient()
	}
	t := &Trending{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		language: DefaultLanguage,
		client:   client,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

type searchResponse struct {
	TotalCount int        `json:"total_count"`
	Items      []repoInfo `json:"items"`
}

type repoInfo struct {
	Name            string  `json:"name"`
	FullName        string  `json:"full_name"`
	HTMLURL         string  `json:"html_url"`
	Description     *string `json:"description"`
	StargazersCount int64   `json:"stargazers_count"`
	ForksCount      int64   `json:"forks_count"`
	Language        *string `json:"language"`
}

// Since returns the earliest creation date included for period.
// Unknown periods use the monthly window.
func Since(now time.Time, period core.Period) time.Time {
	switch period {
	case core.PeriodDaily:
		return now.AddDate(0, 0, -1)
	case core.PeriodWeekly:
		return now.AddDate(0, 0, -7)
	default:
		return now.AddDate(0, 0, -30)
	}
}

// Trending returns up to limit repositories, most starred first.
func (t *Trending) Trending(ctx context.Context, period core.Period, limit int) ([]core.Repository, error) {
	since := Since(t.now().UTC(), period).Format("2006-01-02")

	params := url.Values{}
	params.Set("q", fmt.Sprintf("language:%s created:>%s", t.language, since))
	params.Set("sort", "stars")
	params.Set("order", "desc")
	params.Set("per_page", fmt.Sprint(limit))
	u := fmt.Sprintf("%s/search/repositories?%s", t.baseURL, params.Encode())

	var resp searchResponse
	if err := t.client.GetJSON(ctx, u, &resp); err != nil {
		return nil, err
	}

	repos := make([]core.Repository, len(resp.Items))
	for i, item := range resp.Items {
		repos[i] = core.Repository{
			Name:        item.Name,
			FullName:    item.FullName,
			URL:         item.HTMLURL,
			Description: deref(item.Description),
			Stars:       item.StargazersCount,
			Forks:       item.ForksCount,
			Language:    deref(item.Language),
		}
	}
	return repos, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
