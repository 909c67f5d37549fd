// Package scrape discovers candidate video pages on the source news
// site and extracts per-page metadata and the direct media locator.
package scrape

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"reelsync/httpx"
)

// DefaultBaseURL is the news-short section the pipeline watches.
const DefaultBaseURL = "https://20.detik.com/detikupdate"

// Sentinel errors for scraping operations.
var (
	// ErrNoMedia indicates a candidate page exposes no resolvable media
	// locator. The candidate is skipped, not retried.
	ErrNoMedia = errors.New("scrape: no media locator found")
)

// DiscoveryError wraps a transport failure while listing candidates.
type DiscoveryError struct {
	URL string
	Err error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("discovery %s: %v", e.URL, e.Err)
}

func (e *DiscoveryError) Unwrap() error {
	return e.Err
}

// Summarizer rewrites a raw description into publish-ready caption
// text. Implementations must not fail; they fall back internally.
type Summarizer interface {
	Summarize(ctx context.Context, description, keywords string) string
}

// Scraper lists candidate video pages and extracts their metadata.
type Scraper struct {
	// BaseURL is the section page to watch for new videos.
	BaseURL string

	// Summarizer optionally rewrites descriptions. Nil leaves the raw
	// description untouched.
	Summarizer Summarizer

	client *httpx.Client
}

// New creates a scraper for the given section page using the shared
// HTTP client.
func New(baseURL string, client *httpx.Client) *Scraper {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Scraper{
		BaseURL: baseURL,
		client:  client,
	}
}

// anchorRe matches anchor tags; capture group 1 is the href value.
var anchorRe = regexp.MustCompile(`(?i)<a\s[^>]*href="([^"]+)"`)

// ListCandidates fetches the section page and returns the candidate
// video page URLs, filtered to video content and deduplicated within
// the call. Zero candidates is a normal result; a transport failure
// returns an empty list and a DiscoveryError.
func (s *Scraper) ListCandidates(ctx context.Context) ([]string, error) {
	resp, err := s.client.Get(ctx, s.BaseURL)
	if err != nil {
		return nil, &DiscoveryError{URL: s.BaseURL, Err: err}
	}

	base, err := url.Parse(s.BaseURL)
	if err != nil {
		return nil, &DiscoveryError{URL: s.BaseURL, Err: err}
	}

	seen := make(map[string]bool)
	var links []string
	for _, m := range anchorRe.FindAllStringSubmatch(string(resp.Body), -1) {
		href := m[1]
		if !strings.Contains(strings.ToLower(href), "video") {
			continue
		}

		ref, err := url.Parse(href)
		if err != nil {
			continue
		}
		full := base.ResolveReference(ref).String()
		if seen[full] {
			continue
		}
		seen[full] = true
		links = append(links, full)
	}

	return links, nil
}
