package scrape

import (
	"context"
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// VideoMetadata is everything the pipeline needs from a candidate page.
type VideoMetadata struct {
	Title           string
	Description     string
	Keywords        string
	DurationSeconds int
	MediaURL        string

	// CanonicalURL is the page's self-declared address when it differs
	// from the URL it was reached through. Empty when absent.
	CanonicalURL string
}

// Extract fetches a candidate page and derives its metadata and media
// locator. A page without a resolvable locator returns ErrNoMedia;
// that is an expected skip, not a fault.
func (s *Scraper) Extract(ctx context.Context, candidateURL string) (*VideoMetadata, error) {
	resp, err := s.client.Get(ctx, candidateURL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", candidateURL, err)
	}
	body := string(resp.Body)

	mediaURL := resolveMediaURL(body)
	if mediaURL == "" {
		return nil, ErrNoMedia
	}

	meta := &VideoMetadata{
		Title:           extractTitle(body),
		Description:     extractDescription(body),
		Keywords:        extractHashtags(body),
		DurationSeconds: extractDuration(body),
		MediaURL:        mediaURL,
		CanonicalURL:    extractCanonicalURL(body),
	}

	if s.Summarizer != nil {
		meta.Description = s.Summarizer.Summarize(ctx, meta.Description, meta.Keywords)
	}

	return meta, nil
}

// locatorStrategy tries to resolve the media URL from raw page HTML.
// Returns "" when the strategy does not match.
type locatorStrategy func(body string) string

// Ordered list, first match wins: structured VideoObject, then the
// inline streaming-URL script variable, then direct-file meta/src tags.
var locatorStrategies = []locatorStrategy{
	matchVideoObject,
	matchScriptVariable,
	matchFileTag,
}

// resolveMediaURL runs the strategies in order and normalizes
// protocol-relative locators to https.
func resolveMediaURL(body string) string {
	for _, strategy := range locatorStrategies {
		if u := strategy(body); u != "" {
			if strings.HasPrefix(u, "//") {
				u = "https:" + u
			}
			return u
		}
	}
	return ""
}

var ldJSONRe = regexp.MustCompile(`(?is)<script type="application/ld\+json">(.*?)</script>`)

// matchVideoObject finds an embedded ld+json block describing a
// VideoObject entity and returns its contentUrl.
func matchVideoObject(body string) string {
	for _, m := range ldJSONRe.FindAllStringSubmatch(body, -1) {
		block := m[1]
		if !gjson.Valid(block) {
			continue
		}
		if gjson.Get(block, `\@type`).String() != "VideoObject" {
			continue
		}
		return gjson.Get(block, "contentUrl").String()
	}
	return ""
}

var scriptVariableRe = regexp.MustCompile(`(?i)videoUrl\s*:\s*["']([^"']*?\.m3u8[^"']*)["']`)

// matchScriptVariable finds the player's inline streaming-format URL.
func matchScriptVariable(body string) string {
	if m := scriptVariableRe.FindStringSubmatch(body); m != nil {
		return m[1]
	}
	return ""
}

var fileTagRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<meta[^>]*content=["'](https?://[^"']*\.mp4[^"']*)["']`),
	regexp.MustCompile(`(?i)src:\s*["'](https?://[^"']*\.mp4[^"']*)["']`),
}

// matchFileTag finds a direct file URL in a meta tag or player source.
func matchFileTag(body string) string {
	for _, re := range fileTagRes {
		if m := re.FindStringSubmatch(body); m != nil {
			return m[1]
		}
	}
	return ""
}

var (
	titleRe     = regexp.MustCompile(`(?is)<h1[^>]*class="[^"]*detail__title[^"]*"[^>]*>(.*?)</h1>`)
	pageTitleRe = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
)

func extractTitle(body string) string {
	if m := titleRe.FindStringSubmatch(body); m != nil {
		return stripTags(m[1])
	}
	if m := pageTitleRe.FindStringSubmatch(body); m != nil {
		return stripTags(m[1])
	}
	return "No Title"
}

var descriptionRe = regexp.MustCompile(`(?is)<div[^>]*class="[^"]*detail__body-text[^"]*"[^>]*>(.*?)</div>`)

func extractDescription(body string) string {
	if m := descriptionRe.FindStringSubmatch(body); m != nil {
		return stripTags(m[1])
	}
	return ""
}

var canonicalRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<link[^>]*rel="canonical"[^>]*href="([^"]+)"`),
	regexp.MustCompile(`(?i)<meta[^>]*property="og:url"[^>]*content="([^"]+)"`),
}

// extractCanonicalURL reads the page's declared canonical address. The
// same video is often reachable through tracking or shortened URLs;
// dedup also runs against this one.
func extractCanonicalURL(body string) string {
	for _, re := range canonicalRes {
		if m := re.FindStringSubmatch(body); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

var keywordsRe = regexp.MustCompile(`(?i)<meta[^>]*name="keywords"[^>]*content="([^"]*)"`)

// extractHashtags turns the keywords meta tag into a hashtag string:
// "banjir jakarta, cuaca" -> "#banjirjakarta #cuaca".
func extractHashtags(body string) string {
	m := keywordsRe.FindStringSubmatch(body)
	if m == nil {
		return ""
	}

	var tags []string
	for _, k := range strings.Split(m[1], ",") {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		tags = append(tags, "#"+strings.ReplaceAll(k, " ", ""))
	}
	return strings.Join(tags, " ")
}

var durationRe = regexp.MustCompile(`(?is)<div[^>]*class="[^"]*media__icon--top-right[^"]*"[^>]*>(.*?)</div>`)

// extractDuration parses the page's duration badge. Supports the
// "N detik" textual form and the "MM:SS" form; anything else is 0,
// which downstream treats as short-form.
func extractDuration(body string) int {
	m := durationRe.FindStringSubmatch(body)
	if m == nil {
		return 0
	}
	return parseDuration(stripTags(m[1]))
}

func parseDuration(text string) int {
	text = strings.TrimSpace(text)

	if strings.Contains(text, "detik") {
		n, err := strconv.Atoi(strings.TrimSpace(strings.ReplaceAll(text, "detik", "")))
		if err != nil || n < 0 {
			return 0
		}
		return n
	}

	if strings.Contains(text, ":") {
		parts := strings.SplitN(text, ":", 2)
		minutes, errM := strconv.Atoi(strings.TrimSpace(parts[0]))
		seconds, errS := strconv.Atoi(strings.TrimSpace(parts[1]))
		if errM != nil || errS != nil || minutes < 0 || seconds < 0 {
			return 0
		}
		return minutes*60 + seconds
	}

	return 0
}

var (
	tagRe        = regexp.MustCompile(`<[^>]*>`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// stripTags removes markup, unescapes entities, and collapses
// whitespace.
func stripTags(s string) string {
	s = tagRe.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
