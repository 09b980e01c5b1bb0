// Package extraction turns job-listing pages into job records. Three
// extractors are layered from most to least precise: embedded JobPosting
// structured data, per-site CSS selectors and a keyword heuristic over generic
// containers. Chain runs them in that order.
package extraction

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/AIbySomnath/Linkdin-Scraper/internal/normalize"
)

// Parse parses an HTML document.
func Parse(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

// inlineTags do not break a line of card text.
var inlineTags = map[string]bool{
	"b": true, "strong": true, "em": true, "i": true, "u": true,
	"small": true, "sup": true, "sub": true, "abbr": true, "mark": true,
}

var skipTags = map[string]bool{"script": true, "style": true, "noscript": true, "template": true}

// cardLines flattens the text of sel into lines. Every non-inline element
// starts a new line, so separate spans for company and location stay apart.
func cardLines(sel *goquery.Selection) []string {
	var (
		lines []string
		cur   strings.Builder
	)
	flush := func() {
		lines = append(lines, normalize.Lines(cur.String())...)
		cur.Reset()
	}

	var walk func(s *goquery.Selection)
	walk = func(s *goquery.Selection) {
		s.Contents().Each(func(_ int, c *goquery.Selection) {
			name := goquery.NodeName(c)
			switch {
			case name == "#text":
				cur.WriteString(c.Text())
			case skipTags[name]:
			case inlineTags[name]:
				walk(c)
			case strings.HasPrefix(name, "#"):
			default:
				flush()
				walk(c)
				flush()
			}
		})
	}
	walk(sel)
	flush()
	return lines
}

// text returns the cleaned text of the first element in sel.
func text(sel *goquery.Selection) string {
	return normalize.Clean(sel.First().Text())
}

// resolveLink turns href into an absolute URL against base. Non-navigable
// links come back empty.
func resolveLink(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return ""
	}
	lower := strings.ToLower(href)
	if strings.HasPrefix(lower, "mailto:") || strings.HasPrefix(lower, "tel:") || strings.HasPrefix(lower, "javascript:") {
		return ""
	}
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base != nil {
		u = base.ResolveReference(u)
	}
	if u.Scheme == "" {
		u.Scheme = "https"
	}
	return u.String()
}

// hrefOf returns the link target of sel: its own href, else that of the
// first anchor inside it.
func hrefOf(sel *goquery.Selection) string {
	if href, ok := sel.Attr("href"); ok && strings.TrimSpace(href) != "" {
		return href
	}
	if href, ok := sel.Find("a[href]").First().Attr("href"); ok {
		return href
	}
	return ""
}

func parseBase(baseURL string) *url.URL {
	if baseURL == "" {
		return nil
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return nil
	}
	return u
}
