package extract

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/language"
	"golang.org/x/text/search"

	"github.com/hyperifyio/quicksearch/internal/textutil"
)

// Scan caps bound how much of a document is walked; output caps bound what is
// returned to the client.
const (
	maxHeadingsScan   = 10
	maxParagraphsScan = 20
	maxLinksScan      = 15

	maxHeadingsOut   = 5
	maxParagraphsOut = 10
	maxLinksOut      = 10

	// Paragraphs at or below this rune count are treated as boilerplate
	// fragments and dropped.
	minParagraphRunes = 21
)

// fallbackTitle is used when a document carries no <title> element.
const fallbackTitle = "no title"

// Link is one anchor extracted from a page, with its href resolved to an
// absolute URL.
type Link struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// Page is the structured summary extracted from a single web page. Query and
// FoundMatches are only set when the caller filtered by a query string.
type Page struct {
	URL          string   `json:"url"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Headings     []string `json:"headings"`
	Paragraphs   []string `json:"paragraphs"`
	Links        []Link   `json:"links"`
	Query        string   `json:"query,omitempty"`
	FoundMatches *int     `json:"found_matches,omitempty"`
}

// ValidateURL checks that raw parses as a URL with both a scheme and a host.
// It performs no network I/O.
func ValidateURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, ErrInvalidURL
	}
	return u, nil
}

// Extract parses src as HTML and builds a Page summary for sourceURL.
// Malformed markup never fails the parse; golang.org/x/net/html (underneath
// goquery) repairs broken tags the way browsers do. A non-empty query applies
// a Unicode case-insensitive substring filter to headings, paragraphs, and
// link text, and FoundMatches counts matches before the output caps are
// applied.
func Extract(src []byte, sourceURL, query string) (*Page, error) {
	base, err := ValidateURL(sourceURL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	page := &Page{
		URL:        sourceURL,
		Headings:   []string{},
		Paragraphs: []string{},
		Links:      []Link{},
	}

	page.Title = textutil.Normalize(doc.Find("title").First().Text())
	if page.Title == "" {
		page.Title = fallbackTitle
	}
	if desc, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok {
		page.Description = textutil.Normalize(desc)
	}

	doc.Find("h1, h2, h3").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if i >= maxHeadingsScan {
			return false
		}
		if text := textutil.Normalize(s.Text()); text != "" {
			page.Headings = append(page.Headings, text)
		}
		return true
	})

	doc.Find("p").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if i >= maxParagraphsScan {
			return false
		}
		text := textutil.Normalize(s.Text())
		if utf8.RuneCountInString(text) >= minParagraphRunes {
			page.Paragraphs = append(page.Paragraphs, text)
		}
		return true
	})

	doc.Find("a[href]").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if i >= maxLinksScan {
			return false
		}
		href, _ := s.Attr("href")
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return true
		}
		text := textutil.Normalize(s.Text())
		if text == "" {
			return true
		}
		page.Links = append(page.Links, Link{
			Text: text,
			URL:  base.ResolveReference(ref).String(),
		})
		return true
	})

	if q := strings.TrimSpace(query); q != "" {
		filterByQuery(page, q)
	}
	page.Headings = truncate(page.Headings, maxHeadingsOut)
	page.Paragraphs = truncate(page.Paragraphs, maxParagraphsOut)
	page.Links = truncate(page.Links, maxLinksOut)
	return page, nil
}

// filterByQuery keeps only entries whose text contains query, matching
// case-insensitively across the full Unicode range, and records the match
// count before truncation.
func filterByQuery(page *Page, query string) {
	pat := search.New(language.Und, search.IgnoreCase).CompileString(query)

	headings := page.Headings[:0]
	for _, h := range page.Headings {
		if containsPattern(pat, h) {
			headings = append(headings, h)
		}
	}
	paragraphs := page.Paragraphs[:0]
	for _, p := range page.Paragraphs {
		if containsPattern(pat, p) {
			paragraphs = append(paragraphs, p)
		}
	}
	links := page.Links[:0]
	for _, l := range page.Links {
		if containsPattern(pat, l.Text) {
			links = append(links, l)
		}
	}

	found := len(headings) + len(paragraphs) + len(links)
	page.Headings = headings
	page.Paragraphs = paragraphs
	page.Links = links
	page.Query = query
	page.FoundMatches = &found
}

func containsPattern(pat *search.Pattern, s string) bool {
	start, _ := pat.IndexString(s)
	return start >= 0
}

func truncate[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}
