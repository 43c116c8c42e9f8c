package extract

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

const sampleHTML = `<!doctype html>
<html>
  <head>
    <title>T</title>
    <meta name="description" content="D">
  </head>
  <body>
    <h1>Hello World</h1>
    <p>This is a sufficiently long paragraph text.</p>
    <a href="/x">Link</a>
  </body>
</html>`

func TestExtractWithoutQuery(t *testing.T) {
	page, err := Extract([]byte(sampleHTML), "https://example.com/page", "")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if page.Title != "T" {
		t.Fatalf("title = %q, want T", page.Title)
	}
	if page.Description != "D" {
		t.Fatalf("description = %q, want D", page.Description)
	}
	if len(page.Headings) != 1 || page.Headings[0] != "Hello World" {
		t.Fatalf("headings = %v", page.Headings)
	}
	if len(page.Paragraphs) != 1 || page.Paragraphs[0] != "This is a sufficiently long paragraph text." {
		t.Fatalf("paragraphs = %v", page.Paragraphs)
	}
	if len(page.Links) != 1 || page.Links[0].Text != "Link" || page.Links[0].URL != "https://example.com/x" {
		t.Fatalf("links = %v", page.Links)
	}
	if page.Query != "" || page.FoundMatches != nil {
		t.Fatalf("expected no query fields, got query %q matches %v", page.Query, page.FoundMatches)
	}
}

func TestExtractWithQuery(t *testing.T) {
	page, err := Extract([]byte(sampleHTML), "https://example.com/page", "hello")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(page.Headings) != 1 || page.Headings[0] != "Hello World" {
		t.Fatalf("headings = %v, want case-insensitive match", page.Headings)
	}
	if len(page.Paragraphs) != 0 {
		t.Fatalf("paragraphs = %v, want none", page.Paragraphs)
	}
	if len(page.Links) != 0 {
		t.Fatalf("links = %v, want none", page.Links)
	}
	if page.Query != "hello" {
		t.Fatalf("query = %q, want echoed", page.Query)
	}
	if page.FoundMatches == nil || *page.FoundMatches != 1 {
		t.Fatalf("found_matches = %v, want 1", page.FoundMatches)
	}
}

func TestExtractInvalidURL(t *testing.T) {
	_, err := Extract([]byte(sampleHTML), "not a url", "")
	if !errors.Is(err, ErrInvalidURL) {
		t.Fatalf("err = %v, want ErrInvalidURL", err)
	}
	if _, err := ValidateURL("example.com"); !errors.Is(err, ErrInvalidURL) {
		t.Fatalf("URL without scheme should be invalid")
	}
	if _, err := ValidateURL("https://example.com"); err != nil {
		t.Fatalf("unexpected error for valid URL: %v", err)
	}
}

func TestExtractTitleFallback(t *testing.T) {
	page, err := Extract([]byte("<p>no head here, just a long enough fragment</p>"), "https://example.com", "")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if page.Title != "no title" {
		t.Fatalf("title = %q, want fallback", page.Title)
	}
	if page.Description != "" {
		t.Fatalf("description = %q, want empty", page.Description)
	}
}

func TestExtractToleratesBrokenMarkup(t *testing.T) {
	broken := `<title>Broken</title><h1>Heading one</h2><p>A paragraph that is definitely long enough to keep.<a href=x>anchor`
	page, err := Extract([]byte(broken), "https://example.com/a/b", "")
	if err != nil {
		t.Fatalf("broken markup must still extract: %v", err)
	}
	if len(page.Headings) == 0 {
		t.Fatalf("expected a heading from broken markup")
	}
}

func TestExtractDropsShortParagraphs(t *testing.T) {
	html := `<p>too short</p><p>This one clears the twenty character floor.</p>`
	page, err := Extract([]byte(html), "https://example.com", "")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(page.Paragraphs) != 1 || !strings.HasPrefix(page.Paragraphs[0], "This one") {
		t.Fatalf("paragraphs = %v", page.Paragraphs)
	}
}

func TestExtractOutputCaps(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 12; i++ {
		fmt.Fprintf(&b, "<h2>Heading number %d</h2>", i)
	}
	for i := 0; i < 25; i++ {
		fmt.Fprintf(&b, "<p>Paragraph number %d with enough padding text to survive.</p>", i)
	}
	for i := 0; i < 20; i++ {
		fmt.Fprintf(&b, `<a href="/l/%d">Anchor %d</a>`, i, i)
	}
	page, err := Extract([]byte(b.String()), "https://example.com", "")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(page.Headings) != maxHeadingsOut {
		t.Fatalf("headings = %d, want %d", len(page.Headings), maxHeadingsOut)
	}
	if len(page.Paragraphs) != maxParagraphsOut {
		t.Fatalf("paragraphs = %d, want %d", len(page.Paragraphs), maxParagraphsOut)
	}
	if len(page.Links) != maxLinksOut {
		t.Fatalf("links = %d, want %d", len(page.Links), maxLinksOut)
	}
}

func TestExtractCountsMatchesBeforeTruncation(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 8; i++ {
		fmt.Fprintf(&b, "<h3>Widget heading %d</h3>", i)
	}
	page, err := Extract([]byte(b.String()), "https://example.com", "widget")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(page.Headings) != maxHeadingsOut {
		t.Fatalf("headings = %d, want truncated to %d", len(page.Headings), maxHeadingsOut)
	}
	if page.FoundMatches == nil || *page.FoundMatches != 8 {
		t.Fatalf("found_matches = %v, want 8 (pre-truncation)", page.FoundMatches)
	}
}

func TestExtractQueryWithNoMatches(t *testing.T) {
	page, err := Extract([]byte(sampleHTML), "https://example.com", "zebra")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if page.FoundMatches == nil || *page.FoundMatches != 0 {
		t.Fatalf("found_matches = %v, want explicit 0", page.FoundMatches)
	}
	if len(page.Headings)+len(page.Paragraphs)+len(page.Links) != 0 {
		t.Fatalf("expected all lists empty")
	}
}

func TestExtractResolvesRelativeLinks(t *testing.T) {
	html := `<a href="sibling">Sibling</a><a href="//cdn.example.net/z">Protocol relative</a><a href="https://other.example/abs">Absolute</a>`
	page, err := Extract([]byte(html), "https://example.com/dir/page.html", "")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	want := []string{
		"https://example.com/dir/sibling",
		"https://cdn.example.net/z",
		"https://other.example/abs",
	}
	if len(page.Links) != len(want) {
		t.Fatalf("links = %v", page.Links)
	}
	for i, l := range page.Links {
		if l.URL != want[i] {
			t.Fatalf("link %d = %q, want %q", i, l.URL, want[i])
		}
	}
}
