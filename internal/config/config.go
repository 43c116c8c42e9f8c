package config

import (
	"fmt"
	"time"
)

// Mode selects which deployed variant of the service this process runs.
type Mode string

const (
	// ModeAnswer forwards queries to a chat completion API.
	ModeAnswer Mode = "answer"
	// ModeScrape fetches and extracts structured content from web pages.
	ModeScrape Mode = "scrape"
)

// Config holds runtime configuration for the service. It is populated by
// flags, environment, and an optional YAML file in cmd/quicksearch, then
// passed into constructors; no package reads configuration globals.
type Config struct {
	Addr string
	Mode Mode

	// LLM (answer variant)
	LLMBaseURL   string
	LLMModel     string
	LLMAPIKey    string
	SystemPrompt string

	// Timeouts. The inner timeout bounds the external call itself; the
	// deadline is the hard backstop around the whole bounded task and is
	// deliberately the larger of the two.
	AnswerTimeout  time.Duration
	AnswerDeadline time.Duration
	FetchTimeout   time.Duration
	ScrapeDeadline time.Duration

	UserAgent string
	Verbose   bool
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Addr:           ":8080",
		Mode:           ModeAnswer,
		AnswerTimeout:  60 * time.Second,
		AnswerDeadline: 240 * time.Second,
		FetchTimeout:   10 * time.Second,
		ScrapeDeadline: 60 * time.Second,
		UserAgent:      "quicksearch/1.0 (+https://github.com/hyperifyio/quicksearch)",
	}
}

// Validate rejects configurations the server cannot run with.
func (c Config) Validate() error {
	switch c.Mode {
	case ModeAnswer, ModeScrape:
	default:
		return fmt.Errorf("unknown mode %q: expected %q or %q", c.Mode, ModeAnswer, ModeScrape)
	}
	if c.Addr == "" {
		return fmt.Errorf("listen address must not be empty")
	}
	if c.AnswerTimeout <= 0 || c.AnswerDeadline <= 0 || c.FetchTimeout <= 0 || c.ScrapeDeadline <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	if c.AnswerDeadline < c.AnswerTimeout {
		return fmt.Errorf("answer deadline %v must not be shorter than the inner timeout %v", c.AnswerDeadline, c.AnswerTimeout)
	}
	if c.ScrapeDeadline < c.FetchTimeout {
		return fmt.Errorf("scrape deadline %v must not be shorter than the fetch timeout %v", c.ScrapeDeadline, c.FetchTimeout)
	}
	return nil
}
