package config

import (
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig is the optional single-file configuration schema. Durations are
// written as strings like "60s" or "4m". Zero values leave the corresponding
// Config field untouched, so a file only needs the keys it changes.
type FileConfig struct {
	Addr string `yaml:"addr"`
	Mode string `yaml:"mode"`

	LLM struct {
		BaseURL string `yaml:"base"`
		Model   string `yaml:"model"`
		APIKey  string `yaml:"key"`
		Prompt  string `yaml:"prompt"`
	} `yaml:"llm"`

	Timeouts struct {
		Answer         string `yaml:"answer"`
		AnswerDeadline string `yaml:"answerDeadline"`
		Fetch          string `yaml:"fetch"`
		ScrapeDeadline string `yaml:"scrapeDeadline"`
	} `yaml:"timeouts"`

	UserAgent string `yaml:"userAgent"`
	Verbose   bool   `yaml:"verbose"`
}

// LoadFile reads and parses a YAML configuration file.
func LoadFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return fc, fmt.Errorf("parse config: %w", err)
	}
	return fc, nil
}

// Apply copies the file's set values onto cfg.
func (fc FileConfig) Apply(cfg *Config) error {
	if fc.Addr != "" {
		cfg.Addr = fc.Addr
	}
	if fc.Mode != "" {
		cfg.Mode = Mode(fc.Mode)
	}
	if fc.LLM.BaseURL != "" {
		cfg.LLMBaseURL = fc.LLM.BaseURL
	}
	if fc.LLM.Model != "" {
		cfg.LLMModel = fc.LLM.Model
	}
	if fc.LLM.APIKey != "" {
		cfg.LLMAPIKey = fc.LLM.APIKey
	}
	if fc.LLM.Prompt != "" {
		cfg.SystemPrompt = fc.LLM.Prompt
	}
	if fc.UserAgent != "" {
		cfg.UserAgent = fc.UserAgent
	}
	if fc.Verbose {
		cfg.Verbose = true
	}
	durations := []struct {
		raw  string
		name string
		dst  *time.Duration
	}{
		{fc.Timeouts.Answer, "timeouts.answer", &cfg.AnswerTimeout},
		{fc.Timeouts.AnswerDeadline, "timeouts.answerDeadline", &cfg.AnswerDeadline},
		{fc.Timeouts.Fetch, "timeouts.fetch", &cfg.FetchTimeout},
		{fc.Timeouts.ScrapeDeadline, "timeouts.scrapeDeadline", &cfg.ScrapeDeadline},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("%s: %w", d.name, err)
		}
		*d.dst = parsed
	}
	return nil
}
