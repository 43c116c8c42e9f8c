package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/quicksearch/internal/answer"
	"github.com/hyperifyio/quicksearch/internal/config"
	"github.com/hyperifyio/quicksearch/internal/fetch"
	"github.com/hyperifyio/quicksearch/internal/server"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	defaults := config.Default()
	var (
		addr           string
		mode           string
		llmBaseURL     string
		llmModel       string
		llmKey         string
		systemPrompt   string
		userAgent      string
		configPath     string
		answerTimeout  time.Duration
		answerDeadline time.Duration
		fetchTimeout   time.Duration
		scrapeDeadline time.Duration
		verbose        bool
	)

	flag.StringVar(&addr, "addr", envOr("ADDR", defaultAddr(defaults.Addr)), "Listen address (host:port)")
	flag.StringVar(&mode, "mode", envOr("SEARCH_MODE", string(defaults.Mode)), "Service variant: answer or scrape")
	flag.StringVar(&llmBaseURL, "llm.base", os.Getenv("LLM_BASE_URL"), "OpenAI-compatible base URL")
	flag.StringVar(&llmModel, "llm.model", os.Getenv("LLM_MODEL"), "Model name for the answer variant")
	flag.StringVar(&llmKey, "llm.key", os.Getenv("OPENAI_API_KEY"), "API key for the completion backend")
	flag.StringVar(&systemPrompt, "llm.systemPrompt", os.Getenv("LLM_SYSTEM_PROMPT"), "Override the completion system prompt")
	flag.StringVar(&userAgent, "fetch.ua", defaults.UserAgent, "User-Agent for page fetches")
	flag.StringVar(&configPath, "config", os.Getenv("QUICKSEARCH_CONFIG"), "Path to optional YAML config file")
	flag.DurationVar(&answerTimeout, "answer.timeout", defaults.AnswerTimeout, "Inner timeout for one completion API call")
	flag.DurationVar(&answerDeadline, "answer.deadline", defaults.AnswerDeadline, "Outer deadline for one answer request")
	flag.DurationVar(&fetchTimeout, "fetch.timeout", defaults.FetchTimeout, "Inner timeout for one page fetch")
	flag.DurationVar(&scrapeDeadline, "scrape.deadline", defaults.ScrapeDeadline, "Outer deadline for one scrape request")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	cfg := config.Default()
	if configPath != "" {
		fc, err := config.LoadFile(configPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", configPath).Msg("load config file")
		}
		if err := fc.Apply(&cfg); err != nil {
			log.Fatal().Err(err).Str("path", configPath).Msg("apply config file")
		}
	}

	// Flags and environment take precedence over the file; a flag left at
	// its default must not clobber a value the file set.
	flagSet := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { flagSet[f.Name] = true })

	if flagSet["addr"] || os.Getenv("ADDR") != "" || os.Getenv("PORT") != "" {
		cfg.Addr = addr
	}
	if flagSet["mode"] || os.Getenv("SEARCH_MODE") != "" {
		cfg.Mode = config.Mode(mode)
	}
	if llmBaseURL != "" {
		cfg.LLMBaseURL = llmBaseURL
	}
	if llmModel != "" {
		cfg.LLMModel = llmModel
	}
	if llmKey != "" {
		cfg.LLMAPIKey = llmKey
	}
	if systemPrompt != "" {
		cfg.SystemPrompt = systemPrompt
	}
	if flagSet["fetch.ua"] {
		cfg.UserAgent = userAgent
	}
	if flagSet["answer.timeout"] {
		cfg.AnswerTimeout = answerTimeout
	}
	if flagSet["answer.deadline"] {
		cfg.AnswerDeadline = answerDeadline
	}
	if flagSet["fetch.timeout"] {
		cfg.FetchTimeout = fetchTimeout
	}
	if flagSet["scrape.deadline"] {
		cfg.ScrapeDeadline = scrapeDeadline
	}
	if verbose {
		cfg.Verbose = true
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	deps := server.Deps{}
	switch cfg.Mode {
	case config.ModeAnswer:
		if cfg.LLMAPIKey == "" && cfg.LLMBaseURL == "" {
			log.Warn().Msg("no API key or base URL configured; completion calls will fail")
		}
		deps.Answerer = &answer.Answerer{
			Client:       answer.NewOpenAIClient(cfg.LLMBaseURL, cfg.LLMAPIKey),
			Model:        cfg.LLMModel,
			Timeout:      cfg.AnswerTimeout,
			SystemPrompt: cfg.SystemPrompt,
		}
	case config.ModeScrape:
		deps.Fetcher = &fetch.Client{
			UserAgent: cfg.UserAgent,
			Timeout:   cfg.FetchTimeout,
		}
	}

	srv := server.New(cfg, deps)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown")
		}
	}
}

// defaultAddr honors the conventional PORT variable when ADDR is not set.
func defaultAddr(fallback string) string {
	if port := os.Getenv("PORT"); port != "" {
		return ":" + port
	}
	return fallback
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
