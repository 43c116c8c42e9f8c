package answer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Client is the minimal interface needed to call a chat model. It mirrors the
// CreateChatCompletion method of *openai.Client so that any OpenAI-compatible
// backend, including test stubs, can be plugged in.
type Client interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

var (
	// ErrTimeout reports that the completion API did not answer within the
	// configured inner timeout.
	ErrTimeout = errors.New("the search timed out, please try again")

	// ErrRateLimited reports an upstream 429.
	ErrRateLimited = errors.New("the API rate limit was reached, please wait a moment and try again")
)

// UpstreamError carries an API-level failure from the completion backend.
type UpstreamError struct {
	Status int
	Detail string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("completion API error (status %d): %s", e.Status, e.Detail)
}

const (
	defaultSystemPrompt = "You are a capable search assistant. Provide concise and accurate answers to the question."
	defaultMaxTokens    = 500
	defaultTemperature  = 0.7
)

// Answerer turns a user query into a short summarized answer via a chat
// completion call. Timeout bounds the API call itself; the caller may impose
// a larger outer deadline on top.
type Answerer struct {
	Client       Client
	Model        string
	Timeout      time.Duration
	SystemPrompt string
	MaxTokens    int
}

// Answer runs one completion request for query and returns the trimmed
// assistant message. Failures map onto ErrTimeout, ErrRateLimited, or
// *UpstreamError; anything else is wrapped and left for the caller to treat
// as unexpected.
func (a *Answerer) Answer(ctx context.Context, query string) (string, error) {
	if a.Client == nil {
		return "", errors.New("answerer not configured")
	}
	model := a.Model
	if model == "" {
		model = openai.GPT3Dot5Turbo
	}
	system := a.SystemPrompt
	if strings.TrimSpace(system) == "" {
		system = defaultSystemPrompt
	}
	maxTokens := a.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	if a.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Timeout)
		defer cancel()
	}

	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: query},
		},
		MaxTokens:   maxTokens,
		Temperature: defaultTemperature,
	}
	resp, err := a.Client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", mapCompletionError(err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("completion returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func mapCompletionError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			return ErrRateLimited
		}
		return &UpstreamError{Status: apiErr.HTTPStatusCode, Detail: apiErr.Message}
	}
	return fmt.Errorf("completion request: %w", err)
}

// NewOpenAIClient builds an OpenAI-compatible client, optionally pointed at a
// non-default base URL such as a local stub.
func NewOpenAIClient(baseURL, apiKey string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(cfg)
}
