// Package recommend generates short book introductions through the
// OpenAI completion API. It reads book fields and nothing else; no
// entity is ever mutated from here.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"bookshelf/internal/book"
)

// ErrUpstream is returned when the completion API fails after retries.
var ErrUpstream = errors.New("recommendation service unavailable")

// Config carries the collaborator settings, resolved at startup.
type Config struct {
	APIKey    string
	Model     string
	MaxTokens int
	Endpoint  string
	Timeout   time.Duration
}

type completionAPI interface {
	CreateCompletion(ctx context.Context, req openai.CompletionRequest) (openai.CompletionResponse, error)
}

type Client struct {
	api        completionAPI
	model      string
	maxTokens  int
	timeout    time.Duration
	limiter    *rate.Limiter
	maxRetries int
}

func NewClient(cfg Config) *Client {
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		apiCfg.BaseURL = cfg.Endpoint
	}

	model := cfg.Model
	if model == "" {
		model = openai.GPT3Dot5TurboInstruct
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 150
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		api:        openai.NewClientWithConfig(apiCfg),
		model:      model,
		maxTokens:  maxTokens,
		timeout:    timeout,
		limiter:    rate.NewLimiter(rate.Every(time.Second), 1),
		maxRetries: 2,
	}
}

// Introduce returns generated prose introducing the given book.
func (c *Client) Introduce(ctx context.Context, b book.Book) (string, error) {
	prompt := BuildPrompt(b)

	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		if i > 0 {
			backoff := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return "", err
		}

		text, err := c.complete(ctx, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !retryable(err) {
			break
		}
	}
	return "", fmt.Errorf("%w: %w", ErrUpstream, lastErr)
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.CreateCompletion(callCtx, openai.CompletionRequest{
		Model:     c.model,
		Prompt:    prompt,
		MaxTokens: c.maxTokens,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("completion returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Text), nil
}

func retryable(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.HTTPStatusCode >= 500
	}
	return true
}

// BuildPrompt renders the book's descriptive fields into the completion
// prompt.
func BuildPrompt(b book.Book) string {
	description := "No description available"
	if b.Description != nil && strings.TrimSpace(*b.Description) != "" {
		description = *b.Description
	}
	return fmt.Sprintf(
		"Introduce the book '%s' by %s, published in %d. Here is the description: %s.",
		b.Title, b.Author, b.Year, description,
	)
}
