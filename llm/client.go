package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/tidyname/tidyname/config"
)

// Client talks to a local OpenAI-compatible model server (LM Studio, Ollama,
// vLLM) and turns file content into filename components. All settings come
// from the configuration passed at construction; nothing is read ambiently.
type Client struct {
	api           *openai.Client
	server        config.ServerConfig
	prompts       config.PromptsConfig
	maxImageWidth int
	retryConfig   RetryConfig
	logger        *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRetryConfig sets the retry configuration.
func WithRetryConfig(cfg RetryConfig) ClientOption {
	return func(c *Client) {
		c.retryConfig = cfg
	}
}

// NewClient creates an analyzer client from configuration.
func NewClient(cfg *config.Config, opts ...ClientOption) *Client {
	// Local servers accept any key; a real one can still be injected for
	// OpenAI-compatible hosted endpoints.
	apiCfg := openai.DefaultConfig("")
	apiCfg.BaseURL = cfg.Server.BaseURL
	apiCfg.HTTPClient = &http.Client{Timeout: cfg.Server.Timeout}

	c := &Client{
		api:           openai.NewClientWithConfig(apiCfg),
		server:        cfg.Server,
		prompts:       cfg.Prompts,
		maxImageWidth: cfg.Extraction.MaxImageWidth,
		retryConfig:   DefaultRetryConfig(),
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Ping verifies the model server is reachable and returns the IDs of the
// models it advertises.
func (c *Client) Ping(ctx context.Context) ([]string, error) {
	models, err := c.api.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("model server unreachable: %w", err)
	}

	ids := make([]string, 0, len(models.Models))
	for _, m := range models.Models {
		ids = append(ids, m.ID)
	}
	return ids, nil
}

// AnalyzeText sends document content to the text model and parses the
// response into filename components.
func (c *Client) AnalyzeText(ctx context.Context, content string) (Components, error) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: c.prompts.TextInstruction},
		{Role: openai.ChatMessageRoleUser, Content: content},
	}

	raw, err := c.complete(ctx, c.server.TextModel, messages)
	if err != nil {
		return Components{}, err
	}

	return ParseComponents(raw)
}

// AnalyzeImage sends an image to the vision model and parses the response
// into filename components. The image is downscaled and embedded as a base64
// data URI.
func (c *Client) AnalyzeImage(ctx context.Context, path string) (Components, error) {
	dataURI, err := EncodeImageDataURI(path, c.maxImageWidth)
	if err != nil {
		return Components{}, err
	}

	model := c.server.VisionModel
	if model == "" {
		model = c.server.TextModel
	}

	messages := []openai.ChatCompletionMessage{
		{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{
					Type: openai.ChatMessagePartTypeText,
					Text: c.prompts.VisionInstruction,
				},
				{
					Type: openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{
						URL:    dataURI,
						Detail: openai.ImageURLDetailAuto,
					},
				},
			},
		},
	}

	raw, err := c.complete(ctx, model, messages)
	if err != nil {
		return Components{}, err
	}

	return ParseComponents(raw)
}

// complete runs one chat completion with retry on transient failures.
func (c *Client) complete(ctx context.Context, model string, messages []openai.ChatCompletionMessage) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: float32(c.server.Temperature),
		MaxTokens:   c.server.MaxTokens,
	}

	backoff := c.retryConfig.BackoffBase
	var lastErr error

	for attempt := 1; attempt <= c.retryConfig.MaxAttempts; attempt++ {
		start := time.Now()
		resp, err := c.api.CreateChatCompletion(ctx, req)
		if err == nil {
			if len(resp.Choices) == 0 {
				return "", NewFatalError(fmt.Errorf("no choices in response"))
			}
			c.logger.Debug("Model response received",
				slog.String("model", model),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()),
				slog.Int("tokens", resp.Usage.TotalTokens))
			return resp.Choices[0].Message.Content, nil
		}

		classified := classifyError(err)
		lastErr = classified

		if IsFatal(classified) {
			c.logger.Warn("Model request failed, not retrying",
				slog.String("model", model),
				slog.String("error", err.Error()))
			return "", classified
		}
		if ctx.Err() != nil {
			return "", classified
		}

		c.logger.Warn("Model request failed, retrying",
			slog.String("model", model),
			slog.Int("attempt", attempt),
			slog.Duration("backoff", backoff),
			slog.String("error", err.Error()))

		if attempt < c.retryConfig.MaxAttempts {
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", ctx.Err()
			}
			backoff = time.Duration(float64(backoff) * c.retryConfig.BackoffMultiplier)
			if backoff > c.retryConfig.MaxBackoff {
				backoff = c.retryConfig.MaxBackoff
			}
		}
	}

	return "", fmt.Errorf("model request failed after %d attempts: %w", c.retryConfig.MaxAttempts, lastErr)
}

// classifyError sorts API failures into transient (retryable) and fatal.
// Rate limits and server-side errors are worth retrying against a local
// server that may simply be loading a model; client-side errors are not.
func classifyError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.HTTPStatusCode >= 500 {
			return NewTransientError(err)
		}
		return NewFatalError(err)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.HTTPStatusCode == http.StatusTooManyRequests || reqErr.HTTPStatusCode >= 500 {
			return NewTransientError(err)
		}
		return NewFatalError(err)
	}

	if errors.Is(err, context.Canceled) {
		return NewFatalError(err)
	}

	// Connection refused, timeouts, DNS failures: the server may be starting.
	return NewTransientError(err)
}
