package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/cc4019/nirva/internal/model"
)

// OpenAIProvider implements the Provider interface for OpenAI models
type OpenAIProvider struct {
	client *openai.Client
	config Config
}

// NewOpenAIProvider creates a new OpenAI provider
func NewOpenAIProvider(config Config) (*OpenAIProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// ClassifyText labels one utterance using OpenAI's Chat Completions API
func (p *OpenAIProvider) ClassifyText(ctx context.Context, text string) (map[model.Dimension]model.Category, error) {
	chatModel := p.config.Model
	if chatModel == "" {
		chatModel = openai.GPT4oMini
	}

	maxTokens := p.config.MaxTokens
	if maxTokens == 0 {
		maxTokens = 200
	}

	timeout := time.Duration(p.config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: chatModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: BuildPrompt(text),
			},
		},
		MaxTokens:   maxTokens,
		Temperature: 0, // Classification must be as stable as the model allows
	}

	resp, err := p.client.CreateChatCompletion(ctxWithTimeout, req)
	if err != nil {
		return nil, classifyOpenAIError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, Malformed(fmt.Errorf("no choices in OpenAI response"))
	}

	return parseReply(strings.TrimSpace(resp.Choices[0].Message.Content))
}

// classifyOpenAIError maps go-openai errors onto the RemoteUnavailable
// taxonomy. Auth and configuration errors are permanent so the orchestrator
// can abandon the remote strategy without burning a retry budget per
// utterance; timeouts, rate limits, and server errors are transient.
func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return Unavailable(retryableStatus(apiErr.HTTPStatusCode), err)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return Unavailable(retryableStatus(reqErr.HTTPStatusCode), err)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return Unavailable(true, err)
	}
	if errors.Is(err, context.Canceled) {
		return Unavailable(false, err)
	}

	// Network-level failures (connection refused, DNS) come through as
	// plain errors; treat them as transient service unavailability.
	return Unavailable(true, err)
}

// retryableStatus reports whether an HTTP status signals a transient error.
func retryableStatus(status int) bool {
	switch {
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return false
	case status == http.StatusTooManyRequests:
		return true
	case status >= 500:
		return true
	default:
		return false
	}
}
