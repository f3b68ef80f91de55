package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Client talks to any OpenAI-compatible chat completions endpoint: OpenAI
// itself, or a local server such as vLLM or Ollama.
type Client struct {
	client    *openai.Client
	endpoint  string
	model     string
	maxTokens int
	logger    *zap.Logger
}

var _ LLMClient = (*Client)(nil)

// NewClient creates a new OpenAI-compatible LLM client.
// Local servers often need no key, so an empty APIKey is allowed.
func NewClient(cfg *Config, logger *zap.Logger) (*Client, error) {
	if err := requireEndpointAndModel(cfg); err != nil {
		return nil, err
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = strings.TrimSuffix(cfg.Endpoint, "/")

	return &Client{
		client:    openai.NewClientWithConfig(clientConfig),
		endpoint:  cfg.Endpoint,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		logger:    logger.Named("llm").With(zap.String("provider", ProviderOpenAI)),
	}, nil
}

func requireEndpointAndModel(cfg *Config) error {
	switch {
	case cfg == nil:
		return fmt.Errorf("llm config is required")
	case strings.TrimSpace(cfg.Endpoint) == "":
		return fmt.Errorf("endpoint is required")
	case strings.TrimSpace(cfg.Model) == "":
		return fmt.Errorf("model is required")
	}
	return nil
}

func (c *Client) request(prompt, systemMessage string, temperature float64) openai.ChatCompletionRequest {
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: float32(temperature),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	if systemMessage != "" {
		req.Messages = append([]openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemMessage},
		}, req.Messages...)
	}
	if c.maxTokens > 0 {
		req.MaxTokens = c.maxTokens
	}
	return req
}

// GenerateResponse sends one system+user exchange and returns the first choice.
func (c *Client) GenerateResponse(
	ctx context.Context,
	prompt string,
	systemMessage string,
	temperature float64,
) (*GenerateResponseResult, error) {
	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, c.request(prompt, systemMessage, temperature))
	if err != nil {
		c.logger.Warn("LLM request failed",
			zap.String("model", c.model),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return nil, classifyWithContext(err, c.model, c.endpoint)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return nil, NewError(ErrorTypeUnknown, "empty completion", true, fmt.Errorf("model %s returned no content", c.model))
	}

	c.logger.Debug("LLM request completed",
		zap.String("model", c.model),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.Duration("elapsed", time.Since(start)))

	return &GenerateResponseResult{
		Content:          resp.Choices[0].Message.Content,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}, nil
}

// GetModel returns the configured model name.
func (c *Client) GetModel() string {
	return c.model
}

// GetEndpoint returns the configured endpoint.
func (c *Client) GetEndpoint() string {
	return c.endpoint
}
