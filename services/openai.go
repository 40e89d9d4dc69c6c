package services

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

// OpenAIConfig describes an OpenAI-compatible endpoint
type OpenAIConfig struct {
	APIKey            string
	BaseURL           string
	Model             string
	Temperature       float32
	RequestsPerMinute int // 0 disables client-side pacing
}

// NewOpenAIClient builds a go-openai client for cfg. A local endpoint such as
// Ollama may be used without a key when BaseURL is set.
func NewOpenAIClient(cfg OpenAIConfig) (*openai.Client, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		if cfg.BaseURL == "" {
			return nil, errors.New("OpenAI API key is not set")
		}
		apiKey = "not-needed"
	}

	config := openai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	return openai.NewClientWithConfig(config), nil
}

// ChatClient sends single-turn chat requests that must answer with a JSON object
type ChatClient struct {
	client      *openai.Client
	model       string
	temperature float32
	limiter     *rate.Limiter
}

// NewChatClient wraps client for model with optional pacing
func NewChatClient(client *openai.Client, cfg OpenAIConfig) *ChatClient {
	c := &ChatClient{
		client:      client,
		model:       cfg.Model,
		temperature: cfg.Temperature,
	}
	if c.model == "" {
		c.model = openai.GPT4oMini
	}
	if cfg.RequestsPerMinute > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60), 1)
	}
	return c
}

// Model returns the model name used for requests
func (c *ChatClient) Model() string {
	return c.model
}

// CompleteJSON returns the assistant message content with code fences removed
func (c *ChatClient) CompleteJSON(ctx context.Context, system, user string) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", errors.Wrap(err, "rate limiter")
		}
	}

	resp, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: system,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: user,
				},
			},
			Temperature: c.temperature,
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
		},
	)
	if err != nil {
		return "", errors.Wrap(err, "chat completion")
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}

	return stripFences(resp.Choices[0].Message.Content), nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
