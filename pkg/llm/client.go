// Package llm provides the chat-completion client used to phrase final
// answers. It speaks the OpenAI wire format, which also covers Groq-hosted
// open models via a custom base URL.
package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/packages/param"

	"github.com/skycast-ai/skycast/pkg/config"
	"github.com/skycast-ai/skycast/pkg/domain"
)

// Client implements domain.Generator on top of the OpenAI chat API.
type Client struct {
	client      *openai.Client
	model       string
	temperature float64
}

// NewClient fails immediately when no API key is configured. A missing key
// is a fatal configuration error at construction time, not at first use.
func NewClient(cfg config.LLMConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: GROQ_API_KEY is not set", domain.ErrConfigurationMissing)
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" && cfg.BaseURL != "https://api.openai.com/v1" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	client := openai.NewClient(opts...)

	return &Client{
		client:      &client,
		model:       cfg.Model,
		temperature: cfg.Temperature,
	}, nil
}

// Generate sends an ordered list of chat messages and returns the response
// text of the first choice.
func (c *Client) Generate(ctx context.Context, messages []domain.Message) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:    c.model,
		Messages: buildMessages(messages),
	}
	if c.temperature > 0 {
		params.Temperature = param.NewOpt(c.temperature)
	}

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", domain.ErrGenerationFailed)
	}

	return completion.Choices[0].Message.Content, nil
}

func buildMessages(messages []domain.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case "system":
			out = append(out, openai.SystemMessage(msg.Content))
		case "assistant":
			out = append(out, openai.AssistantMessage(msg.Content))
		default:
			out = append(out, openai.UserMessage(msg.Content))
		}
	}
	return out
}
