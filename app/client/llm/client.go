package llm

import (
	"conectin/app/config"
	"conectin/app/model"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/samber/do"
	"github.com/samber/oops"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const maxCompletionTokens = 1000

// Client runs single-turn completions against an OpenAI-compatible endpoint.
type Client struct {
	model llms.Model
}

func NewClient(di *do.Injector) (*Client, error) {
	cfg := do.MustInvoke[*config.Config](di)

	llm, err := openai.New(
		openai.WithToken(cfg.OpenAI.Token),
		openai.WithBaseURL(cfg.OpenAI.BaseURL),
		openai.WithModel(cfg.OpenAI.Model),
		openai.WithHTTPClient(&http.Client{
			Timeout: cfg.OpenAI.Timeout,
		}),
		openai.WithCallback(LogCallbackHandler{}),
	)
	if err != nil {
		return nil, oops.In("llm").Errorf("failed to create openai client: %w", err)
	}

	return NewWithModel(llm), nil
}

func NewWithModel(m llms.Model) *Client {
	return &Client{model: m}
}

// Complete sends a system prompt and a single user turn and returns the trimmed answer.
func (c *Client) Complete(ctx context.Context, system, user string, temperature float64) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, system),
		llms.TextParts(llms.ChatMessageTypeHuman, user),
	}

	resp, err := c.model.GenerateContent(ctx, messages,
		llms.WithTemperature(temperature),
		llms.WithMaxTokens(maxCompletionTokens),
	)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create chat completion: %w", model.ErrExternalService, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no chat completion found", model.ErrExternalService)
	}

	return strings.TrimSpace(resp.Choices[0].Content), nil
}
