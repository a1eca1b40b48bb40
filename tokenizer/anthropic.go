package tokenizer

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
)

// DefaultCountingModel is the model used for token counting when none is
// configured.
const DefaultCountingModel = "claude-3-5-sonnet-20241022"

// AnthropicCounter counts tokens in raw text via Anthropic's native token
// counting endpoint. Remote text encoders use it to validate inputs against
// their context budget before sending them.
type AnthropicCounter struct {
	client *anthropic.Client
	model  anthropic.Model
}

// NewAnthropicCounter creates a counter backed by the provided client. An
// empty model selects DefaultCountingModel.
func NewAnthropicCounter(client *anthropic.Client, model string) *AnthropicCounter {
	if model == "" {
		model = DefaultCountingModel
	}
	return &AnthropicCounter{client: client, model: anthropic.Model(model)}
}

// CountTokens counts tokens in text. This makes an API call to Anthropic's
// token counting endpoint.
func (c *AnthropicCounter) CountTokens(ctx context.Context, text string) (int, error) {
	if text == "" {
		return 0, nil
	}
	if c.client == nil {
		return 0, fmt.Errorf("anthropic client is required for token counting")
	}

	result, err := c.client.Messages.CountTokens(ctx, anthropic.MessageCountTokensParams{
		Model: c.model,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(text)),
		},
	})
	if err != nil {
		return 0, fmt.Errorf("anthropic token counting failed: %w", err)
	}
	return int(result.InputTokens), nil
}
