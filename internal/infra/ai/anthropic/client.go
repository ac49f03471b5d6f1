package anthropic

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/bryanwahyu/insight/internal/domain/ai"
)

const defaultModel = "claude-haiku-4-5-20251001"

// Client calls the Anthropic Messages API.
type Client struct {
	api   anthropic.Client
	Model string
}

// NewClient builds a client. baseURL overrides the API endpoint when set.
// The SDK's automatic retries are disabled: a failed call surfaces to the user.
func NewClient(apiKey, baseURL, model string) *Client {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &Client{api: anthropic.NewClient(opts...), Model: model}
}

func (c *Client) Complete(ctx context.Context, system, userText string, maxTokens int) ([]ai.Segment, error) {
	model := c.Model
	if model == "" {
		model = defaultModel
	}
	msg, err := c.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(maxTokens),
		System:    []anthropic.TextBlockParam{{Text: system}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userText)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	out := make([]ai.Segment, 0, len(msg.Content))
	for _, block := range msg.Content {
		out = append(out, ai.Segment{Type: ai.SegmentType(block.Type), Text: block.Text})
	}
	return out, nil
}
