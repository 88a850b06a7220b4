package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const anthropicMaxTokens = 4096

type AnthropicModel struct {
	client anthropic.Client
	model  string
}

func newAnthropicModel(model string, o options) (ChatModel, error) {
	reqOpts := []option.RequestOption{
		option.WithAPIKey(o.apiKey),
		option.WithMaxRetries(0),
	}
	if o.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(o.baseURL))
	}
	if o.httpClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(o.httpClient))
	}
	return &AnthropicModel{client: anthropic.NewClient(reqOpts...), model: model}, nil
}

func (m *AnthropicModel) Name() string {
	return ProviderAnthropic + "/" + m.model
}

// Generate 는 프롬프트를 user 메시지로 보낸다. Messages API 는 system 만으로는 호출할 수 없다.
func (m *AnthropicModel) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := m.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(m.model),
		MaxTokens: anthropicMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API error: %w", err)
	}

	var b strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("anthropic: %w", ErrEmptyResponse)
	}
	return b.String(), nil
}
