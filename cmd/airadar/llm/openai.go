package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type OpenAIModel struct {
	client openai.Client
	model  string
}

func newOpenAIModel(model string, o options) (ChatModel, error) {
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
	return &OpenAIModel{client: openai.NewClient(reqOpts...), model: model}, nil
}

func (m *OpenAIModel) Name() string {
	return ProviderOpenAI + "/" + m.model
}

// Generate 는 프롬프트를 system 메시지 하나로 보낸다.
func (m *OpenAIModel) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := m.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(m.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai API error: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("openai: %w", ErrEmptyResponse)
	}
	return resp.Choices[0].Message.Content, nil
}
