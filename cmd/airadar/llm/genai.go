package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

type GenAIModel struct {
	client *genai.Client
	model  string
}

func newGenAIModel(model string, o options) (ChatModel, error) {
	cfg := &genai.ClientConfig{
		APIKey:  o.apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if o.httpClient != nil {
		cfg.HTTPClient = o.httpClient
	}
	if o.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: o.baseURL}
	}

	client, err := genai.NewClient(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GenAIModel{client: client, model: model}, nil
}

func (m *GenAIModel) Name() string {
	return ProviderGoogleGenAI + "/" + m.model
}

func (m *GenAIModel) Generate(ctx context.Context, prompt string) (string, error) {
	result, err := m.client.Models.GenerateContent(ctx, m.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("genai API error: %w", err)
	}
	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("genai: %w", ErrEmptyResponse)
	}
	return text, nil
}
