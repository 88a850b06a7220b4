package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"
)

const (
	ProviderOpenAI      = "openai"
	ProviderAnthropic   = "anthropic"
	ProviderGoogleGenAI = "google_genai"
)

var (
	ErrUnsupportedProvider = errors.New("unsupported LLM provider")
	ErrMissingAPIKey       = errors.New("LLM API key is not set")
	ErrEmptyResponse       = errors.New("empty response from LLM")
)

// ChatModel 은 provider 에 상관없이 프롬프트 하나로 텍스트를 생성하는 최소 인터페이스다.
type ChatModel interface {
	// Name 은 "provider/model" 형태의 식별자다.
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

type options struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

type Option func(*options)

// WithAPIKey 를 주지 않으면 provider 별 환경변수에서 키를 읽는다.
func WithAPIKey(key string) Option {
	return func(o *options) { o.apiKey = key }
}

func WithBaseURL(baseURL string) Option {
	return func(o *options) { o.baseURL = baseURL }
}

func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

type provider struct {
	apiKeyEnv string
	newModel  func(model string, o options) (ChatModel, error)
}

var providers = map[string]provider{
	ProviderOpenAI:      {apiKeyEnv: "OPENAI_API_KEY", newModel: newOpenAIModel},
	ProviderAnthropic:   {apiKeyEnv: "ANTHROPIC_API_KEY", newModel: newAnthropicModel},
	ProviderGoogleGenAI: {apiKeyEnv: "GEMINI_API_KEY", newModel: newGenAIModel},
}

var aliases = map[string]string{
	"google": ProviderGoogleGenAI,
	"gemini": ProviderGoogleGenAI,
}

// New 는 provider id 와 모델 이름으로 ChatModel 을 만든다.
func New(providerID, model string, opts ...Option) (ChatModel, error) {
	id := strings.ToLower(strings.TrimSpace(providerID))
	if alias, ok := aliases[id]; ok {
		id = alias
	}
	p, ok := providers[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s (supported: %s)", ErrUnsupportedProvider, providerID, strings.Join(Providers(), ", "))
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.apiKey == "" {
		o.apiKey = os.Getenv(p.apiKeyEnv)
	}
	if o.apiKey == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingAPIKey, p.apiKeyEnv)
	}
	return p.newModel(model, o)
}

// Providers returns the registered provider ids.
func Providers() []string {
	ids := make([]string, 0, len(providers))
	for id := range providers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
