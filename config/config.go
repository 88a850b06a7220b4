package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const ENV_FILE = ".env"
const CONFIG_FILE = "config.yaml"

const (
	DEFAULT_MODEL_PROVIDER = "openai"
	DEFAULT_MODEL_NAME     = "gpt-4o-mini"
	DEFAULT_PROMPT         = "Write a concise summary (output format: HTML with open and closing <html></html> tags) of the \n" +
		"following articles that includes AI related developments:\\n\\n{context}"
)

const (
	SOURCE_NEWSAPI = "newsapi"
	SOURCE_RSS     = "rss"
)

const dateLayout = "2006-01-02"

var (
	ErrUnknownSourceProvider = errors.New("source.provider must be one of: newsapi, rss")
	ErrMissingRSSURL         = errors.New("source.rss_url is required when source.provider is rss")
	ErrInvalidFromDate       = errors.New("source.from must be a date in YYYY-MM-DD format")
	ErrInvalidLogLevel       = errors.New("logging.level must be one of: debug, info, warn, error")
)

// AppConfig 는 한 번의 실행 동안 사용하는 설정 값이다.
// 시작 시 Load 로 한 번만 만들고 각 단계에 명시적으로 전달한다.
type AppConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Model   ModelConfig   `yaml:"model"`
	Prompt  string        `yaml:"prompt"`
	Source  SourceConfig  `yaml:"source"`

	// LoadedFrom 은 읽어 들인 config.yaml 경로이다. 파일이 없으면 빈 문자열.
	LoadedFrom string `yaml:"-"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// ModelConfig 는 요약에 사용할 LLM 을 지정한다.
type ModelConfig struct {
	// Provider 는 llm 패키지에 등록된 provider id (openai, anthropic, google_genai).
	Provider string `yaml:"provider"`
	Name     string `yaml:"name"`
	// TimeoutSeconds 는 LLM 호출 HTTP 타임아웃이다. 0 이면 타임아웃 없음 (기본값).
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// SourceConfig 는 기사 수집 대상(검색 쿼리 또는 RSS 피드)을 정의한다.
type SourceConfig struct {
	Provider string `yaml:"provider"`

	Query    string `yaml:"query"`
	Language string `yaml:"language"`
	SortBy   string `yaml:"sort_by"`
	// From 은 검색 하한 날짜(YYYY-MM-DD). 비어 있으면 LookbackDays 로 계산한다.
	From         string `yaml:"from"`
	LookbackDays int    `yaml:"lookback_days"`
	// PageSize 가 0 이면 upstream 기본값을 사용한다.
	PageSize int `yaml:"page_size"`

	RSSURL string `yaml:"rss_url"`

	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// Default returns the configuration used when config.yaml is absent.
func Default() AppConfig {
	return AppConfig{
		Logging: LoggingConfig{Level: "info"},
		Model: ModelConfig{
			Provider: DEFAULT_MODEL_PROVIDER,
			Name:     DEFAULT_MODEL_NAME,
		},
		Prompt: DEFAULT_PROMPT,
		Source: SourceConfig{
			Provider:       SOURCE_NEWSAPI,
			Query:          "AI",
			Language:       "nl",
			SortBy:         "publishedAt",
			LookbackDays:   7,
			TimeoutSeconds: 30,
		},
	}
}

// Load 는 dir 의 .env 와 config.yaml 을 읽는다.
// config.yaml 이 없으면 기본값을 사용하고, 파싱할 수 없으면 에러를 반환한다.
// 파일에 없는 키는 기본값으로 채운다.
func Load(dir string) (*AppConfig, error) {
	// .env 는 선택 사항이다. 이미 설정된 환경변수는 덮어쓰지 않는다.
	_ = godotenv.Load(filepath.Join(dir, ENV_FILE))

	path := filepath.Join(dir, CONFIG_FILE)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		c := Default()
		return &c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", CONFIG_FILE, err)
	}

	var c AppConfig
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", CONFIG_FILE, err)
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", CONFIG_FILE, err)
	}
	c.LoadedFrom = path
	return &c, nil
}

func (c *AppConfig) applyDefaults() {
	d := Default()

	if c.Logging.Level == "" {
		c.Logging.Level = d.Logging.Level
	}
	if c.Model.Provider == "" {
		c.Model.Provider = d.Model.Provider
	}
	if c.Model.Name == "" {
		c.Model.Name = d.Model.Name
	}
	if c.Model.TimeoutSeconds < 0 {
		c.Model.TimeoutSeconds = 0
	}
	if c.Prompt == "" {
		c.Prompt = d.Prompt
	}

	s := &c.Source
	if s.Provider == "" {
		s.Provider = d.Source.Provider
	}
	s.Provider = strings.ToLower(s.Provider)
	if s.Query == "" {
		s.Query = d.Source.Query
	}
	if s.Language == "" {
		s.Language = d.Source.Language
	}
	if s.SortBy == "" {
		s.SortBy = d.Source.SortBy
	}
	if s.LookbackDays <= 0 {
		s.LookbackDays = d.Source.LookbackDays
	}
	if s.PageSize < 0 {
		s.PageSize = 0
	}
	if s.TimeoutSeconds <= 0 {
		s.TimeoutSeconds = d.Source.TimeoutSeconds
	}
}

// Validate validates the configuration.
func (c *AppConfig) Validate() error {
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return ErrInvalidLogLevel
	}

	switch c.Source.Provider {
	case SOURCE_NEWSAPI:
	case SOURCE_RSS:
		if c.Source.RSSURL == "" {
			return ErrMissingRSSURL
		}
	default:
		return ErrUnknownSourceProvider
	}

	if c.Source.From != "" {
		if _, err := time.Parse(dateLayout, c.Source.From); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidFromDate, c.Source.From)
		}
	}
	return nil
}

// FromDate 는 검색 하한 날짜를 돌려준다. source.from 이 없으면 now 에서 LookbackDays 를 뺀 날짜.
func (s SourceConfig) FromDate(now time.Time) time.Time {
	if s.From != "" {
		if t, err := time.Parse(dateLayout, s.From); err == nil {
			return t
		}
	}
	y, m, d := now.AddDate(0, 0, -s.LookbackDays).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

func (s SourceConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

func (m ModelConfig) Timeout() time.Duration {
	return time.Duration(m.TimeoutSeconds) * time.Second
}
