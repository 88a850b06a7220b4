package feeder

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"ai-lab-radar/config"
	"ai-lab-radar/models"
)

var (
	ErrMissingCredential = errors.New("NEWS_API_KEY environment variable is not set")
	ErrMalformedResponse = errors.New("unexpected response shape")
	ErrUnknownSource     = errors.New("unknown article source")
)

// Source 는 한 번의 호출로 기사 목록을 가져오는 수집기다.
// 순서는 upstream 이 돌려준 그대로 유지한다.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]models.Article, error)
}

// APIError 는 upstream 이 200 이 아닌 상태나 에러 payload 를 돌려준 경우다.
type APIError struct {
	Source     string
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("%s: status=%d body=%s", e.Source, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: status=%d code=%s message=%s", e.Source, e.StatusCode, e.Code, e.Message)
}

// New 는 source.provider 설정에 맞는 Source 를 만든다.
// NewsAPI 의 키 존재 여부는 Fetch 시점에 확인하므로 캐시 실행에는 키가 필요 없다.
func New(cfg config.SourceConfig, httpClient *http.Client) (Source, error) {
	switch cfg.Provider {
	case config.SOURCE_NEWSAPI:
		return NewNewsAPIClient(httpClient, os.Getenv(NEWS_API_KEY_ENV), NewsAPIQuery{
			Query:    cfg.Query,
			From:     cfg.FromDate(time.Now()),
			SortBy:   cfg.SortBy,
			Language: cfg.Language,
			PageSize: cfg.PageSize,
		}), nil
	case config.SOURCE_RSS:
		return NewRSSClient(httpClient, cfg.RSSURL, cfg.PageSize), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, cfg.Provider)
	}
}
