package feeder

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"ai-lab-radar/models"
)

const NEWS_API_KEY_ENV = "NEWS_API_KEY"
const NEWS_API_BASE_URL = "https://newsapi.org"

// NewsAPIQuery 는 /v2/everything 검색 조건이다.
type NewsAPIQuery struct {
	Query    string
	From     time.Time
	SortBy   string
	Language string
	PageSize int
}

// NewsAPIClient 는 newsapi.org 전문 검색 엔드포인트를 호출한다.
type NewsAPIClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	query      NewsAPIQuery
}

func NewNewsAPIClient(httpClient *http.Client, apiKey string, query NewsAPIQuery) *NewsAPIClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &NewsAPIClient{
		httpClient: httpClient,
		baseURL:    NEWS_API_BASE_URL,
		apiKey:     apiKey,
		query:      query,
	}
}

// WithBaseURL points the client at another host (tests, proxies).
func (c *NewsAPIClient) WithBaseURL(baseURL string) *NewsAPIClient {
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

func (c *NewsAPIClient) Name() string {
	return "newsapi"
}

type newsAPIResponse struct {
	Status       string           `json:"status"`
	TotalResults int              `json:"totalResults"`
	Code         string           `json:"code"`
	Message      string           `json:"message"`
	Articles     []models.Article `json:"articles"`
}

func (c *NewsAPIClient) params() url.Values {
	q := url.Values{}
	q.Set("q", c.query.Query)
	if !c.query.From.IsZero() {
		q.Set("from", c.query.From.Format("2006-01-02"))
	}
	if c.query.SortBy != "" {
		q.Set("sortBy", c.query.SortBy)
	}
	if c.query.Language != "" {
		q.Set("language", c.query.Language)
	}
	if c.query.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(c.query.PageSize))
	}
	return q
}

// Fetch 는 GET /v2/everything 을 한 번 호출한다. 재시도는 하지 않는다.
func (c *NewsAPIClient) Fetch(ctx context.Context) ([]models.Article, error) {
	if c.apiKey == "" {
		return nil, ErrMissingCredential
	}

	reqURL := c.baseURL + "/v2/everything?" + c.params().Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create newsapi request: %w", err)
	}
	// 키는 URL 대신 헤더로 보낸다.
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("newsapi request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read newsapi response: %w", err)
	}

	var out newsAPIResponse
	decodeErr := json.Unmarshal(body, &out)

	if resp.StatusCode != http.StatusOK || out.Status == "error" {
		apiErr := &APIError{Source: c.Name(), StatusCode: resp.StatusCode, Code: out.Code, Message: out.Message}
		if decodeErr != nil || apiErr.Message == "" {
			apiErr.Message = snippet(body, 2048)
		}
		return nil, apiErr
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("newsapi: %w: %v", ErrMalformedResponse, decodeErr)
	}
	if out.Articles == nil {
		return nil, fmt.Errorf("newsapi: %w: no articles list in payload", ErrMalformedResponse)
	}
	return out.Articles, nil
}

func snippet(b []byte, limit int) string {
	if len(b) > limit {
		b = b[:limit]
	}
	return string(b)
}
