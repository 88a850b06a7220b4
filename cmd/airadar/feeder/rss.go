package feeder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"github.com/mmcdole/gofeed"

	"ai-lab-radar/models"
)

const FEEDER_TIMEOUT = 30 * time.Second

// rssUserAgent 는 RSS 피드를 요청할 때 사용할 브라우저 유사 User-Agent 이다.
// 일부 사이트(특히 CDN/보안 프록시 뒤에 있는 경우)는 기본 Go HTTP 클라이언트 UA를 차단한다.
const rssUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/142.0.0.0 Safari/537.36"

// RSSClient 는 RSS/Atom 피드 하나를 기사 목록으로 읽는다.
type RSSClient struct {
	httpClient *http.Client
	feedURL    string
	limit      int
}

// NewRSSClient 는 limit 이 0 보다 크면 앞에서부터 limit 개만 돌려준다.
func NewRSSClient(httpClient *http.Client, feedURL string, limit int) *RSSClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: FEEDER_TIMEOUT}
	}
	return &RSSClient{httpClient: httpClient, feedURL: feedURL, limit: limit}
}

func (c *RSSClient) Name() string {
	return "rss"
}

func (c *RSSClient) Fetch(ctx context.Context) ([]models.Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create RSS request: %w", err)
	}
	req.Header.Set("User-Agent", rssUserAgent)
	req.Header.Set("Accept", "application/rss+xml,application/atom+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rss request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodySample, _ := io.ReadAll(io.LimitReader(resp.Body, 500))
		return nil, &APIError{Source: c.Name(), StatusCode: resp.StatusCode, Message: string(bodySample)}
	}

	cleanedReader, err := cleanControlCharacters(resp.Body)
	if err != nil {
		return nil, err
	}

	feed, err := gofeed.NewParser().Parse(cleanedReader)
	if err != nil {
		return nil, fmt.Errorf("rss: %w: %v", ErrMalformedResponse, err)
	}

	articles := make([]models.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		articles = append(articles, articleFromItem(item))
	}

	if c.limit > 0 && len(articles) > c.limit {
		articles = articles[:c.limit]
	}
	return articles, nil
}

func articleFromItem(item *gofeed.Item) models.Article {
	a := models.NewArticle(item.Title, item.Description, item.Content)

	extra := map[string]any{}
	if item.Link != "" {
		extra["url"] = item.Link
	}
	if item.PublishedParsed != nil {
		extra["publishedAt"] = item.PublishedParsed.UTC().Format(time.RFC3339)
	} else if item.UpdatedParsed != nil {
		extra["publishedAt"] = item.UpdatedParsed.UTC().Format(time.RFC3339)
	}
	if item.Author != nil && item.Author.Name != "" {
		extra["author"] = item.Author.Name
	}
	if len(extra) == 0 {
		return a
	}

	a.Extra = make(map[string]json.RawMessage, len(extra))
	for k, v := range extra {
		b, _ := json.Marshal(v)
		a.Extra[k] = b
	}
	return a
}

// XML에서 허용되지 않는 제어 문자 범위 (0x00부터 0x1F까지 중 탭, LF, CR 제외).
var invalidControlCharRegex = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F]`)

func cleanControlCharacters(r io.Reader) (io.Reader, error) {
	bodyBytes, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read body for cleaning: %w", err)
	}
	return bytes.NewReader(invalidControlCharRegex.ReplaceAll(bodyBytes, nil)), nil
}
