package feeder_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ai-lab-radar/cmd/airadar/feeder"
	"ai-lab-radar/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const everythingPayload = `{
  "status": "ok",
  "totalResults": 2,
  "articles": [
    {
      "source": {"id": null, "name": "NOS"},
      "author": null,
      "title": "Eerste artikel",
      "description": "Eerste beschrijving",
      "url": "https://example.com/1",
      "publishedAt": "2025-02-24T10:00:00Z",
      "content": "Eerste inhoud [+200 chars]"
    },
    {
      "source": {"id": null, "name": "NRC"},
      "title": "Tweede artikel",
      "description": "Tweede beschrijving",
      "url": "https://example.com/2",
      "publishedAt": "2025-02-24T09:00:00Z",
      "content": "Tweede inhoud"
    }
  ]
}`

func newsAPIServer(t *testing.T, status int, body string, seen *http.Request) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if seen != nil {
			*seen = *r.Clone(context.Background())
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testQuery() feeder.NewsAPIQuery {
	return feeder.NewsAPIQuery{
		Query:    "AI",
		From:     time.Date(2025, 2, 23, 0, 0, 0, 0, time.UTC),
		SortBy:   "publishedAt",
		Language: "nl",
	}
}

func TestNewsAPIFetch(t *testing.T) {
	var seen http.Request
	srv := newsAPIServer(t, http.StatusOK, everythingPayload, &seen)

	client := feeder.NewNewsAPIClient(srv.Client(), "test-key", testQuery()).WithBaseURL(srv.URL)
	articles, err := client.Fetch(context.Background())
	require.NoError(t, err)

	require.Len(t, articles, 2)
	assert.Equal(t, "Eerste artikel", articles[0].Title)
	assert.Equal(t, "Tweede artikel", articles[1].Title)
	assert.Equal(t, "Eerste inhoud [+200 chars]", articles[0].Content)
	assert.Equal(t, `"https://example.com/2"`, string(articles[1].Extra["url"]))

	assert.Equal(t, "/v2/everything", seen.URL.Path)
	q := seen.URL.Query()
	assert.Equal(t, "AI", q.Get("q"))
	assert.Equal(t, "2025-02-23", q.Get("from"))
	assert.Equal(t, "publishedAt", q.Get("sortBy"))
	assert.Equal(t, "nl", q.Get("language"))
	assert.False(t, q.Has("pageSize"))
	assert.False(t, q.Has("apiKey"))
	assert.Equal(t, "test-key", seen.Header.Get("X-Api-Key"))
}

func TestNewsAPIFetchPageSize(t *testing.T) {
	var seen http.Request
	srv := newsAPIServer(t, http.StatusOK, `{"status":"ok","articles":[]}`, &seen)

	query := testQuery()
	query.PageSize = 25
	articles, err := feeder.NewNewsAPIClient(srv.Client(), "test-key", query).WithBaseURL(srv.URL).Fetch(context.Background())
	require.NoError(t, err)

	assert.NotNil(t, articles)
	assert.Empty(t, articles)
	assert.Equal(t, "25", seen.URL.Query().Get("pageSize"))
}

func TestNewsAPIFetchMissingCredential(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	_, err := feeder.NewNewsAPIClient(srv.Client(), "", testQuery()).WithBaseURL(srv.URL).Fetch(context.Background())
	assert.ErrorIs(t, err, feeder.ErrMissingCredential)
	assert.Equal(t, 0, calls)
}

func TestNewsAPIFetchWithoutArticlesList(t *testing.T) {
	for name, body := range map[string]string{
		"missing key": `{"status":"ok","totalResults":0}`,
		"null list":   `{"status":"ok","articles":null}`,
		"not json":    `<html>maintenance</html>`,
	} {
		t.Run(name, func(t *testing.T) {
			srv := newsAPIServer(t, http.StatusOK, body, nil)

			_, err := feeder.NewNewsAPIClient(srv.Client(), "test-key", testQuery()).WithBaseURL(srv.URL).Fetch(context.Background())
			assert.ErrorIs(t, err, feeder.ErrMalformedResponse)
		})
	}
}

func TestNewsAPIFetchAPIError(t *testing.T) {
	srv := newsAPIServer(t, http.StatusUnauthorized,
		`{"status":"error","code":"apiKeyInvalid","message":"Your API key is invalid or incorrect."}`, nil)

	_, err := feeder.NewNewsAPIClient(srv.Client(), "bad-key", testQuery()).WithBaseURL(srv.URL).Fetch(context.Background())

	var apiErr *feeder.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "apiKeyInvalid", apiErr.Code)
	assert.Equal(t, "Your API key is invalid or incorrect.", apiErr.Message)
}

func TestNewsAPIFetchNonJSONErrorBodyIsTruncated(t *testing.T) {
	body := strings.Repeat("x", 5000)
	srv := newsAPIServer(t, http.StatusBadGateway, body, nil)

	_, err := feeder.NewNewsAPIClient(srv.Client(), "test-key", testQuery()).WithBaseURL(srv.URL).Fetch(context.Background())

	var apiErr *feeder.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, body[:2048], apiErr.Message)
}

func TestNewsAPIFetchTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := srv.URL
	srv.Close()

	_, err := feeder.NewNewsAPIClient(nil, "test-key", testQuery()).WithBaseURL(baseURL).Fetch(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, feeder.ErrMalformedResponse)

	var apiErr *feeder.APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestNewSelectsSource(t *testing.T) {
	t.Setenv(feeder.NEWS_API_KEY_ENV, "")

	cfg := config.Default().Source
	src, err := feeder.New(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, "newsapi", src.Name())

	// 키가 없으면 네트워크 호출 없이 실패한다.
	_, err = src.Fetch(context.Background())
	assert.ErrorIs(t, err, feeder.ErrMissingCredential)

	cfg.Provider = config.SOURCE_RSS
	cfg.RSSURL = "https://example.com/feed.xml"
	src, err = feeder.New(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, "rss", src.Name())

	cfg.Provider = "gdelt"
	_, err = feeder.New(cfg, nil)
	assert.ErrorIs(t, err, feeder.ErrUnknownSource)
}
