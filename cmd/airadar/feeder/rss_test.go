package feeder_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"ai-lab-radar/cmd/airadar/feeder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 제어 문자(\x1B)가 섞인 피드도 파싱되어야 한다.
const rssFeed = "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n" +
	`<rss version="2.0" xmlns:content="http://purl.org/rss/1.0/modules/content/">
<channel>
  <title>AI Lab</title>
  <link>https://example.com</link>
  <description>Nieuws</description>
  <item>
    <title>Model A uitgebracht` + "\x1B" + `</title>
    <link>https://example.com/a</link>
    <description>Korte tekst A</description>
    <content:encoded><![CDATA[<p>Lange tekst A</p>]]></content:encoded>
    <pubDate>Mon, 24 Feb 2025 10:00:00 +0000</pubDate>
  </item>
  <item>
    <title>Model B uitgebracht</title>
    <link>https://example.com/b</link>
    <description>Korte tekst B</description>
  </item>
</channel>
</rss>`

func rssServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRSSFetch(t *testing.T) {
	srv := rssServer(t, http.StatusOK, rssFeed)

	articles, err := feeder.NewRSSClient(srv.Client(), srv.URL, 0).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, articles, 2)

	a := articles[0]
	assert.Equal(t, "Model A uitgebracht", a.Title)
	assert.Equal(t, "Korte tekst A", a.Description)
	assert.Equal(t, "<p>Lange tekst A</p>", a.Content)
	assert.Equal(t, `"https://example.com/a"`, string(a.Extra["url"]))
	assert.Equal(t, `"2025-02-24T10:00:00Z"`, string(a.Extra["publishedAt"]))
	assert.NoError(t, a.Validate())

	b := articles[1]
	assert.Equal(t, "Model B uitgebracht", b.Title)
	assert.Equal(t, "", b.Content)
	assert.NoError(t, b.Validate())
}

func TestRSSFetchLimit(t *testing.T) {
	srv := rssServer(t, http.StatusOK, rssFeed)

	articles, err := feeder.NewRSSClient(srv.Client(), srv.URL, 1).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "Model A uitgebracht", articles[0].Title)
}

func TestRSSFetchErrors(t *testing.T) {
	srv := rssServer(t, http.StatusForbidden, "blocked")
	_, err := feeder.NewRSSClient(srv.Client(), srv.URL, 0).Fetch(context.Background())

	var apiErr *feeder.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Equal(t, "blocked", apiErr.Message)

	srv = rssServer(t, http.StatusOK, "this is not a feed")
	_, err = feeder.NewRSSClient(srv.Client(), srv.URL, 0).Fetch(context.Background())
	assert.ErrorIs(t, err, feeder.ErrMalformedResponse)
}
