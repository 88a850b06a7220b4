package httpclient

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"ai-lab-radar/cmd/internal/logger"
)

// Config는 HTTP 클라이언트 공통 설정을 캡슐화한다.
type Config struct {
	Timeout time.Duration
}

// 로그에 남기면 안 되는 쿼리 파라미터 이름 (소문자).
var secretParams = map[string]bool{
	"apikey":  true,
	"api_key": true,
	"key":     true,
	"token":   true,
}

// loggingRoundTripper는 모든 아웃바운드 HTTP 호출에 대해 공통 로깅을 수행한다.
// API 키가 담긴 쿼리 파라미터는 로그에 남기기 전에 가린다.
type loggingRoundTripper struct {
	inner http.RoundTripper
}

func (l *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	resp, err := l.inner.RoundTrip(req)
	duration := time.Since(start)
	if err != nil {
		logger.ErrorWithFields("httpclient request failed", logger.Fields{
			"method":   req.Method,
			"url":      RedactURL(req.URL),
			"duration": duration.String(),
			"error":    err.Error(),
		})
		return nil, err
	}

	logger.DebugWithFields("httpclient request success", logger.Fields{
		"method":   req.Method,
		"url":      RedactURL(req.URL),
		"status":   resp.StatusCode,
		"duration": duration.String(),
	})
	return resp, nil
}

// RedactURL 은 비밀 값이 들어있는 쿼리 파라미터를 REDACTED 로 바꾼 URL 문자열을 돌려준다.
func RedactURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	if u.RawQuery == "" {
		return u.String()
	}

	q := u.Query()
	for k := range q {
		if secretParams[strings.ToLower(k)] {
			q.Set(k, "REDACTED")
		}
	}
	redacted := *u
	redacted.RawQuery = q.Encode()
	return redacted.String()
}

// New는 주어진 설정으로 http.Client를 생성한다.
// Timeout이 0이면 타임아웃 없이 ctx 취소에만 의존한다.
func New(cfg Config) *http.Client {
	return &http.Client{
		Timeout:   cfg.Timeout,
		Transport: &loggingRoundTripper{inner: http.DefaultTransport},
	}
}
