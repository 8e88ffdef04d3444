package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/snnyvrz/locallibrary/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.SetHTMLTemplate(view.Must())
	r.Use(mw...)
	r.GET("/ping/:id", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func doGet(r http.Handler, path, remote string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = remote
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_RejectsOverBurstPerIP(t *testing.T) {
	l := NewRateLimiter(0.001, 2)
	r := newEngine(l.Handler())

	assert.Equal(t, http.StatusOK, doGet(r, "/ping/1", "10.0.0.1:1111").Code)
	assert.Equal(t, http.StatusOK, doGet(r, "/ping/1", "10.0.0.1:1111").Code)

	w := doGet(r, "/ping/1", "10.0.0.1:1111")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "rate limit exceeded")
	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, doGet(r, "/ping/1", "10.0.0.2:1111").Code, "other clients keep their own budget")
}

func TestRateLimiter_DisabledPassesEverything(t *testing.T) {
	l := NewRateLimiter(0, 0)
	require.False(t, l.Enabled())

	r := newEngine(l.Handler())
	for i := 0; i < 10; i++ {
		assert.Equal(t, http.StatusOK, doGet(r, "/ping/1", "10.0.0.1:1111").Code)
	}
}

func TestRateLimiter_EvictsIdleClients(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewRateLimiter(1, 1)
	l.now = func() time.Time { return now }

	l.allow("10.0.0.1")
	now = now.Add(2 * time.Minute)
	l.allow("10.0.0.2")
	require.Equal(t, 2, l.size())

	now = now.Add(2 * time.Minute)
	l.evict()

	assert.Equal(t, 1, l.size())
}

func TestRateLimiter_RunStopsWithContext(t *testing.T) {
	l := NewRateLimiter(1, 1)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		l.Run(ctx, time.Millisecond)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestMetrics_RecordsRouteTemplate(t *testing.T) {
	m := NewMetrics()
	r := newEngine(m.Handler())
	r.GET("/metrics", gin.WrapH(m.Exposer()))

	require.Equal(t, http.StatusOK, doGet(r, "/ping/abc", "10.0.0.1:1").Code)
	require.Equal(t, http.StatusNotFound, doGet(r, "/missing", "10.0.0.1:1").Code)

	w := doGet(r, "/metrics", "10.0.0.1:1")
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `locallibrary_http_requests_total{method="GET",route="/ping/:id",status="200"} 1`)
	assert.Contains(t, body, `route="unmatched",status="404"`)
	assert.Contains(t, body, "locallibrary_http_request_duration_seconds_bucket")
	assert.False(t, strings.Contains(body, "/ping/abc"), "raw paths must not become labels")
}

func TestErrorLogger_LogsAttachedErrors(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorLogger(logger))
	r.GET("/fail", func(c *gin.Context) {
		_ = c.Error(errors.New("db down")).SetMeta("AUTHOR_LIST_FAILED")
		c.String(http.StatusInternalServerError, "boom")
	})
	r.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	doGet(r, "/ok", "10.0.0.1:1")
	assert.Empty(t, buf.String())

	doGet(r, "/fail", "10.0.0.1:1")
	out := buf.String()
	assert.Contains(t, out, `"error":"db down"`)
	assert.Contains(t, out, `"code":"AUTHOR_LIST_FAILED"`)
	assert.Contains(t, out, `"status":500`)
	assert.Contains(t, out, `"route":"/fail"`)
}
