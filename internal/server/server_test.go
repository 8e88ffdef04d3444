package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/snnyvrz/locallibrary/internal/config"
	"github.com/snnyvrz/locallibrary/internal/middleware"
	"github.com/snnyvrz/locallibrary/internal/model"
	"github.com/snnyvrz/locallibrary/internal/repository"
	"github.com/snnyvrz/locallibrary/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestRouter(t *testing.T, limiter *middleware.RateLimiter) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	return NewRouter(RouterOptions{
		Store:     repository.NewGormStore(testutil.NewTestDB(t)),
		Driver:    config.DriverSQLite,
		Logger:    zerolog.Nop(),
		Limiter:   limiter,
		StartTime: time.Now(),
		Version:   "test",
	})
}

func doGet(r http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = "192.0.2.1:1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_RootRedirectsToCatalog(t *testing.T) {
	r := newTestRouter(t, nil)

	w := doGet(r, "/")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/catalog", w.Header().Get("Location"))
}

func TestRouter_CatalogIndex(t *testing.T) {
	r := newTestRouter(t, nil)

	w := doGet(r, "/catalog")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Local Library")
}

func TestRouter_UnknownRouteRendersNotFound(t *testing.T) {
	r := newTestRouter(t, nil)

	w := doGet(r, "/catalog/nowhere/at/all")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "page not found")
}

func TestRouter_HealthAndReady(t *testing.T) {
	r := newTestRouter(t, nil)

	w := doGet(r, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)

	w = doGet(r, "/ready")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"driver":"sqlite"`)
}

func TestRouter_MetricsCountsCatalogRequests(t *testing.T) {
	r := newTestRouter(t, nil)

	doGet(r, "/catalog/authors")

	w := doGet(r, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `route="/catalog/authors"`)
}

func TestRouter_RateLimitAppliesToCatalogOnly(t *testing.T) {
	r := newTestRouter(t, middleware.NewRateLimiter(0.001, 1))

	assert.Equal(t, http.StatusOK, doGet(r, "/catalog/genres").Code)
	assert.Equal(t, http.StatusTooManyRequests, doGet(r, "/catalog/genres").Code)
	assert.Equal(t, http.StatusOK, doGet(r, "/health").Code)
}

func TestOpenStore_SQLite(t *testing.T) {
	cfg := &config.Config{
		GinMode:     "test",
		StoreDriver: config.DriverSQLite,
		SQLitePath:  filepath.Join(t.TempDir(), "library.db"),
	}
	ctx := context.Background()

	store, closeFn, err := OpenStore(ctx, cfg)
	require.NoError(t, err)
	defer func() { assert.NoError(t, closeFn(ctx)) }()

	require.NoError(t, store.Ping(ctx))

	genre := model.Genre{Name: "Poetry"}
	require.NoError(t, store.Genres.Create(ctx, &genre))

	n, err := store.Genres.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestOpenStore_ClosesDatabaseWhenMigrationFails(t *testing.T) {
	var opened *gorm.DB
	migrate = func(db *gorm.DB) error {
		opened = db
		return errors.New("migration refused")
	}
	t.Cleanup(func() { migrate = repository.AutoMigrate })

	cfg := &config.Config{
		GinMode:     "test",
		StoreDriver: config.DriverSQLite,
		SQLitePath:  filepath.Join(t.TempDir(), "library.db"),
	}

	_, closeFn, err := OpenStore(context.Background(), cfg)
	require.ErrorContains(t, err, "migration refused")
	assert.Nil(t, closeFn)
	require.NotNil(t, opened)

	sqlDB, err := opened.DB()
	require.NoError(t, err)
	assert.ErrorContains(t, sqlDB.Ping(), "database is closed")
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	_, _, err := OpenStore(context.Background(), &config.Config{StoreDriver: "oracle"})
	assert.ErrorContains(t, err, "unknown store driver")
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	srv := New("127.0.0.1:0", http.NotFoundHandler(), zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
