package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/snnyvrz/locallibrary/internal/model"
	"github.com/snnyvrz/locallibrary/internal/repository"
	"github.com/snnyvrz/locallibrary/internal/view"
	"gorm.io/gorm"
)

var errStoreDown = errors.New("store down")

func setupRouterWithStore(store repository.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.SetHTMLTemplate(view.Must())

	catalog := r.Group("/catalog")
	NewCatalogHandler(store).RegisterRoutes(catalog)
	NewAuthorHandler(store.Authors, store.Books).RegisterRoutes(catalog)
	NewGenreHandler(store.Genres, store.Books).RegisterRoutes(catalog)
	NewBookHandler(store.Books, store.Authors, store.Genres, store.BookInstances).RegisterRoutes(catalog)
	NewBookInstanceHandler(store.BookInstances, store.Books).RegisterRoutes(catalog)

	return r
}

func setupRouter(db *gorm.DB) *gin.Engine {
	return setupRouterWithStore(repository.NewGormStore(db))
}

func get(t *testing.T, r http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()

	req, _ := http.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func submit(t *testing.T, r http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	req, _ := http.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()

	if w.Code != status {
		t.Fatalf("expected status %d, got %d, body=%s", status, w.Code, w.Body.String())
	}
}

func expectRedirect(t *testing.T, w *httptest.ResponseRecorder, location string) {
	t.Helper()

	expectStatus(t, w, http.StatusFound)
	if got := w.Header().Get("Location"); got != location {
		t.Fatalf("expected redirect to %q, got %q", location, got)
	}
}

func expectBodyContains(t *testing.T, w *httptest.ResponseRecorder, parts ...string) {
	t.Helper()

	body := w.Body.String()
	for _, p := range parts {
		if !strings.Contains(body, p) {
			t.Errorf("expected body to contain %q, body=%s", p, body)
		}
	}
}

// expectOrder checks that parts appear in the body in the given order.
func expectOrder(t *testing.T, w *httptest.ResponseRecorder, parts ...string) {
	t.Helper()

	body := w.Body.String()
	last := -1
	for _, p := range parts {
		i := strings.Index(body, p)
		if i < 0 {
			t.Fatalf("expected body to contain %q", p)
		}
		if i < last {
			t.Fatalf("expected %q to appear after the previous entry", p)
		}
		last = i
	}
}

func countRows(t *testing.T, db *gorm.DB, m any) int64 {
	t.Helper()

	var n int64
	if err := db.Model(m).Count(&n).Error; err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	return n
}

type fakeAuthorRepo struct {
	ListFn     func(ctx context.Context) ([]model.Author, error)
	FindByIDFn func(ctx context.Context, id uuid.UUID) (*model.Author, error)
	CreateFn   func(ctx context.Context, a *model.Author) error
	UpdateFn   func(ctx context.Context, a *model.Author) error
	DeleteFn   func(ctx context.Context, id uuid.UUID) error
	CountFn    func(ctx context.Context) (int64, error)
}

func (f *fakeAuthorRepo) List(ctx context.Context) ([]model.Author, error) {
	if f.ListFn != nil {
		return f.ListFn(ctx)
	}
	return nil, nil
}

func (f *fakeAuthorRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Author, error) {
	if f.FindByIDFn != nil {
		return f.FindByIDFn(ctx, id)
	}
	return nil, repository.ErrNotFound
}

func (f *fakeAuthorRepo) Create(ctx context.Context, a *model.Author) error {
	if f.CreateFn != nil {
		return f.CreateFn(ctx, a)
	}
	return nil
}

func (f *fakeAuthorRepo) Update(ctx context.Context, a *model.Author) error {
	if f.UpdateFn != nil {
		return f.UpdateFn(ctx, a)
	}
	return nil
}

func (f *fakeAuthorRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if f.DeleteFn != nil {
		return f.DeleteFn(ctx, id)
	}
	return nil
}

func (f *fakeAuthorRepo) Count(ctx context.Context) (int64, error) {
	if f.CountFn != nil {
		return f.CountFn(ctx)
	}
	return 0, nil
}

type fakeGenreRepo struct {
	ListFn       func(ctx context.Context) ([]model.Genre, error)
	FindByIDFn   func(ctx context.Context, id uuid.UUID) (*model.Genre, error)
	FindByNameFn func(ctx context.Context, name string) (*model.Genre, error)
	CreateFn     func(ctx context.Context, g *model.Genre) error
	UpdateFn     func(ctx context.Context, g *model.Genre) error
	DeleteFn     func(ctx context.Context, id uuid.UUID) error
	CountFn      func(ctx context.Context) (int64, error)
}

func (f *fakeGenreRepo) List(ctx context.Context) ([]model.Genre, error) {
	if f.ListFn != nil {
		return f.ListFn(ctx)
	}
	return nil, nil
}

func (f *fakeGenreRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Genre, error) {
	if f.FindByIDFn != nil {
		return f.FindByIDFn(ctx, id)
	}
	return nil, repository.ErrNotFound
}

func (f *fakeGenreRepo) FindByName(ctx context.Context, name string) (*model.Genre, error) {
	if f.FindByNameFn != nil {
		return f.FindByNameFn(ctx, name)
	}
	return nil, repository.ErrNotFound
}

func (f *fakeGenreRepo) Create(ctx context.Context, g *model.Genre) error {
	if f.CreateFn != nil {
		return f.CreateFn(ctx, g)
	}
	return nil
}

func (f *fakeGenreRepo) Update(ctx context.Context, g *model.Genre) error {
	if f.UpdateFn != nil {
		return f.UpdateFn(ctx, g)
	}
	return nil
}

func (f *fakeGenreRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if f.DeleteFn != nil {
		return f.DeleteFn(ctx, id)
	}
	return nil
}

func (f *fakeGenreRepo) Count(ctx context.Context) (int64, error) {
	if f.CountFn != nil {
		return f.CountFn(ctx)
	}
	return 0, nil
}
