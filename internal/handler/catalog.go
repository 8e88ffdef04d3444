package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/snnyvrz/locallibrary/internal/model"
	"github.com/snnyvrz/locallibrary/internal/repository"
	"golang.org/x/sync/errgroup"
)

type CatalogHandler struct {
	store repository.Store
}

func NewCatalogHandler(store repository.Store) *CatalogHandler {
	return &CatalogHandler{store: store}
}

type catalogCounts struct {
	BookCount                  int64
	BookInstanceCount          int64
	BookInstanceAvailableCount int64
	AuthorCount                int64
	GenreCount                 int64
}

func (h *CatalogHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("", h.Index)
	r.GET("/", h.Index)
}

// Index renders the record counts. A failed count is shown on the page
// instead of failing the request.
func (h *CatalogHandler) Index(c *gin.Context) {
	var counts catalogCounts

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() (err error) {
		counts.BookCount, err = h.store.Books.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		counts.BookInstanceCount, err = h.store.BookInstances.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		counts.BookInstanceAvailableCount, err = h.store.BookInstances.CountByStatus(ctx, model.StatusAvailable)
		return err
	})
	g.Go(func() (err error) {
		counts.AuthorCount, err = h.store.Authors.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		counts.GenreCount, err = h.store.Genres.Count(ctx)
		return err
	})

	data := gin.H{"Title": "Local Library Home"}
	if err := g.Wait(); err != nil {
		_ = c.Error(err).SetMeta("CATALOG_COUNT_FAILED")
		data["Error"] = "failed to count catalog records"
	} else {
		data["Data"] = counts
	}

	c.HTML(http.StatusOK, "index", data)
}
