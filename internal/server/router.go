package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/snnyvrz/locallibrary/internal/handler"
	"github.com/snnyvrz/locallibrary/internal/middleware"
	"github.com/snnyvrz/locallibrary/internal/repository"
	"github.com/snnyvrz/locallibrary/internal/view"
)

type RouterOptions struct {
	Store     repository.Store
	Driver    string
	Logger    zerolog.Logger
	Metrics   *middleware.Metrics
	Limiter   *middleware.RateLimiter
	StartTime time.Time
	Version   string
}

// NewRouter wires every handler onto a fresh gin engine. Rate limiting
// applies to the catalog only.
func NewRouter(opts RouterOptions) *gin.Engine {
	e := gin.New()
	e.Use(gin.Recovery())

	e.SetTrustedProxies([]string{
		"127.0.0.1",
		"::1",
	})
	e.SetHTMLTemplate(view.Must())

	if opts.Metrics == nil {
		opts.Metrics = middleware.NewMetrics()
	}
	if opts.Limiter == nil {
		opts.Limiter = middleware.NewRateLimiter(0, 0)
	}

	e.Use(middleware.ErrorLogger(opts.Logger), opts.Metrics.Handler())

	e.GET("/metrics", gin.WrapH(opts.Metrics.Exposer()))

	healthHandler := handler.NewHealthHandler(opts.Store, opts.Driver, opts.StartTime, opts.Version)
	healthHandler.RegisterRoutes(e)

	e.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/catalog")
	})

	catalog := e.Group("/catalog", opts.Limiter.Handler())
	{
		store := opts.Store

		handler.NewCatalogHandler(store).RegisterRoutes(catalog)
		handler.NewAuthorHandler(store.Authors, store.Books).RegisterRoutes(catalog)
		handler.NewGenreHandler(store.Genres, store.Books).RegisterRoutes(catalog)
		handler.NewBookHandler(store.Books, store.Authors, store.Genres, store.BookInstances).RegisterRoutes(catalog)
		handler.NewBookInstanceHandler(store.BookInstances, store.Books).RegisterRoutes(catalog)
	}

	e.NoRoute(func(c *gin.Context) {
		c.HTML(http.StatusNotFound, "error", gin.H{
			"Title":   "Error",
			"Status":  http.StatusNotFound,
			"Code":    "NOT_FOUND",
			"Message": "page not found",
		})
	})

	return e
}
