package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/snnyvrz/locallibrary/internal/model"
	"github.com/snnyvrz/locallibrary/internal/repository"
	"github.com/snnyvrz/locallibrary/internal/validation"
	"golang.org/x/sync/errgroup"
)

type GenreHandler struct {
	genres repository.GenreRepository
	books  repository.BookRepository
}

func NewGenreHandler(genres repository.GenreRepository, books repository.BookRepository) *GenreHandler {
	return &GenreHandler{genres: genres, books: books}
}

func (h *GenreHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/genres", h.ListGenres)

	genre := r.Group("/genre")
	{
		genre.GET("/create", h.CreateGenreForm)
		genre.POST("/create", h.CreateGenre)
		genre.GET("/:id", h.GetGenre)
		genre.GET("/:id/update", h.UpdateGenreForm)
		genre.POST("/:id/update", h.UpdateGenre)
		genre.GET("/:id/delete", h.DeleteGenreForm)
		genre.POST("/:id/delete", h.DeleteGenre)
	}
}

func genreNameChain() *validation.Chain {
	return validation.Field("name").Trim().
		NotEmpty("Genre name required").
		MaxLength(100, "Genre name must be at most 100 characters.")
}

// uniqueName passes when no genre other than self holds the name.
func (h *GenreHandler) uniqueName(self uuid.UUID) validation.Check {
	return func(ctx context.Context, name string) (bool, error) {
		existing, err := h.genres.FindByName(ctx, name)
		if errors.Is(err, repository.ErrNotFound) {
			return true, nil
		}
		if err != nil {
			return false, err
		}
		return existing.ID == self, nil
	}
}

func (h *GenreHandler) ListGenres(c *gin.Context) {
	genres, err := h.genres.List(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "GENRE_LIST_FAILED", "failed to list genres", err)
		return
	}

	c.HTML(http.StatusOK, "genre_list", gin.H{
		"Title":  "Genre List",
		"Genres": genres,
	})
}

func (h *GenreHandler) GetGenre(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		writeFetchError(c, repository.ErrNotFound, "GENRE", "genre")
		return
	}

	genre, books, err := h.fetchWithBooks(c, id)
	if err != nil {
		writeFetchError(c, err, "GENRE", "genre")
		return
	}

	c.HTML(http.StatusOK, "genre_detail", gin.H{
		"Title": "Genre Detail",
		"Genre": genre,
		"Books": books,
	})
}

func (h *GenreHandler) CreateGenreForm(c *gin.Context) {
	c.HTML(http.StatusOK, "genre_form", gin.H{
		"Title": "Create Genre",
		"Form":  url.Values{},
	})
}

// CreateGenre redirects to an existing genre of the same name instead of
// creating a duplicate.
func (h *GenreHandler) CreateGenre(c *gin.Context) {
	form, err := postForm(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, "GENRE_INVALID_FORM", "invalid form submission", err)
		return
	}

	ctx := c.Request.Context()
	res, err := validation.Validate(ctx, form, genreNameChain())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "GENRE_VALIDATE_FAILED", "failed to validate genre", err)
		return
	}

	if !res.Valid() {
		c.HTML(http.StatusOK, "genre_form", gin.H{
			"Title":  "Create Genre",
			"Form":   res.Values,
			"Errors": res.Errors,
		})
		return
	}

	existing, err := h.genres.FindByName(ctx, res.Get("name"))
	switch {
	case err == nil:
		c.Redirect(http.StatusFound, existing.URL())
		return
	case !errors.Is(err, repository.ErrNotFound):
		writeError(c, http.StatusInternalServerError, "GENRE_FETCH_FAILED", "failed to fetch genre", err)
		return
	}

	genre := model.Genre{Name: res.Get("name")}
	if err := h.genres.Create(ctx, &genre); err != nil {
		writeError(c, http.StatusInternalServerError, "GENRE_CREATE_FAILED", "failed to create genre", err)
		return
	}

	c.Redirect(http.StatusFound, genre.URL())
}

func (h *GenreHandler) UpdateGenreForm(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		writeFetchError(c, repository.ErrNotFound, "GENRE", "genre")
		return
	}

	genre, err := h.genres.FindByID(c.Request.Context(), id)
	if err != nil {
		writeFetchError(c, err, "GENRE", "genre")
		return
	}

	c.HTML(http.StatusOK, "genre_form", gin.H{
		"Title": "Update Genre",
		"Form":  genreForm(*genre),
	})
}

func (h *GenreHandler) UpdateGenre(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		writeFetchError(c, repository.ErrNotFound, "GENRE", "genre")
		return
	}

	form, err := postForm(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, "GENRE_INVALID_FORM", "invalid form submission", err)
		return
	}

	ctx := c.Request.Context()
	res, err := validation.Validate(ctx, form,
		genreNameChain().Custom("unique", "Genre already exists in library", h.uniqueName(id)),
	)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "GENRE_FETCH_FAILED", "failed to fetch genre", err)
		return
	}

	if !res.Valid() {
		c.HTML(http.StatusOK, "genre_form", gin.H{
			"Title":  "Update Genre",
			"Form":   res.Values,
			"Errors": res.Errors,
		})
		return
	}

	genre := model.Genre{ID: id, Name: res.Get("name")}
	if err := h.genres.Update(ctx, &genre); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeFetchError(c, err, "GENRE", "genre")
			return
		}
		writeError(c, http.StatusInternalServerError, "GENRE_UPDATE_FAILED", "failed to update genre", err)
		return
	}

	c.Redirect(http.StatusFound, genre.URL())
}

func (h *GenreHandler) DeleteGenreForm(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/catalog/genres")
		return
	}

	genre, books, err := h.fetchWithBooks(c, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.Redirect(http.StatusFound, "/catalog/genres")
			return
		}
		writeFetchError(c, err, "GENRE", "genre")
		return
	}

	c.HTML(http.StatusOK, "genre_delete", gin.H{
		"Title": "Delete Genre",
		"Genre": genre,
		"Books": books,
	})
}

// DeleteGenre refuses to delete while books still reference the genre.
func (h *GenreHandler) DeleteGenre(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/catalog/genres")
		return
	}

	genre, books, err := h.fetchWithBooks(c, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.Redirect(http.StatusFound, "/catalog/genres")
			return
		}
		writeFetchError(c, err, "GENRE", "genre")
		return
	}

	if len(books) > 0 {
		c.HTML(http.StatusOK, "genre_delete", gin.H{
			"Title": "Delete Genre",
			"Genre": genre,
			"Books": books,
		})
		return
	}

	if err := h.genres.Delete(c.Request.Context(), id); err != nil && !errors.Is(err, repository.ErrNotFound) {
		writeError(c, http.StatusInternalServerError, "GENRE_DELETE_FAILED", "failed to delete genre", err)
		return
	}

	c.Redirect(http.StatusFound, "/catalog/genres")
}

func (h *GenreHandler) fetchWithBooks(c *gin.Context, id uuid.UUID) (*model.Genre, []model.Book, error) {
	var (
		genre *model.Genre
		books []model.Book
	)

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() (err error) {
		genre, err = h.genres.FindByID(ctx, id)
		return err
	})
	g.Go(func() (err error) {
		books, err = h.books.ListByGenre(ctx, id)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return genre, books, nil
}
