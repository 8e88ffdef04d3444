package handler

import (
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

type BookHandler struct {
	books     repository.BookRepository
	authors   repository.AuthorRepository
	genres    repository.GenreRepository
	instances repository.BookInstanceRepository
}

func NewBookHandler(
	books repository.BookRepository,
	authors repository.AuthorRepository,
	genres repository.GenreRepository,
	instances repository.BookInstanceRepository,
) *BookHandler {
	return &BookHandler{
		books:     books,
		authors:   authors,
		genres:    genres,
		instances: instances,
	}
}

func (h *BookHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/books", h.ListBooks)

	book := r.Group("/book")
	{
		book.GET("/create", h.CreateBookForm)
		book.POST("/create", h.CreateBook)
		book.GET("/:id", h.GetBook)
		book.GET("/:id/update", h.UpdateBookForm)
		book.POST("/:id/update", h.UpdateBook)
		book.GET("/:id/delete", h.DeleteBookForm)
		book.POST("/:id/delete", h.DeleteBook)
	}
}

func bookChains() []*validation.Chain {
	return []*validation.Chain{
		validation.Field("title").Trim().NotEmpty("Title must not be empty."),
		validation.Field("author").Trim().
			NotEmpty("Author must not be empty.").
			UUID("Author must be a valid id."),
		validation.Field("summary").Trim().NotEmpty("Summary must not be empty."),
		validation.Field("isbn").Trim().NotEmpty("ISBN must not be empty"),
		validation.Field("genre").Each().Trim().UUID("Genre must be a valid id."),
	}
}

func validateBook(c *gin.Context) (model.Book, validation.Result, error) {
	form, err := postForm(c)
	if err != nil {
		return model.Book{}, validation.Result{}, err
	}
	validation.NormalizeList(form, "genre")

	res, err := validation.Validate(c.Request.Context(), form, bookChains()...)
	if err != nil {
		return model.Book{}, res, err
	}

	book := model.Book{
		Title:   res.Get("title"),
		Summary: res.Get("summary"),
		ISBN:    res.Get("isbn"),
	}
	if id, err := uuid.Parse(res.Get("author")); err == nil {
		book.AuthorID = id
	}
	for _, id := range parseIDs(res.Values["genre"]) {
		book.Genres = append(book.Genres, model.Genre{ID: id})
	}

	return book, res, nil
}

func (h *BookHandler) ListBooks(c *gin.Context) {
	books, err := h.books.List(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "BOOK_LIST_FAILED", "failed to list books", err)
		return
	}

	c.HTML(http.StatusOK, "book_list", gin.H{
		"Title": "Book List",
		"Books": books,
	})
}

func (h *BookHandler) GetBook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		writeFetchError(c, repository.ErrNotFound, "BOOK", "book")
		return
	}

	book, instances, err := h.fetchWithInstances(c, id)
	if err != nil {
		writeFetchError(c, err, "BOOK", "book")
		return
	}

	c.HTML(http.StatusOK, "book_detail", gin.H{
		"Title":     book.Title,
		"Book":      book,
		"Instances": instances,
	})
}

func (h *BookHandler) CreateBookForm(c *gin.Context) {
	authors, genres, err := h.fetchChoices(c)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "BOOK_FORM_FAILED", "failed to load authors and genres", err)
		return
	}

	c.HTML(http.StatusOK, "book_form", gin.H{
		"Title":   "Create Book",
		"Form":    url.Values{},
		"Authors": authors,
		"Genres":  markChecked(genres, nil),
	})
}

func (h *BookHandler) CreateBook(c *gin.Context) {
	book, res, err := validateBook(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, "BOOK_INVALID_FORM", "invalid form submission", err)
		return
	}

	if !res.Valid() {
		h.renderInvalid(c, "Create Book", book, res)
		return
	}

	if err := h.books.Create(c.Request.Context(), &book); err != nil {
		writeError(c, http.StatusInternalServerError, "BOOK_CREATE_FAILED", "failed to create book", err)
		return
	}

	c.Redirect(http.StatusFound, book.URL())
}

// UpdateBookForm marks the genres the book already references.
func (h *BookHandler) UpdateBookForm(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		writeFetchError(c, repository.ErrNotFound, "BOOK", "book")
		return
	}

	var (
		book    *model.Book
		authors []model.Author
		genres  []model.Genre
	)

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() (err error) {
		book, err = h.books.FindByID(ctx, id)
		return err
	})
	g.Go(func() (err error) {
		authors, err = h.authors.List(ctx)
		return err
	})
	g.Go(func() (err error) {
		genres, err = h.genres.List(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		writeFetchError(c, err, "BOOK", "book")
		return
	}

	c.HTML(http.StatusOK, "book_form", gin.H{
		"Title":   "Update Book",
		"Form":    bookForm(*book),
		"Authors": authors,
		"Genres":  markChecked(genres, book.GenreIDs()),
	})
}

func (h *BookHandler) UpdateBook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		writeFetchError(c, repository.ErrNotFound, "BOOK", "book")
		return
	}

	book, res, err := validateBook(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, "BOOK_INVALID_FORM", "invalid form submission", err)
		return
	}

	if !res.Valid() {
		h.renderInvalid(c, "Update Book", book, res)
		return
	}

	book.ID = id
	if err := h.books.Update(c.Request.Context(), &book); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeFetchError(c, err, "BOOK", "book")
			return
		}
		writeError(c, http.StatusInternalServerError, "BOOK_UPDATE_FAILED", "failed to update book", err)
		return
	}

	c.Redirect(http.StatusFound, book.URL())
}

func (h *BookHandler) DeleteBookForm(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/catalog/books")
		return
	}

	book, instances, err := h.fetchWithInstances(c, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.Redirect(http.StatusFound, "/catalog/books")
			return
		}
		writeFetchError(c, err, "BOOK", "book")
		return
	}

	c.HTML(http.StatusOK, "book_delete", gin.H{
		"Title":     "Delete Book",
		"Book":      book,
		"Instances": instances,
	})
}

// DeleteBook refuses to delete while copies of the book exist.
func (h *BookHandler) DeleteBook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/catalog/books")
		return
	}

	book, instances, err := h.fetchWithInstances(c, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.Redirect(http.StatusFound, "/catalog/books")
			return
		}
		writeFetchError(c, err, "BOOK", "book")
		return
	}

	if len(instances) > 0 {
		c.HTML(http.StatusOK, "book_delete", gin.H{
			"Title":     "Delete Book",
			"Book":      book,
			"Instances": instances,
		})
		return
	}

	if err := h.books.Delete(c.Request.Context(), id); err != nil && !errors.Is(err, repository.ErrNotFound) {
		writeError(c, http.StatusInternalServerError, "BOOK_DELETE_FAILED", "failed to delete book", err)
		return
	}

	c.Redirect(http.StatusFound, "/catalog/books")
}

// renderInvalid re-renders the form with the sanitized values and refreshed
// author and genre choices.
func (h *BookHandler) renderInvalid(c *gin.Context, title string, book model.Book, res validation.Result) {
	authors, genres, err := h.fetchChoices(c)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "BOOK_FORM_FAILED", "failed to load authors and genres", err)
		return
	}

	c.HTML(http.StatusOK, "book_form", gin.H{
		"Title":   title,
		"Form":    res.Values,
		"Authors": authors,
		"Genres":  markChecked(genres, book.GenreIDs()),
		"Errors":  res.Errors,
	})
}

func (h *BookHandler) fetchChoices(c *gin.Context) ([]model.Author, []model.Genre, error) {
	var (
		authors []model.Author
		genres  []model.Genre
	)

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() (err error) {
		authors, err = h.authors.List(ctx)
		return err
	})
	g.Go(func() (err error) {
		genres, err = h.genres.List(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return authors, genres, nil
}

func (h *BookHandler) fetchWithInstances(c *gin.Context, id uuid.UUID) (*model.Book, []model.BookInstance, error) {
	var (
		book      *model.Book
		instances []model.BookInstance
	)

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() (err error) {
		book, err = h.books.FindByID(ctx, id)
		return err
	})
	g.Go(func() (err error) {
		instances, err = h.instances.ListByBook(ctx, id)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return book, instances, nil
}
