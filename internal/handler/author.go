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

type AuthorHandler struct {
	authors repository.AuthorRepository
	books   repository.BookRepository
}

func NewAuthorHandler(authors repository.AuthorRepository, books repository.BookRepository) *AuthorHandler {
	return &AuthorHandler{authors: authors, books: books}
}

func (h *AuthorHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/authors", h.ListAuthors)

	author := r.Group("/author")
	{
		author.GET("/create", h.CreateAuthorForm)
		author.POST("/create", h.CreateAuthor)
		author.GET("/:id", h.GetAuthor)
		author.GET("/:id/update", h.UpdateAuthorForm)
		author.POST("/:id/update", h.UpdateAuthor)
		author.GET("/:id/delete", h.DeleteAuthorForm)
		author.POST("/:id/delete", h.DeleteAuthor)
	}
}

func authorChains() []*validation.Chain {
	return []*validation.Chain{
		validation.Field("first_name").Trim().
			NotEmpty("First name must be specified.").
			MaxLength(100, "First name must be at most 100 characters.").
			Alphanumeric("First name has non-alphanumeric characters."),
		validation.Field("family_name").Trim().
			NotEmpty("Family name must be specified.").
			MaxLength(100, "Family name must be at most 100 characters.").
			Alphanumeric("Family name has non-alphanumeric characters."),
		validation.Field("date_of_birth").Optional().Trim().ISO8601("Invalid date of birth"),
		validation.Field("date_of_death").Optional().Trim().ISO8601("Invalid date of death"),
	}
}

// validateAuthor runs the author chains and builds the author from the
// sanitized values.
func validateAuthor(c *gin.Context) (model.Author, validation.Result, error) {
	form, err := postForm(c)
	if err != nil {
		return model.Author{}, validation.Result{}, err
	}

	res, err := validation.Validate(c.Request.Context(), form, authorChains()...)
	if err != nil {
		return model.Author{}, res, err
	}

	author := model.Author{
		FirstName:  res.Get("first_name"),
		FamilyName: res.Get("family_name"),
	}
	if !res.Errors.Has("date_of_birth") {
		author.DateOfBirth, _ = model.ParseOptionalDate(res.Get("date_of_birth"))
	}
	if !res.Errors.Has("date_of_death") {
		author.DateOfDeath, _ = model.ParseOptionalDate(res.Get("date_of_death"))
	}

	if author.DateOfBirth != nil && author.DateOfDeath != nil && author.DateOfDeath.Before(*author.DateOfBirth) {
		res.AddError("date_of_death", "after", "Date of death must not be before date of birth")
	}

	return author, res, nil
}

func (h *AuthorHandler) ListAuthors(c *gin.Context) {
	authors, err := h.authors.List(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "AUTHOR_LIST_FAILED", "failed to list authors", err)
		return
	}

	c.HTML(http.StatusOK, "author_list", gin.H{
		"Title":   "Author List",
		"Authors": authors,
	})
}

func (h *AuthorHandler) GetAuthor(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		writeFetchError(c, repository.ErrNotFound, "AUTHOR", "author")
		return
	}

	author, books, err := h.fetchWithBooks(c, id)
	if err != nil {
		writeFetchError(c, err, "AUTHOR", "author")
		return
	}

	c.HTML(http.StatusOK, "author_detail", gin.H{
		"Title":  "Author Detail",
		"Author": author,
		"Books":  books,
	})
}

func (h *AuthorHandler) CreateAuthorForm(c *gin.Context) {
	c.HTML(http.StatusOK, "author_form", gin.H{
		"Title": "Create Author",
		"Form":  url.Values{},
	})
}

func (h *AuthorHandler) CreateAuthor(c *gin.Context) {
	author, res, err := validateAuthor(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, "AUTHOR_INVALID_FORM", "invalid form submission", err)
		return
	}

	if !res.Valid() {
		c.HTML(http.StatusOK, "author_form", gin.H{
			"Title":  "Create Author",
			"Form":   res.Values,
			"Errors": res.Errors,
		})
		return
	}

	if err := h.authors.Create(c.Request.Context(), &author); err != nil {
		writeError(c, http.StatusInternalServerError, "AUTHOR_CREATE_FAILED", "failed to create author", err)
		return
	}

	c.Redirect(http.StatusFound, author.URL())
}

func (h *AuthorHandler) UpdateAuthorForm(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		writeFetchError(c, repository.ErrNotFound, "AUTHOR", "author")
		return
	}

	author, err := h.authors.FindByID(c.Request.Context(), id)
	if err != nil {
		writeFetchError(c, err, "AUTHOR", "author")
		return
	}

	c.HTML(http.StatusOK, "author_form", gin.H{
		"Title": "Update Author",
		"Form":  authorForm(*author),
	})
}

func (h *AuthorHandler) UpdateAuthor(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		writeFetchError(c, repository.ErrNotFound, "AUTHOR", "author")
		return
	}

	author, res, err := validateAuthor(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, "AUTHOR_INVALID_FORM", "invalid form submission", err)
		return
	}

	if !res.Valid() {
		c.HTML(http.StatusOK, "author_form", gin.H{
			"Title":  "Update Author",
			"Form":   res.Values,
			"Errors": res.Errors,
		})
		return
	}

	author.ID = id
	if err := h.authors.Update(c.Request.Context(), &author); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeFetchError(c, err, "AUTHOR", "author")
			return
		}
		writeError(c, http.StatusInternalServerError, "AUTHOR_UPDATE_FAILED", "failed to update author", err)
		return
	}

	c.Redirect(http.StatusFound, author.URL())
}

func (h *AuthorHandler) DeleteAuthorForm(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/catalog/authors")
		return
	}

	author, books, err := h.fetchWithBooks(c, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.Redirect(http.StatusFound, "/catalog/authors")
			return
		}
		writeFetchError(c, err, "AUTHOR", "author")
		return
	}

	c.HTML(http.StatusOK, "author_delete", gin.H{
		"Title":  "Delete Author",
		"Author": author,
		"Books":  books,
	})
}

// DeleteAuthor refuses to delete while books still reference the author.
func (h *AuthorHandler) DeleteAuthor(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/catalog/authors")
		return
	}

	author, books, err := h.fetchWithBooks(c, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.Redirect(http.StatusFound, "/catalog/authors")
			return
		}
		writeFetchError(c, err, "AUTHOR", "author")
		return
	}

	if len(books) > 0 {
		c.HTML(http.StatusOK, "author_delete", gin.H{
			"Title":  "Delete Author",
			"Author": author,
			"Books":  books,
		})
		return
	}

	if err := h.authors.Delete(c.Request.Context(), id); err != nil && !errors.Is(err, repository.ErrNotFound) {
		writeError(c, http.StatusInternalServerError, "AUTHOR_DELETE_FAILED", "failed to delete author", err)
		return
	}

	c.Redirect(http.StatusFound, "/catalog/authors")
}

func (h *AuthorHandler) fetchWithBooks(c *gin.Context, id uuid.UUID) (*model.Author, []model.Book, error) {
	var (
		author *model.Author
		books  []model.Book
	)

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() (err error) {
		author, err = h.authors.FindByID(ctx, id)
		return err
	})
	g.Go(func() (err error) {
		books, err = h.books.ListByAuthor(ctx, id)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return author, books, nil
}
