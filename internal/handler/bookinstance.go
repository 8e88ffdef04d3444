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

type BookInstanceHandler struct {
	instances repository.BookInstanceRepository
	books     repository.BookRepository
}

func NewBookInstanceHandler(instances repository.BookInstanceRepository, books repository.BookRepository) *BookInstanceHandler {
	return &BookInstanceHandler{instances: instances, books: books}
}

func (h *BookInstanceHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/bookinstances", h.ListBookInstances)

	instance := r.Group("/bookinstance")
	{
		instance.GET("/create", h.CreateBookInstanceForm)
		instance.POST("/create", h.CreateBookInstance)
		instance.GET("/:id", h.GetBookInstance)
		instance.GET("/:id/update", h.UpdateBookInstanceForm)
		instance.POST("/:id/update", h.UpdateBookInstance)
		instance.GET("/:id/delete", h.DeleteBookInstanceForm)
		instance.POST("/:id/delete", h.DeleteBookInstance)
	}
}

func statusValues() []string {
	out := make([]string, 0, len(model.Statuses))
	for _, s := range model.Statuses {
		out = append(out, string(s))
	}
	return out
}

func bookInstanceChains() []*validation.Chain {
	return []*validation.Chain{
		validation.Field("book").Trim().
			NotEmpty("Book must be specified").
			UUID("Book must be a valid id."),
		validation.Field("imprint").Trim().NotEmpty("Imprint must be specified"),
		validation.Field("status").Optional().Trim().OneOf(statusValues(), "Invalid status"),
		validation.Field("due_back").Optional().Trim().ISO8601("Invalid date"),
	}
}

func validateBookInstance(c *gin.Context) (model.BookInstance, validation.Result, error) {
	form, err := postForm(c)
	if err != nil {
		return model.BookInstance{}, validation.Result{}, err
	}

	res, err := validation.Validate(c.Request.Context(), form, bookInstanceChains()...)
	if err != nil {
		return model.BookInstance{}, res, err
	}

	instance := model.BookInstance{
		Imprint: res.Get("imprint"),
		Status:  model.Status(res.Get("status")),
	}
	if instance.Status == "" {
		instance.Status = model.StatusMaintenance
	}
	if id, err := uuid.Parse(res.Get("book")); err == nil {
		instance.BookID = id
	}
	if !res.Errors.Has("due_back") {
		instance.DueBack, _ = model.ParseOptionalDate(res.Get("due_back"))
	}

	return instance, res, nil
}

func (h *BookInstanceHandler) ListBookInstances(c *gin.Context) {
	instances, err := h.instances.List(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "BOOKINSTANCE_LIST_FAILED", "failed to list book instances", err)
		return
	}

	c.HTML(http.StatusOK, "bookinstance_list", gin.H{
		"Title":     "Book Instance List",
		"Instances": instances,
	})
}

func (h *BookInstanceHandler) GetBookInstance(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		writeFetchError(c, repository.ErrNotFound, "BOOKINSTANCE", "book instance")
		return
	}

	instance, err := h.instances.FindByID(c.Request.Context(), id)
	if err != nil {
		writeFetchError(c, err, "BOOKINSTANCE", "book instance")
		return
	}

	c.HTML(http.StatusOK, "bookinstance_detail", gin.H{
		"Title":    "Book: " + instance.Book.Title,
		"Instance": instance,
	})
}

func (h *BookInstanceHandler) CreateBookInstanceForm(c *gin.Context) {
	books, err := h.books.List(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "BOOKINSTANCE_FORM_FAILED", "failed to load books", err)
		return
	}

	c.HTML(http.StatusOK, "bookinstance_form", gin.H{
		"Title":    "Create BookInstance",
		"Form":     url.Values{},
		"Books":    books,
		"Statuses": model.Statuses,
	})
}

func (h *BookInstanceHandler) CreateBookInstance(c *gin.Context) {
	instance, res, err := validateBookInstance(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, "BOOKINSTANCE_INVALID_FORM", "invalid form submission", err)
		return
	}

	if !res.Valid() {
		h.renderInvalid(c, "Create BookInstance", res)
		return
	}

	if err := h.instances.Create(c.Request.Context(), &instance); err != nil {
		writeError(c, http.StatusInternalServerError, "BOOKINSTANCE_CREATE_FAILED", "failed to create book instance", err)
		return
	}

	c.Redirect(http.StatusFound, instance.URL())
}

func (h *BookInstanceHandler) UpdateBookInstanceForm(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		writeFetchError(c, repository.ErrNotFound, "BOOKINSTANCE", "book instance")
		return
	}

	var (
		instance *model.BookInstance
		books    []model.Book
	)

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() (err error) {
		instance, err = h.instances.FindByID(ctx, id)
		return err
	})
	g.Go(func() (err error) {
		books, err = h.books.List(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		writeFetchError(c, err, "BOOKINSTANCE", "book instance")
		return
	}

	c.HTML(http.StatusOK, "bookinstance_form", gin.H{
		"Title":    "Update BookInstance",
		"Form":     bookInstanceForm(*instance),
		"Books":    books,
		"Statuses": model.Statuses,
	})
}

func (h *BookInstanceHandler) UpdateBookInstance(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		writeFetchError(c, repository.ErrNotFound, "BOOKINSTANCE", "book instance")
		return
	}

	instance, res, err := validateBookInstance(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, "BOOKINSTANCE_INVALID_FORM", "invalid form submission", err)
		return
	}

	if !res.Valid() {
		h.renderInvalid(c, "Update BookInstance", res)
		return
	}

	instance.ID = id
	if err := h.instances.Update(c.Request.Context(), &instance); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeFetchError(c, err, "BOOKINSTANCE", "book instance")
			return
		}
		writeError(c, http.StatusInternalServerError, "BOOKINSTANCE_UPDATE_FAILED", "failed to update book instance", err)
		return
	}

	c.Redirect(http.StatusFound, instance.URL())
}

func (h *BookInstanceHandler) DeleteBookInstanceForm(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/catalog/bookinstances")
		return
	}

	instance, err := h.instances.FindByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.Redirect(http.StatusFound, "/catalog/bookinstances")
			return
		}
		writeFetchError(c, err, "BOOKINSTANCE", "book instance")
		return
	}

	c.HTML(http.StatusOK, "bookinstance_delete", gin.H{
		"Title":    "Delete BookInstance",
		"Instance": instance,
	})
}

func (h *BookInstanceHandler) DeleteBookInstance(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/catalog/bookinstances")
		return
	}

	if err := h.instances.Delete(c.Request.Context(), id); err != nil && !errors.Is(err, repository.ErrNotFound) {
		writeError(c, http.StatusInternalServerError, "BOOKINSTANCE_DELETE_FAILED", "failed to delete book instance", err)
		return
	}

	c.Redirect(http.StatusFound, "/catalog/bookinstances")
}

func (h *BookInstanceHandler) renderInvalid(c *gin.Context, title string, res validation.Result) {
	books, err := h.books.List(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "BOOKINSTANCE_FORM_FAILED", "failed to load books", err)
		return
	}

	c.HTML(http.StatusOK, "bookinstance_form", gin.H{
		"Title":    title,
		"Form":     res.Values,
		"Books":    books,
		"Statuses": model.Statuses,
		"Errors":   res.Errors,
	})
}
