package handler

import (
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/snnyvrz/locallibrary/internal/model"
)

// parseID reads the :id path parameter. A malformed id is reported the same
// way as a missing record.
func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func postForm(c *gin.Context) (url.Values, error) {
	if err := c.Request.ParseForm(); err != nil {
		return nil, err
	}
	return c.Request.PostForm, nil
}

// parseIDs keeps the well-formed ids of values in order.
func parseIDs(values []string) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(values))
	for _, v := range values {
		if id, err := uuid.Parse(v); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

type genreOption struct {
	model.Genre
	Checked bool
}

// markChecked flags the genres whose id is in selected.
func markChecked(all []model.Genre, selected []uuid.UUID) []genreOption {
	set := make(map[uuid.UUID]struct{}, len(selected))
	for _, id := range selected {
		set[id] = struct{}{}
	}

	opts := make([]genreOption, 0, len(all))
	for _, g := range all {
		_, ok := set[g.ID]
		opts = append(opts, genreOption{Genre: g, Checked: ok})
	}
	return opts
}

func authorForm(a model.Author) url.Values {
	return url.Values{
		"first_name":    {a.FirstName},
		"family_name":   {a.FamilyName},
		"date_of_birth": {a.BirthFormatted()},
		"date_of_death": {a.DeathFormatted()},
	}
}

func genreForm(g model.Genre) url.Values {
	return url.Values{"name": {g.Name}}
}

func bookForm(b model.Book) url.Values {
	genres := make([]string, 0, len(b.Genres))
	for _, g := range b.Genres {
		genres = append(genres, g.ID.String())
	}

	return url.Values{
		"title":   {b.Title},
		"author":  {b.AuthorID.String()},
		"summary": {b.Summary},
		"isbn":    {b.ISBN},
		"genre":   genres,
	}
}

func bookInstanceForm(bi model.BookInstance) url.Values {
	return url.Values{
		"book":     {bi.BookID.String()},
		"imprint":  {bi.Imprint},
		"status":   {string(bi.Status)},
		"due_back": {bi.DueBackISO()},
	}
}
