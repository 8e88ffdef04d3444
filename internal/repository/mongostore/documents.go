package mongostore

import (
	"time"

	"github.com/google/uuid"
	"github.com/snnyvrz/locallibrary/internal/model"
)

type authorDocument struct {
	ID          string     `bson:"_id"`
	FirstName   string     `bson:"first_name"`
	FamilyName  string     `bson:"family_name"`
	DateOfBirth *time.Time `bson:"date_of_birth,omitempty"`
	DateOfDeath *time.Time `bson:"date_of_death,omitempty"`
	CreatedAt   time.Time  `bson:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at"`
}

type genreDocument struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type bookDocument struct {
	ID        string    `bson:"_id"`
	Title     string    `bson:"title"`
	Author    string    `bson:"author"`
	Summary   string    `bson:"summary"`
	ISBN      string    `bson:"isbn"`
	Genre     []string  `bson:"genre"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type bookInstanceDocument struct {
	ID        string     `bson:"_id"`
	Book      string     `bson:"book"`
	Imprint   string     `bson:"imprint"`
	Status    string     `bson:"status"`
	DueBack   *time.Time `bson:"due_back,omitempty"`
	CreatedAt time.Time  `bson:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at"`
}

// parseID turns a stored id back into a uuid; malformed ids become uuid.Nil.
func parseID(s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func toAuthorDocument(a *model.Author) authorDocument {
	return authorDocument{
		ID:          a.ID.String(),
		FirstName:   a.FirstName,
		FamilyName:  a.FamilyName,
		DateOfBirth: a.DateOfBirth,
		DateOfDeath: a.DateOfDeath,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func (d authorDocument) model() model.Author {
	return model.Author{
		ID:          parseID(d.ID),
		FirstName:   d.FirstName,
		FamilyName:  d.FamilyName,
		DateOfBirth: d.DateOfBirth,
		DateOfDeath: d.DateOfDeath,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func toGenreDocument(g *model.Genre) genreDocument {
	return genreDocument{
		ID:        g.ID.String(),
		Name:      g.Name,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
}

func (d genreDocument) model() model.Genre {
	return model.Genre{
		ID:        parseID(d.ID),
		Name:      d.Name,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func toBookDocument(b *model.Book) bookDocument {
	genre := make([]string, 0, len(b.Genres))
	for _, g := range b.Genres {
		genre = append(genre, g.ID.String())
	}

	return bookDocument{
		ID:        b.ID.String(),
		Title:     b.Title,
		Author:    b.AuthorID.String(),
		Summary:   b.Summary,
		ISBN:      b.ISBN,
		Genre:     genre,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// model leaves Author and Genres unpopulated apart from their ids.
func (d bookDocument) model() model.Book {
	genres := make([]model.Genre, 0, len(d.Genre))
	for _, id := range d.Genre {
		genres = append(genres, model.Genre{ID: parseID(id)})
	}

	return model.Book{
		ID:        parseID(d.ID),
		Title:     d.Title,
		AuthorID:  parseID(d.Author),
		Summary:   d.Summary,
		ISBN:      d.ISBN,
		Genres:    genres,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func toBookInstanceDocument(bi *model.BookInstance) bookInstanceDocument {
	return bookInstanceDocument{
		ID:        bi.ID.String(),
		Book:      bi.BookID.String(),
		Imprint:   bi.Imprint,
		Status:    string(bi.Status),
		DueBack:   bi.DueBack,
		CreatedAt: bi.CreatedAt,
		UpdatedAt: bi.UpdatedAt,
	}
}

func (d bookInstanceDocument) model() model.BookInstance {
	return model.BookInstance{
		ID:        parseID(d.ID),
		BookID:    parseID(d.Book),
		Imprint:   d.Imprint,
		Status:    model.Status(d.Status),
		DueBack:   d.DueBack,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// stamp assigns a fresh id when missing and maintains the timestamps.
func stamp(id *uuid.UUID, createdAt, updatedAt *time.Time) {
	now := time.Now().UTC()
	if *id == uuid.Nil {
		*id = uuid.New()
	}
	if createdAt.IsZero() {
		*createdAt = now
	}
	*updatedAt = now
}
