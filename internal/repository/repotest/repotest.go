// Package repotest holds behaviour every repository.Store backend must share.
package repotest

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/snnyvrz/locallibrary/internal/model"
	"github.com/snnyvrz/locallibrary/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run exercises a backend. newStore must return an empty store each call.
func Run(t *testing.T, newStore func(t *testing.T) repository.Store) {
	t.Run("authors", func(t *testing.T) { testAuthors(t, newStore(t)) })
	t.Run("genres", func(t *testing.T) { testGenres(t, newStore(t)) })
	t.Run("books", func(t *testing.T) { testBooks(t, newStore(t)) })
	t.Run("book instances", func(t *testing.T) { testBookInstances(t, newStore(t)) })
	t.Run("not found", func(t *testing.T) { testNotFound(t, newStore(t)) })
}

func testAuthors(t *testing.T, s repository.Store) {
	ctx := context.Background()

	birth, err := model.ParseOptionalDate("1920-01-02")
	require.NoError(t, err)

	asimov := model.Author{FirstName: "Isaac", FamilyName: "Asimov", DateOfBirth: birth}
	require.NoError(t, s.Authors.Create(ctx, &asimov))
	require.NotEqual(t, uuid.Nil, asimov.ID)

	for _, a := range []model.Author{
		{FirstName: "Zed", FamilyName: "Zephyr"},
		{FirstName: "Ben", FamilyName: "Bova"},
	} {
		require.NoError(t, s.Authors.Create(ctx, &a))
	}

	list, err := s.Authors.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Asimov", list[0].FamilyName)
	assert.Equal(t, "Bova", list[1].FamilyName)
	assert.Equal(t, "Zephyr", list[2].FamilyName)

	got, err := s.Authors.FindByID(ctx, asimov.ID)
	require.NoError(t, err)
	assert.Equal(t, "Isaac, Asimov", got.Name())
	assert.Equal(t, "1920-01-02", got.BirthFormatted())
	assert.Nil(t, got.DateOfDeath)

	update := model.Author{ID: asimov.ID, FirstName: "Isaac", FamilyName: "Asimov"}
	require.NoError(t, s.Authors.Update(ctx, &update))

	got, err = s.Authors.FindByID(ctx, asimov.ID)
	require.NoError(t, err)
	assert.Nil(t, got.DateOfBirth, "update replaces every mutable field")

	n, err := s.Authors.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	require.NoError(t, s.Authors.Delete(ctx, asimov.ID))
	_, err = s.Authors.FindByID(ctx, asimov.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func testGenres(t *testing.T, s repository.Store) {
	ctx := context.Background()

	for _, name := range []string{"Poetry", "Fantasy", "Horror"} {
		require.NoError(t, s.Genres.Create(ctx, &model.Genre{Name: name}))
	}

	list, err := s.Genres.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"Fantasy", "Horror", "Poetry"}, []string{list[0].Name, list[1].Name, list[2].Name})

	fantasy, err := s.Genres.FindByName(ctx, "Fantasy")
	require.NoError(t, err)
	assert.Equal(t, list[0].ID, fantasy.ID)

	_, err = s.Genres.FindByName(ctx, "fantasy")
	assert.ErrorIs(t, err, repository.ErrNotFound, "name match is case-sensitive")

	fantasy.Name = "High Fantasy"
	require.NoError(t, s.Genres.Update(ctx, fantasy))

	got, err := s.Genres.FindByID(ctx, fantasy.ID)
	require.NoError(t, err)
	assert.Equal(t, "High Fantasy", got.Name)

	n, err := s.Genres.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	require.NoError(t, s.Genres.Delete(ctx, fantasy.ID))
	_, err = s.Genres.FindByID(ctx, fantasy.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func testBooks(t *testing.T, s repository.Store) {
	ctx := context.Background()

	author := model.Author{FirstName: "Patrick", FamilyName: "Rothfuss"}
	require.NoError(t, s.Authors.Create(ctx, &author))
	other := model.Author{FirstName: "Ben", FamilyName: "Bova"}
	require.NoError(t, s.Authors.Create(ctx, &other))

	poetry := model.Genre{Name: "Poetry"}
	fantasy := model.Genre{Name: "Fantasy"}
	require.NoError(t, s.Genres.Create(ctx, &poetry))
	require.NoError(t, s.Genres.Create(ctx, &fantasy))

	wind := model.Book{
		Title:    "The Name of the Wind",
		AuthorID: author.ID,
		Summary:  "Kvothe",
		ISBN:     "9780756404741",
		Genres:   []model.Genre{{ID: poetry.ID}, {ID: fantasy.ID}, {ID: uuid.New()}},
	}
	require.NoError(t, s.Books.Create(ctx, &wind))
	require.NotEqual(t, uuid.Nil, wind.ID)

	mars := model.Book{Title: "Mars", AuthorID: other.ID, Summary: "Red", ISBN: "9780553562415"}
	require.NoError(t, s.Books.Create(ctx, &mars))

	got, err := s.Books.FindByID(ctx, wind.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rothfuss", got.Author.FamilyName)
	require.Len(t, got.Genres, 2, "unknown genre ids are dropped")
	assert.Equal(t, "Fantasy", got.Genres[0].Name)
	assert.Equal(t, "Poetry", got.Genres[1].Name)

	list, err := s.Books.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Mars", list[0].Title)
	assert.Equal(t, "Bova", list[0].Author.FamilyName)
	assert.Equal(t, "The Name of the Wind", list[1].Title)

	byAuthor, err := s.Books.ListByAuthor(ctx, author.ID)
	require.NoError(t, err)
	require.Len(t, byAuthor, 1)
	assert.Equal(t, wind.ID, byAuthor[0].ID)

	byGenre, err := s.Books.ListByGenre(ctx, fantasy.ID)
	require.NoError(t, err)
	require.Len(t, byGenre, 1)
	assert.Equal(t, wind.ID, byGenre[0].ID)

	wind.Title = "The Wise Man's Fear"
	wind.Genres = []model.Genre{{ID: poetry.ID}}
	require.NoError(t, s.Books.Update(ctx, &wind))

	got, err = s.Books.FindByID(ctx, wind.ID)
	require.NoError(t, err)
	assert.Equal(t, "The Wise Man's Fear", got.Title)
	require.Len(t, got.Genres, 1)
	assert.Equal(t, poetry.ID, got.Genres[0].ID)

	byGenre, err = s.Books.ListByGenre(ctx, fantasy.ID)
	require.NoError(t, err)
	assert.Empty(t, byGenre)

	n, err := s.Books.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	require.NoError(t, s.Books.Delete(ctx, wind.ID))
	_, err = s.Books.FindByID(ctx, wind.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	byGenre, err = s.Books.ListByGenre(ctx, poetry.ID)
	require.NoError(t, err)
	assert.Empty(t, byGenre)
}

func testBookInstances(t *testing.T, s repository.Store) {
	ctx := context.Background()

	author := model.Author{FirstName: "Isaac", FamilyName: "Asimov"}
	require.NoError(t, s.Authors.Create(ctx, &author))

	zeta := model.Book{Title: "Zeta", AuthorID: author.ID, Summary: "z", ISBN: "1"}
	alpha := model.Book{Title: "Alpha", AuthorID: author.ID, Summary: "a", ISBN: "2"}
	require.NoError(t, s.Books.Create(ctx, &zeta))
	require.NoError(t, s.Books.Create(ctx, &alpha))

	due, err := model.ParseOptionalDate("2026-11-01")
	require.NoError(t, err)

	first := model.BookInstance{BookID: zeta.ID, Imprint: "Gollancz, 2011", Status: model.StatusAvailable}
	second := model.BookInstance{BookID: alpha.ID, Imprint: "Tor, 2016", Status: model.StatusLoaned, DueBack: due}
	third := model.BookInstance{BookID: alpha.ID, Imprint: "Gollancz, 2014"}
	for _, bi := range []*model.BookInstance{&first, &second, &third} {
		require.NoError(t, s.BookInstances.Create(ctx, bi))
	}

	got, err := s.BookInstances.FindByID(ctx, third.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusMaintenance, got.Status, "status defaults to Maintenance")
	assert.Equal(t, "Alpha", got.Book.Title)

	got, err = s.BookInstances.FindByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "2026-11-01", got.DueBackISO())

	list, err := s.BookInstances.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Alpha", list[0].Book.Title)
	assert.Equal(t, "Gollancz, 2014", list[0].Imprint)
	assert.Equal(t, "Zeta", list[2].Book.Title)

	byBook, err := s.BookInstances.ListByBook(ctx, alpha.ID)
	require.NoError(t, err)
	assert.Len(t, byBook, 2)

	n, err := s.BookInstances.CountByStatus(ctx, model.StatusAvailable)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	second.Status = model.StatusAvailable
	second.DueBack = nil
	require.NoError(t, s.BookInstances.Update(ctx, &second))

	n, err = s.BookInstances.CountByStatus(ctx, model.StatusAvailable)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	got, err = s.BookInstances.FindByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Nil(t, got.DueBack)

	require.NoError(t, s.BookInstances.Delete(ctx, first.ID))
	n, err = s.BookInstances.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func testNotFound(t *testing.T, s repository.Store) {
	ctx := context.Background()
	id := uuid.New()

	_, err := s.Authors.FindByID(ctx, id)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = s.Genres.FindByID(ctx, id)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = s.Books.FindByID(ctx, id)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = s.BookInstances.FindByID(ctx, id)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.ErrorIs(t, s.Authors.Update(ctx, &model.Author{ID: id, FirstName: "a", FamilyName: "b"}), repository.ErrNotFound)
	assert.ErrorIs(t, s.Genres.Update(ctx, &model.Genre{ID: id, Name: "g"}), repository.ErrNotFound)
	assert.ErrorIs(t, s.Books.Update(ctx, &model.Book{ID: id, Title: "t"}), repository.ErrNotFound)
	assert.ErrorIs(t, s.BookInstances.Update(ctx, &model.BookInstance{ID: id, Imprint: "i"}), repository.ErrNotFound)

	assert.ErrorIs(t, s.Authors.Delete(ctx, id), repository.ErrNotFound)
	assert.ErrorIs(t, s.Genres.Delete(ctx, id), repository.ErrNotFound)
	assert.ErrorIs(t, s.Books.Delete(ctx, id), repository.ErrNotFound)
	assert.ErrorIs(t, s.BookInstances.Delete(ctx, id), repository.ErrNotFound)

	books, err := s.Books.ListByAuthor(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, books)

	require.NoError(t, s.Ping(ctx))
}
