package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1971-12-16", "1971-12-16"},
		{"1971-12-16T23:59:00Z", "1971-12-16"},
		{"1971-12-16T10:30:00", "1971-12-16"},
		{"1971-12-16T10:30", "1971-12-16"},
		{"19711216", "1971-12-16"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Format("2006-01-02"))
			assert.Equal(t, time.UTC, got.Location())
			assert.Zero(t, got.Hour())
		})
	}
}

func TestParseDate_Invalid(t *testing.T) {
	for _, in := range []string{"", "yesterday", "16/12/1971", "1971-13-01"} {
		_, err := ParseDate(in)
		assert.Error(t, err, in)
	}
}

func TestParseOptionalDate(t *testing.T) {
	got, err := ParseOptionalDate("")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = ParseOptionalDate("2020-02-29")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "2020-02-29", FormatISO(got))

	_, err = ParseOptionalDate("2021-02-29")
	assert.Error(t, err)
}

func TestFormat_NilAndZero(t *testing.T) {
	var zero time.Time
	assert.Empty(t, FormatISO(nil))
	assert.Empty(t, FormatISO(&zero))
	assert.Empty(t, FormatMedium(nil))
	assert.Empty(t, FormatMedium(&zero))
}

func TestAuthor_Name(t *testing.T) {
	assert.Equal(t, "Isaac, Asimov", Author{FirstName: "Isaac", FamilyName: "Asimov"}.Name())
	assert.Empty(t, Author{FirstName: "Isaac"}.Name())
	assert.Empty(t, Author{FamilyName: "Asimov"}.Name())
}

func TestAuthor_Lifespan(t *testing.T) {
	birth, _ := ParseOptionalDate("1920-01-02")
	death, _ := ParseOptionalDate("1992-04-06")

	assert.Empty(t, Author{}.Lifespan())
	assert.Equal(t, "Jan 2, 1920", Author{DateOfBirth: birth}.Lifespan())
	assert.Equal(t, "Jan 2, 1920 : Apr 6, 1992", Author{DateOfBirth: birth, DateOfDeath: death}.Lifespan())
	assert.Empty(t, Author{DateOfDeath: death}.Lifespan(), "death alone is not shown")
}

func TestAuthor_FormattedDates(t *testing.T) {
	birth, _ := ParseOptionalDate("1920-01-02")
	a := Author{DateOfBirth: birth}

	assert.Equal(t, "1920-01-02", a.BirthFormatted())
	assert.Empty(t, a.DeathFormatted())
}

func TestURLs(t *testing.T) {
	id := uuid.MustParse("6f1e3b1c-1d2e-4f5a-8b9c-0d1e2f3a4b5c")

	assert.Equal(t, "/catalog/author/"+id.String(), Author{ID: id}.URL())
	assert.Equal(t, "/catalog/genre/"+id.String(), Genre{ID: id}.URL())
	assert.Equal(t, "/catalog/book/"+id.String(), Book{ID: id}.URL())
	assert.Equal(t, "/catalog/bookinstance/"+id.String(), BookInstance{ID: id}.URL())
}

func TestStatus_Valid(t *testing.T) {
	for _, s := range Statuses {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, Status("").Valid())
	assert.False(t, Status("available").Valid())
	assert.False(t, Status("Lost").Valid())
}

func TestBookInstance_DueBack(t *testing.T) {
	due, _ := ParseOptionalDate("2026-11-01")
	bi := BookInstance{DueBack: due}

	assert.Equal(t, "Nov 1, 2026", bi.DueBackFormatted())
	assert.Equal(t, "2026-11-01", bi.DueBackISO())
	assert.Empty(t, BookInstance{}.DueBackISO())
}

func TestBook_GenreIDs(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	book := Book{Genres: []Genre{{ID: a}, {ID: b}}}

	assert.Equal(t, []uuid.UUID{a, b}, book.GenreIDs())
	assert.Empty(t, Book{}.GenreIDs())
}
