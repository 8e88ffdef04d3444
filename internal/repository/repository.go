package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/snnyvrz/locallibrary/internal/model"
)

// ErrNotFound is returned by FindByID, FindByName, Update and Delete when no
// record matches. List and ListBy* return an empty slice instead.
var ErrNotFound = errors.New("record not found")

type AuthorRepository interface {
	List(ctx context.Context) ([]model.Author, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Author, error)
	Create(ctx context.Context, author *model.Author) error
	Update(ctx context.Context, author *model.Author) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

type GenreRepository interface {
	List(ctx context.Context) ([]model.Genre, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Genre, error)
	FindByName(ctx context.Context, name string) (*model.Genre, error)
	Create(ctx context.Context, genre *model.Genre) error
	Update(ctx context.Context, genre *model.Genre) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

// BookRepository populates Author on List, and Author plus Genres on FindByID.
// Create and Update persist the genre references held in Book.Genres by id.
type BookRepository interface {
	List(ctx context.Context) ([]model.Book, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]model.Book, error)
	ListByGenre(ctx context.Context, genreID uuid.UUID) ([]model.Book, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Book, error)
	Create(ctx context.Context, book *model.Book) error
	Update(ctx context.Context, book *model.Book) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

// BookInstanceRepository populates Book on List and FindByID.
type BookInstanceRepository interface {
	List(ctx context.Context) ([]model.BookInstance, error)
	ListByBook(ctx context.Context, bookID uuid.UUID) ([]model.BookInstance, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.BookInstance, error)
	Create(ctx context.Context, instance *model.BookInstance) error
	Update(ctx context.Context, instance *model.BookInstance) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status model.Status) (int64, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// Store groups the repositories of one backend.
type Store struct {
	Authors       AuthorRepository
	Genres        GenreRepository
	Books         BookRepository
	BookInstances BookInstanceRepository
	Pinger
}
