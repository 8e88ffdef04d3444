package mongostore

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/snnyvrz/locallibrary/internal/model"
	"github.com/snnyvrz/locallibrary/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type BookRepository struct {
	coll    *mongo.Collection
	authors *AuthorRepository
	genres  *GenreRepository
}

func NewBookRepository(db *mongo.Database) *BookRepository {
	return &BookRepository{
		coll:    db.Collection(booksCollection),
		authors: NewAuthorRepository(db),
		genres:  NewGenreRepository(db),
	}
}

func (r *BookRepository) List(ctx context.Context) ([]model.Book, error) {
	docs, err := findAll[bookDocument](ctx, r.coll, bson.M{}, sortBy("title"))
	if err != nil {
		return nil, fmt.Errorf("listing books: %w", err)
	}

	authorIDs := make([]string, 0, len(docs))
	for _, d := range docs {
		authorIDs = append(authorIDs, d.Author)
	}
	authors, err := r.authors.byIDs(ctx, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("populating book authors: %w", err)
	}

	books := make([]model.Book, 0, len(docs))
	for _, d := range docs {
		b := d.model()
		b.Author = authors[d.Author]
		books = append(books, b)
	}
	return books, nil
}

func (r *BookRepository) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]model.Book, error) {
	docs, err := findAll[bookDocument](ctx, r.coll, bson.M{"author": authorID.String()}, sortBy("title"))
	if err != nil {
		return nil, fmt.Errorf("listing books by author: %w", err)
	}
	return bookModels(docs), nil
}

func (r *BookRepository) ListByGenre(ctx context.Context, genreID uuid.UUID) ([]model.Book, error) {
	// Equality on an array field matches any element.
	docs, err := findAll[bookDocument](ctx, r.coll, bson.M{"genre": genreID.String()}, sortBy("title"))
	if err != nil {
		return nil, fmt.Errorf("listing books by genre: %w", err)
	}
	return bookModels(docs), nil
}

func (r *BookRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	var doc bookDocument
	if err := r.coll.FindOne(ctx, byID(id)).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	book := doc.model()

	author, err := r.authors.FindByID(ctx, book.AuthorID)
	switch {
	case err == nil:
		book.Author = *author
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("populating book author: %w", err)
	}

	genres, err := r.genres.byIDs(ctx, doc.Genre)
	if err != nil {
		return nil, fmt.Errorf("populating book genres: %w", err)
	}
	book.Genres = genres
	return &book, nil
}

func (r *BookRepository) Create(ctx context.Context, book *model.Book) error {
	if err := r.resolveGenres(ctx, book); err != nil {
		return err
	}

	stamp(&book.ID, &book.CreatedAt, &book.UpdatedAt)
	if _, err := r.coll.InsertOne(ctx, toBookDocument(book)); err != nil {
		return fmt.Errorf("creating book: %w", err)
	}
	return nil
}

func (r *BookRepository) Update(ctx context.Context, book *model.Book) error {
	var existing bookDocument
	if err := r.coll.FindOne(ctx, byID(book.ID)).Decode(&existing); err != nil {
		return translate(err)
	}
	if err := r.resolveGenres(ctx, book); err != nil {
		return err
	}

	book.CreatedAt = existing.CreatedAt
	stamp(&book.ID, &book.CreatedAt, &book.UpdatedAt)
	if err := replace(ctx, r.coll, book.ID.String(), toBookDocument(book)); err != nil {
		return fmt.Errorf("updating book: %w", err)
	}
	return nil
}

func (r *BookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := deleteOne(ctx, r.coll, id); err != nil {
		return fmt.Errorf("deleting book: %w", err)
	}
	return nil
}

func (r *BookRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("counting books: %w", err)
	}
	return n, nil
}

// resolveGenres replaces book.Genres with the stored genres it references,
// dropping unknown ids.
func (r *BookRepository) resolveGenres(ctx context.Context, book *model.Book) error {
	ids := make([]string, 0, len(book.Genres))
	for _, g := range book.Genres {
		ids = append(ids, g.ID.String())
	}

	genres, err := r.genres.byIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("resolving genres: %w", err)
	}
	book.Genres = genres
	return nil
}

// byIDs loads the books with the given ids keyed by id.
func (r *BookRepository) byIDs(ctx context.Context, ids []string) (map[string]model.Book, error) {
	out := map[string]model.Book{}
	if len(ids) == 0 {
		return out, nil
	}

	docs, err := findAll[bookDocument](ctx, r.coll, byIDs(ids))
	if err != nil {
		return nil, err
	}
	for _, d := range docs {
		out[d.ID] = d.model()
	}
	return out, nil
}

func bookModels(docs []bookDocument) []model.Book {
	books := make([]model.Book, 0, len(docs))
	for _, d := range docs {
		books = append(books, d.model())
	}
	return books
}
