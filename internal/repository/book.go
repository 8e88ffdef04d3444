package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/snnyvrz/locallibrary/internal/model"
	"gorm.io/gorm"
)

type GormBookRepository struct {
	db *gorm.DB
}

func NewGormBookRepository(db *gorm.DB) *GormBookRepository {
	return &GormBookRepository{db: db}
}

func (r *GormBookRepository) List(ctx context.Context) ([]model.Book, error) {
	var books []model.Book
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Order("title ASC").
		Find(&books).Error; err != nil {

		return nil, fmt.Errorf("listing books: %w", err)
	}
	return books, nil
}

func (r *GormBookRepository) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]model.Book, error) {
	var books []model.Book
	if err := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("title ASC").
		Find(&books).Error; err != nil {

		return nil, fmt.Errorf("listing books by author: %w", err)
	}
	return books, nil
}

func (r *GormBookRepository) ListByGenre(ctx context.Context, genreID uuid.UUID) ([]model.Book, error) {
	var books []model.Book
	if err := r.db.WithContext(ctx).
		Where("id IN (?)", r.db.Table("book_genres").Select("book_id").Where("genre_id = ?", genreID)).
		Order("title ASC").
		Find(&books).Error; err != nil {

		return nil, fmt.Errorf("listing books by genre: %w", err)
	}
	return books, nil
}

func (r *GormBookRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	var book model.Book
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Genres", func(db *gorm.DB) *gorm.DB {
			return db.Order("genres.name ASC")
		}).
		First(&book, "id = ?", id).Error; err != nil {

		return nil, translate(err)
	}
	return &book, nil
}

func (r *GormBookRepository) Create(ctx context.Context, book *model.Book) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		genres, err := resolveGenres(tx, book.Genres)
		if err != nil {
			return err
		}

		if err := tx.Omit("Author", "Genres").Create(book).Error; err != nil {
			return fmt.Errorf("creating book: %w", err)
		}

		return replaceGenres(tx, book, genres)
	})
}

func (r *GormBookRepository) Update(ctx context.Context, book *model.Book) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		genres, err := resolveGenres(tx, book.Genres)
		if err != nil {
			return err
		}

		result := tx.Model(&model.Book{}).
			Where("id = ?", book.ID).
			Updates(map[string]any{
				"title":     book.Title,
				"author_id": book.AuthorID,
				"summary":   book.Summary,
				"isbn":      book.ISBN,
			})
		if err := affected(result, "updating book"); err != nil {
			return err
		}

		return replaceGenres(tx, book, genres)
	})
}

func (r *GormBookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Book{ID: id}).Association("Genres").Clear(); err != nil {
			return fmt.Errorf("clearing book genres: %w", err)
		}
		return affected(tx.Delete(&model.Book{}, "id = ?", id), "deleting book")
	})
}

func (r *GormBookRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Book{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("counting books: %w", err)
	}
	return n, nil
}

// resolveGenres loads the stored genres referenced by id. Unknown ids are
// dropped so the join table never points at a missing genre.
func resolveGenres(tx *gorm.DB, refs []model.Genre) ([]model.Genre, error) {
	if len(refs) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(refs))
	for _, g := range refs {
		ids = append(ids, g.ID)
	}

	var genres []model.Genre
	if err := tx.Where("id IN ?", ids).Order("name ASC").Find(&genres).Error; err != nil {
		return nil, fmt.Errorf("resolving genres: %w", err)
	}
	return genres, nil
}

func replaceGenres(tx *gorm.DB, book *model.Book, genres []model.Genre) error {
	assoc := tx.Model(book).Association("Genres")

	var err error
	if len(genres) == 0 {
		err = assoc.Clear()
	} else {
		err = assoc.Replace(genres)
	}
	if err != nil {
		return fmt.Errorf("replacing book genres: %w", err)
	}

	book.Genres = genres
	return nil
}
