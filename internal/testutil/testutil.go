package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/snnyvrz/locallibrary/internal/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens a private in-memory sqlite database with the catalog
// schema migrated. Foreign keys are enforced as in the file-backed store.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:testdb_" + uuid.New().String() + "?mode=memory&cache=shared&_foreign_keys=on"

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB from gorm: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	if err := db.AutoMigrate(model.All...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// NewErrorDB opens a database without any tables so every query fails.
func NewErrorDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:errdb_" + uuid.New().String() + "?mode=memory&cache=shared"

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect to error test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB from gorm: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}

func Date(s string) *time.Time {
	t, err := model.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return &t
}

func SeedAuthor(t *testing.T, db *gorm.DB, first, family string) model.Author {
	t.Helper()

	author := model.Author{
		FirstName:  first,
		FamilyName: family,
	}

	if err := db.Create(&author).Error; err != nil {
		t.Fatalf("failed to seed author %q: %v", first+" "+family, err)
	}

	return author
}

func SeedGenre(t *testing.T, db *gorm.DB, name string) model.Genre {
	t.Helper()

	genre := model.Genre{Name: name}

	if err := db.Create(&genre).Error; err != nil {
		t.Fatalf("failed to seed genre %q: %v", name, err)
	}

	return genre
}

func SeedBook(t *testing.T, db *gorm.DB, author model.Author, title string, genres ...model.Genre) model.Book {
	t.Helper()

	book := model.Book{
		Title:    title,
		AuthorID: author.ID,
		Summary:  "Summary of " + title,
		ISBN:     "978-" + uuid.New().String()[:8],
	}

	if err := db.Omit("Author", "Genres").Create(&book).Error; err != nil {
		t.Fatalf("failed to seed book %q: %v", title, err)
	}

	if len(genres) > 0 {
		if err := db.Model(&book).Association("Genres").Append(genres); err != nil {
			t.Fatalf("failed to attach genres to book %q: %v", title, err)
		}
	}

	book.Author = author
	return book
}

func SeedBookInstance(t *testing.T, db *gorm.DB, book model.Book, imprint string, status model.Status) model.BookInstance {
	t.Helper()

	instance := model.BookInstance{
		BookID:  book.ID,
		Imprint: imprint,
		Status:  status,
	}

	if err := db.Omit("Book").Create(&instance).Error; err != nil {
		t.Fatalf("failed to seed book instance %q: %v", imprint, err)
	}

	instance.Book = book
	return instance
}
