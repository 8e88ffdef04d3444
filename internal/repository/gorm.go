package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/snnyvrz/locallibrary/internal/model"
	"gorm.io/gorm"
)

func NewGormStore(db *gorm.DB) Store {
	return Store{
		Authors:       NewGormAuthorRepository(db),
		Genres:        NewGormGenreRepository(db),
		Books:         NewGormBookRepository(db),
		BookInstances: NewGormBookInstanceRepository(db),
		Pinger:        gormPinger{db: db},
	}
}

func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(model.All...); err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}
	return nil
}

type gormPinger struct {
	db *gorm.DB
}

func (p gormPinger) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return fmt.Errorf("getting sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// translate maps gorm's not-found error onto ErrNotFound.
func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// affected turns a zero-row write into ErrNotFound.
func affected(result *gorm.DB, verb string) error {
	if result.Error != nil {
		return fmt.Errorf("%s: %w", verb, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
