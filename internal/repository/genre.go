package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/snnyvrz/locallibrary/internal/model"
	"gorm.io/gorm"
)

type GormGenreRepository struct {
	db *gorm.DB
}

func NewGormGenreRepository(db *gorm.DB) *GormGenreRepository {
	return &GormGenreRepository{db: db}
}

func (r *GormGenreRepository) List(ctx context.Context) ([]model.Genre, error) {
	var genres []model.Genre
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&genres).Error; err != nil {
		return nil, fmt.Errorf("listing genres: %w", err)
	}
	return genres, nil
}

func (r *GormGenreRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Genre, error) {
	var genre model.Genre
	if err := r.db.WithContext(ctx).First(&genre, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &genre, nil
}

// FindByName matches the name exactly, case included.
func (r *GormGenreRepository) FindByName(ctx context.Context, name string) (*model.Genre, error) {
	var genre model.Genre
	if err := r.db.WithContext(ctx).First(&genre, "name = ?", name).Error; err != nil {
		return nil, translate(err)
	}
	return &genre, nil
}

func (r *GormGenreRepository) Create(ctx context.Context, genre *model.Genre) error {
	if err := r.db.WithContext(ctx).Create(genre).Error; err != nil {
		return fmt.Errorf("creating genre: %w", err)
	}
	return nil
}

func (r *GormGenreRepository) Update(ctx context.Context, genre *model.Genre) error {
	result := r.db.WithContext(ctx).
		Model(&model.Genre{}).
		Where("id = ?", genre.ID).
		Updates(map[string]any{"name": genre.Name})
	return affected(result, "updating genre")
}

func (r *GormGenreRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return affected(r.db.WithContext(ctx).Delete(&model.Genre{}, "id = ?", id), "deleting genre")
}

func (r *GormGenreRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Genre{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("counting genres: %w", err)
	}
	return n, nil
}
