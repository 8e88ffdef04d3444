package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/snnyvrz/locallibrary/internal/model"
	"gorm.io/gorm"
)

type GormAuthorRepository struct {
	db *gorm.DB
}

func NewGormAuthorRepository(db *gorm.DB) *GormAuthorRepository {
	return &GormAuthorRepository{db: db}
}

func (r *GormAuthorRepository) List(ctx context.Context) ([]model.Author, error) {
	var authors []model.Author
	if err := r.db.WithContext(ctx).
		Order("family_name ASC").
		Order("first_name ASC").
		Find(&authors).Error; err != nil {

		return nil, fmt.Errorf("listing authors: %w", err)
	}
	return authors, nil
}

func (r *GormAuthorRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Author, error) {
	var author model.Author
	if err := r.db.WithContext(ctx).First(&author, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &author, nil
}

func (r *GormAuthorRepository) Create(ctx context.Context, author *model.Author) error {
	if err := r.db.WithContext(ctx).Omit("Books").Create(author).Error; err != nil {
		return fmt.Errorf("creating author: %w", err)
	}
	return nil
}

func (r *GormAuthorRepository) Update(ctx context.Context, author *model.Author) error {
	result := r.db.WithContext(ctx).
		Model(&model.Author{}).
		Where("id = ?", author.ID).
		Updates(map[string]any{
			"first_name":    author.FirstName,
			"family_name":   author.FamilyName,
			"date_of_birth": author.DateOfBirth,
			"date_of_death": author.DateOfDeath,
		})
	return affected(result, "updating author")
}

func (r *GormAuthorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return affected(r.db.WithContext(ctx).Delete(&model.Author{}, "id = ?", id), "deleting author")
}

func (r *GormAuthorRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Author{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("counting authors: %w", err)
	}
	return n, nil
}
