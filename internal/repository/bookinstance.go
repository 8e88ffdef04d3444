package repository

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/snnyvrz/locallibrary/internal/model"
	"gorm.io/gorm"
)

type GormBookInstanceRepository struct {
	db *gorm.DB
}

func NewGormBookInstanceRepository(db *gorm.DB) *GormBookInstanceRepository {
	return &GormBookInstanceRepository{db: db}
}

func (r *GormBookInstanceRepository) List(ctx context.Context) ([]model.BookInstance, error) {
	var instances []model.BookInstance
	if err := r.db.WithContext(ctx).
		Preload("Book").
		Order("imprint ASC").
		Find(&instances).Error; err != nil {

		return nil, fmt.Errorf("listing book instances: %w", err)
	}

	sort.SliceStable(instances, func(i, j int) bool {
		return instances[i].Book.Title < instances[j].Book.Title
	})
	return instances, nil
}

func (r *GormBookInstanceRepository) ListByBook(ctx context.Context, bookID uuid.UUID) ([]model.BookInstance, error) {
	var instances []model.BookInstance
	if err := r.db.WithContext(ctx).
		Where("book_id = ?", bookID).
		Order("imprint ASC").
		Find(&instances).Error; err != nil {

		return nil, fmt.Errorf("listing book instances by book: %w", err)
	}
	return instances, nil
}

func (r *GormBookInstanceRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.BookInstance, error) {
	var instance model.BookInstance
	if err := r.db.WithContext(ctx).
		Preload("Book").
		First(&instance, "id = ?", id).Error; err != nil {

		return nil, translate(err)
	}
	return &instance, nil
}

func (r *GormBookInstanceRepository) Create(ctx context.Context, instance *model.BookInstance) error {
	if err := r.db.WithContext(ctx).Omit("Book").Create(instance).Error; err != nil {
		return fmt.Errorf("creating book instance: %w", err)
	}
	return nil
}

func (r *GormBookInstanceRepository) Update(ctx context.Context, instance *model.BookInstance) error {
	result := r.db.WithContext(ctx).
		Model(&model.BookInstance{}).
		Where("id = ?", instance.ID).
		Updates(map[string]any{
			"book_id":  instance.BookID,
			"imprint":  instance.Imprint,
			"status":   instance.Status,
			"due_back": instance.DueBack,
		})
	return affected(result, "updating book instance")
}

func (r *GormBookInstanceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return affected(r.db.WithContext(ctx).Delete(&model.BookInstance{}, "id = ?", id), "deleting book instance")
}

func (r *GormBookInstanceRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.BookInstance{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("counting book instances: %w", err)
	}
	return n, nil
}

func (r *GormBookInstanceRepository) CountByStatus(ctx context.Context, status model.Status) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).
		Model(&model.BookInstance{}).
		Where("status = ?", status).
		Count(&n).Error; err != nil {

		return 0, fmt.Errorf("counting book instances by status: %w", err)
	}
	return n, nil
}
