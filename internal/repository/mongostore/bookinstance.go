package mongostore

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/snnyvrz/locallibrary/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type BookInstanceRepository struct {
	coll  *mongo.Collection
	books *BookRepository
}

func NewBookInstanceRepository(db *mongo.Database) *BookInstanceRepository {
	return &BookInstanceRepository{
		coll:  db.Collection(bookInstancesCollection),
		books: NewBookRepository(db),
	}
}

func (r *BookInstanceRepository) List(ctx context.Context) ([]model.BookInstance, error) {
	docs, err := findAll[bookInstanceDocument](ctx, r.coll, bson.M{}, sortBy("imprint"))
	if err != nil {
		return nil, fmt.Errorf("listing book instances: %w", err)
	}

	bookIDs := make([]string, 0, len(docs))
	for _, d := range docs {
		bookIDs = append(bookIDs, d.Book)
	}
	books, err := r.books.byIDs(ctx, bookIDs)
	if err != nil {
		return nil, fmt.Errorf("populating book instance books: %w", err)
	}

	instances := make([]model.BookInstance, 0, len(docs))
	for _, d := range docs {
		bi := d.model()
		bi.Book = books[d.Book]
		instances = append(instances, bi)
	}

	sort.SliceStable(instances, func(i, j int) bool {
		return instances[i].Book.Title < instances[j].Book.Title
	})
	return instances, nil
}

func (r *BookInstanceRepository) ListByBook(ctx context.Context, bookID uuid.UUID) ([]model.BookInstance, error) {
	docs, err := findAll[bookInstanceDocument](ctx, r.coll, bson.M{"book": bookID.String()}, sortBy("imprint"))
	if err != nil {
		return nil, fmt.Errorf("listing book instances by book: %w", err)
	}

	instances := make([]model.BookInstance, 0, len(docs))
	for _, d := range docs {
		instances = append(instances, d.model())
	}
	return instances, nil
}

func (r *BookInstanceRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.BookInstance, error) {
	var doc bookInstanceDocument
	if err := r.coll.FindOne(ctx, byID(id)).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	instance := doc.model()

	books, err := r.books.byIDs(ctx, []string{doc.Book})
	if err != nil {
		return nil, fmt.Errorf("populating book instance book: %w", err)
	}
	instance.Book = books[doc.Book]
	return &instance, nil
}

func (r *BookInstanceRepository) Create(ctx context.Context, instance *model.BookInstance) error {
	if instance.Status == "" {
		instance.Status = model.StatusMaintenance
	}
	stamp(&instance.ID, &instance.CreatedAt, &instance.UpdatedAt)

	if _, err := r.coll.InsertOne(ctx, toBookInstanceDocument(instance)); err != nil {
		return fmt.Errorf("creating book instance: %w", err)
	}
	return nil
}

func (r *BookInstanceRepository) Update(ctx context.Context, instance *model.BookInstance) error {
	var existing bookInstanceDocument
	if err := r.coll.FindOne(ctx, byID(instance.ID)).Decode(&existing); err != nil {
		return translate(err)
	}

	instance.CreatedAt = existing.CreatedAt
	stamp(&instance.ID, &instance.CreatedAt, &instance.UpdatedAt)
	if err := replace(ctx, r.coll, instance.ID.String(), toBookInstanceDocument(instance)); err != nil {
		return fmt.Errorf("updating book instance: %w", err)
	}
	return nil
}

func (r *BookInstanceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := deleteOne(ctx, r.coll, id); err != nil {
		return fmt.Errorf("deleting book instance: %w", err)
	}
	return nil
}

func (r *BookInstanceRepository) Count(ctx context.Context) (int64, error) {
	return r.count(ctx, bson.M{}, "counting book instances")
}

func (r *BookInstanceRepository) CountByStatus(ctx context.Context, status model.Status) (int64, error) {
	return r.count(ctx, bson.M{"status": string(status)}, "counting book instances by status")
}

func (r *BookInstanceRepository) count(ctx context.Context, filter bson.M, verb string) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", verb, err)
	}
	return n, nil
}
