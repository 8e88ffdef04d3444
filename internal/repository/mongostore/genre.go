package mongostore

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/snnyvrz/locallibrary/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type GenreRepository struct {
	coll *mongo.Collection
}

func NewGenreRepository(db *mongo.Database) *GenreRepository {
	return &GenreRepository{coll: db.Collection(genresCollection)}
}

func (r *GenreRepository) List(ctx context.Context) ([]model.Genre, error) {
	docs, err := findAll[genreDocument](ctx, r.coll, bson.M{}, sortBy("name"))
	if err != nil {
		return nil, fmt.Errorf("listing genres: %w", err)
	}
	return genreModels(docs), nil
}

func (r *GenreRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Genre, error) {
	return r.findOne(ctx, byID(id))
}

func (r *GenreRepository) FindByName(ctx context.Context, name string) (*model.Genre, error) {
	return r.findOne(ctx, bson.M{"name": name})
}

func (r *GenreRepository) findOne(ctx context.Context, filter bson.M) (*model.Genre, error) {
	var doc genreDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	genre := doc.model()
	return &genre, nil
}

func (r *GenreRepository) Create(ctx context.Context, genre *model.Genre) error {
	stamp(&genre.ID, &genre.CreatedAt, &genre.UpdatedAt)
	if _, err := r.coll.InsertOne(ctx, toGenreDocument(genre)); err != nil {
		return fmt.Errorf("creating genre: %w", err)
	}
	return nil
}

func (r *GenreRepository) Update(ctx context.Context, genre *model.Genre) error {
	existing, err := r.FindByID(ctx, genre.ID)
	if err != nil {
		return err
	}
	genre.CreatedAt = existing.CreatedAt
	stamp(&genre.ID, &genre.CreatedAt, &genre.UpdatedAt)

	if err := replace(ctx, r.coll, genre.ID.String(), toGenreDocument(genre)); err != nil {
		return fmt.Errorf("updating genre: %w", err)
	}
	return nil
}

func (r *GenreRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := deleteOne(ctx, r.coll, id); err != nil {
		return fmt.Errorf("deleting genre: %w", err)
	}
	return nil
}

func (r *GenreRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("counting genres: %w", err)
	}
	return n, nil
}

// byIDs loads the genres with the given ids ordered by name. Unknown ids are
// skipped.
func (r *GenreRepository) byIDs(ctx context.Context, ids []string) ([]model.Genre, error) {
	if len(ids) == 0 {
		return []model.Genre{}, nil
	}

	docs, err := findAll[genreDocument](ctx, r.coll, byIDs(ids), sortBy("name"))
	if err != nil {
		return nil, err
	}
	return genreModels(docs), nil
}

func genreModels(docs []genreDocument) []model.Genre {
	genres := make([]model.Genre, 0, len(docs))
	for _, d := range docs {
		genres = append(genres, d.model())
	}
	return genres
}
