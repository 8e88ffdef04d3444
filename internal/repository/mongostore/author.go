package mongostore

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/snnyvrz/locallibrary/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type AuthorRepository struct {
	coll *mongo.Collection
}

func NewAuthorRepository(db *mongo.Database) *AuthorRepository {
	return &AuthorRepository{coll: db.Collection(authorsCollection)}
}

func (r *AuthorRepository) List(ctx context.Context) ([]model.Author, error) {
	docs, err := findAll[authorDocument](ctx, r.coll, bson.M{}, sortBy("family_name", "first_name"))
	if err != nil {
		return nil, fmt.Errorf("listing authors: %w", err)
	}

	authors := make([]model.Author, 0, len(docs))
	for _, d := range docs {
		authors = append(authors, d.model())
	}
	return authors, nil
}

func (r *AuthorRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Author, error) {
	var doc authorDocument
	if err := r.coll.FindOne(ctx, byID(id)).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	author := doc.model()
	return &author, nil
}

func (r *AuthorRepository) Create(ctx context.Context, author *model.Author) error {
	stamp(&author.ID, &author.CreatedAt, &author.UpdatedAt)
	if _, err := r.coll.InsertOne(ctx, toAuthorDocument(author)); err != nil {
		return fmt.Errorf("creating author: %w", err)
	}
	return nil
}

func (r *AuthorRepository) Update(ctx context.Context, author *model.Author) error {
	existing, err := r.FindByID(ctx, author.ID)
	if err != nil {
		return err
	}
	author.CreatedAt = existing.CreatedAt
	stamp(&author.ID, &author.CreatedAt, &author.UpdatedAt)

	if err := replace(ctx, r.coll, author.ID.String(), toAuthorDocument(author)); err != nil {
		return fmt.Errorf("updating author: %w", err)
	}
	return nil
}

func (r *AuthorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := deleteOne(ctx, r.coll, id); err != nil {
		return fmt.Errorf("deleting author: %w", err)
	}
	return nil
}

func (r *AuthorRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("counting authors: %w", err)
	}
	return n, nil
}

// byIDs loads the authors with the given ids keyed by id.
func (r *AuthorRepository) byIDs(ctx context.Context, ids []string) (map[string]model.Author, error) {
	out := map[string]model.Author{}
	if len(ids) == 0 {
		return out, nil
	}

	docs, err := findAll[authorDocument](ctx, r.coll, byIDs(ids))
	if err != nil {
		return nil, err
	}
	for _, d := range docs {
		out[d.ID] = d.model()
	}
	return out, nil
}
