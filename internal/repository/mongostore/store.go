// Package mongostore keeps the catalog in MongoDB, one collection per entity.
// References between documents are stored as canonical uuid strings and
// populated with $in lookups on read.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/snnyvrz/locallibrary/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	authorsCollection       = "authors"
	genresCollection        = "genres"
	booksCollection         = "books"
	bookInstancesCollection = "bookinstances"
)

// Connect dials uri and pings the primary before returning.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("pinging mongo: %w", err)
	}
	return client, nil
}

func NewStore(db *mongo.Database) repository.Store {
	return repository.Store{
		Authors:       NewAuthorRepository(db),
		Genres:        NewGenreRepository(db),
		Books:         NewBookRepository(db),
		BookInstances: NewBookInstanceRepository(db),
		Pinger:        pinger{client: db.Client()},
	}
}

// EnsureIndexes creates the secondary indexes used by sorts and lookups.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]string{
		authorsCollection:       {"family_name"},
		genresCollection:        {"name"},
		booksCollection:         {"title", "author", "genre"},
		bookInstancesCollection: {"book", "status"},
	}

	for coll, keys := range indexes {
		models := make([]mongo.IndexModel, 0, len(keys))
		for _, k := range keys {
			models = append(models, mongo.IndexModel{Keys: bson.D{{Key: k, Value: 1}}})
		}
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("creating %s indexes: %w", coll, err)
		}
	}
	return nil
}

type pinger struct {
	client *mongo.Client
}

func (p pinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx, nil)
}

func byID(id uuid.UUID) bson.M {
	return bson.M{"_id": id.String()}
}

func byIDs(ids []string) bson.M {
	return bson.M{"_id": bson.M{"$in": ids}}
}

func sortBy(keys ...string) *options.FindOptions {
	sort := bson.D{}
	for _, k := range keys {
		sort = append(sort, bson.E{Key: k, Value: 1})
	}
	return options.Find().SetSort(sort)
}

func translate(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repository.ErrNotFound
	}
	return err
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter any, opts ...*options.FindOptions) ([]T, error) {
	cur, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}

	docs := []T{}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func replace(ctx context.Context, coll *mongo.Collection, id string, doc any) error {
	res, err := coll.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func deleteOne(ctx context.Context, coll *mongo.Collection, id uuid.UUID) error {
	res, err := coll.DeleteOne(ctx, byID(id))
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
