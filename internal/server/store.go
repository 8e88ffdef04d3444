package server

import (
	"context"
	"fmt"

	"github.com/snnyvrz/locallibrary/internal/config"
	"github.com/snnyvrz/locallibrary/internal/db"
	"github.com/snnyvrz/locallibrary/internal/repository"
	"github.com/snnyvrz/locallibrary/internal/repository/mongostore"
	"gorm.io/gorm"
)

var migrate = repository.AutoMigrate

// OpenStore connects the backend named by cfg.StoreDriver and prepares its
// schema. The returned close func releases the connection.
func OpenStore(ctx context.Context, cfg *config.Config) (repository.Store, func(context.Context) error, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, err := mongostore.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return repository.Store{}, nil, err
		}

		database := client.Database(cfg.MongoDatabase)
		if err := mongostore.EnsureIndexes(ctx, database); err != nil {
			_ = client.Disconnect(ctx)
			return repository.Store{}, nil, err
		}
		return mongostore.NewStore(database), client.Disconnect, nil

	case config.DriverPostgres, config.DriverSQLite:
		var (
			database *gorm.DB
			err      error
		)
		if cfg.StoreDriver == config.DriverPostgres {
			database, err = db.ConnectWithRetry(ctx, cfg)
		} else {
			database, err = db.OpenSQLite(cfg)
		}
		if err != nil {
			return repository.Store{}, nil, err
		}

		closeFn := func(context.Context) error {
			sqlDB, err := database.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		}

		if err := migrate(database); err != nil {
			_ = closeFn(ctx)
			return repository.Store{}, nil, err
		}
		return repository.NewGormStore(database), closeFn, nil

	default:
		return repository.Store{}, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
