package db

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/snnyvrz/locallibrary/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	defaultMaxAttempts     = 10
	defaultDelayBetweenTry = 2 * time.Second
)

const slowQueryThreshold = 200 * time.Millisecond

// gormWriter forwards gorm's log lines to zerolog.
type gormWriter struct {
	logger zerolog.Logger
}

func (w gormWriter) Printf(format string, args ...any) {
	w.logger.Warn().Msgf(format, args...)
}

// newGormLogger skips ErrRecordNotFound, which every 404 and genre name
// lookup produces.
func newGormLogger(l zerolog.Logger, level logger.LogLevel) logger.Interface {
	return logger.New(gormWriter{logger: l}, logger.Config{
		SlowThreshold:             slowQueryThreshold,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}

func gormConfig(cfg *config.Config) *gorm.Config {
	level := logger.Warn
	if cfg.GinMode == "release" {
		level = logger.Error
	}
	l := log.With().Str("component", "gorm").Logger()
	return &gorm.Config{Logger: newGormLogger(l, level)}
}

// ConnectWithRetry opens the postgres store, retrying until it answers a
// ping or the attempts run out.
func ConnectWithRetry(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	for attempt := 1; attempt <= defaultMaxAttempts; attempt++ {
		db, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig(cfg))
		if err == nil {
			sqlDB, err2 := db.DB()
			if err2 == nil {
				pingErr := sqlDB.PingContext(ctx)
				if pingErr == nil {
					return db, nil
				}
				_ = sqlDB.Close()
				err = pingErr
			} else {
				err = err2
			}
		}

		log.Warn().Err(err).Msgf("db not ready (attempt %d/%d)", attempt, defaultMaxAttempts)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(defaultDelayBetweenTry):
		}
	}

	return nil, fmt.Errorf("could not connect to db after %d attempts: %w", defaultMaxAttempts, err)
}

// OpenSQLite opens the file-backed store used for local development.
func OpenSQLite(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(cfg.SQLitePath+"?_foreign_keys=on"), gormConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("opening sqlite %s: %w", cfg.SQLitePath, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	return db, nil
}
