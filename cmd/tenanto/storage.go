package main

import (
	"context"
	"fmt"

	"github.com/terraincognita07/tenanto/internal/db"
	"github.com/terraincognita07/tenanto/internal/kvstore"
	"github.com/terraincognita07/tenanto/internal/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// openStorage returns the configured key-value backend and a function that
// releases it.
func openStorage(ctx context.Context, config storageConfig, logger *zap.Logger) (services.KeyValueStore, func() error, error) {
	switch config.Driver {
	case storageMemory:
		return kvstore.NewMemory(), func() error { return nil }, nil

	case storageRedis:
		store := kvstore.NewRedis(kvstore.NewRedisClient(config.Redis), config.Redis.Prefix)
		if err := store.Ping(ctx); err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("connect redis %s: %w", config.Redis.Addr, err)
		}
		return store, store.Close, nil

	case storagePostgres:
		database, err := db.OpenPostgres(config.DatabaseURL, logger)
		if err != nil {
			return nil, nil, err
		}
		return db.NewRepositories(database).Entries, closeDatabase(database), nil

	default:
		database, err := db.OpenSQLite(config.DBPath, logger)
		if err != nil {
			return nil, nil, err
		}
		return db.NewRepositories(database).Entries, closeDatabase(database), nil
	}
}

func closeDatabase(database *gorm.DB) func() error {
	return func() error {
		sqlDB, err := database.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
}

func describeStorage(config storageConfig) string {
	switch config.Driver {
	case storageSQLite:
		return "sqlite:" + config.DBPath
	case storageRedis:
		return "redis:" + config.Redis.Addr
	default:
		return config.Driver
	}
}
