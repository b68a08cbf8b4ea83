package core

import (
	"context"
	"fmt"

	"diocese/internal/infra/persistence/memory"
	"diocese/internal/infra/persistence/postgres"
	"diocese/internal/infra/persistence/redis"
	"diocese/internal/infra/persistence/sqlite"
	"diocese/internal/platform/config"
	"diocese/pkg/domain"
)

// ResolveDriver picks the storage backend. An explicit driver wins;
// otherwise a Redis URL selects redis, a Postgres DSN selects postgres and
// the local sqlite file is the fallback.
func ResolveDriver(cfg config.Storage) string {
	switch {
	case cfg.Driver != "":
		return cfg.Driver
	case cfg.RedisURL != "":
		return config.DriverRedis
	case cfg.PostgresDSN != "":
		return config.DriverPostgres
	default:
		return config.DriverSQLite
	}
}

// OpenCollectionStore opens the backend selected by ResolveDriver.
func OpenCollectionStore(ctx context.Context, cfg config.Storage) (domain.CollectionStore, error) {
	switch driver := ResolveDriver(cfg); driver {
	case config.DriverMemory:
		return memory.NewStore(), nil
	case config.DriverSQLite:
		store, err := sqlite.NewStore(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.DriverPostgres:
		store, err := postgres.NewStore(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.DriverRedis:
		var opts []redis.Option
		if cfg.RedisPrefix != "" {
			opts = append(opts, redis.WithPrefix(cfg.RedisPrefix))
		}
		store, err := redis.Open(ctx, cfg.RedisURL, opts...)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}
