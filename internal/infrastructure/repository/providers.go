package repository

import (
	"context"
	"fmt"

	"github.com/google/wire"

	"statistics-aggregator/internal/config"
	"statistics-aggregator/internal/domain"
	"statistics-aggregator/internal/infrastructure/repository/clickhouse"
	"statistics-aggregator/internal/infrastructure/repository/memory"
	"statistics-aggregator/internal/infrastructure/repository/postgres"
	"statistics-aggregator/internal/logging"
)

// Supported values of DB_DRIVER.
const (
	DriverMemory     = "memory"
	DriverPostgres   = "postgres"
	DriverPgx        = "pgx"
	DriverClickHouse = "clickhouse"
)

var ProviderSet = wire.NewSet(ProvideRecordStore)

// ProvideRecordStore opens the record store selected by the configured driver.
// The cleanup closes the underlying connection pool.
func ProvideRecordStore(ctx context.Context, cfg *config.Config, logger *logging.Logger) (domain.RecordStore, func(), error) {
	db := cfg.Database

	switch db.Driver {
	case "", DriverMemory:
		logger.Warn("using in-memory record store, data is lost on restart")
		return memory.New(), func() {}, nil

	case DriverPostgres, DriverPgx:
		if err := WaitForDatabase(ctx, db, config.DefaultPostgresPort, logger); err != nil {
			return nil, nil, err
		}
		dsn, err := PostgresDSN(db)
		if err != nil {
			return nil, nil, err
		}
		handle, err := postgres.Open(postgres.Config{Driver: db.Driver, DSN: dsn})
		if err != nil {
			return nil, nil, err
		}
		repo, err := postgres.New(ctx, handle)
		if err != nil {
			_ = handle.Close()
			return nil, nil, err
		}
		logger.Info("postgres record store ready", "driver", db.Driver)
		return repo, closer(repo.Close, "postgres", logger), nil

	case DriverClickHouse:
		if err := WaitForDatabase(ctx, db, config.DefaultClickHousePort, logger); err != nil {
			return nil, nil, err
		}
		handle, err := clickhouse.Open(clickhouse.Config{
			DSN:      db.DSN,
			Host:     db.Host,
			Port:     db.Port,
			Database: db.Name,
			Username: db.User,
			Password: db.Password,
		})
		if err != nil {
			return nil, nil, err
		}
		repo, err := clickhouse.New(ctx, handle)
		if err != nil {
			_ = handle.Close()
			return nil, nil, err
		}
		logger.Info("clickhouse record store ready")
		return repo, closer(repo.Close, "clickhouse", logger), nil

	default:
		return nil, nil, fmt.Errorf("unsupported repository driver: %s", db.Driver)
	}
}

func closer(closeFn func() error, name string, logger *logging.Logger) func() {
	return func() {
		if err := closeFn(); err != nil {
			logger.Error("failed to close record store", logging.AttachError(err, "store", name)...)
		}
	}
}
