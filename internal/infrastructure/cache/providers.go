package cache

import (
	"context"
	"fmt"

	"github.com/google/wire"
	"github.com/redis/go-redis/v9"

	"statistics-aggregator/internal/application/aggregator"
	"statistics-aggregator/internal/config"
	"statistics-aggregator/internal/logging"
)

var ProviderSet = wire.NewSet(ProvideSeriesStore)

// ProvideSeriesStore connects to Redis when REDIS_ADDR is set. Without it the
// returned store is nil and series are memoized in process only.
func ProvideSeriesStore(ctx context.Context, cfg *config.Config, logger *logging.Logger) (aggregator.SeriesStore, func(), error) {
	if cfg.Redis.Addr == "" {
		return nil, func() {}, nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("redis ping %s: %w", cfg.Redis.Addr, err)
	}

	logger.Info("redis series cache ready", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.TTL.String())

	cleanup := func() {
		if err := client.Close(); err != nil {
			logger.Error("failed to close redis client", logging.AttachError(err)...)
		}
	}
	return NewSeriesStore(client, cfg.Redis.TTL, logger), cleanup, nil
}
