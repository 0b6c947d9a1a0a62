//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"

	"statistics-aggregator/internal/config"
	"statistics-aggregator/internal/infrastructure/cache"
	"statistics-aggregator/internal/infrastructure/repository"
	"statistics-aggregator/internal/logging"
)

func initApplication(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*application, func(), error) {
	wire.Build(
		repository.ProviderSet,
		cache.ProviderSet,
		provideMetrics,
		provideAxisSwitch,
		provideEngines,
		provideRegistry,
		provideHTTPServer,
		provideGRPCServer,
		provideProducers,
		provideWorkerPool,
		newApplication,
	)
	return nil, nil, nil
}
