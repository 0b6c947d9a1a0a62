package main

import (
	"fmt"
	"net/http"
	"time"

	grpcapi "statistics-aggregator/internal/api/grpc"
	httpapi "statistics-aggregator/internal/api/http"
	"statistics-aggregator/internal/application/aggregator"
	"statistics-aggregator/internal/application/generator"
	"statistics-aggregator/internal/application/report"
	"statistics-aggregator/internal/application/statistics"
	"statistics-aggregator/internal/application/worker"
	"statistics-aggregator/internal/config"
	"statistics-aggregator/internal/domain"
	"statistics-aggregator/internal/infrastructure/queue"
	"statistics-aggregator/internal/logging"
	"statistics-aggregator/internal/metrics"
)

// generatorSpread backdates synthetic records so charts have history.
const generatorSpread = 30 * 24 * time.Hour

func provideMetrics() *metrics.Metrics {
	return metrics.New()
}

func provideAxisSwitch(cfg *config.Config) (aggregator.AxisSwitch, error) {
	axis, err := aggregator.ParseAxisSwitch(cfg.AxisSwitch)
	if err != nil {
		return aggregator.AxisSwitch{}, fmt.Errorf("invalid %s: %w", config.EnvAxisSwitch, err)
	}
	return axis, nil
}

func provideEngines(cfg *config.Config, store domain.RecordStore, seriesStore aggregator.SeriesStore, m *metrics.Metrics) report.Engines {
	engine := func(source *statistics.Source) *aggregator.Engine {
		cacheOpts := []aggregator.CacheOption{aggregator.WithCacheRecorder(source.Name(), m)}
		if seriesStore != nil {
			cacheOpts = append(cacheOpts, aggregator.WithSeriesStore(seriesStore))
		}
		return aggregator.New(source,
			aggregator.WithCache(aggregator.NewCache(cacheOpts...)),
			aggregator.WithRecorder(m),
			aggregator.WithParallelism(cfg.WorkerPoolSize),
		)
	}

	return report.Engines{
		Users:         engine(statistics.NewUsers(store)),
		Issues:        engine(statistics.NewIssues(store)),
		Subscriptions: engine(statistics.NewSubscriptions(store)),
	}
}

func provideRegistry(engines report.Engines, axis aggregator.AxisSwitch) (*report.Registry, error) {
	return report.NewRegistry(report.DefaultSections(engines, axis))
}

func provideHTTPServer(cfg *config.Config, registry *report.Registry, logger *logging.Logger, m *metrics.Metrics) *http.Server {
	handler := httpapi.NewServer(registry, logger, httpapi.WithMetrics(m.Handler(), m.HTTPMiddleware))
	return httpapi.NewHTTPServer(fmt.Sprintf(":%d", cfg.HTTPPort), handler)
}

func provideGRPCServer(registry *report.Registry, logger *logging.Logger, m *metrics.Metrics) *grpcapi.Server {
	return grpcapi.NewServer(registry, logger, grpcapi.WithMetrics(m.GRPC))
}

// provideProducers returns the enabled record producers: the synthetic
// generator and the Kafka consumer.
func provideProducers(cfg *config.Config, logger *logging.Logger) ([]domain.BatchProducer, func(), error) {
	var producers []domain.BatchProducer
	cleanup := func() {}

	if cfg.Generator.Enabled {
		producers = append(producers, generator.New(generator.Config{
			Interval:  cfg.Generator.Interval,
			BatchSize: cfg.Generator.BatchSize,
			Spread:    generatorSpread,
		}, logger))
	}

	if len(cfg.Kafka.Brokers) > 0 {
		reader, err := queue.NewReader(queue.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
			Group:   cfg.Kafka.Group,
		})
		if err != nil {
			return nil, nil, err
		}
		consumer := queue.NewConsumer(reader, logger)
		producers = append(producers, consumer)
		cleanup = func() {
			if err := consumer.Close(); err != nil {
				logger.Warn("failed to close kafka consumer", logging.AttachError(err)...)
			}
		}
		logger.Info("kafka consumer configured", "topic", cfg.Kafka.Topic, "group", cfg.Kafka.Group)
	}

	return producers, cleanup, nil
}

func provideWorkerPool(cfg *config.Config, store domain.RecordStore, logger *logging.Logger, m *metrics.Metrics) *worker.Pool {
	return worker.New(cfg.WorkerPoolSize, store, logger, worker.WithObserver(m))
}
