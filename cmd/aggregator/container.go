package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"golang.org/x/sync/errgroup"

	grpcapi "statistics-aggregator/internal/api/grpc"
	"statistics-aggregator/internal/application/worker"
	"statistics-aggregator/internal/config"
	"statistics-aggregator/internal/domain"
	"statistics-aggregator/internal/logging"
)

type application struct {
	Config     *config.Config
	Logger     *logging.Logger
	HTTP       *http.Server
	GRPC       *grpcapi.Server
	Producers  []domain.BatchProducer
	WorkerPool *worker.Pool
}

func newApplication(cfg *config.Config, logger *logging.Logger, httpServer *http.Server, grpcServer *grpcapi.Server, producers []domain.BatchProducer, pool *worker.Pool) *application {
	return &application{
		Config:     cfg,
		Logger:     logger,
		HTTP:       httpServer,
		GRPC:       grpcServer,
		Producers:  producers,
		WorkerPool: pool,
	}
}

// run starts ingestion and both transports and blocks until ctx is done or
// one of them fails.
func (a *application) run(ctx context.Context) error {
	grpcListener, err := net.Listen("tcp", fmt.Sprintf(":%d", a.Config.GRPCPort))
	if err != nil {
		return fmt.Errorf("listen grpc: %w", err)
	}

	group, ctx := errgroup.WithContext(ctx)

	inputs := make([]<-chan domain.RecordBatch, 0, len(a.Producers))
	for _, producer := range a.Producers {
		producer := producer
		ch := make(chan domain.RecordBatch, a.Config.RecordBuffer)
		inputs = append(inputs, ch)
		group.Go(func() error {
			producer.Run(ctx, ch)
			return nil
		})
	}
	if len(inputs) == 0 {
		a.Logger.Warn("no record producers enabled")
	}
	batches := worker.Merge(ctx, inputs...)
	group.Go(func() error {
		a.WorkerPool.Run(ctx, batches)
		return nil
	})

	group.Go(func() error {
		a.Logger.Info("http server listening", "addr", a.HTTP.Addr)
		if err := a.HTTP.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.Config.ShutdownTimeout)
		defer cancel()
		if err := a.HTTP.Shutdown(shutdownCtx); err != nil {
			a.Logger.Warn("http server shutdown", logging.AttachError(err)...)
		}
		return nil
	})

	group.Go(func() error {
		return a.GRPC.Serve(ctx, grpcListener)
	})

	return group.Wait()
}
