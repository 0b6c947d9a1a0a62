package worker

import (
	"context"
	"sync"

	"statistics-aggregator/internal/domain"
	"statistics-aggregator/internal/logging"
)

// Observer is notified about every stored or failed batch.
type Observer interface {
	BatchStored(records int)
	BatchFailed()
}

// Pool consumes record batches and persists them through the writer.
type Pool struct {
	writer      domain.RecordWriter
	workerCount int
	logger      *logging.Logger
	observer    Observer
}

type Option func(*Pool)

func WithObserver(observer Observer) Option {
	return func(p *Pool) {
		p.observer = observer
	}
}

// New creates a pool. A zero workerCount drains batches without storing them.
func New(workerCount int, writer domain.RecordWriter, logger *logging.Logger, opts ...Option) *Pool {
	if workerCount < 0 {
		workerCount = 0
	}
	p := &Pool{writer: writer, workerCount: workerCount, logger: logger}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run blocks until the context is cancelled or the batches channel is closed.
func (p *Pool) Run(ctx context.Context, batches <-chan domain.RecordBatch) {
	if p.workerCount == 0 {
		p.drainUntilClosed(ctx, batches)
		return
	}

	var wg sync.WaitGroup
	wg.Add(p.workerCount)
	for i := 0; i < p.workerCount; i++ {
		go func() {
			defer wg.Done()
			p.workerLoop(ctx, batches)
		}()
	}
	wg.Wait()
}

func (p *Pool) workerLoop(ctx context.Context, batches <-chan domain.RecordBatch) {
	for {
		select {
		case <-ctx.Done():
			return
		case batch, ok := <-batches:
			if !ok {
				return
			}
			p.store(ctx, batch)
		}
	}
}

func (p *Pool) store(ctx context.Context, batch domain.RecordBatch) {
	if len(batch.Records) == 0 {
		return
	}
	if err := p.writer.Add(ctx, batch.Records...); err != nil {
		p.logger.Error("failed to store batch", logging.AttachError(err, "batch", batch.ID, "records", len(batch.Records))...)
		if p.observer != nil {
			p.observer.BatchFailed()
		}
		return
	}

	p.logger.Debug("stored batch", "batch", batch.ID, "records", len(batch.Records))
	if p.observer != nil {
		p.observer.BatchStored(len(batch.Records))
	}
}

func (p *Pool) drainUntilClosed(ctx context.Context, batches <-chan domain.RecordBatch) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-batches:
			if !ok {
				return
			}
		}
	}
}

// Merge fans several batch channels into one. The result is closed once every
// input is closed or ctx ends.
func Merge(ctx context.Context, inputs ...<-chan domain.RecordBatch) <-chan domain.RecordBatch {
	out := make(chan domain.RecordBatch)

	var wg sync.WaitGroup
	wg.Add(len(inputs))
	for _, input := range inputs {
		go func(input <-chan domain.RecordBatch) {
			defer wg.Done()
			for batch := range input {
				select {
				case <-ctx.Done():
					return
				case out <- batch:
				}
			}
		}(input)
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}

var _ domain.WorkerPool = (*Pool)(nil)
