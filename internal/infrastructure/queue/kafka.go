package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"statistics-aggregator/internal/domain"
	"statistics-aggregator/internal/logging"
)

// Config holds Kafka consumer settings.
type Config struct {
	Brokers []string
	Topic   string
	Group   string
}

// MessageReader is the subset of *kafka.Reader used by Consumer.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer turns Kafka messages into record batches. Each message carries one
// batch; malformed messages are committed and skipped so they cannot block the
// partition.
type Consumer struct {
	reader MessageReader
	logger *logging.Logger
}

// NewReader builds a group reader with manual commits.
func NewReader(cfg Config) (*kafka.Reader, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka consumer: no brokers configured")
	}
	if cfg.Topic == "" {
		return nil, errors.New("kafka consumer: topic is required")
	}

	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          cfg.Topic,
		GroupID:        cfg.Group,
		MinBytes:       1,
		MaxBytes:       10e6,
		MaxWait:        500 * time.Millisecond,
		CommitInterval: 0,
		StartOffset:    kafka.FirstOffset,
	}), nil
}

// NewConsumer wraps reader; the consumer owns it and closes it on Close.
func NewConsumer(reader MessageReader, logger *logging.Logger) *Consumer {
	return &Consumer{reader: reader, logger: logger}
}

// Run delivers decoded batches to out until ctx ends or the reader fails. out
// is closed on return.
func (c *Consumer) Run(ctx context.Context, out chan<- domain.RecordBatch) {
	defer close(out)

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() == nil {
				c.logger.Error("kafka fetch failed", logging.AttachError(err)...)
			}
			return
		}

		batch, err := DecodeBatch(msg.Value)
		if err != nil {
			c.logger.Warn("dropping malformed record message", logging.AttachError(err, "partition", msg.Partition, "offset", msg.Offset)...)
			c.commit(ctx, msg)
			continue
		}
		if batch.ID == "" {
			batch.ID = fmt.Sprintf("%s-%d-%d", msg.Topic, msg.Partition, msg.Offset)
		}

		select {
		case <-ctx.Done():
			return
		case out <- batch:
		}

		c.logger.Debug("kafka batch received", "batch", batch.ID, "records", len(batch.Records))
		c.commit(ctx, msg)
	}
}

// Close closes the underlying reader.
func (c *Consumer) Close() error {
	return c.reader.Close()
}

func (c *Consumer) commit(ctx context.Context, msg kafka.Message) {
	if err := c.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
		c.logger.Warn("kafka commit failed", logging.AttachError(err, "partition", msg.Partition, "offset", msg.Offset)...)
	}
}

type batchMessage struct {
	ID      string          `json:"id"`
	Records []domain.Record `json:"records"`
}

var knownKinds = map[string]struct{}{
	domain.KindAccount:      {},
	domain.KindSubscription: {},
	domain.KindIssue:        {},
}

// DecodeBatch parses a message body of the form
// {"id": "...", "records": [{"id", "kind", "created", "attributes"}]}.
// Records without an id get a generated one.
func DecodeBatch(data []byte) (domain.RecordBatch, error) {
	var msg batchMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return domain.RecordBatch{}, fmt.Errorf("decode batch: %w", err)
	}
	if len(msg.Records) == 0 {
		return domain.RecordBatch{}, errors.New("decode batch: no records")
	}

	for i := range msg.Records {
		record := &msg.Records[i]
		if _, ok := knownKinds[record.Kind]; !ok {
			return domain.RecordBatch{}, fmt.Errorf("decode batch: record %d has unknown kind %q", i, record.Kind)
		}
		if record.Created.IsZero() {
			return domain.RecordBatch{}, fmt.Errorf("decode batch: record %d has no creation time", i)
		}
		if record.ID == "" {
			record.ID = uuid.NewString()
		}
	}

	return domain.RecordBatch{ID: msg.ID, Records: msg.Records}, nil
}

var _ domain.BatchProducer = (*Consumer)(nil)
