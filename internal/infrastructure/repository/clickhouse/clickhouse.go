package clickhouse

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	ch "github.com/ClickHouse/clickhouse-go/v2"
	"github.com/samber/lo"

	"statistics-aggregator/internal/domain"
)

const (
	createTableStatement = `
CREATE TABLE IF NOT EXISTS records (
    id String,
    kind LowCardinality(String),
    created DateTime64(3, 'UTC'),
    attributes String
) ENGINE = ReplacingMergeTree()
ORDER BY (kind, created, id)`

	insertStatement     = `INSERT INTO records (id, kind, created, attributes)`
	selectRecordsQuery  = `SELECT id, created, attributes FROM records FINAL WHERE kind = ? AND created >= ? AND created < ? ORDER BY created, id`
	selectDistinctQuery = `SELECT DISTINCT JSONExtractRaw(attributes, ?) FROM records FINAL WHERE kind = ?`
)

const (
	defaultPort        = "9000"
	defaultDatabase    = "default"
	defaultDialTimeout = 5 * time.Second
	defaultBatchSize   = 1000
)

// Config describes how to reach ClickHouse. DSN wins over the discrete fields.
type Config struct {
	DSN         string
	Host        string
	Port        string
	Database    string
	Username    string
	Password    string
	DialTimeout time.Duration
}

// Options converts the config into driver options.
func (c Config) Options() (*ch.Options, error) {
	if c.DSN != "" {
		opts, err := ch.ParseDSN(c.DSN)
		if err != nil {
			return nil, fmt.Errorf("clickhouse repository: parse dsn: %w", err)
		}
		return opts, nil
	}
	if c.Host == "" {
		return nil, errors.New("clickhouse repository: host or DSN is required")
	}

	port := lo.Ternary(c.Port == "", defaultPort, c.Port)
	database := lo.Ternary(c.Database == "", defaultDatabase, c.Database)
	timeout := lo.Ternary(c.DialTimeout <= 0, defaultDialTimeout, c.DialTimeout)

	return &ch.Options{
		Addr: []string{net.JoinHostPort(c.Host, port)},
		Auth: ch.Auth{
			Database: database,
			Username: c.Username,
			Password: c.Password,
		},
		DialTimeout: timeout,
		Compression: &ch.Compression{
			Method: ch.CompressionLZ4,
		},
	}, nil
}

// Open returns a database/sql handle backed by the native ClickHouse protocol.
func Open(cfg Config) (*sql.DB, error) {
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	db := ch.OpenDB(opts)
	db.SetMaxIdleConns(5)
	db.SetMaxOpenConns(10)
	db.SetConnMaxLifetime(time.Hour)
	return db, nil
}

// Repository keeps records in a ReplacingMergeTree table with JSON encoded
// attributes. Re-inserting an id replaces the previous row after merges; reads
// use FINAL so callers never observe duplicates.
type Repository struct {
	db        *sql.DB
	batchSize int
}

type Option func(*Repository)

// WithBatchSize caps the number of rows sent per insert block.
func WithBatchSize(size int) Option {
	return func(r *Repository) {
		if size > 0 {
			r.batchSize = size
		}
	}
}

// New wraps db, checks connectivity and creates the table when missing.
func New(ctx context.Context, db *sql.DB, opts ...Option) (*Repository, error) {
	if db == nil {
		return nil, errors.New("clickhouse repository requires db instance")
	}

	repo := &Repository{db: db, batchSize: defaultBatchSize}
	for _, opt := range opts {
		opt(repo)
	}

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("clickhouse repository: ping: %w", err)
	}
	if _, err := db.ExecContext(ctx, createTableStatement); err != nil {
		return nil, fmt.Errorf("clickhouse repository: ensure schema: %w", err)
	}

	return repo, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// Add sends records as insert blocks of at most batchSize rows.
func (r *Repository) Add(ctx context.Context, records ...domain.Record) error {
	for _, batch := range lo.Chunk(records, r.batchSize) {
		if err := r.insert(ctx, batch); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) insert(ctx context.Context, batch []domain.Record) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("clickhouse repository: begin batch: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, insertStatement)
	if err != nil {
		return fmt.Errorf("clickhouse repository: prepare batch: %w", err)
	}
	defer stmt.Close()

	for _, record := range batch {
		encoded, err := encodeAttributes(record)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, record.ID, record.Kind, record.Created.UTC(), encoded); err != nil {
			return fmt.Errorf("clickhouse repository: append %s: %w", record.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("clickhouse repository: send batch: %w", err)
	}
	return nil
}

// Records returns records of kind created in [from, to).
func (r *Repository) Records(ctx context.Context, kind string, from, to time.Time) ([]domain.Record, error) {
	rows, err := r.db.QueryContext(ctx, selectRecordsQuery, kind, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("clickhouse repository: query records: %w", err)
	}
	defer rows.Close()

	var records []domain.Record
	for rows.Next() {
		var (
			record     = domain.Record{Kind: kind}
			attributes string
		)
		if err := rows.Scan(&record.ID, &record.Created, &attributes); err != nil {
			return nil, fmt.Errorf("clickhouse repository: scan record: %w", err)
		}
		if attributes != "" {
			if err := json.Unmarshal([]byte(attributes), &record.Attributes); err != nil {
				return nil, fmt.Errorf("clickhouse repository: decode attributes of %s: %w", record.ID, err)
			}
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("clickhouse repository: iterate records: %w", err)
	}
	return records, nil
}

// Distinct returns the sorted distinct values of attribute. JSONExtractRaw
// yields an empty string for a missing key, which folds into null together
// with explicit JSON nulls.
func (r *Repository) Distinct(ctx context.Context, kind, attribute string) ([]domain.Value, error) {
	rows, err := r.db.QueryContext(ctx, selectDistinctQuery, attribute, kind)
	if err != nil {
		return nil, fmt.Errorf("clickhouse repository: query distinct: %w", err)
	}
	defer rows.Close()

	var values []domain.Value
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("clickhouse repository: scan distinct: %w", err)
		}

		var value domain.Value
		if raw != "" {
			if err := json.Unmarshal([]byte(raw), &value); err != nil {
				return nil, fmt.Errorf("clickhouse repository: decode %s: %w", attribute, err)
			}
		}
		values = append(values, value)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("clickhouse repository: iterate distinct: %w", err)
	}

	values = lo.Uniq(values)
	domain.SortValues(values)
	return values, nil
}

func encodeAttributes(record domain.Record) (string, error) {
	attributes := record.Attributes
	if attributes == nil {
		attributes = map[string]domain.Value{}
	}
	encoded, err := json.Marshal(attributes)
	if err != nil {
		return "", fmt.Errorf("clickhouse repository: encode attributes of %s: %w", record.ID, err)
	}
	return string(encoded), nil
}

var _ domain.RecordStore = (*Repository)(nil)
