package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	"github.com/samber/lo"

	"statistics-aggregator/internal/domain"
)

const (
	createTableStatement = `
CREATE TABLE IF NOT EXISTS records (
    id TEXT PRIMARY KEY,
    kind TEXT NOT NULL,
    created TIMESTAMPTZ NOT NULL,
    attributes JSONB NOT NULL DEFAULT '{}'::jsonb
)`
	kindCreatedIndexStatement = `
CREATE INDEX IF NOT EXISTS records_kind_created_idx
ON records (kind, created)`

	selectRecordsQuery  = `SELECT id, created, attributes FROM records WHERE kind = $1 AND created >= $2 AND created < $3 ORDER BY created, id`
	selectDistinctQuery = `SELECT DISTINCT attributes -> $2::text FROM records WHERE kind = $1`
)

const defaultBatchSize = 500

// Config contains the settings required to open a Postgres connection.
type Config struct {
	// Driver is the database/sql driver name: "postgres" (lib/pq) or "pgx".
	Driver string
	DSN    string
}

// Open opens and configures a connection pool.
func Open(cfg Config) (*sql.DB, error) {
	if cfg.DSN == "" {
		return nil, errors.New("postgres repository: DSN is required")
	}

	driver := cfg.Driver
	if driver == "" {
		driver = "pgx"
	}
	if driver != "pgx" && driver != "postgres" {
		return nil, fmt.Errorf("postgres repository: unsupported driver %q", driver)
	}

	db, err := sql.Open(driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres repository: open: %w", err)
	}
	db.SetMaxIdleConns(5)
	db.SetMaxOpenConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return db, nil
}

// Repository stores records in a single JSONB-attributed table.
type Repository struct {
	db        *sql.DB
	batchSize int
}

type Option func(*Repository)

// WithBatchSize caps the number of rows per INSERT statement.
func WithBatchSize(size int) Option {
	return func(r *Repository) {
		if size > 0 {
			r.batchSize = size
		}
	}
}

// New wraps db and ensures the schema exists.
func New(ctx context.Context, db *sql.DB, opts ...Option) (*Repository, error) {
	if db == nil {
		return nil, errors.New("postgres repository requires db instance")
	}

	repo := &Repository{db: db, batchSize: defaultBatchSize}
	for _, opt := range opts {
		opt(repo)
	}

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("postgres repository: ping: %w", err)
	}
	if err := repo.ensureSchema(ctx); err != nil {
		return nil, err
	}

	return repo, nil
}

// Close releases the connection pool.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Add upserts records in batches.
func (r *Repository) Add(ctx context.Context, records ...domain.Record) error {
	for _, batch := range lo.Chunk(records, r.batchSize) {
		query, args, err := buildInsert(batch)
		if err != nil {
			return err
		}
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("postgres repository: insert records: %w", err)
		}
	}
	return nil
}

// Records returns records of kind created in [from, to).
func (r *Repository) Records(ctx context.Context, kind string, from, to time.Time) ([]domain.Record, error) {
	rows, err := r.db.QueryContext(ctx, selectRecordsQuery, kind, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("postgres repository: query records: %w", err)
	}
	defer rows.Close()

	var records []domain.Record
	for rows.Next() {
		var (
			record     = domain.Record{Kind: kind}
			attributes []byte
		)
		if err := rows.Scan(&record.ID, &record.Created, &attributes); err != nil {
			return nil, fmt.Errorf("postgres repository: scan record: %w", err)
		}
		if err := json.Unmarshal(attributes, &record.Attributes); err != nil {
			return nil, fmt.Errorf("postgres repository: decode attributes of %s: %w", record.ID, err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres repository: iterate records: %w", err)
	}
	return records, nil
}

// Distinct returns the sorted distinct values of attribute. Missing keys and
// JSON nulls both yield a single null value.
func (r *Repository) Distinct(ctx context.Context, kind, attribute string) ([]domain.Value, error) {
	rows, err := r.db.QueryContext(ctx, selectDistinctQuery, kind, attribute)
	if err != nil {
		return nil, fmt.Errorf("postgres repository: query distinct: %w", err)
	}
	defer rows.Close()

	var values []domain.Value
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("postgres repository: scan distinct: %w", err)
		}

		var value domain.Value
		if raw != nil {
			if err := json.Unmarshal(raw, &value); err != nil {
				return nil, fmt.Errorf("postgres repository: decode %s: %w", attribute, err)
			}
		}
		values = append(values, value)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres repository: iterate distinct: %w", err)
	}

	values = lo.Uniq(values)
	domain.SortValues(values)
	return values, nil
}

func (r *Repository) ensureSchema(ctx context.Context) error {
	for _, stmt := range []string{createTableStatement, kindCreatedIndexStatement} {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("postgres repository: ensure schema: %w", err)
		}
	}
	return nil
}

func buildInsert(batch []domain.Record) (string, []any, error) {
	var sb strings.Builder
	sb.WriteString("INSERT INTO records (id, kind, created, attributes) VALUES ")

	args := make([]any, 0, len(batch)*4)
	for i, record := range batch {
		attributes := record.Attributes
		if attributes == nil {
			attributes = map[string]domain.Value{}
		}
		encoded, err := json.Marshal(attributes)
		if err != nil {
			return "", nil, fmt.Errorf("postgres repository: encode attributes of %s: %w", record.ID, err)
		}

		if i > 0 {
			sb.WriteString(",")
		}
		base := i*4 + 1
		fmt.Fprintf(&sb, "($%d,$%d,$%d,$%d)", base, base+1, base+2, base+3)
		args = append(args, record.ID, record.Kind, record.Created.UTC(), string(encoded))
	}

	sb.WriteString(" ON CONFLICT (id) DO UPDATE SET kind = EXCLUDED.kind, created = EXCLUDED.created, attributes = EXCLUDED.attributes")

	return sb.String(), args, nil
}

var _ domain.RecordStore = (*Repository)(nil)
