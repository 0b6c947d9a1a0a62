package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"statistics-aggregator/internal/domain"
)

// Repository keeps records in memory, ordered by creation time per kind.
type Repository struct {
	mu      sync.RWMutex
	records map[string][]domain.Record
}

// New creates an empty in-memory repository instance.
func New() *Repository {
	return &Repository{records: make(map[string][]domain.Record)}
}

// Seed replaces the stored records with the provided sample data.
func (r *Repository) Seed(records []domain.Record) {
	r.mu.Lock()
	r.records = make(map[string][]domain.Record)
	r.mu.Unlock()

	_ = r.Add(context.Background(), records...)
}

// Add stores records keeping each kind sorted by creation time.
func (r *Repository) Add(ctx context.Context, records ...domain.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, record := range records {
		stored := r.records[record.Kind]
		idx := sort.Search(len(stored), func(i int) bool {
			return stored[i].Created.After(record.Created)
		})
		stored = append(stored, domain.Record{})
		copy(stored[idx+1:], stored[idx:])
		stored[idx] = record
		r.records[record.Kind] = stored
	}
	return nil
}

// Records returns records of kind created in [from, to).
func (r *Repository) Records(ctx context.Context, kind string, from, to time.Time) ([]domain.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.records[kind]
	lo := sort.Search(len(stored), func(i int) bool {
		return !stored[i].Created.Before(from)
	})
	hi := sort.Search(len(stored), func(i int) bool {
		return !stored[i].Created.Before(to)
	})
	if lo >= hi {
		return nil, nil
	}

	out := make([]domain.Record, hi-lo)
	copy(out, stored[lo:hi])
	return out, nil
}

// Distinct returns the sorted distinct values of attribute. Records without
// the attribute contribute a null value.
func (r *Repository) Distinct(ctx context.Context, kind, attribute string) ([]domain.Value, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[domain.Value]struct{})
	var values []domain.Value
	for _, record := range r.records[kind] {
		value := record.Attr(attribute)
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		values = append(values, value)
	}

	domain.SortValues(values)
	return values, nil
}

// Len returns the number of stored records of kind.
func (r *Repository) Len(kind string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records[kind])
}

var _ domain.RecordStore = (*Repository)(nil)
