package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"statistics-aggregator/internal/domain"
	"statistics-aggregator/internal/logging"
)

const keyPrefix = "series:"

// Client is the subset of the go-redis API used by SeriesStore.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// SeriesStore keeps computed series in Redis so that restarted or sibling
// processes reuse them. Failures degrade to a cache miss.
type SeriesStore struct {
	client Client
	ttl    time.Duration
	logger *logging.Logger
}

// NewSeriesStore wraps client. A zero ttl keeps entries until evicted.
func NewSeriesStore(client Client, ttl time.Duration, logger *logging.Logger) *SeriesStore {
	return &SeriesStore{client: client, ttl: ttl, logger: logger}
}

// Load returns the series stored under key.
func (s *SeriesStore) Load(ctx context.Context, key string) (domain.Series, bool) {
	data, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("series cache read failed", logging.AttachError(err, "key", key)...)
		}
		return nil, false
	}

	var series domain.Series
	if err := json.Unmarshal(data, &series); err != nil {
		s.logger.Warn("series cache entry is malformed", logging.AttachError(err, "key", key)...)
		return nil, false
	}
	return series, true
}

// Save stores series under key.
func (s *SeriesStore) Save(ctx context.Context, key string, series domain.Series) {
	data, err := json.Marshal(series)
	if err != nil {
		s.logger.Warn("failed to marshal series", logging.AttachError(err, "key", key)...)
		return
	}
	if err := s.client.Set(ctx, keyPrefix+key, data, s.ttl).Err(); err != nil {
		s.logger.Warn("series cache write failed", logging.AttachError(err, "key", key)...)
	}
}
