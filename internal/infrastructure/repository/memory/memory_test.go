package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statistics-aggregator/internal/domain"
	"statistics-aggregator/internal/infrastructure/repository/memory"
)

var base = time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

func account(id string, offset time.Duration, country string) domain.Record {
	return domain.Record{
		ID:         id,
		Kind:       domain.KindAccount,
		Created:    base.Add(offset),
		Attributes: map[string]domain.Value{"country_code": domain.String(country)},
	}
}

func TestRepositoryRecordsAreHalfOpenAndOrdered(t *testing.T) {
	t.Parallel()

	repo := memory.New()
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx,
		account("c", 2*time.Hour, "CZ"),
		account("a", 0, "CZ"),
		account("b", time.Hour, "DE"),
	))
	require.NoError(t, repo.Add(ctx, domain.Record{ID: "s", Kind: domain.KindSubscription, Created: base}))

	records, err := repo.Records(ctx, domain.KindAccount, base, base.Add(2*time.Hour))
	require.NoError(t, err)

	ids := make([]string, len(records))
	for i, record := range records {
		ids[i] = record.ID
	}
	assert.Equal(t, []string{"a", "b"}, ids)
	assert.Equal(t, 3, repo.Len(domain.KindAccount))
	assert.Equal(t, 1, repo.Len(domain.KindSubscription))
}

func TestRepositoryRecordsEmptyRange(t *testing.T) {
	t.Parallel()

	repo := memory.New()
	repo.Seed([]domain.Record{account("a", 0, "CZ")})

	records, err := repo.Records(context.Background(), domain.KindAccount, base.Add(time.Hour), base)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRepositoryDistinctIncludesNull(t *testing.T) {
	t.Parallel()

	repo := memory.New()
	repo.Seed([]domain.Record{
		account("a", 0, "DE"),
		account("b", time.Minute, ""),
		account("c", 2*time.Minute, "CZ"),
		account("d", 3*time.Minute, "DE"),
	})

	values, err := repo.Distinct(context.Background(), domain.KindAccount, "country_code")
	require.NoError(t, err)
	assert.Equal(t, []domain.Value{domain.Null(), domain.String("CZ"), domain.String("DE")}, values)
}

func TestRepositoryHonorsCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repo := memory.New()
	require.ErrorIs(t, repo.Add(ctx, account("a", 0, "CZ")), context.Canceled)

	_, err := repo.Records(ctx, domain.KindAccount, base, base.Add(time.Hour))
	require.ErrorIs(t, err, context.Canceled)
}
