//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testcontainers "github.com/testcontainers/testcontainers-go"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"statistics-aggregator/internal/domain"
	"statistics-aggregator/internal/infrastructure/repository/postgres"
)

func TestRepositoryIntegration(t *testing.T) {
	ctx := context.Background()

	container, err := postgrescontainer.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		postgrescontainer.WithDatabase("statistics"),
		postgrescontainer.WithUsername("postgres"),
		postgrescontainer.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, container.Terminate(context.Background()))
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	for _, driver := range []string{"pgx", "postgres"} {
		t.Run(driver, func(t *testing.T) {
			db, err := postgres.Open(postgres.Config{Driver: driver, DSN: dsn})
			require.NoError(t, err)

			repo, err := postgres.New(ctx, db)
			require.NoError(t, err)
			t.Cleanup(func() { _ = repo.Close() })

			base := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
			require.NoError(t, repo.Add(ctx,
				domain.Record{ID: driver + "-1", Kind: domain.KindSubscription, Created: base, Attributes: map[string]domain.Value{"code": domain.String("YEAR"), "is_apple": domain.Int(1)}},
				domain.Record{ID: driver + "-2", Kind: domain.KindSubscription, Created: base.Add(time.Hour), Attributes: map[string]domain.Value{"code": domain.String("MONTH")}},
				domain.Record{ID: driver + "-3", Kind: domain.KindSubscription, Created: base.Add(48 * time.Hour)},
			))

			records, err := repo.Records(ctx, domain.KindSubscription, base, base.Add(24*time.Hour))
			require.NoError(t, err)
			require.GreaterOrEqual(t, len(records), 2)
			assert.True(t, records[0].Created.Equal(base))

			codes, err := repo.Distinct(ctx, domain.KindSubscription, "code")
			require.NoError(t, err)
			assert.Contains(t, codes, domain.String("YEAR"))
			assert.Contains(t, codes, domain.Null())
		})
	}
}
