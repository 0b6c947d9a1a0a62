package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statistics-aggregator/internal/domain"
)

func TestValueEquality(t *testing.T) {
	t.Parallel()

	assert.True(t, domain.String("CZ").Equal(domain.String("CZ")))
	assert.False(t, domain.String("1").Equal(domain.Int(1)))
	assert.True(t, domain.String("").Equal(domain.Null()))
	assert.True(t, domain.Null().IsNull())
	assert.False(t, domain.Bool(false).IsNull())
}

func TestFilterTokenRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []*domain.Filter{
		domain.NewFilter(domain.PredicateHasCountry, domain.String("CZ")),
		domain.NewFilter(domain.PredicateHasCountry, domain.Null()),
		domain.NewFilter(domain.PredicateHasDevice, domain.Int(1)),
		domain.NewFilter(domain.PredicateHasInviter, domain.Bool(true)),
	}

	for _, filter := range tests {
		parsed, err := domain.ParseFilter(filter.Encode())
		require.NoError(t, err)
		assert.Equal(t, filter, parsed)
		assert.Equal(t, filter.Key(), parsed.Key())
	}
}

func TestFilterKeyDistinguishesKinds(t *testing.T) {
	t.Parallel()

	a := domain.NewFilter(domain.PredicateHasDevice, domain.Int(1))
	b := domain.NewFilter(domain.PredicateHasDevice, domain.String("1"))
	assert.NotEqual(t, a.Key(), b.Key())

	var none *domain.Filter
	assert.Equal(t, "-", none.Key())
	assert.Empty(t, none.Encode())
}

func TestParseFilterRejectsGarbage(t *testing.T) {
	t.Parallel()

	parsed, err := domain.ParseFilter("")
	require.NoError(t, err)
	assert.Nil(t, parsed)

	_, err = domain.ParseFilter("a:2:{}")
	require.ErrorIs(t, err, domain.ErrUnknownPredicate)

	_, err = domain.ParseFilter(`{"value":"x"}`)
	require.ErrorIs(t, err, domain.ErrUnknownPredicate)
}

func TestParseGranularity(t *testing.T) {
	t.Parallel()

	for _, token := range []string{"hour", "day", "week", "month"} {
		g, err := domain.ParseGranularity(token)
		require.NoError(t, err)
		assert.Equal(t, domain.Granularity(token), g)
	}

	_, err := domain.ParseGranularity("year")
	require.ErrorIs(t, err, domain.ErrInvalidGranularity)

	assert.Equal(t, "weekly", domain.Week.DisplayName())
}

func TestGranularityTruncate(t *testing.T) {
	t.Parallel()

	// Thursday.
	moment := time.Date(2024, time.March, 14, 17, 42, 10, 0, time.UTC)

	tests := []struct {
		granularity domain.Granularity
		want        time.Time
	}{
		{domain.Hour, time.Date(2024, time.March, 14, 17, 0, 0, 0, time.UTC)},
		{domain.Day, time.Date(2024, time.March, 14, 0, 0, 0, 0, time.UTC)},
		{domain.Week, time.Date(2024, time.March, 11, 0, 0, 0, 0, time.UTC)},
		{domain.Month, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		got, err := tt.granularity.Truncate(moment)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, string(tt.granularity))
	}

	sunday := time.Date(2024, time.March, 17, 9, 0, 0, 0, time.UTC)
	got, err := domain.Week.Truncate(sunday)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.March, 11, 0, 0, 0, 0, time.UTC), got)
}

func TestPivotRowJSON(t *testing.T) {
	t.Parallel()

	row := domain.PivotRow{
		Values: map[string]float64{"USERS_TOTAL": 5},
		Items: map[string]domain.DimensionItem{
			"user_country": {Filter: domain.NewFilter(domain.PredicateHasCountry, domain.String("CZ")), Value: "Czechia"},
		},
	}

	data, err := json.Marshal(row)
	require.NoError(t, err)
	assert.JSONEq(t, `{"USERS_TOTAL":5,"user_country":{"id":{"kind":"has_country","value":"CZ"},"value":"Czechia"}}`, string(data))
}
