package httpapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpapi "statistics-aggregator/internal/api/http"
	"statistics-aggregator/internal/application/aggregator"
	"statistics-aggregator/internal/application/report"
	"statistics-aggregator/internal/application/statistics"
	"statistics-aggregator/internal/domain"
	"statistics-aggregator/internal/infrastructure/repository/memory"
	"statistics-aggregator/internal/logging"
	"statistics-aggregator/internal/metrics"
)

var may6 = time.Date(2024, time.May, 6, 0, 0, 0, 0, time.UTC)

func newRegistry(t *testing.T) *report.Registry {
	t.Helper()

	repo := memory.New()
	repo.Seed([]domain.Record{
		{ID: "1", Kind: domain.KindAccount, Created: may6.Add(time.Hour), Attributes: map[string]domain.Value{
			statistics.AttrState: domain.String(statistics.StateActive), statistics.AttrCountry: domain.String("CZ"),
		}},
		{ID: "2", Kind: domain.KindAccount, Created: may6.Add(26 * time.Hour), Attributes: map[string]domain.Value{
			statistics.AttrState: domain.String("pending"), statistics.AttrCountry: domain.String("DE"),
		}},
	})

	engines := report.Engines{
		Users:         aggregator.New(statistics.NewUsers(repo)),
		Issues:        aggregator.New(statistics.NewIssues(repo)),
		Subscriptions: aggregator.New(statistics.NewSubscriptions(repo)),
	}
	registry, err := report.NewRegistry(report.DefaultSections(engines, aggregator.DynamicAxis(6)),
		report.WithClock(func() time.Time { return may6.AddDate(0, 0, 3) }))
	require.NoError(t, err)
	return registry
}

func get(t *testing.T, handler http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
	return rr
}

func TestHealth(t *testing.T) {
	t.Parallel()

	server := httpapi.NewServer(newRegistry(t), logging.Discard())
	rr := get(t, server, "/health")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
	assert.NotEmpty(t, rr.Header().Get(httpapi.TraceHeader))
}

func TestTraceIDIsEchoed(t *testing.T) {
	t.Parallel()

	server := httpapi.NewServer(newRegistry(t), logging.Discard())
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(httpapi.TraceHeader, "trace-123")
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	assert.Equal(t, "trace-123", rr.Header().Get(httpapi.TraceHeader))
}

func TestSections(t *testing.T) {
	t.Parallel()

	server := httpapi.NewServer(newRegistry(t), logging.Discard())

	rr := get(t, server, "/sections")
	require.Equal(t, http.StatusOK, rr.Code)

	var sections []map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &sections))
	require.Len(t, sections, 3)
	assert.Equal(t, report.SectionUsers, sections[0]["id"])

	rr = get(t, server, "/sections/"+report.SectionUsers)
	require.Equal(t, http.StatusOK, rr.Code)
	var users map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &users))
	assert.Equal(t, "Users", users["caption"])

	rr = get(t, server, "/sections/nope")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), `"code":404`)
}

func TestComponents(t *testing.T) {
	t.Parallel()

	server := httpapi.NewServer(newRegistry(t), logging.Discard())
	rr := get(t, server, "/components")
	require.Equal(t, http.StatusOK, rr.Code)

	var names []string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &names))
	assert.Contains(t, names, "usersChart")
	assert.Contains(t, names, "subsTableRow")
}

func TestChartComponent(t *testing.T) {
	t.Parallel()

	server := httpapi.NewServer(newRegistry(t), logging.Discard())
	query := url.Values{
		"from":    {"2024-05-06"},
		"to":      {"2024-05-09"},
		"lod":     {"day"},
		"primary": {statistics.UsersTotal},
	}
	rr := get(t, server, "/components/usersChart?"+query.Encode())
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var chart report.ChartData
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &chart))
	require.Len(t, chart.Labels, 3)
	require.NotEmpty(t, chart.Columns)
	assert.Equal(t, []float64{1, 1, 0}, chart.Columns[0].Values)
}

func TestTableComponentUsesDefaultRange(t *testing.T) {
	t.Parallel()

	server := httpapi.NewServer(newRegistry(t), logging.Discard())
	rr := get(t, server, "/components/usersTable?primary_dimension="+statistics.DimensionUserCountry)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var table struct {
		Rows []map[string]any `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &table))
	assert.Len(t, table.Rows, 2)
}

func TestComponentErrors(t *testing.T) {
	t.Parallel()

	server := httpapi.NewServer(newRegistry(t), logging.Discard())

	tests := []struct {
		target string
		status int
	}{
		{"/components/unknownChart", http.StatusNotFound},
		{"/components/usersChart?lod=year", http.StatusBadRequest},
		{"/components/usersChart?from=tomorrow", http.StatusBadRequest},
		{"/components/usersChart?from=2024-05-09&to=2024-05-01", http.StatusBadRequest},
		{"/components/usersChart?primary=NOPE", http.StatusBadRequest},
		{"/components/usersTable?primary_dimension=issue_magazine", http.StatusBadRequest},
		{"/components/usersTableRow?primary_dimension=user_country&primary_dimension_id=%7Bbroken", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rr := get(t, server, tt.target)
			assert.Equal(t, tt.status, rr.Code, rr.Body.String())

			var body map[string]any
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.EqualValues(t, tt.status, body["code"])
			assert.NotEmpty(t, body["error"])
		})
	}
}

type failingService struct {
	httpapi.Service
	err error
}

func (f failingService) Serve(context.Context, string, report.Params) (any, error) {
	return nil, f.err
}

func TestStatusFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("wrap: %w", domain.ErrNotImplemented), http.StatusNotImplemented},
		{fmt.Errorf("%w: disk", domain.ErrRecordSource), http.StatusBadGateway},
		{domain.ErrUnknownPredicate, http.StatusBadRequest},
		{domain.ErrUnknownComponent, http.StatusNotFound},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.status, httpapi.StatusFor(tt.err), tt.err.Error())
	}
}

func TestInternalErrorsAreMasked(t *testing.T) {
	t.Parallel()

	server := httpapi.NewServer(failingService{err: errors.New("secret details")}, logging.Discard())
	rr := get(t, server, "/components/usersChart")

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "secret")
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	m := metrics.New()
	server := httpapi.NewServer(newRegistry(t), logging.Discard(), httpapi.WithMetrics(m.Handler(), m.HTTPMiddleware))

	require.Equal(t, http.StatusOK, get(t, server, "/health").Code)

	rr := get(t, server, "/metrics")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `statistics_http_requests_total{code="200",method="GET",route="/health"} 1`)
}
