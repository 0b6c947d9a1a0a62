package aggregator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statistics-aggregator/internal/application/aggregator"
	"statistics-aggregator/internal/domain"
)

func TestAxisAssign(t *testing.T) {
	t.Parallel()

	absolute := domain.Metric{ID: "P", ValueType: domain.ValueAbsolute}
	sameType := domain.Metric{ID: "S", ValueType: domain.ValueAbsolute}
	relative := domain.Metric{ID: "R", ValueType: domain.ValueRelative}
	primaryExtremes := aggregator.SeriesExtremes([]float64{10, 20, 30})

	tests := []struct {
		name   string
		sw     aggregator.AxisSwitch
		metric domain.Metric
		values []float64
		want   aggregator.Axis
	}{
		{"none always secondary", aggregator.AxisSwitch{Mode: aggregator.AxisNone}, sameType, []float64{10, 20, 30}, aggregator.AxisSecondary},
		{"always same type", aggregator.AxisSwitch{Mode: aggregator.AxisAlways}, sameType, []float64{5000}, aggregator.AxisPrimary},
		{"always other type", aggregator.AxisSwitch{Mode: aggregator.AxisAlways}, relative, []float64{10, 20}, aggregator.AxisSecondary},
		{"dynamic comparable", aggregator.DynamicAxis(6), sameType, []float64{10, 15, 25}, aggregator.AxisPrimary},
		{"dynamic low series below primary minimum", aggregator.DynamicAxis(6), sameType, []float64{5, 8, 9}, aggregator.AxisSecondary},
		{"dynamic flattened", aggregator.DynamicAxis(6), sameType, []float64{500, 800, 900}, aggregator.AxisSecondary},
		{"dynamic other type", aggregator.DynamicAxis(6), relative, []float64{10, 20, 30}, aggregator.AxisSecondary},
		{"dynamic empty series", aggregator.DynamicAxis(2), sameType, nil, aggregator.AxisSecondary},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.sw.Assign(absolute, primaryExtremes, tt.metric, tt.values)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAxisAssignIsExactAtBoundary(t *testing.T) {
	t.Parallel()

	metric := domain.Metric{ValueType: domain.ValueAbsolute}
	sw := aggregator.DynamicAxis(2)

	primary := aggregator.SeriesExtremes([]float64{0, 10})
	// maxima 10 and 20: 10*2 == 20 stays shared.
	assert.Equal(t, aggregator.AxisPrimary, sw.Assign(metric, primary, metric, []float64{0, 20}))
	// maxima 10 and 20.5: 20 < 20.5 splits.
	assert.Equal(t, aggregator.AxisSecondary, sw.Assign(metric, primary, metric, []float64{0, 20.5}))
}

func TestAxisAssignShiftsByJointMinimum(t *testing.T) {
	t.Parallel()

	metric := domain.Metric{ValueType: domain.ValueAbsolute}
	sw := aggregator.DynamicAxis(6)

	// joint minimum 0: maxima 110 and 5, 5*6 < 110.
	primary := aggregator.SeriesExtremes([]float64{100, 110})
	assert.Equal(t, aggregator.AxisSecondary, sw.Assign(metric, primary, metric, []float64{0, 5}))

	// joint minimum 100: maxima 10 and 12 stay shared.
	assert.Equal(t, aggregator.AxisPrimary, sw.Assign(metric, primary, metric, []float64{105, 112}))
}

func TestSeriesExtremes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, aggregator.Extremes{}, aggregator.SeriesExtremes(nil))
	assert.Equal(t, aggregator.Extremes{Min: -2, Max: 7}, aggregator.SeriesExtremes([]float64{3, -2, 7, 0}))
}

func TestParseAxisSwitch(t *testing.T) {
	t.Parallel()

	sw, err := aggregator.ParseAxisSwitch("none")
	require.NoError(t, err)
	assert.Equal(t, aggregator.AxisNone, sw.Mode)

	sw, err = aggregator.ParseAxisSwitch("ALWAYS")
	require.NoError(t, err)
	assert.Equal(t, aggregator.AxisAlways, sw.Mode)

	sw, err = aggregator.ParseAxisSwitch("DYNAMIC")
	require.NoError(t, err)
	assert.Equal(t, aggregator.DynamicAxis(aggregator.DefaultAxisScale), sw)

	sw, err = aggregator.ParseAxisSwitch("6.0")
	require.NoError(t, err)
	assert.Equal(t, aggregator.DynamicAxis(6), sw)

	for _, bad := range []string{"", "-1", "0", "sometimes"} {
		_, err := aggregator.ParseAxisSwitch(bad)
		assert.Error(t, err, bad)
	}

	assert.Equal(t, "y", aggregator.AxisPrimary.ChartKey())
	assert.Equal(t, "y2", aggregator.AxisSecondary.ChartKey())
}
