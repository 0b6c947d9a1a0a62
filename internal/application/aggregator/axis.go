package aggregator

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"statistics-aggregator/internal/domain"
)

// AxisMode selects how non-primary metrics are assigned to Y axes.
type AxisMode string

const (
	AxisNone    AxisMode = "NONE"
	AxisAlways  AxisMode = "ALWAYS"
	AxisDynamic AxisMode = "DYNAMIC"
)

// DefaultAxisScale is the DYNAMIC ratio used when none is configured.
const DefaultAxisScale = 2.0

// Axis is the Y axis a series is drawn against.
type Axis string

const (
	AxisPrimary   Axis = "primary"
	AxisSecondary Axis = "secondary"
)

// ChartKey maps the axis to the renderer's axis identifier.
func (a Axis) ChartKey() string {
	if a == AxisPrimary {
		return "y"
	}
	return "y2"
}

// AxisSwitch decides whether a metric shares the primary metric's axis.
type AxisSwitch struct {
	Mode  AxisMode
	Scale float64
}

// DynamicAxis returns a DYNAMIC switch with the given scale.
func DynamicAxis(scale float64) AxisSwitch {
	return AxisSwitch{Mode: AxisDynamic, Scale: scale}
}

// ParseAxisSwitch accepts NONE, ALWAYS, DYNAMIC or a positive number meaning
// DYNAMIC with that scale.
func ParseAxisSwitch(value string) (AxisSwitch, error) {
	trimmed := strings.TrimSpace(value)
	switch AxisMode(strings.ToUpper(trimmed)) {
	case AxisNone:
		return AxisSwitch{Mode: AxisNone}, nil
	case AxisAlways:
		return AxisSwitch{Mode: AxisAlways}, nil
	case AxisDynamic:
		return DynamicAxis(DefaultAxisScale), nil
	}

	scale, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || scale <= 0 || math.IsInf(scale, 0) || math.IsNaN(scale) {
		return AxisSwitch{}, fmt.Errorf("invalid axis switch %q", value)
	}
	return DynamicAxis(scale), nil
}

// Extremes holds the minimum and maximum of a series.
type Extremes struct {
	Min float64
	Max float64
}

// SeriesExtremes returns the extremes of values, zero for an empty slice.
func SeriesExtremes(values []float64) Extremes {
	if len(values) == 0 {
		return Extremes{}
	}
	ext := Extremes{Min: values[0], Max: values[0]}
	for _, v := range values[1:] {
		ext.Min = math.Min(ext.Min, v)
		ext.Max = math.Max(ext.Max, v)
	}
	return ext
}

// Assign places metric on the primary or secondary axis. Under DYNAMIC both
// maxima are shifted down by the joint minimum of the two series: when the
// smaller one scaled up still stays below the larger one the metric gets its
// own axis.
func (s AxisSwitch) Assign(primary domain.Metric, primaryExtremes Extremes, metric domain.Metric, values []float64) Axis {
	switch s.Mode {
	case AxisAlways:
		if primary.ValueType == metric.ValueType {
			return AxisPrimary
		}
		return AxisSecondary
	case AxisDynamic:
		if primary.ValueType != metric.ValueType {
			return AxisSecondary
		}
		local := SeriesExtremes(values)
		floor := math.Min(local.Min, primaryExtremes.Min)
		a := primaryExtremes.Max - floor
		b := local.Max - floor
		if math.Min(a, b)*s.Scale < math.Max(a, b) {
			return AxisSecondary
		}
		return AxisPrimary
	default:
		return AxisSecondary
	}
}
