package domain

// ValueType controls how a metric is formatted and whether two metrics may share
// a chart axis.
type ValueType string

const (
	ValueAbsolute       ValueType = "ABSOLUTE"
	ValueDecimal        ValueType = "DECIMAL"
	ValueRelative       ValueType = "RELATIVE"
	ValueCurrency       ValueType = "CURRENCY"
	ValueMinutesSeconds ValueType = "MINUTES_AND_SECS"
	ValueHoursMinutes   ValueType = "HOURS_AND_MINS"
	ValueDaysDecimal    ValueType = "DAYS_DECIMAL"
)

// Metric describes one aggregatable quantity of a data source.
type Metric struct {
	ID          string    `json:"id"`
	Label       string    `json:"caption"`
	Description string    `json:"description,omitempty"`
	ValueType   ValueType `json:"type"`
}

// Dimension is a categorical axis metrics can be filtered or grouped by.
type Dimension struct {
	ID    string `json:"id"`
	Label string `json:"caption"`
}

// DimensionItem is one selectable value of a dimension. The zero item has no
// filter and passes every record.
type DimensionItem struct {
	Filter *Filter `json:"id"`
	Value  string  `json:"value"`
}
