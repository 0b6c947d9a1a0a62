package domain

import "time"

// Record kinds stored by the record stores.
const (
	KindAccount      = "account"
	KindSubscription = "subscription"
	KindIssue        = "issue"
)

// Record is one timestamped business event with typed attributes.
type Record struct {
	ID         string           `json:"id"`
	Kind       string           `json:"kind"`
	Created    time.Time        `json:"created"`
	Attributes map[string]Value `json:"attributes,omitempty"`
}

// Attr returns the named attribute, null when absent.
func (r Record) Attr(name string) Value {
	if r.Attributes == nil {
		return Null()
	}
	return r.Attributes[name]
}

// RecordBatch is a unit of ingestion handed from producers to the worker pool.
type RecordBatch struct {
	ID      string
	Records []Record
}
