// Package record provides public types for batch record processing.
// This package is intended to be importable by external orchestrators that
// feed batches into the Ruleflow runtime and consume its partitioned output.
package record

import "time"

// Record represents a single data record as an opaque field-path to value mapping.
// Records are mutable in place; the runtime reads one input field and writes one
// output field per record. Identity is reference identity for the duration of
// one batch - there are no persistent record IDs.
type Record = map[string]interface{}

// Rejection pairs a record with the reason it was excluded from the passed set.
// The record is returned unmodified so its original field values remain
// available for diagnostic inspection or dead-letter routing.
type Rejection struct {
	// Record is the rejected record, unmodified
	Record Record `json:"record"`

	// Reason is the human-readable rejection reason
	Reason string `json:"reason"`
}

// Execution status values.
const (
	// StatusSuccess indicates every record in the batch passed
	StatusSuccess = "success"

	// StatusPartial indicates some records passed and some were rejected
	StatusPartial = "partial"

	// StatusError indicates the batch could not be processed at all
	StatusError = "error"
)

// Result represents the outcome of processing one batch.
type Result struct {
	// BatchName identifies the processed batch configuration
	BatchName string `json:"batchName"`

	// Status is the execution status ("success", "partial", "error")
	Status string `json:"status"`

	// BatchSize is the number of input records
	BatchSize int `json:"batchSize"`

	// Passed contains the records that were classified and annotated, in input order
	Passed []Record `json:"passed"`

	// Rejected contains (record, reason) pairs, in input order
	Rejected []Rejection `json:"rejected"`

	// StartedAt is when batch processing began
	StartedAt time.Time `json:"startedAt"`

	// CompletedAt is when batch processing finished
	CompletedAt time.Time `json:"completedAt"`
}

// Duration returns the elapsed processing time for the batch.
func (r *Result) Duration() time.Duration {
	return r.CompletedAt.Sub(r.StartedAt)
}
