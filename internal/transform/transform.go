// Package transform implements batch record transformation.
// The transformer consumes a batch of records, classifies one input field per
// record against a rule table, and partitions the batch into passed records
// (annotated with the matched label) and rejected (record, reason) pairs.
package transform

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ruleflow/runtime/internal/pathutil"
	"github.com/ruleflow/runtime/internal/rules"
	"github.com/ruleflow/runtime/pkg/record"
)

// Common errors
var (
	// ErrEmptyInputField is returned when the input field path is empty
	ErrEmptyInputField = errors.New("input field path is required")

	// ErrEmptyOutputField is returned when the output field path is empty
	ErrEmptyOutputField = errors.New("output field path is required")

	// ErrNilRuleTable is returned when Transform is called without a rule table
	ErrNilRuleTable = errors.New("rule table is nil")
)

// Transformer applies rule-table classification to record batches.
//
// Records within a batch are independent; with Workers > 1 the batch is
// evaluated in parallel, with results collected by original index so the
// relative order within passed and rejected always matches input order.
type Transformer struct {
	inputField  string
	outputField string
	workers     int
}

// New creates a Transformer reading inputField and writing outputField.
// Both support dot notation for nested paths. workers <= 1 selects
// sequential processing.
func New(inputField, outputField string, workers int) (*Transformer, error) {
	if inputField == "" {
		return nil, ErrEmptyInputField
	}
	if outputField == "" {
		return nil, ErrEmptyOutputField
	}
	if workers < 1 {
		workers = 1
	}
	return &Transformer{
		inputField:  inputField,
		outputField: outputField,
		workers:     workers,
	}, nil
}

// outcome holds the per-record result, tagged with the original index so
// parallel evaluation cannot reorder the output partitions.
type outcome struct {
	passed    bool
	rec       record.Record
	rejection record.Rejection
}

// Transform partitions batch into passed and rejected collections.
//
// For each record, independently:
//  1. Read the input field. Absent, non-string, or empty values reject the
//     record; it never reaches classification.
//  2. Classify the value against table. No match (possible only without a
//     catch-all rule) rejects the record.
//  3. On a match, write the label to the output field on the record and
//     place it in passed.
//
// Every input record lands in exactly one of the two collections, and the
// relative order within each matches the input batch. Rejected records are
// returned unmodified; passed records are mutated in place at the output
// field only. Per-record failures never abort the batch.
func (t *Transformer) Transform(ctx context.Context, batch []record.Record, table *rules.RuleTable) ([]record.Record, []record.Rejection, error) {
	if table == nil {
		return nil, nil, ErrNilRuleTable
	}

	passed := make([]record.Record, 0, len(batch))
	rejected := make([]record.Rejection, 0)

	if len(batch) == 0 {
		return passed, rejected, nil
	}

	var outcomes []outcome
	var err error
	if t.workers > 1 {
		outcomes, err = t.processParallel(ctx, batch, table)
	} else {
		outcomes, err = t.processSequential(ctx, batch, table)
	}
	if err != nil {
		return nil, nil, err
	}

	for _, o := range outcomes {
		if o.passed {
			passed = append(passed, o.rec)
		} else {
			rejected = append(rejected, o.rejection)
		}
	}

	return passed, rejected, nil
}

func (t *Transformer) processSequential(ctx context.Context, batch []record.Record, table *rules.RuleTable) ([]outcome, error) {
	outcomes := make([]outcome, len(batch))

	for i, rec := range batch {
		// Check context for long-running batches
		if i%100 == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}
		outcomes[i] = t.processRecord(rec, table)
	}

	return outcomes, nil
}

func (t *Transformer) processParallel(ctx context.Context, batch []record.Record, table *rules.RuleTable) ([]outcome, error) {
	outcomes := make([]outcome, len(batch))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(t.workers)

	for i, rec := range batch {
		i, rec := i, rec
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			outcomes[i] = t.processRecord(rec, table)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// processRecord evaluates a single record. It never returns an error:
// per-record failures become rejections.
func (t *Transformer) processRecord(rec record.Record, table *rules.RuleTable) outcome {
	raw, ok := pathutil.Get(rec, t.inputField)
	if !ok || raw == nil {
		return reject(rec, fmt.Sprintf("%s is missing", t.inputField))
	}

	value, ok := raw.(string)
	if !ok {
		return reject(rec, fmt.Sprintf("%s is not a string", t.inputField))
	}
	if value == "" {
		return reject(rec, fmt.Sprintf("%s is missing", t.inputField))
	}

	label, found := table.Classify(value)
	if !found {
		return reject(rec, fmt.Sprintf("no matching rule for value: %s", value))
	}

	if err := pathutil.Set(rec, t.outputField, label); err != nil {
		return reject(rec, fmt.Sprintf("cannot write %s: %v", t.outputField, err))
	}

	return outcome{passed: true, rec: rec}
}

func reject(rec record.Record, reason string) outcome {
	return outcome{rejection: record.Rejection{Record: rec, Reason: reason}}
}
