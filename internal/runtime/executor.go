// Package runtime provides the batch execution engine.
// It orchestrates the processing stages for one batch: optional guard,
// rule-table classification, and optional script transform.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ruleflow/runtime/internal/config"
	"github.com/ruleflow/runtime/internal/errhandling"
	"github.com/ruleflow/runtime/internal/logger"
	"github.com/ruleflow/runtime/internal/rules"
	"github.com/ruleflow/runtime/internal/transform"
	"github.com/ruleflow/runtime/pkg/record"
)

// Common errors
var (
	// ErrNilConfig is returned when the batch configuration is nil
	ErrNilConfig = errors.New("batch configuration is nil")
)

// Executor runs batches against a configured rule provider.
//
// The rule table is fetched from the provider exactly once per Execute call,
// so a reconfiguration mid-stream affects only batches that start after the
// swap. Per-record failures are routed to the rejected partition and never
// abort the batch; the only fatal conditions are a malformed configuration
// (raised before any record is processed) and context cancellation.
type Executor struct {
	cfg         *config.BatchConfig
	provider    *rules.Provider
	transformer *transform.Transformer
	guard       *transform.Guard
	script      *transform.Script
}

// NewExecutor builds an executor from a validated batch configuration.
// The initial rule table is built here; a malformed rule parameter fails
// construction and no batch processing can start.
func NewExecutor(cfg *config.BatchConfig) (*Executor, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	provider := rules.NewProvider()
	if err := provider.Configure(cfg.Rules); err != nil {
		return nil, errhandling.Classify(errhandling.CategoryConfiguration, err)
	}

	transformer, err := transform.New(cfg.InputField, cfg.OutputField, cfg.Workers)
	if err != nil {
		return nil, errhandling.Classify(errhandling.CategoryConfiguration, err)
	}

	executor := &Executor{
		cfg:         cfg,
		provider:    provider,
		transformer: transformer,
	}

	if cfg.Guard != "" {
		executor.guard, err = transform.NewGuard(cfg.Guard)
		if err != nil {
			return nil, errhandling.Classify(errhandling.CategoryConfiguration,
				fmt.Errorf("invalid guard config: %w", err))
		}
	}
	if cfg.Script != "" {
		executor.script, err = transform.NewScript(cfg.Script)
		if err != nil {
			return nil, errhandling.Classify(errhandling.CategoryConfiguration,
				fmt.Errorf("invalid script config: %w", err))
		}
	}

	logger.Debug("executor initialized",
		slog.String("batch_name", cfg.Name),
		slog.String("input_field", cfg.InputField),
		slog.String("output_field", cfg.OutputField),
		slog.Int("rule_count", len(cfg.Rules)),
		slog.Int("workers", cfg.Workers),
		slog.Bool("has_guard", executor.guard != nil),
		slog.Bool("has_script", executor.script != nil),
	)

	return executor, nil
}

// Provider returns the executor's rule provider, for wiring a reload source.
func (e *Executor) Provider() *rules.Provider {
	return e.provider
}

// Execute processes one batch and returns its partitioned result.
// Every input record appears in exactly one of Result.Passed or
// Result.Rejected.
func (e *Executor) Execute(ctx context.Context, batch []record.Record) (*record.Result, error) {
	result := &record.Result{
		BatchName: e.cfg.Name,
		BatchSize: len(batch),
		StartedAt: time.Now(),
	}

	logger.LogBatchStart(e.cfg.Name, len(batch))

	table, err := e.provider.Current()
	if err != nil {
		result.Status = record.StatusError
		result.CompletedAt = time.Now()
		return result, err
	}

	rejected := make([]record.Rejection, 0)

	current := batch
	if e.guard != nil {
		var guardRejected []record.Rejection
		current, guardRejected = e.guard.Apply(current)
		rejected = append(rejected, guardRejected...)
		logger.WithStage(e.cfg.Name, "guard").Debug("guard applied",
			slog.Int("passed", len(current)),
			slog.Int("rejected", len(guardRejected)),
		)
	}

	passed, classifyRejected, err := e.transformer.Transform(ctx, current, table)
	if err != nil {
		result.Status = record.StatusError
		result.CompletedAt = time.Now()
		return result, err
	}
	rejected = append(rejected, classifyRejected...)

	if e.script != nil {
		var scriptRejected []record.Rejection
		passed, scriptRejected = e.script.Apply(passed)
		rejected = append(rejected, scriptRejected...)
		logger.WithStage(e.cfg.Name, "script").Debug("script applied",
			slog.Int("passed", len(passed)),
			slog.Int("rejected", len(scriptRejected)),
		)
	}

	result.Passed = passed
	result.Rejected = rejected
	result.CompletedAt = time.Now()

	// Rejections are routed data, not failures: a batch with rejects is
	// partial, never an error.
	if len(rejected) == 0 {
		result.Status = record.StatusSuccess
	} else {
		result.Status = record.StatusPartial
	}

	logger.LogBatchEnd(e.cfg.Name, result.Status, len(passed), len(rejected), result.Duration())

	return result, nil
}
