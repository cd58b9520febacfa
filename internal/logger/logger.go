// Package logger provides structured logging functionality.
// It wraps the standard log/slog package for consistent logging across the runtime.
//
// All helpers use structured logging with consistent field names (snake_case).
// The default output is JSON for machine-readable logs; tests can redirect the
// output via SetOutput.
package logger

import (
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger is the default logger instance.
var Logger *slog.Logger

var (
	currentLevel  slog.Level = slog.LevelInfo
	currentOutput io.Writer  = os.Stdout
)

func init() {
	rebuild()
}

func rebuild() {
	Logger = slog.New(slog.NewJSONHandler(currentOutput, &slog.HandlerOptions{
		Level: currentLevel,
	}))
}

// SetLevel configures the logging level.
func SetLevel(level slog.Level) {
	currentLevel = level
	rebuild()
}

// SetOutput redirects log output. Intended for tests.
func SetOutput(w io.Writer) {
	currentOutput = w
	rebuild()
}

// Info logs an informational message.
func Info(msg string, args ...any) {
	Logger.Info(msg, args...)
}

// Debug logs a debug message.
func Debug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}

// Warn logs a warning message.
func Warn(msg string, args ...any) {
	Logger.Warn(msg, args...)
}

// Error logs an error message.
func Error(msg string, args ...any) {
	Logger.Error(msg, args...)
}

// WithBatch returns a logger with batch context.
func WithBatch(batchName string) *slog.Logger {
	return Logger.With("batch_name", batchName)
}

// WithStage returns a logger with batch and stage context.
// Stages are "guard", "classify", and "script".
func WithStage(batchName, stage string) *slog.Logger {
	return Logger.With("batch_name", batchName, "stage", stage)
}

// LogBatchStart logs the start of batch processing.
func LogBatchStart(batchName string, batchSize int) {
	Info("batch processing started",
		slog.String("batch_name", batchName),
		slog.Int("batch_size", batchSize),
	)
}

// LogBatchEnd logs the completion of batch processing with partition counts.
func LogBatchEnd(batchName, status string, passed, rejected int, duration time.Duration) {
	Info("batch processing completed",
		slog.String("batch_name", batchName),
		slog.String("status", status),
		slog.Int("passed", passed),
		slog.Int("rejected", rejected),
		slog.Duration("duration", duration),
	)
}
