// Package main provides the CLI entry point for the Ruleflow runtime.
// This file contains output formatting and batch file loading helpers.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ruleflow/runtime/internal/config"
	"github.com/ruleflow/runtime/pkg/record"
)

// printParseErrors prints parse errors to stderr.
func printParseErrors(errors []config.ParseError) {
	fmt.Fprintln(os.Stderr, "✗ Parse errors:")
	for _, err := range errors {
		location := formatErrorLocation(err.Path, err.Line, err.Column)
		if location != "" {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", location, err.Message)
		} else {
			fmt.Fprintf(os.Stderr, "  %s\n", err.Message)
		}
		if verbose && err.Type != "" {
			fmt.Fprintf(os.Stderr, "    Type: %s\n", err.Type)
		}
	}
}

// formatErrorLocation formats the error location string (path:line:column).
func formatErrorLocation(path string, line, column int) string {
	if path == "" {
		return ""
	}
	location := path
	if line > 0 {
		location += fmt.Sprintf(":%d", line)
		if column > 0 {
			location += fmt.Sprintf(":%d", column)
		}
	}
	return location
}

// printValidationErrors prints validation errors to stderr.
func printValidationErrors(errors []config.ValidationError) {
	fmt.Fprintln(os.Stderr, "✗ Validation errors:")
	for _, err := range errors {
		if err.Path != "" {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", err.Path, err.Message)
		} else {
			fmt.Fprintf(os.Stderr, "  %s\n", err.Message)
		}
		if verbose && err.Type != "" {
			fmt.Fprintf(os.Stderr, "    Type: %s\n", err.Type)
		}
	}
	if !quiet {
		fmt.Fprintln(os.Stderr, "\nHint: run with --verbose for error details, or check the embedded schema.")
	}
}

// printExecutionResult displays the batch execution result.
func printExecutionResult(batchPath string, result *record.Result, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "✗ Batch processing failed: %s\n", batchPath)
		fmt.Fprintf(os.Stderr, "  Error: %v\n", err)
		return
	}

	if quiet {
		return
	}

	fmt.Printf("✓ Batch processed: %s\n", batchPath)
	fmt.Printf("  Status: %s\n", result.Status)
	fmt.Printf("  Records: %d\n", result.BatchSize)
	fmt.Printf("  Passed: %d\n", len(result.Passed))
	if len(result.Rejected) > 0 {
		fmt.Printf("  Rejected: %d\n", len(result.Rejected))
	}
	if verbose {
		fmt.Printf("  Duration: %v\n", result.Duration())
		for i, rejection := range result.Rejected {
			fmt.Printf("  Rejection %d: %s\n", i+1, rejection.Reason)
		}
	}
}

// loadBatchFile loads a batch of records from a JSON or YAML file.
// The file must contain an array of objects.
func loadBatchFile(filePath string) ([]record.Record, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var raw []map[string]interface{}
	switch strings.ToLower(path.Ext(filePath)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(content, &raw); err != nil {
			return nil, fmt.Errorf("invalid YAML batch: %w", err)
		}
	default:
		if err := json.Unmarshal(content, &raw); err != nil {
			return nil, fmt.Errorf("invalid JSON batch: %w", err)
		}
	}

	batch := make([]record.Record, len(raw))
	for i, rec := range raw {
		batch[i] = rec
	}
	return batch, nil
}

// writeJSONFile writes a value to filePath as indented JSON.
func writeJSONFile(filePath string, value interface{}) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0o644)
}
