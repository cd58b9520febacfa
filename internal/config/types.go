// Package config provides functionality for parsing and validating
// batch pipeline configuration files (JSON/YAML).
package config

import (
	"fmt"
	"strings"
)

// Error types for parse errors.
const (
	ErrorTypeSyntax = "syntax"
	ErrorTypeIO     = "io"
	ErrorTypeFormat = "format"
)

// ParseResult contains the result of parsing a configuration file.
type ParseResult struct {
	// Data contains the parsed configuration as a map
	Data map[string]interface{}
	// Errors contains any parsing errors encountered
	Errors []ParseError
	// FilePath is the path to the parsed file (empty if parsed from string)
	FilePath string
	// Format indicates the detected format (json, yaml)
	Format string
}

// IsValid returns true if no parsing errors occurred.
func (r *ParseResult) IsValid() bool {
	return len(r.Errors) == 0
}

// ParseError represents a parsing error with location information.
type ParseError struct {
	// Path is the file path where the error occurred
	Path string
	// Line is the line number (1-based, 0 if unknown)
	Line int
	// Column is the column number (1-based, 0 if unknown)
	Column int
	// Message is the error message
	Message string
	// Type categorizes the error (syntax, io, format)
	Type string
}

// Error implements the error interface.
func (e ParseError) Error() string {
	var sb strings.Builder
	if e.Path != "" {
		sb.WriteString(e.Path)
		sb.WriteString(": ")
	}
	if e.Line > 0 {
		sb.WriteString(fmt.Sprintf("line %d", e.Line))
		if e.Column > 0 {
			sb.WriteString(fmt.Sprintf(", column %d", e.Column))
		}
		sb.WriteString(": ")
	}
	sb.WriteString(e.Message)
	return sb.String()
}

// ValidationResult contains the result of validating a configuration.
type ValidationResult struct {
	// Valid indicates whether the configuration is valid
	Valid bool
	// Errors contains validation errors
	Errors []ValidationError
}

// ValidationError represents a schema validation error.
type ValidationError struct {
	// Path is the JSON path where the error occurred (e.g., "/batch/inputField")
	Path string
	// Type is the error type (required, type, format, enum, etc.)
	Type string
	// Message is the error message
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

// ControlConfig configures the optional Redis-backed rule reload source.
type ControlConfig struct {
	// RedisAddr is the Redis server address (host:port)
	RedisAddr string `json:"redisAddr"`
	// Key is the Redis key holding the JSON array of rule parameters
	Key string `json:"key"`
	// Channel is the pub/sub channel signalling rule updates
	Channel string `json:"channel"`
}

// BatchConfig is the parsed and validated batch pipeline configuration.
type BatchConfig struct {
	// Name identifies the batch configuration
	Name string `json:"name"`
	// InputField is the field path read from each record (dot notation supported)
	InputField string `json:"inputField"`
	// OutputField is the field path the matched label is written to
	OutputField string `json:"outputField"`
	// Rules are the ordered "Label=prefix1,prefix2,..." rule parameters
	Rules []string `json:"rules"`
	// Workers is the parallelism for batch evaluation (0 or 1 = sequential)
	Workers int `json:"workers,omitempty"`
	// Guard is an optional boolean expression evaluated per record before classification
	Guard string `json:"guard,omitempty"`
	// Script is an optional JavaScript transform(record) applied to passed records
	Script string `json:"script,omitempty"`
	// Control configures the optional hot-reload source
	Control *ControlConfig `json:"control,omitempty"`
}
