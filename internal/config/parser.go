// Package config provides functionality for parsing and validating
// batch pipeline configuration files (JSON/YAML).
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseFile parses a configuration file, detecting the format from the
// file extension (.json, .yaml, .yml). Unknown extensions are treated
// as JSON.
func ParseFile(filePath string) *ParseResult {
	var result *ParseResult

	switch strings.ToLower(path.Ext(filePath)) {
	case ".yaml", ".yml":
		result = parseFileWith(filePath, "yaml", ParseYAMLString)
	default:
		result = parseFileWith(filePath, "json", ParseJSONString)
	}

	return result
}

func parseFileWith(filePath, format string, parse func(string) *ParseResult) *ParseResult {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return &ParseResult{
			FilePath: filePath,
			Format:   format,
			Errors: []ParseError{{
				Path:    filePath,
				Message: fmt.Sprintf("failed to read file: %v", err),
				Type:    ErrorTypeIO,
			}},
		}
	}

	result := parse(string(content))
	result.FilePath = filePath
	for i := range result.Errors {
		if result.Errors[i].Path == "" {
			result.Errors[i].Path = filePath
		}
	}
	return result
}

// ParseJSONString parses JSON content from a string.
func ParseJSONString(content string) *ParseResult {
	result := &ParseResult{Format: "json"}

	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		result.Errors = append(result.Errors, ParseError{
			Message: "empty content: expected JSON object",
			Type:    ErrorTypeSyntax,
		})
		return result
	}

	var data map[string]interface{}
	if err := json.Unmarshal([]byte(trimmed), &data); err != nil {
		result.Errors = append(result.Errors, jsonParseError(trimmed, err))
		return result
	}

	result.Data = data
	return result
}

// jsonParseError converts a json error to a ParseError with line/column
// information derived from the byte offset where available.
func jsonParseError(content string, err error) ParseError {
	var offset int64 = -1

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr):
		offset = syntaxErr.Offset
	case errors.As(err, &typeErr):
		offset = typeErr.Offset
	}

	parseErr := ParseError{
		Message: err.Error(),
		Type:    ErrorTypeSyntax,
	}
	if offset >= 0 && offset <= int64(len(content)) {
		line, column := locate(content, offset)
		parseErr.Line = line
		parseErr.Column = column
	}
	return parseErr
}

// locate converts a byte offset to 1-based line and column numbers.
func locate(content string, offset int64) (line, column int) {
	line = 1
	column = 1
	for i := int64(0); i < offset && i < int64(len(content)); i++ {
		if content[i] == '\n' {
			line++
			column = 1
		} else {
			column++
		}
	}
	return line, column
}

// ParseYAMLString parses YAML content from a string.
// Nested structures are normalized to map[string]interface{} so the result
// is interchangeable with parsed JSON for schema validation.
func ParseYAMLString(content string) *ParseResult {
	result := &ParseResult{Format: "yaml"}

	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		result.Errors = append(result.Errors, ParseError{
			Message: "empty content: expected YAML document",
			Type:    ErrorTypeSyntax,
		})
		return result
	}

	var raw interface{}
	if err := yaml.Unmarshal([]byte(trimmed), &raw); err != nil {
		result.Errors = append(result.Errors, yamlParseError(err))
		return result
	}

	normalized := normalizeYAML(raw)
	data, ok := normalized.(map[string]interface{})
	if !ok {
		result.Errors = append(result.Errors, ParseError{
			Message: fmt.Sprintf("expected YAML mapping at document root, got %T", normalized),
			Type:    ErrorTypeFormat,
		})
		return result
	}

	result.Data = data
	return result
}

// yamlParseError converts a yaml error to a ParseError. yaml.v3 embeds
// "line N" in its messages, which is surfaced verbatim; TypeErrors carry
// per-field messages that are joined.
func yamlParseError(err error) ParseError {
	var typeErr *yaml.TypeError
	if errors.As(err, &typeErr) && len(typeErr.Errors) > 0 {
		return ParseError{
			Message: strings.Join(typeErr.Errors, "; "),
			Type:    ErrorTypeFormat,
		}
	}
	return ParseError{
		Message: err.Error(),
		Type:    ErrorTypeSyntax,
	}
}

// normalizeYAML converts yaml-decoded values to JSON-compatible types.
// yaml.v3 already decodes string-keyed mappings to map[string]interface{};
// this walks nested values and stringifies any remaining non-string keys.
func normalizeYAML(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for key, item := range v {
			out[key] = normalizeYAML(item)
		}
		return out
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(v))
		for key, item := range v {
			out[fmt.Sprintf("%v", key)] = normalizeYAML(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = normalizeYAML(item)
		}
		return out
	case int:
		// Schema validation expects JSON number types.
		return float64(v)
	case int64:
		return float64(v)
	default:
		return value
	}
}
