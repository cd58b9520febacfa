// Package pathutil provides dot-notation field path access on records.
// Paths like "user.profile.name" navigate nested map[string]interface{}
// values; a path with no dot is a flat field access.
package pathutil

import (
	"errors"
	"strings"
)

// IsNested reports whether path uses dot notation.
func IsNested(path string) bool {
	return strings.Contains(path, ".")
}

// Get extracts a value from a record using dot notation.
// Returns (nil, false) if any segment is missing or not an object.
func Get(record map[string]interface{}, path string) (interface{}, bool) {
	if path == "" {
		return nil, false
	}
	if !IsNested(path) {
		value, ok := record[path]
		return value, ok
	}

	parts := strings.Split(path, ".")
	current := interface{}(record)

	for _, part := range parts {
		obj, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		value, ok := obj[part]
		if !ok {
			return nil, false
		}
		current = value
	}

	return current, true
}

// GetString extracts a string value from a record using dot notation.
// Returns ("", false) if the field is missing or not a string.
func GetString(record map[string]interface{}, path string) (string, bool) {
	value, ok := Get(record, path)
	if !ok {
		return "", false
	}
	s, ok := value.(string)
	return s, ok
}

// Set writes a value into a record using dot notation, creating intermediate
// objects as needed. An existing non-object intermediate value is replaced.
func Set(record map[string]interface{}, path string, value interface{}) error {
	if path == "" {
		return errors.New("empty path")
	}
	if !IsNested(path) {
		record[path] = value
		return nil
	}

	parts := strings.Split(path, ".")
	current := record

	for i := 0; i < len(parts)-1; i++ {
		next, ok := current[parts[i]].(map[string]interface{})
		if !ok {
			next = make(map[string]interface{})
			current[parts[i]] = next
		}
		current = next
	}

	current[parts[len(parts)-1]] = value
	return nil
}
