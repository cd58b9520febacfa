// Package config provides functionality for parsing and validating
// batch pipeline configuration files (JSON/YAML).
package config

// Result contains the combined result of parsing and validation.
type Result struct {
	// Data contains the parsed and validated configuration
	Data map[string]interface{}
	// ParseErrors contains parsing errors
	ParseErrors []ParseError
	// ValidationErrors contains validation errors
	ValidationErrors []ValidationError
	// FilePath is the path to the configuration file
	FilePath string
	// Format is the detected format (json, yaml)
	Format string
}

// IsValid returns true if no errors occurred.
func (r *Result) IsValid() bool {
	return len(r.ParseErrors) == 0 && len(r.ValidationErrors) == 0
}

// ParseConfig parses and validates a configuration file in one step.
// Validation is skipped when parsing fails.
func ParseConfig(filePath string) *Result {
	parseResult := ParseFile(filePath)

	result := &Result{
		Data:        parseResult.Data,
		ParseErrors: parseResult.Errors,
		FilePath:    filePath,
		Format:      parseResult.Format,
	}

	if len(result.ParseErrors) > 0 {
		return result
	}

	validationResult := ValidateConfig(result.Data)
	if !validationResult.Valid {
		result.ValidationErrors = validationResult.Errors
	}

	return result
}
