// Package errhandling provides error types and classification utilities.
// It defines the error categories used across the Ruleflow runtime and a
// classified wrapper that carries category and recoverability metadata.
package errhandling

import (
	"errors"
	"fmt"
)

// ErrorCategory represents the type/category of an error.
// Categories help determine the appropriate error handling strategy.
type ErrorCategory string

// Error categories for classification.
const (
	// CategoryConfiguration represents malformed rule or pipeline configuration.
	// Configuration errors are fatal: they are raised synchronously at Configure
	// time and prevent batch processing from starting.
	CategoryConfiguration ErrorCategory = "configuration"

	// CategoryValidation represents a per-record required-field failure.
	// Validation failures are recoverable: the record is routed to the rejected
	// partition with a reason and the batch continues.
	CategoryValidation ErrorCategory = "validation"

	// CategoryClassification represents a record whose field value matches no
	// rule. Handled like validation failures - routed to rejected, never thrown.
	CategoryClassification ErrorCategory = "classification"

	// CategoryUnknown represents unclassified errors.
	CategoryUnknown ErrorCategory = "unknown"
)

// ClassifiedError wraps an error with classification metadata.
// It provides the category, recoverability status, and a human-readable message.
type ClassifiedError struct {
	// Category is the error classification category.
	Category ErrorCategory

	// Recoverable indicates whether processing can continue past this error.
	// Per-record failures are recoverable; configuration errors are not.
	Recoverable bool

	// Message is a human-readable error message.
	Message string

	// OriginalErr is the underlying error that was classified.
	OriginalErr error
}

// Error implements the error interface.
func (e *ClassifiedError) Error() string {
	return fmt.Sprintf("%s error: %s", e.Category, e.Message)
}

// Unwrap returns the original error for use with errors.Is and errors.As.
func (e *ClassifiedError) Unwrap() error {
	return e.OriginalErr
}

// Classify wraps an error with the given category.
// Validation and classification categories are marked recoverable;
// configuration and unknown categories are not.
func Classify(category ErrorCategory, err error) *ClassifiedError {
	if err == nil {
		return nil
	}
	return &ClassifiedError{
		Category:    category,
		Recoverable: category == CategoryValidation || category == CategoryClassification,
		Message:     err.Error(),
		OriginalErr: err,
	}
}

// IsRecoverable reports whether the error allows batch processing to continue.
// Unclassified errors are treated as fatal.
func IsRecoverable(err error) bool {
	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified.Recoverable
	}
	return false
}

// CategoryOf returns the category of a classified error,
// or CategoryUnknown for plain errors.
func CategoryOf(err error) ErrorCategory {
	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified.Category
	}
	return CategoryUnknown
}
