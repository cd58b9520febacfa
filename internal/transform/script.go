// Package transform implements batch record transformation.
// The script stage applies a JavaScript transform(record) function to passed
// records after classification, using the Goja engine.
package transform

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/dop251/goja"

	"github.com/ruleflow/runtime/internal/logger"
	"github.com/ruleflow/runtime/pkg/record"
)

// MaxScriptLength is the maximum allowed script length in bytes (100KB).
const MaxScriptLength = 100 * 1024

// Script applies a JavaScript transform(record) function to records.
// The runtime is not goroutine-safe: one Script instance per batch stream.
type Script struct {
	source      string
	runtime     *goja.Runtime
	transformFn goja.Callable
}

// NewScript compiles the script source and resolves its transform function.
// The script must define a function named "transform" accepting one record
// argument and returning the (possibly replaced) record object.
func NewScript(source string) (*Script, error) {
	if strings.TrimSpace(source) == "" {
		return nil, fmt.Errorf("script cannot be empty")
	}
	if len(source) > MaxScriptLength {
		return nil, fmt.Errorf("script exceeds maximum length of %d bytes", MaxScriptLength)
	}

	vm := goja.New()
	if _, err := vm.RunString(source); err != nil {
		return nil, fmt.Errorf("script compilation failed: %w", err)
	}

	transformVal := vm.Get("transform")
	if transformVal == nil || goja.IsUndefined(transformVal) {
		return nil, fmt.Errorf("transform function not found in script")
	}
	transformFn, ok := goja.AssertFunction(transformVal)
	if !ok {
		return nil, fmt.Errorf("transform is not a function")
	}

	logger.Debug("script stage initialized", slog.Int("script_length", len(source)))

	return &Script{source: source, runtime: vm, transformFn: transformFn}, nil
}

// Apply runs transform(record) over each record in order. Records whose
// transform call fails, or whose result is not an object, are routed to
// rejected with the failure reason; the original record is kept in the
// rejection for inspection.
func (s *Script) Apply(records []record.Record) ([]record.Record, []record.Rejection) {
	passed := make([]record.Record, 0, len(records))
	rejected := make([]record.Rejection, 0)

	for i, rec := range records {
		transformed, err := s.applyOne(rec)
		if err != nil {
			logger.Warn("script transform failed",
				slog.Int("record_index", i),
				slog.String("error", err.Error()),
			)
			rejected = append(rejected, record.Rejection{
				Record: rec,
				Reason: fmt.Sprintf("script failed: %v", err),
			})
			continue
		}
		passed = append(passed, transformed)
	}

	return passed, rejected
}

func (s *Script) applyOne(rec record.Record) (record.Record, error) {
	result, err := s.transformFn(goja.Undefined(), s.runtime.ToValue(rec))
	if err != nil {
		if jsErr, ok := err.(*goja.Exception); ok {
			return nil, fmt.Errorf("%v", jsErr.Value())
		}
		return nil, err
	}

	if result == nil || goja.IsUndefined(result) || goja.IsNull(result) {
		return nil, fmt.Errorf("transform returned no record")
	}

	exported := result.Export()
	out, ok := exported.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("transform returned %T, expected an object", exported)
	}
	return out, nil
}
