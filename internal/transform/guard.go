// Package transform implements batch record transformation.
// The guard stage rejects records that fail a boolean expression before
// they reach classification.
package transform

import (
	"fmt"
	"log/slog"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ruleflow/runtime/internal/logger"
	"github.com/ruleflow/runtime/pkg/record"
)

// Guard evaluates a compiled boolean expression against each record.
// Record fields are referenced directly in the expression, e.g. "amount > 0".
type Guard struct {
	expression string
	program    *vm.Program
}

// NewGuard compiles the expression. A compile failure is a configuration
// error and is returned immediately.
//
// AllowUndefinedVariables() handles missing fields gracefully: referencing
// an absent field yields nil rather than a compile-time rejection.
func NewGuard(expression string) (*Guard, error) {
	if expression == "" {
		return nil, fmt.Errorf("guard expression cannot be empty")
	}

	program, err := expr.Compile(expression, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, fmt.Errorf("invalid guard expression: %w", err)
	}

	logger.Debug("guard initialized", slog.String("expression", expression))

	return &Guard{expression: expression, program: program}, nil
}

// Apply partitions records into those satisfying the expression and
// rejections for the rest, preserving input order in both collections.
// Evaluation errors and non-true results both reject the record; the
// record is never modified.
func (g *Guard) Apply(records []record.Record) ([]record.Record, []record.Rejection) {
	passed := make([]record.Record, 0, len(records))
	rejected := make([]record.Rejection, 0)

	for i, rec := range records {
		output, err := expr.Run(g.program, rec)
		if err != nil {
			logger.Warn("guard evaluation failed",
				slog.Int("record_index", i),
				slog.String("expression", g.expression),
				slog.String("error", err.Error()),
			)
			rejected = append(rejected, record.Rejection{
				Record: rec,
				Reason: fmt.Sprintf("guard evaluation failed: %v", err),
			})
			continue
		}

		if result, ok := output.(bool); ok && result {
			passed = append(passed, rec)
			continue
		}

		rejected = append(rejected, record.Rejection{
			Record: rec,
			Reason: fmt.Sprintf("guard not satisfied: %s", g.expression),
		})
	}

	return passed, rejected
}
