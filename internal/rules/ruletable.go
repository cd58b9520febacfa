// Package rules provides the rule table used to classify record field values.
// A rule table is an ordered sequence of (label, prefixes) pairs built from
// flat "Label=prefix1,prefix2,..." parameter strings. Tables are immutable
// after Build and safe for concurrent read access by many workers.
package rules

import (
	"fmt"
	"strings"

	"github.com/ruleflow/runtime/internal/logger"
)

// ConfigurationError indicates malformed rule parameters.
// It is raised synchronously at Build time and prevents batch processing
// from starting; it is never deferred to per-record failures.
type ConfigurationError struct {
	// Index is the position of the offending parameter (0-based)
	Index int
	// Param is the raw parameter string
	Param string
	// Message describes the problem
	Message string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid rule parameter at index %d (%q): %s", e.Index, e.Param, e.Message)
}

// Rule is one ordered entry in a rule table: a label and the prefixes that
// select it. A rule whose prefix list contains the empty string matches any
// value (catch-all), since every string starts with the empty prefix.
type Rule struct {
	Label    string
	Prefixes []string
}

// IsCatchAll reports whether the rule matches every value.
func (r Rule) IsCatchAll() bool {
	for _, p := range r.Prefixes {
		if p == "" {
			return true
		}
	}
	return false
}

// RuleTable is an ordered, immutable mapping from labels to prefix sets.
// Order is significant: Classify returns the first matching label.
// Labels are not required to be unique, but a duplicated label is only
// reachable at its first occurrence.
type RuleTable struct {
	rules []Rule
}

// Build constructs a RuleTable from flat parameter strings.
//
// Each parameter is split on the first '='. The left side is the label
// (required, non-empty). The right side, if present and non-empty, is split
// on ',' into prefixes; if absent or empty, the rule gets a single
// empty-string prefix and acts as a catch-all.
//
// Parameter order is preserved and determines match priority.
// Returns a *ConfigurationError if any entry lacks an '=' or a label.
func Build(params []string) (*RuleTable, error) {
	parsed := make([]Rule, 0, len(params))

	for i, param := range params {
		label, rhs, found := strings.Cut(param, "=")
		if !found {
			return nil, &ConfigurationError{
				Index:   i,
				Param:   param,
				Message: "missing '=' separator",
			}
		}
		if label == "" {
			return nil, &ConfigurationError{
				Index:   i,
				Param:   param,
				Message: "label must be non-empty",
			}
		}

		var prefixes []string
		if rhs == "" {
			// Value-less rule: the empty prefix matches everything.
			prefixes = []string{""}
		} else {
			prefixes = strings.Split(rhs, ",")
		}

		parsed = append(parsed, Rule{Label: label, Prefixes: prefixes})
	}

	table := &RuleTable{rules: parsed}

	logger.Debug("rule table built",
		"rule_count", len(parsed),
		"has_catch_all", table.HasCatchAll(),
	)

	return table, nil
}

// Classify returns the label of the first rule with a prefix that value
// starts with. found is false if no rule matches, which can only happen
// when no catch-all rule exists.
//
// Classify is deterministic, has no side effects, and is safe for
// concurrent use.
func (t *RuleTable) Classify(value string) (label string, found bool) {
	for _, rule := range t.rules {
		for _, prefix := range rule.Prefixes {
			if strings.HasPrefix(value, prefix) {
				return rule.Label, true
			}
		}
	}
	return "", false
}

// Len returns the number of rules in the table.
func (t *RuleTable) Len() int {
	return len(t.rules)
}

// HasCatchAll reports whether any rule in the table matches every value.
func (t *RuleTable) HasCatchAll() bool {
	for _, rule := range t.rules {
		if rule.IsCatchAll() {
			return true
		}
	}
	return false
}

// Rules returns a copy of the ordered rule entries, for inspection and
// diagnostic display. The table itself remains immutable.
func (t *RuleTable) Rules() []Rule {
	out := make([]Rule, len(t.rules))
	copy(out, t.rules)
	return out
}
