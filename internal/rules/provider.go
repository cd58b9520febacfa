// Package rules provides the rule table used to classify record field values.
// This file implements the provider that holds the live table and supports
// wholesale replacement on reconfiguration.
package rules

import (
	"errors"
	"sync/atomic"

	"github.com/ruleflow/runtime/internal/logger"
)

// ErrNotConfigured is returned by Current when Configure has never succeeded.
var ErrNotConfigured = errors.New("rule table not configured")

// Provider holds the live rule table and supports atomic replacement.
//
// Readers fetch the table once per batch via Current and keep that reference
// for the whole batch, so a reconfiguration mid-stream affects only batches
// that start after the swap. Readers always observe either the old or the new
// table in full, never a partial one.
type Provider struct {
	table atomic.Pointer[RuleTable]
}

// NewProvider creates an unconfigured provider.
func NewProvider() *Provider {
	return &Provider{}
}

// Configure builds a new table from params and swaps it in wholesale.
// On a configuration error the previous table (if any) stays live.
func (p *Provider) Configure(params []string) error {
	table, err := Build(params)
	if err != nil {
		return err
	}

	old := p.table.Swap(table)
	if old != nil {
		logger.Info("rule table replaced",
			"old_rule_count", old.Len(),
			"new_rule_count", table.Len(),
		)
	}
	return nil
}

// Current returns the live rule table.
// Returns ErrNotConfigured if Configure has never succeeded.
func (p *Provider) Current() (*RuleTable, error) {
	table := p.table.Load()
	if table == nil {
		return nil, ErrNotConfigured
	}
	return table, nil
}
