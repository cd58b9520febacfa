package rules

import (
	"errors"
	"testing"
)

func TestBuild_Validation(t *testing.T) {
	tests := []struct {
		name      string
		params    []string
		wantErr   bool
		wantIndex int
	}{
		{
			name:    "valid rules",
			params:  []string{"Visa=4", "Mastercard=51,52,53,54,55", "Other="},
			wantErr: false,
		},
		{
			name:    "empty params",
			params:  []string{},
			wantErr: false,
		},
		{
			name:      "missing separator",
			params:    []string{"Visa=4", "Mastercard"},
			wantErr:   true,
			wantIndex: 1,
		},
		{
			name:      "empty label",
			params:    []string{"=4"},
			wantErr:   true,
			wantIndex: 0,
		},
		{
			name:    "catch-all only",
			params:  []string{"Other="},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := Build(tt.params)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				var configErr *ConfigurationError
				if !errors.As(err, &configErr) {
					t.Fatalf("expected *ConfigurationError, got %T", err)
				}
				if configErr.Index != tt.wantIndex {
					t.Errorf("expected error index %d, got %d", tt.wantIndex, configErr.Index)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if table.Len() != len(tt.params) {
				t.Errorf("expected %d rules, got %d", len(tt.params), table.Len())
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		params    []string
		value     string
		wantLabel string
		wantFound bool
	}{
		{
			name:      "visa match",
			params:    []string{"Visa=4", "Mastercard=51,52,53,54,55", "Other="},
			value:     "4111111111111111",
			wantLabel: "Visa",
			wantFound: true,
		},
		{
			name:      "mastercard second prefix",
			params:    []string{"Visa=4", "Mastercard=51,52,53,54,55", "Other="},
			value:     "5200000000000007",
			wantLabel: "Mastercard",
			wantFound: true,
		},
		{
			name:      "catch-all fallback",
			params:    []string{"Visa=4", "Other="},
			value:     "9999",
			wantLabel: "Other",
			wantFound: true,
		},
		{
			name:      "no match without catch-all",
			params:    []string{"Visa=4", "Mastercard=51"},
			value:     "9999",
			wantLabel: "",
			wantFound: false,
		},
		{
			name:      "first match wins over longer prefix",
			params:    []string{"A=1", "B=12"},
			value:     "123",
			wantLabel: "A",
			wantFound: true,
		},
		{
			name:      "duplicate label only first reachable",
			params:    []string{"X=1", "X=2"},
			value:     "2000",
			wantLabel: "X",
			wantFound: true,
		},
		{
			name:      "empty table",
			params:    []string{},
			value:     "anything",
			wantLabel: "",
			wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := Build(tt.params)
			if err != nil {
				t.Fatalf("unexpected build error: %v", err)
			}
			label, found := table.Classify(tt.value)
			if found != tt.wantFound {
				t.Errorf("expected found=%v, got %v", tt.wantFound, found)
			}
			if label != tt.wantLabel {
				t.Errorf("expected label %q, got %q", tt.wantLabel, label)
			}
		})
	}
}

func TestClassify_Deterministic(t *testing.T) {
	table, err := Build([]string{"Visa=4", "Mastercard=51,52", "Other="})
	if err != nil {
		t.Fatalf("unexpected build error: %v", err)
	}

	for i := 0; i < 10; i++ {
		label, found := table.Classify("5100")
		if !found || label != "Mastercard" {
			t.Fatalf("run %d: expected (Mastercard, true), got (%q, %v)", i, label, found)
		}
	}
}

func TestHasCatchAll(t *testing.T) {
	tests := []struct {
		name   string
		params []string
		want   bool
	}{
		{name: "with catch-all", params: []string{"Visa=4", "Other="}, want: true},
		{name: "without catch-all", params: []string{"Visa=4"}, want: false},
		{name: "empty table", params: []string{}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := Build(tt.params)
			if err != nil {
				t.Fatalf("unexpected build error: %v", err)
			}
			if got := table.HasCatchAll(); got != tt.want {
				t.Errorf("expected HasCatchAll=%v, got %v", tt.want, got)
			}
		})
	}
}

func TestRules_ReturnsCopy(t *testing.T) {
	table, err := Build([]string{"Visa=4", "Other="})
	if err != nil {
		t.Fatalf("unexpected build error: %v", err)
	}

	rulesCopy := table.Rules()
	if len(rulesCopy) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(rulesCopy))
	}

	rulesCopy[0] = Rule{Label: "Tampered", Prefixes: []string{"9"}}

	label, found := table.Classify("4111")
	if !found || label != "Visa" {
		t.Errorf("table mutated through Rules() copy: got (%q, %v)", label, found)
	}
}
