package transform

import (
	"strings"
	"testing"

	"github.com/ruleflow/runtime/pkg/record"
)

func TestNewGuard_Validation(t *testing.T) {
	tests := []struct {
		name       string
		expression string
		wantErr    bool
	}{
		{name: "valid comparison", expression: "amount > 0"},
		{name: "valid equality", expression: `status == "active"`},
		{name: "empty expression", expression: "", wantErr: true},
		{name: "invalid syntax", expression: "amount >", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGuard(tt.expression)
			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestGuard_Apply(t *testing.T) {
	guard, err := NewGuard("amount > 0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	batch := []record.Record{
		{"id": "a", "amount": 5},
		{"id": "b", "amount": -1},
		{"id": "c", "amount": 10},
	}

	passed, rejected := guard.Apply(batch)

	if len(passed) != 2 {
		t.Fatalf("expected 2 passed, got %d", len(passed))
	}
	if passed[0]["id"] != "a" || passed[1]["id"] != "c" {
		t.Errorf("passed order violated: %v, %v", passed[0]["id"], passed[1]["id"])
	}
	if len(rejected) != 1 {
		t.Fatalf("expected 1 rejected, got %d", len(rejected))
	}
	if rejected[0].Record["id"] != "b" {
		t.Errorf("expected record b rejected, got %v", rejected[0].Record["id"])
	}
	if !strings.Contains(rejected[0].Reason, "guard not satisfied") {
		t.Errorf("unexpected reason: %q", rejected[0].Reason)
	}
}

func TestGuard_MissingFieldRejects(t *testing.T) {
	guard, err := NewGuard("amount > 0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A record without the referenced field never passes; whether the
	// evaluation errors or yields a non-true value, the record is rejected.
	passed, rejected := guard.Apply([]record.Record{{"id": "x"}})
	if len(passed) != 0 {
		t.Fatalf("expected no passed records, got %d", len(passed))
	}
	if len(rejected) != 1 {
		t.Fatalf("expected 1 rejected record, got %d", len(rejected))
	}
	if !strings.HasPrefix(rejected[0].Reason, "guard") {
		t.Errorf("unexpected reason: %q", rejected[0].Reason)
	}
}

func TestGuard_NonBooleanResultRejects(t *testing.T) {
	guard, err := NewGuard(`amount + 1`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	passed, rejected := guard.Apply([]record.Record{{"amount": 1}})
	if len(passed) != 0 {
		t.Fatalf("expected no passed records, got %d", len(passed))
	}
	if len(rejected) != 1 {
		t.Fatalf("expected 1 rejected record, got %d", len(rejected))
	}
}

func TestGuard_RecordsNotModified(t *testing.T) {
	guard, err := NewGuard("amount > 0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec := record.Record{"amount": -5, "note": "keep"}
	_, rejected := guard.Apply([]record.Record{rec})
	if len(rejected) != 1 {
		t.Fatalf("expected 1 rejected record, got %d", len(rejected))
	}
	if rejected[0].Record["note"] != "keep" || rejected[0].Record["amount"] != -5 {
		t.Error("rejected record was modified")
	}
}
