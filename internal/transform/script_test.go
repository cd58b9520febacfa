package transform

import (
	"strings"
	"testing"

	"github.com/ruleflow/runtime/pkg/record"
)

func TestNewScript_Validation(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		wantErr string
	}{
		{
			name:   "valid transform",
			source: `function transform(record) { return record; }`,
		},
		{
			name:    "empty script",
			source:  "   \n\t",
			wantErr: "script cannot be empty",
		},
		{
			name:    "syntax error",
			source:  `function transform(record) {`,
			wantErr: "script compilation failed",
		},
		{
			name:    "missing transform function",
			source:  `var x = 1;`,
			wantErr: "transform function not found",
		},
		{
			name:    "transform not a function",
			source:  `var transform = 42;`,
			wantErr: "transform is not a function",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewScript(tt.source)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %q", tt.wantErr, err.Error())
			}
		})
	}
}

func TestNewScript_TooLong(t *testing.T) {
	source := "function transform(record) { return record; }\n// " + strings.Repeat("x", MaxScriptLength)
	if _, err := NewScript(source); err == nil {
		t.Error("expected length error, got nil")
	}
}

func TestScript_Apply(t *testing.T) {
	script, err := NewScript(`function transform(record) {
		record.normalized = true;
		return record;
	}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	batch := []record.Record{
		{"id": "a"},
		{"id": "b"},
	}

	passed, rejected := script.Apply(batch)
	if len(rejected) != 0 {
		t.Fatalf("expected no rejections, got %d (%s)", len(rejected), rejected[0].Reason)
	}
	if len(passed) != 2 {
		t.Fatalf("expected 2 passed, got %d", len(passed))
	}
	for i, rec := range passed {
		if rec["normalized"] != true {
			t.Errorf("record %d missing script annotation", i)
		}
	}
}

func TestScript_ApplyErrorRoutesToRejected(t *testing.T) {
	script, err := NewScript(`function transform(record) {
		if (record.id === "bad") {
			throw new Error("record refused");
		}
		return record;
	}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	batch := []record.Record{
		{"id": "ok"},
		{"id": "bad"},
		{"id": "also-ok"},
	}

	passed, rejected := script.Apply(batch)
	if len(passed) != 2 {
		t.Fatalf("expected 2 passed, got %d", len(passed))
	}
	if len(rejected) != 1 {
		t.Fatalf("expected 1 rejected, got %d", len(rejected))
	}
	if rejected[0].Record["id"] != "bad" {
		t.Errorf("expected bad record rejected, got %v", rejected[0].Record["id"])
	}
	if !strings.HasPrefix(rejected[0].Reason, "script failed:") {
		t.Errorf("unexpected reason: %q", rejected[0].Reason)
	}
}

func TestScript_NonObjectResultRejects(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{name: "returns string", source: `function transform(record) { return "nope"; }`},
		{name: "returns nothing", source: `function transform(record) { }`},
		{name: "returns null", source: `function transform(record) { return null; }`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			script, err := NewScript(tt.source)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			passed, rejected := script.Apply([]record.Record{{"id": "a"}})
			if len(passed) != 0 {
				t.Fatalf("expected no passed records, got %d", len(passed))
			}
			if len(rejected) != 1 {
				t.Fatalf("expected 1 rejected record, got %d", len(rejected))
			}
		})
	}
}

func TestScript_ReplacesRecord(t *testing.T) {
	script, err := NewScript(`function transform(record) {
		return { id: record.id, source: "script" };
	}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	passed, rejected := script.Apply([]record.Record{{"id": "a", "extra": 1}})
	if len(rejected) != 0 {
		t.Fatalf("expected no rejections, got %d", len(rejected))
	}
	if passed[0]["source"] != "script" {
		t.Errorf("expected replaced record, got %v", passed[0])
	}
	if _, exists := passed[0]["extra"]; exists {
		t.Error("expected replaced record to drop old fields")
	}
}
