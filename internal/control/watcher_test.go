package control

import (
	"reflect"
	"testing"

	"github.com/ruleflow/runtime/internal/config"
	"github.com/ruleflow/runtime/internal/rules"
)

func TestParseRulePayload(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    []string
		wantErr bool
	}{
		{
			name:    "valid array",
			payload: `["Visa=4", "Mastercard=51,52", "Other="]`,
			want:    []string{"Visa=4", "Mastercard=51,52", "Other="},
		},
		{
			name:    "empty array",
			payload: `[]`,
			want:    []string{},
		},
		{
			name:    "not an array",
			payload: `{"Visa": "4"}`,
			wantErr: true,
		},
		{
			name:    "not json",
			payload: `Visa=4`,
			wantErr: true,
		},
		{
			name:    "mixed types",
			payload: `["Visa=4", 7]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, err := parseRulePayload(tt.payload)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(params) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(params, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, params)
			}
		})
	}
}

func TestNewWatcher(t *testing.T) {
	provider := rules.NewProvider()
	watcher := NewWatcher(&config.ControlConfig{
		RedisAddr: "localhost:6379",
		Key:       "ruleflow:rules",
		Channel:   "ruleflow:updates",
	}, provider)

	if watcher.key != "ruleflow:rules" {
		t.Errorf("unexpected key: %q", watcher.key)
	}
	if watcher.channel != "ruleflow:updates" {
		t.Errorf("unexpected channel: %q", watcher.channel)
	}
	if err := watcher.Close(); err != nil {
		t.Errorf("unexpected close error: %v", err)
	}
}
