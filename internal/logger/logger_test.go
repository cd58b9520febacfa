package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"
)

// capture redirects log output to a buffer for the duration of the test.
func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(os.Stdout)
		SetLevel(slog.LevelInfo)
	})
	return &buf
}

func TestInfo_JSONOutput(t *testing.T) {
	buf := capture(t)

	Info("hello", "key", "value")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%s)", err, buf.String())
	}
	if entry["msg"] != "hello" {
		t.Errorf("expected msg hello, got %v", entry["msg"])
	}
	if entry["key"] != "value" {
		t.Errorf("expected key=value, got %v", entry["key"])
	}
	if entry["level"] != "INFO" {
		t.Errorf("expected level INFO, got %v", entry["level"])
	}
}

func TestSetLevel_FiltersDebug(t *testing.T) {
	buf := capture(t)

	Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("expected debug suppressed at info level, got %q", buf.String())
	}

	SetLevel(slog.LevelDebug)
	Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("expected debug emitted at debug level, got %q", buf.String())
	}
}

func TestWithBatch(t *testing.T) {
	buf := capture(t)

	WithBatch("card-classifier").Info("processing")

	if !strings.Contains(buf.String(), `"batch_name":"card-classifier"`) {
		t.Errorf("expected batch_name field, got %q", buf.String())
	}
}

func TestWithStage(t *testing.T) {
	buf := capture(t)

	WithStage("card-classifier", "guard").Info("applied")

	output := buf.String()
	if !strings.Contains(output, `"stage":"guard"`) {
		t.Errorf("expected stage field, got %q", output)
	}
}

func TestLogBatchStartEnd(t *testing.T) {
	buf := capture(t)

	LogBatchStart("card-classifier", 3)
	LogBatchEnd("card-classifier", "partial", 2, 1, 5*time.Millisecond)

	output := buf.String()
	if !strings.Contains(output, "batch processing started") {
		t.Errorf("missing start log: %q", output)
	}
	if !strings.Contains(output, "batch processing completed") {
		t.Errorf("missing end log: %q", output)
	}
	if !strings.Contains(output, `"status":"partial"`) {
		t.Errorf("missing status field: %q", output)
	}
}
