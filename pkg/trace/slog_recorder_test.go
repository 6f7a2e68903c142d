package trace

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestSlogRecorderLogsAccessEvent(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	slogger := slog.New(handler)

	rec := NewSlogRecorder(slogger)

	rec.Record(Event{
		Timestamp: time.Now(),
		CaptureID: "cap-123",
		Role:      RoleHost,
		Kind:      KindAccess,
		Space:     "pcieCapability",
		Register:  "linkControl",
		Access: &AccessEvent{
			Op:    AccessOpSet,
			Field: "linkDisable",
			Value: 1,
			Raw:   0b10000,
		},
	})

	output := buf.String()
	if output == "" {
		t.Fatal("no output produced")
	}

	// Parse JSON log entry
	var logEntry map[string]any
	if err := json.Unmarshal([]byte(output), &logEntry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}

	// Verify key fields
	if logEntry["capture_id"] != "cap-123" {
		t.Errorf("capture_id: got %v, want %q", logEntry["capture_id"], "cap-123")
	}
	if logEntry["kind"] != "ACCESS" {
		t.Errorf("kind: got %v, want %q", logEntry["kind"], "ACCESS")
	}
	if logEntry["register"] != "linkControl" {
		t.Errorf("register: got %v, want %q", logEntry["register"], "linkControl")
	}
	if logEntry["op"] != "SET" {
		t.Errorf("op: got %v, want %q", logEntry["op"], "SET")
	}
	if logEntry["field"] != "linkDisable" {
		t.Errorf("field: got %v, want %q", logEntry["field"], "linkDisable")
	}
	if logEntry["raw"] != float64(0b10000) {
		t.Errorf("raw: got %v, want %v", logEntry["raw"], 0b10000)
	}
}

func TestSlogRecorderLogsBusEvent(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	slogger := slog.New(handler)

	rec := NewSlogRecorder(slogger)

	elapsed := 15 * time.Microsecond
	rec.Record(Event{
		Timestamp: time.Now(),
		CaptureID: "cap-456",
		Role:      RoleAgent,
		Kind:      KindBus,
		Space:     "pcieCapability",
		Bus: &BusEvent{
			Op:      BusOpRead,
			Offset:  0x0C,
			Width:   32,
			Value:   0xDEADBEEF,
			Elapsed: &elapsed,
		},
	})

	output := buf.String()
	if output == "" {
		t.Fatal("no output produced")
	}

	var logEntry map[string]any
	if err := json.Unmarshal([]byte(output), &logEntry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}

	if logEntry["kind"] != "BUS" {
		t.Errorf("kind: got %v, want %q", logEntry["kind"], "BUS")
	}
	if logEntry["op"] != "READ" {
		t.Errorf("op: got %v, want %q", logEntry["op"], "READ")
	}
	if logEntry["offset"] != float64(0x0C) {
		t.Errorf("offset: got %v, want %v", logEntry["offset"], 0x0C)
	}
	if logEntry["value"] != float64(0xDEADBEEF) {
		t.Errorf("value: got %v, want %v", logEntry["value"], uint32(0xDEADBEEF))
	}
}

func TestSlogRecorderIncludesCaptureID(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	slogger := slog.New(handler)

	rec := NewSlogRecorder(slogger)

	rec.Record(Event{
		Timestamp: time.Now(),
		CaptureID: "abc12345-def6-7890",
		Kind:      KindSession,
		Session: &SessionEvent{
			NewState: "connected",
		},
	})

	output := buf.String()
	if !strings.Contains(output, "abc12345-def6-7890") {
		t.Error("output does not contain capture ID")
	}
}
