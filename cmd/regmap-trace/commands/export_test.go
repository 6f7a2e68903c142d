package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/regmap-project/regmap-go/pkg/trace"
)

func createTestTraceFile(t *testing.T, events []trace.Event) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.rtrace")

	recorder, err := trace.NewFileRecorder(path)
	if err != nil {
		t.Fatalf("failed to create recorder: %v", err)
	}

	for _, e := range events {
		recorder.Record(e)
	}
	recorder.Close()

	return path
}

func TestExportToJSONL(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 123456000, time.UTC)
	events := []trace.Event{
		{
			Timestamp: ts,
			CaptureID: "abc12345",
			Role:      trace.RoleHost,
			Kind:      trace.KindAccess,
			Register:  "linkControl",
			Access: &trace.AccessEvent{
				Op:    trace.AccessOpSet,
				Field: "linkDisable",
				Value: 1,
				Raw:   0x10,
			},
		},
		{
			Timestamp: ts.Add(time.Second),
			CaptureID: "abc12345",
			Role:      trace.RoleHost,
			Kind:      trace.KindBus,
			Bus: &trace.BusEvent{
				Op:     trace.BusOpWrite,
				Offset: 0x10,
				Width:  16,
				Value:  0x10,
			},
		},
	}

	path := createTestTraceFile(t, events)

	// Export to JSONL via temp file
	outPath := filepath.Join(t.TempDir(), "out.jsonl")
	err := RunExport(path, "jsonl", outPath)
	if err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	// Read and verify
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Errorf("expected 2 lines, got %d", len(lines))
	}

	// Parse first line
	var event1 map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &event1); err != nil {
		t.Errorf("failed to parse line 1: %v", err)
	}
	if event1["CaptureID"] != "abc12345" {
		t.Errorf("expected CaptureID abc12345, got %v", event1["CaptureID"])
	}
	if event1["Register"] != "linkControl" {
		t.Errorf("expected Register linkControl, got %v", event1["Register"])
	}
}

func TestExportToCSV(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 0, time.UTC)
	events := []trace.Event{
		{
			Timestamp: ts,
			CaptureID: "abc12345",
			Role:      trace.RoleHost,
			Kind:      trace.KindAccess,
			Space:     "pcieCapability",
			Register:  "linkControl",
			Access: &trace.AccessEvent{
				Op:    trace.AccessOpSet,
				Field: "linkDisable",
				Value: 1,
				Raw:   0x10,
			},
		},
	}

	path := createTestTraceFile(t, events)

	outPath := filepath.Join(t.TempDir(), "out.csv")
	err := RunExport(path, "csv", outPath)
	if err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	// Check header
	if !strings.HasPrefix(string(data), "timestamp,capture_id,role,kind,space,register") {
		t.Errorf("expected CSV header, got: %s", string(data))
	}

	// Check data row
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + data row, got %d lines", len(lines))
	}
	if !strings.Contains(lines[1], "linkControl") {
		t.Errorf("expected register in data row, got: %s", lines[1])
	}
	if !strings.Contains(lines[1], "SET") {
		t.Errorf("expected op in data row, got: %s", lines[1])
	}
	if !strings.Contains(lines[1], "0x1") {
		t.Errorf("expected value in data row, got: %s", lines[1])
	}
}

func TestExportCSVDeniedAccess(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 0, time.UTC)
	events := []trace.Event{
		{
			Timestamp: ts,
			CaptureID: "abc12345",
			Kind:      trace.KindAccess,
			Register:  "linkControl",
			Access: &trace.AccessEvent{
				Op:    trace.AccessOpSet,
				Field: "rootCompletionBoundary",
				Value: 1,
				Err:   "field is not writable",
			},
		},
	}

	path := createTestTraceFile(t, events)

	outPath := filepath.Join(t.TempDir(), "out.csv")
	if err := RunExport(path, "csv", outPath); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	if !strings.Contains(string(data), "field is not writable") {
		t.Errorf("expected error column in output, got: %s", string(data))
	}
}

func TestExportWritesToStdout(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 0, time.UTC)
	events := []trace.Event{
		{
			Timestamp: ts,
			CaptureID: "abc12345",
			Kind:      trace.KindBus,
			Bus:       &trace.BusEvent{Op: trace.BusOpRead, Offset: 0x0C, Width: 32},
		},
	}

	path := createTestTraceFile(t, events)

	// Capture stdout
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := RunExport(path, "jsonl", "") // empty output means stdout

	w.Close()
	os.Stdout = oldStdout

	if err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	var buf bytes.Buffer
	buf.ReadFrom(r)

	if buf.Len() == 0 {
		t.Error("expected output to stdout")
	}
}

func TestExportUnknownFormat(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 0, time.UTC)
	events := []trace.Event{
		{
			Timestamp: ts,
			CaptureID: "abc12345",
			Bus:       &trace.BusEvent{Op: trace.BusOpRead},
		},
	}

	path := createTestTraceFile(t, events)
	outPath := filepath.Join(t.TempDir(), "out.xml")

	err := RunExport(path, "xml", outPath)
	if err == nil {
		t.Error("expected error for unknown format")
	}
	if !strings.Contains(err.Error(), "unknown format") {
		t.Errorf("expected 'unknown format' error, got: %v", err)
	}
}
