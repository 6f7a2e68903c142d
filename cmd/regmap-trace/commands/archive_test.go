package commands

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/regmap-project/regmap-go/pkg/trace"
)

// newTestStore creates an in-memory store for testing.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

func TestStoreSaveAndGetCapture(t *testing.T) {
	store := newTestStore(t)

	startedAt := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	endedAt := startedAt.Add(5 * time.Second)
	capture := &Capture{
		ID:         "cap-aaaa",
		Role:       "HOST",
		Space:      "pcieCapability",
		SourceFile: "session.rtrace",
		StartedAt:  &startedAt,
		EndedAt:    &endedAt,
		EventCount: 12,
		ErrorCount: 1,
	}

	if err := store.SaveCapture(capture); err != nil {
		t.Fatalf("failed to save capture: %v", err)
	}

	got, err := store.GetCapture("cap-aaaa")
	if err != nil {
		t.Fatalf("failed to get capture: %v", err)
	}
	if got == nil {
		t.Fatal("expected capture, got nil")
	}

	if got.ID != "cap-aaaa" {
		t.Errorf("expected ID cap-aaaa, got %s", got.ID)
	}
	if got.Role != "HOST" {
		t.Errorf("expected role HOST, got %s", got.Role)
	}
	if got.Space != "pcieCapability" {
		t.Errorf("expected space pcieCapability, got %s", got.Space)
	}
	if got.SourceFile != "session.rtrace" {
		t.Errorf("expected source session.rtrace, got %s", got.SourceFile)
	}
	if got.EventCount != 12 {
		t.Errorf("expected 12 events, got %d", got.EventCount)
	}
	if got.ErrorCount != 1 {
		t.Errorf("expected 1 error, got %d", got.ErrorCount)
	}
	if got.StartedAt == nil || !got.StartedAt.Equal(startedAt) {
		t.Errorf("expected started at %v, got %v", startedAt, got.StartedAt)
	}
	if got.Duration != "5s" {
		t.Errorf("expected 5s duration, got %s", got.Duration)
	}
}

func TestStoreGetCaptureNotFound(t *testing.T) {
	store := newTestStore(t)

	got, err := store.GetCapture("nonexistent")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for unknown capture, got %+v", got)
	}
}

func TestStoreListCapturesNewestFirst(t *testing.T) {
	store := newTestStore(t)

	older := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)

	if err := store.SaveCapture(&Capture{ID: "cap-old", StartedAt: &older}); err != nil {
		t.Fatalf("failed to save capture: %v", err)
	}
	if err := store.SaveCapture(&Capture{ID: "cap-new", StartedAt: &newer}); err != nil {
		t.Fatalf("failed to save capture: %v", err)
	}

	captures, err := store.ListCaptures()
	if err != nil {
		t.Fatalf("failed to list captures: %v", err)
	}
	if len(captures) != 2 {
		t.Fatalf("expected 2 captures, got %d", len(captures))
	}
	if captures[0].ID != "cap-new" {
		t.Errorf("expected newest capture first, got %s", captures[0].ID)
	}
}

func TestStoreAddAndGetEvents(t *testing.T) {
	store := newTestStore(t)

	if err := store.SaveCapture(&Capture{ID: "cap-aaaa"}); err != nil {
		t.Fatalf("failed to save capture: %v", err)
	}

	ts := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	events := []trace.Event{
		{
			Timestamp: ts,
			CaptureID: "cap-aaaa",
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
		{
			Timestamp: ts.Add(time.Second),
			CaptureID: "cap-aaaa",
			Kind:      trace.KindBus,
			Bus: &trace.BusEvent{
				Op:     trace.BusOpWrite,
				Offset: 0x10,
				Width:  16,
				Value:  0x10,
			},
		},
	}

	for _, event := range events {
		if err := store.AddEvent("cap-aaaa", event); err != nil {
			t.Fatalf("failed to add event: %v", err)
		}
	}

	got, err := store.GetEvents("cap-aaaa")
	if err != nil {
		t.Fatalf("failed to get events: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}

	// First event's access payload survives the round trip
	if got[0].Register != "linkControl" {
		t.Errorf("expected linkControl, got %s", got[0].Register)
	}
	if got[0].Access == nil {
		t.Fatal("expected access payload")
	}
	if got[0].Access.Field != "linkDisable" || got[0].Access.Value != 1 || got[0].Access.Raw != 0x10 {
		t.Errorf("access payload changed: %+v", got[0].Access)
	}

	// Insertion order preserved
	if got[1].Kind != trace.KindBus {
		t.Errorf("expected bus event second, got %v", got[1].Kind)
	}
	if got[1].Bus == nil || got[1].Bus.Offset != 0x10 {
		t.Errorf("bus payload changed: %+v", got[1].Bus)
	}
}

func TestStoreDeleteCaptureCascades(t *testing.T) {
	store := newTestStore(t)

	if err := store.SaveCapture(&Capture{ID: "cap-aaaa"}); err != nil {
		t.Fatalf("failed to save capture: %v", err)
	}
	event := trace.Event{
		Timestamp: time.Now(),
		CaptureID: "cap-aaaa",
		Kind:      trace.KindAccess,
		Access:    &trace.AccessEvent{Op: trace.AccessOpRead},
	}
	if err := store.AddEvent("cap-aaaa", event); err != nil {
		t.Fatalf("failed to add event: %v", err)
	}

	if err := store.DeleteCapture("cap-aaaa"); err != nil {
		t.Fatalf("failed to delete capture: %v", err)
	}

	got, err := store.GetCapture("cap-aaaa")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Error("expected capture deleted")
	}

	events, err := store.GetEvents("cap-aaaa")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected events deleted with capture, got %d", len(events))
	}
}

func TestStoreCountCaptures(t *testing.T) {
	store := newTestStore(t)

	count, err := store.CountCaptures()
	if err != nil {
		t.Fatalf("failed to count captures: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 captures, got %d", count)
	}

	if err := store.SaveCapture(&Capture{ID: "cap-aaaa"}); err != nil {
		t.Fatalf("failed to save capture: %v", err)
	}
	if err := store.SaveCapture(&Capture{ID: "cap-bbbb"}); err != nil {
		t.Fatalf("failed to save capture: %v", err)
	}

	count, err = store.CountCaptures()
	if err != nil {
		t.Fatalf("failed to count captures: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 captures, got %d", count)
	}
}

func archiveTestEvents() []trace.Event {
	base := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	return []trace.Event{
		{Timestamp: base, CaptureID: "cap-aaaa", Role: trace.RoleHost, Kind: trace.KindSession,
			Space: "pcieCapability", Session: &trace.SessionEvent{NewState: "connecting"}},
		{Timestamp: base.Add(time.Second), CaptureID: "cap-aaaa", Role: trace.RoleHost, Kind: trace.KindAccess,
			Register: "linkControl", Access: &trace.AccessEvent{Op: trace.AccessOpSet, Field: "linkDisable", Value: 1}},
		{Timestamp: base.Add(2 * time.Second), CaptureID: "cap-bbbb", Role: trace.RoleAgent, Kind: trace.KindBus,
			Bus: &trace.BusEvent{Op: trace.BusOpRead, Offset: 0x0C, Width: 32, Value: 0x0042_1403}},
	}
}

func TestArchiveImportAndList(t *testing.T) {
	path := createTestTraceFile(t, archiveTestEvents())
	dbPath := filepath.Join(t.TempDir(), "archive.db")

	var importBuf bytes.Buffer
	err := RunArchiveImport(dbPath, []string{path}, false, &importBuf)
	if err != nil {
		t.Fatalf("RunArchiveImport failed: %v", err)
	}
	if !strings.Contains(importBuf.String(), "Archived 3 events in 2 captures") {
		t.Errorf("expected import summary, got: %s", importBuf.String())
	}

	var listBuf bytes.Buffer
	if err := RunArchiveList(dbPath, &listBuf); err != nil {
		t.Fatalf("RunArchiveList failed: %v", err)
	}

	output := listBuf.String()
	if !strings.Contains(output, "Captures: 2") {
		t.Errorf("expected 2 captures, got: %s", output)
	}
	if !strings.Contains(output, "[cap-aaaa] 2 events") {
		t.Errorf("expected cap-aaaa summary, got: %s", output)
	}
	if !strings.Contains(output, "[cap-bbbb] 1 events") {
		t.Errorf("expected cap-bbbb summary, got: %s", output)
	}
	if !strings.Contains(output, "Role: HOST") {
		t.Errorf("expected capture role, got: %s", output)
	}
	if !strings.Contains(output, "Space: pcieCapability") {
		t.Errorf("expected capture space, got: %s", output)
	}
	if !strings.Contains(output, "Source: test.rtrace") {
		t.Errorf("expected source file name, got: %s", output)
	}
}

func TestArchiveImportSkipsExisting(t *testing.T) {
	path := createTestTraceFile(t, archiveTestEvents())
	dbPath := filepath.Join(t.TempDir(), "archive.db")

	var firstBuf bytes.Buffer
	if err := RunArchiveImport(dbPath, []string{path}, false, &firstBuf); err != nil {
		t.Fatalf("first import failed: %v", err)
	}

	var secondBuf bytes.Buffer
	if err := RunArchiveImport(dbPath, []string{path}, false, &secondBuf); err != nil {
		t.Fatalf("second import failed: %v", err)
	}

	output := secondBuf.String()
	if !strings.Contains(output, "Archived 0 events in 0 captures") {
		t.Errorf("expected nothing archived on reimport, got: %s", output)
	}
	if !strings.Contains(output, "Skipped 2 already archived captures") {
		t.Errorf("expected skip notice, got: %s", output)
	}
}

func TestArchiveImportReplace(t *testing.T) {
	path := createTestTraceFile(t, archiveTestEvents())
	dbPath := filepath.Join(t.TempDir(), "archive.db")

	var buf bytes.Buffer
	if err := RunArchiveImport(dbPath, []string{path}, false, &buf); err != nil {
		t.Fatalf("first import failed: %v", err)
	}

	var replaceBuf bytes.Buffer
	if err := RunArchiveImport(dbPath, []string{path}, true, &replaceBuf); err != nil {
		t.Fatalf("replace import failed: %v", err)
	}
	if !strings.Contains(replaceBuf.String(), "Archived 3 events in 2 captures") {
		t.Errorf("expected reimport with replace, got: %s", replaceBuf.String())
	}

	// No duplicate captures or events after the replace
	store, err := NewStore(dbPath)
	if err != nil {
		t.Fatalf("failed to open archive: %v", err)
	}
	defer store.Close()

	count, err := store.CountCaptures()
	if err != nil {
		t.Fatalf("failed to count captures: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 captures after replace, got %d", count)
	}

	events, err := store.GetEvents("cap-aaaa")
	if err != nil {
		t.Fatalf("failed to get events: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("expected 2 events after replace, got %d", len(events))
	}
}
