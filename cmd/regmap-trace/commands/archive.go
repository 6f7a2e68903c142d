package commands

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/regmap-project/regmap-go/pkg/trace"
)

// importSummary reports what one file contributed to the archive.
type importSummary struct {
	Captures int
	Events   int
	Skipped  int
}

// RunArchiveImport imports the captures of the given trace files into the
// SQLite archive at dbPath. Captures already present are skipped unless
// replace is set.
func RunArchiveImport(dbPath string, files []string, replace bool, w io.Writer) error {
	store, err := NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer store.Close()

	for _, path := range files {
		summary, err := importFile(store, path, replace)
		if err != nil {
			return fmt.Errorf("failed to import %s: %w", path, err)
		}

		fmt.Fprintf(w, "Archived %d events in %d captures from %s\n",
			summary.Events, summary.Captures, path)
		if summary.Skipped > 0 {
			fmt.Fprintf(w, "Skipped %d already archived captures (use -replace to reimport)\n",
				summary.Skipped)
		}
	}

	return nil
}

// importFile reads one trace file and archives its captures.
func importFile(store *Store, path string, replace bool) (*importSummary, error) {
	reader, err := trace.NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	// Group events by capture, preserving file order within each capture
	var order []string
	byCapture := make(map[string][]trace.Event)

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read event: %w", err)
		}

		if _, ok := byCapture[event.CaptureID]; !ok {
			order = append(order, event.CaptureID)
		}
		byCapture[event.CaptureID] = append(byCapture[event.CaptureID], event)
	}

	summary := &importSummary{}

	for _, id := range order {
		events := byCapture[id]

		existing, err := store.GetCapture(id)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			if !replace {
				summary.Skipped++
				continue
			}
			if err := store.DeleteCapture(id); err != nil {
				return nil, err
			}
		}

		if err := archiveCapture(store, id, filepath.Base(path), events); err != nil {
			return nil, err
		}
		summary.Captures++
		summary.Events += len(events)
	}

	return summary, nil
}

// archiveCapture stores one capture's summary row and its events.
func archiveCapture(store *Store, id, sourceFile string, events []trace.Event) error {
	capture := &Capture{
		ID:         id,
		Role:       events[0].Role.String(),
		SourceFile: sourceFile,
		EventCount: len(events),
	}

	for _, event := range events {
		ts := event.Timestamp
		if capture.StartedAt == nil || ts.Before(*capture.StartedAt) {
			started := ts
			capture.StartedAt = &started
		}
		if capture.EndedAt == nil || ts.After(*capture.EndedAt) {
			ended := ts
			capture.EndedAt = &ended
		}
		if event.Space != "" && capture.Space == "" {
			capture.Space = event.Space
		}
		if event.Error != nil {
			capture.ErrorCount++
		}
	}

	if err := store.SaveCapture(capture); err != nil {
		return fmt.Errorf("failed to save capture %s: %w", id, err)
	}

	for _, event := range events {
		if err := store.AddEvent(id, event); err != nil {
			return fmt.Errorf("failed to archive event: %w", err)
		}
	}

	return nil
}

// RunArchiveList prints the archived captures.
func RunArchiveList(dbPath string, w io.Writer) error {
	store, err := NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer store.Close()

	captures, err := store.ListCaptures()
	if err != nil {
		return fmt.Errorf("failed to list captures: %w", err)
	}

	fmt.Fprintf(w, "Captures: %d\n", len(captures))
	if len(captures) == 0 {
		return nil
	}

	fmt.Fprintln(w)
	for _, c := range captures {
		fmt.Fprintf(w, "  [%s] %d events", shortenCaptureID(c.ID), c.EventCount)
		if c.Duration != "" {
			fmt.Fprintf(w, ", duration %s", c.Duration)
		}
		fmt.Fprintln(w)

		if c.Role != "" {
			fmt.Fprintf(w, "           Role: %s\n", c.Role)
		}
		if c.Space != "" {
			fmt.Fprintf(w, "           Space: %s\n", c.Space)
		}
		if c.SourceFile != "" {
			fmt.Fprintf(w, "           Source: %s\n", c.SourceFile)
		}
		if c.StartedAt != nil {
			fmt.Fprintf(w, "           Started: %s\n", c.StartedAt.Format(time.RFC3339))
		}
		if c.ErrorCount > 0 {
			fmt.Fprintf(w, "           Errors: %d\n", c.ErrorCount)
		}
	}

	return nil
}
