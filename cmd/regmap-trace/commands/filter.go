package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/regmap-project/regmap-go/pkg/trace"
)

// FilterOptions specifies filtering criteria for the filter command.
type FilterOptions struct {
	Output     string
	CaptureID  string
	Space      string
	Register   string
	Field      string
	DeniedOnly bool
	TimeStart  string
	TimeEnd    string
	Kind       string
	Role       string
}

// RunFilter filters the trace file and writes matching events to a new file.
func RunFilter(path string, opts FilterOptions) error {
	// Build filter
	filter := trace.Filter{
		CaptureID:  opts.CaptureID,
		Space:      opts.Space,
		Register:   opts.Register,
		Field:      opts.Field,
		DeniedOnly: opts.DeniedOnly,
	}

	if opts.TimeStart != "" {
		t, err := time.Parse(time.RFC3339, opts.TimeStart)
		if err != nil {
			return fmt.Errorf("invalid time-start format: %w", err)
		}
		filter.TimeStart = &t
	}

	if opts.TimeEnd != "" {
		t, err := time.Parse(time.RFC3339, opts.TimeEnd)
		if err != nil {
			return fmt.Errorf("invalid time-end format: %w", err)
		}
		filter.TimeEnd = &t
	}

	if opts.Kind != "" {
		k, err := parseKind(opts.Kind)
		if err != nil {
			return err
		}
		filter.Kind = &k
	}

	if opts.Role != "" {
		r, err := parseRole(opts.Role)
		if err != nil {
			return err
		}
		filter.Role = &r
	}

	// Open input
	reader, err := trace.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	// Create file recorder to write filtered events
	recorder, err := trace.NewFileRecorder(opts.Output)
	if err != nil {
		return fmt.Errorf("failed to create output recorder: %w", err)
	}
	defer recorder.Close()

	count := 0
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		recorder.Record(event)
		count++
	}

	fmt.Printf("Filtered %d events to %s\n", count, opts.Output)
	return nil
}
