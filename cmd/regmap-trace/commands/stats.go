package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/regmap-project/regmap-go/pkg/trace"
)

// Stats holds aggregate statistics about a trace file.
type Stats struct {
	TotalEvents  int
	EventsByKind map[trace.Kind]int
	EventsByRole map[trace.Role]int
	Registers    map[string]int
	Captures     map[string]*CaptureStats
	Denied       int
	Errors       int
	TimeRange    struct {
		Start time.Time
		End   time.Time
	}
}

// CaptureStats holds statistics for a single capture session.
type CaptureStats struct {
	FirstSeen time.Time
	LastSeen  time.Time
	Events    int
	Space     string
	Peer      string
}

// RunStats analyzes the trace file and prints statistics.
func RunStats(path string, w io.Writer) error {
	reader, err := trace.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByKind: make(map[trace.Kind]int),
		EventsByRole: make(map[trace.Role]int),
		Registers:    make(map[string]int),
		Captures:     make(map[string]*CaptureStats),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		stats.TotalEvents++
		stats.EventsByKind[event.Kind]++
		stats.EventsByRole[event.Role]++

		// Track time range
		if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = event.Timestamp
		}
		if event.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = event.Timestamp
		}

		// Track per-register access counts
		if event.Register != "" {
			stats.Registers[registerPath(event.Space, event.Register)]++
		}

		// Track capture stats
		capture, ok := stats.Captures[event.CaptureID]
		if !ok {
			capture = &CaptureStats{
				FirstSeen: event.Timestamp,
				LastSeen:  event.Timestamp,
			}
			stats.Captures[event.CaptureID] = capture
		}
		capture.Events++
		if event.Timestamp.After(capture.LastSeen) {
			capture.LastSeen = event.Timestamp
		}
		if event.Space != "" && capture.Space == "" {
			capture.Space = event.Space
		}
		if event.Peer != "" && capture.Peer == "" {
			capture.Peer = event.Peer
		}

		// Count denied accesses
		if event.Access != nil && event.Access.Err != "" {
			stats.Denied++
		}

		// Count errors
		if event.Error != nil {
			stats.Errors++
		}
	}

	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Register Trace Statistics ===")
	fmt.Fprintln(w)

	// Time range
	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	// Total events
	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	// Events by kind
	fmt.Fprintln(w, "Events by Kind:")
	for _, kind := range []trace.Kind{trace.KindAccess, trace.KindBus, trace.KindSession, trace.KindError} {
		if count := stats.EventsByKind[kind]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", kind.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	// Events by role
	fmt.Fprintln(w, "Events by Role:")
	for _, role := range []trace.Role{trace.RoleHost, trace.RoleAgent} {
		if count := stats.EventsByRole[role]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", role.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	// Registers, most accessed first
	if len(stats.Registers) > 0 {
		fmt.Fprintln(w, "Registers:")
		type registerCount struct {
			name  string
			count int
		}
		registers := make([]registerCount, 0, len(stats.Registers))
		for name, count := range stats.Registers {
			registers = append(registers, registerCount{name, count})
		}
		sort.Slice(registers, func(i, j int) bool {
			if registers[i].count != registers[j].count {
				return registers[i].count > registers[j].count
			}
			return registers[i].name < registers[j].name
		})
		for _, r := range registers {
			fmt.Fprintf(w, "  %-36s %d\n", r.name+":", r.count)
		}
		fmt.Fprintln(w)
	}

	// Captures
	fmt.Fprintf(w, "Captures: %d\n", len(stats.Captures))
	if len(stats.Captures) > 0 {
		// Sort by first seen time
		type captureInfo struct {
			id    string
			stats *CaptureStats
		}
		captures := make([]captureInfo, 0, len(stats.Captures))
		for id, cs := range stats.Captures {
			captures = append(captures, captureInfo{id, cs})
		}
		sort.Slice(captures, func(i, j int) bool {
			return captures[i].stats.FirstSeen.Before(captures[j].stats.FirstSeen)
		})

		fmt.Fprintln(w, "")
		for _, c := range captures {
			duration := c.stats.LastSeen.Sub(c.stats.FirstSeen).Round(time.Millisecond)
			fmt.Fprintf(w, "  [%s] %d events, duration %s\n", shortenCaptureID(c.id), c.stats.Events, duration)
			if c.stats.Space != "" {
				fmt.Fprintf(w, "           Space: %s\n", c.stats.Space)
			}
			if c.stats.Peer != "" {
				fmt.Fprintf(w, "           Peer: %s\n", c.stats.Peer)
			}
		}
	}

	// Denied accesses and errors
	if stats.Denied > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Denied Accesses: %d\n", stats.Denied)
	}
	if stats.Errors > 0 {
		if stats.Denied == 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "Errors: %d\n", stats.Errors)
	}
}
