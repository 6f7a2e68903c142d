// Package commands implements the regmap-trace CLI commands.
package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/regmap-project/regmap-go/pkg/trace"
)

// ViewFilter specifies criteria for filtering events in the view command.
type ViewFilter struct {
	Kind     *trace.Kind
	Role     *trace.Role
	Register string
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event trace.Event) {
	// Header line: timestamp [cap:id] ROLE KIND Op
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	capID := shortenCaptureID(event.CaptureID)

	// Determine event type label
	var typeLabel string
	switch {
	case event.Access != nil:
		typeLabel = event.Access.Op.String()
	case event.Bus != nil:
		typeLabel = event.Bus.Op.String()
	case event.Session != nil:
		typeLabel = "State"
	case event.Error != nil:
		typeLabel = "Error"
	default:
		typeLabel = "Unknown"
	}

	fmt.Fprintf(w, "%s [cap:%s] %-5s %s %s\n", ts, capID, event.Role.String(), event.Kind.String(), typeLabel)

	// Type-specific details
	switch {
	case event.Access != nil:
		formatAccessDetails(w, event)
	case event.Bus != nil:
		formatBusDetails(w, event.Bus)
	case event.Session != nil:
		formatSessionDetails(w, event)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w) // Blank line between events
}

// shortenCaptureID returns the first 8 characters of the capture ID.
func shortenCaptureID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

// registerPath joins space and register names for display.
func registerPath(space, register string) string {
	if space != "" && register != "" {
		return space + "/" + register
	}
	if register != "" {
		return register
	}
	return space
}

// formatAccessDetails writes model-level access details.
func formatAccessDetails(w io.Writer, event trace.Event) {
	acc := event.Access

	if path := registerPath(event.Space, event.Register); path != "" {
		fmt.Fprintf(w, "  Register: %s\n", path)
	}
	if acc.Field != "" {
		fmt.Fprintf(w, "  Field: %s\n", acc.Field)
	}
	fmt.Fprintf(w, "  Value: 0x%X\n", acc.Value)
	fmt.Fprintf(w, "  Raw: 0x%X\n", acc.Raw)
	if acc.Err != "" {
		fmt.Fprintf(w, "  Error: %s\n", acc.Err)
	}
}

// formatBusDetails writes raw bus transfer details.
func formatBusDetails(w io.Writer, bus *trace.BusEvent) {
	fmt.Fprintf(w, "  Offset: 0x%02X\n", bus.Offset)
	fmt.Fprintf(w, "  Width: %d bits\n", bus.Width)
	if bus.Err == "" {
		fmt.Fprintf(w, "  Value: 0x%0*X\n", int(bus.Width)/4, bus.Value)
	}
	if bus.Elapsed != nil {
		fmt.Fprintf(w, "  Elapsed: %s\n", formatDuration(*bus.Elapsed))
	}
	if bus.Err != "" {
		fmt.Fprintf(w, "  Error: %s\n", bus.Err)
	}
}

// formatSessionDetails writes session lifecycle details.
func formatSessionDetails(w io.Writer, event trace.Event) {
	sess := event.Session

	if event.Peer != "" {
		fmt.Fprintf(w, "  Peer: %s\n", event.Peer)
	}
	if sess.OldState != "" {
		fmt.Fprintf(w, "  %s -> %s\n", sess.OldState, sess.NewState)
	} else {
		fmt.Fprintf(w, "  -> %s\n", sess.NewState)
	}
	if sess.Reason != "" {
		fmt.Fprintf(w, "  Reason: %s\n", sess.Reason)
	}
}

// formatErrorDetails writes error details.
func formatErrorDetails(w io.Writer, errData *trace.ErrorData) {
	fmt.Fprintf(w, "  Message: %s\n", errData.Message)
	if errData.Code != nil {
		fmt.Fprintf(w, "  Code: %d\n", *errData.Code)
	}
	if errData.Context != "" {
		fmt.Fprintf(w, "  Context: %s\n", errData.Context)
	}
}

// formatDuration formats a duration for display.
func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%.3fus", float64(d.Nanoseconds())/1000)
	}
	if d < time.Second {
		return fmt.Sprintf("%.3fms", float64(d.Microseconds())/1000)
	}
	return fmt.Sprintf("%.3fs", d.Seconds())
}

// ParseKindFlag parses an event kind from a command-line flag (case-insensitive).
func ParseKindFlag(s string) (trace.Kind, error) {
	return parseKind(s)
}

// parseKind parses an event kind string (case-insensitive).
func parseKind(s string) (trace.Kind, error) {
	switch strings.ToLower(s) {
	case "access":
		return trace.KindAccess, nil
	case "bus":
		return trace.KindBus, nil
	case "session":
		return trace.KindSession, nil
	case "error":
		return trace.KindError, nil
	default:
		return 0, fmt.Errorf("invalid kind: %s (must be access, bus, session, or error)", s)
	}
}

// ParseRoleFlag parses a role from a command-line flag (case-insensitive).
func ParseRoleFlag(s string) (trace.Role, error) {
	return parseRole(s)
}

// parseRole parses a role string (case-insensitive).
func parseRole(s string) (trace.Role, error) {
	switch strings.ToLower(s) {
	case "host":
		return trace.RoleHost, nil
	case "agent":
		return trace.RoleAgent, nil
	default:
		return 0, fmt.Errorf("invalid role: %s (must be host or agent)", s)
	}
}

// RunView executes the view command.
func RunView(path string, filter ViewFilter, output io.Writer) error {
	reader, err := trace.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		// Apply filter
		if filter.Kind != nil && event.Kind != *filter.Kind {
			continue
		}
		if filter.Role != nil && event.Role != *filter.Role {
			continue
		}
		if filter.Register != "" && event.Register != filter.Register {
			continue
		}

		formatEvent(output, event)
	}

	return nil
}
