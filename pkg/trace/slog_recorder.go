package trace

import (
	"context"
	"log/slog"
)

// SlogRecorder writes trace events to an slog.Logger.
// Useful for development when you want to see register activity in console.
type SlogRecorder struct {
	logger *slog.Logger
}

// NewSlogRecorder creates a new SlogRecorder that writes to the given slog.Logger.
func NewSlogRecorder(logger *slog.Logger) *SlogRecorder {
	return &SlogRecorder{logger: logger}
}

// Record writes the event to the slog logger at Debug level.
func (a *SlogRecorder) Record(event Event) {
	attrs := []slog.Attr{
		slog.String("capture_id", event.CaptureID),
		slog.String("role", event.Role.String()),
		slog.String("kind", event.Kind.String()),
	}

	// Add optional identifiers
	if event.Space != "" {
		attrs = append(attrs, slog.String("space", event.Space))
	}
	if event.Register != "" {
		attrs = append(attrs, slog.String("register", event.Register))
	}
	if event.Peer != "" {
		attrs = append(attrs, slog.String("peer", event.Peer))
	}

	// Add type-specific attributes
	switch {
	case event.Access != nil:
		attrs = append(attrs,
			slog.String("op", event.Access.Op.String()),
			slog.Uint64("value", uint64(event.Access.Value)),
			slog.Uint64("raw", uint64(event.Access.Raw)),
		)
		if event.Access.Field != "" {
			attrs = append(attrs, slog.String("field", event.Access.Field))
		}
		if event.Access.Err != "" {
			attrs = append(attrs, slog.String("err", event.Access.Err))
		}
	case event.Bus != nil:
		attrs = append(attrs,
			slog.String("op", event.Bus.Op.String()),
			slog.Uint64("offset", event.Bus.Offset),
			slog.Uint64("width", uint64(event.Bus.Width)),
			slog.Uint64("value", uint64(event.Bus.Value)),
		)
		if event.Bus.Err != "" {
			attrs = append(attrs, slog.String("err", event.Bus.Err))
		}
		if event.Bus.Elapsed != nil {
			attrs = append(attrs, slog.Duration("elapsed", *event.Bus.Elapsed))
		}
	case event.Session != nil:
		attrs = append(attrs,
			slog.String("old_state", event.Session.OldState),
			slog.String("new_state", event.Session.NewState),
		)
		if event.Session.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.Session.Reason))
		}
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("error_msg", event.Error.Message),
			slog.String("error_context", event.Error.Context),
		)
		if event.Error.Code != nil {
			attrs = append(attrs, slog.Int("error_code", *event.Error.Code))
		}
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "trace", attrs...)
}

// Compile-time interface satisfaction check.
var _ Recorder = (*SlogRecorder)(nil)
