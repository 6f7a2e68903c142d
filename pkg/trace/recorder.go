package trace

// Recorder is the interface components implement to receive trace events.
// Pass nil or NoopRecorder to disable capture.
type Recorder interface {
	// Record captures a trace event. Implementations must be thread-safe.
	// The event should be processed quickly or queued; blocking affects performance.
	Record(event Event)
}

// NoopRecorder discards all events. Use when capture is disabled.
// NoopRecorder is safe for concurrent use and usable as a zero value.
type NoopRecorder struct{}

// Record discards the event.
func (NoopRecorder) Record(Event) {}

// Compile-time interface satisfaction check.
var _ Recorder = NoopRecorder{}
