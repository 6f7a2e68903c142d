package trace

// MultiRecorder sends events to multiple recorders.
// Useful when you want both console output (via SlogRecorder)
// and file output (via FileRecorder) simultaneously.
type MultiRecorder struct {
	recorders []Recorder
}

// NewMultiRecorder creates a MultiRecorder that sends events to all provided recorders.
func NewMultiRecorder(recorders ...Recorder) *MultiRecorder {
	return &MultiRecorder{recorders: recorders}
}

// Record sends the event to all configured recorders.
func (m *MultiRecorder) Record(event Event) {
	for _, r := range m.recorders {
		r.Record(event)
	}
}

// Compile-time interface satisfaction check.
var _ Recorder = (*MultiRecorder)(nil)
