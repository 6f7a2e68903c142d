// Package trace provides structured access capture for register operations.
//
// This package defines the Recorder interface and Event types for capturing
// model, bus and session activity. It is separate from operational logging
// (slog) - access capture provides a complete machine-readable trace for
// debugging register interactions and analyzing device behavior.
//
// # Basic Usage
//
// Components that trace take a Recorder implementation:
//
//	// For development: print events via slog
//	rec := trace.NewSlogRecorder(slog.Default())
//
//	// For analysis: write to binary file
//	rec, _ := trace.NewFileRecorder("session.rtrace")
//
//	// Both: use MultiRecorder
//	rec := trace.NewMultiRecorder(
//	    trace.NewSlogRecorder(slog.Default()),
//	    fileRec,
//	)
//
// Wrap a bus to capture every raw transfer:
//
//	ibus := trace.NewInstrumentedBus(mem, rec, "pcieCapability")
//
// # Event Kinds
//
// Events are captured from three origins:
//   - Access: field and whole-register operations on the model (AccessEvent)
//   - Bus: raw reads and writes crossing a bus (BusEvent)
//   - Session: remote connection lifecycle (SessionEvent)
//
// Errors that are not outcomes of a single access have a dedicated kind.
//
// # File Format
//
// Trace files use CBOR encoding with .rtrace extension. The regmap-trace CLI
// tool provides viewing, filtering, stats and export capabilities.
package trace
