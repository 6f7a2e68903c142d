package trace

import "time"

// Event represents one captured trace event.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// CaptureID uniquely identifies the capture session (UUID).
	CaptureID string `cbor:"2,keyasint"`

	// Role indicates whether the local side drives registers or serves them.
	Role Role `cbor:"3,keyasint"`

	// Kind classifies the event type.
	Kind Kind `cbor:"4,keyasint"`

	// Space is the register space name, when known.
	Space string `cbor:"5,keyasint,omitempty"`

	// Register is the register name, for model-level events.
	Register string `cbor:"6,keyasint,omitempty"`

	// Peer is the remote address for session-scoped events.
	Peer string `cbor:"7,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Access  *AccessEvent  `cbor:"10,keyasint,omitempty"` // Model layer
	Bus     *BusEvent     `cbor:"11,keyasint,omitempty"` // Bus layer
	Session *SessionEvent `cbor:"12,keyasint,omitempty"` // Remote lifecycle
	Error   *ErrorData    `cbor:"13,keyasint,omitempty"` // Faults at any layer
}

// Kind classifies the event type.
type Kind uint8

const (
	// KindAccess indicates a field or whole-register operation.
	KindAccess Kind = 0
	// KindBus indicates a raw bus transfer.
	KindBus Kind = 1
	// KindSession indicates a remote session lifecycle change.
	KindSession Kind = 2
	// KindError indicates a fault event.
	KindError Kind = 3
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindAccess:
		return "ACCESS"
	case KindBus:
		return "BUS"
	case KindSession:
		return "SESSION"
	case KindError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Role indicates which side of a register space the local process is.
type Role uint8

const (
	// RoleHost indicates the side driving registers (shell, tooling).
	RoleHost Role = 0
	// RoleAgent indicates the side serving registers (device agent).
	RoleAgent Role = 1
)

// String returns the role name.
func (r Role) String() string {
	switch r {
	case RoleHost:
		return "HOST"
	case RoleAgent:
		return "AGENT"
	default:
		return "UNKNOWN"
	}
}

// AccessEvent captures a model-level register operation.
type AccessEvent struct {
	// Op is the operation performed.
	Op AccessOp `cbor:"1,keyasint"`

	// Field is the field name for field-level operations.
	Field string `cbor:"2,keyasint,omitempty"`

	// Value is the value read or written.
	Value uint32 `cbor:"3,keyasint"`

	// Raw is the whole register value after the operation.
	Raw uint32 `cbor:"4,keyasint"`

	// Err is the failure, for denied or rejected operations.
	Err string `cbor:"5,keyasint,omitempty"`
}

// AccessOp identifies a model-level operation.
type AccessOp uint8

const (
	// AccessOpGet indicates a field read.
	AccessOpGet AccessOp = 0
	// AccessOpSet indicates a field write.
	AccessOpSet AccessOp = 1
	// AccessOpRead indicates a whole-register read.
	AccessOpRead AccessOp = 2
	// AccessOpWrite indicates a whole-register write.
	AccessOpWrite AccessOp = 3
	// AccessOpClear indicates a whole-register clear.
	AccessOpClear AccessOp = 4
)

// String returns the operation name.
func (o AccessOp) String() string {
	switch o {
	case AccessOpGet:
		return "GET"
	case AccessOpSet:
		return "SET"
	case AccessOpRead:
		return "READ"
	case AccessOpWrite:
		return "WRITE"
	case AccessOpClear:
		return "CLEAR"
	default:
		return "UNKNOWN"
	}
}

// BusEvent captures a raw transfer crossing a bus.
type BusEvent struct {
	// Op is the transfer direction.
	Op BusOp `cbor:"1,keyasint"`

	// Offset is the register offset on the bus.
	Offset uint64 `cbor:"2,keyasint"`

	// Width is the access width in bits (16 or 32).
	Width uint8 `cbor:"3,keyasint"`

	// Value is the value transferred.
	Value uint32 `cbor:"4,keyasint"`

	// Err is the bus failure, if the transfer did not complete.
	Err string `cbor:"5,keyasint,omitempty"`

	// Elapsed is the transfer duration. Stored as nanoseconds.
	Elapsed *time.Duration `cbor:"6,keyasint,omitempty"`
}

// BusOp identifies the bus transfer direction.
type BusOp uint8

const (
	// BusOpRead indicates a bus read.
	BusOpRead BusOp = 0
	// BusOpWrite indicates a bus write.
	BusOpWrite BusOp = 1
)

// String returns the bus operation name.
func (o BusOp) String() string {
	switch o {
	case BusOpRead:
		return "READ"
	case BusOpWrite:
		return "WRITE"
	default:
		return "UNKNOWN"
	}
}

// SessionEvent captures remote connection lifecycle changes.
type SessionEvent struct {
	// OldState is the previous state (may be empty).
	OldState string `cbor:"1,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"2,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"3,keyasint,omitempty"`
}

// ErrorData captures faults that are not the outcome of a single access.
type ErrorData struct {
	// Message is the error message.
	Message string `cbor:"1,keyasint"`

	// Context describes what operation was being performed.
	Context string `cbor:"2,keyasint,omitempty"`

	// Code is the protocol status code (if applicable).
	Code *int `cbor:"3,keyasint,omitempty"`
}
