package remote

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/regmap-project/regmap-go/pkg/bus"
	"github.com/regmap-project/regmap-go/pkg/register"
)

// encMode is the CBOR encoder mode for wire messages.
// Configured for deterministic encoding with integer keys.
var encMode cbor.EncMode

// decMode is the CBOR decoder mode for wire messages.
var decMode cbor.DecMode

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeUnix,
	}
	encMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create CBOR encoder mode: %v", err))
	}

	// Lenient decoding for forward compatibility
	decOpts := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyQuiet,
		IndefLength:       cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}
	decMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create CBOR decoder mode: %v", err))
	}
}

// Marshal encodes a value to CBOR bytes.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes CBOR bytes into a value.
func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}

// Op identifies a request operation.
type Op uint8

const (
	// OpRead returns the raw value of the register at an offset.
	OpRead Op = 1

	// OpWrite replaces the raw value of the register at an offset.
	OpWrite Op = 2

	// OpList returns the served space's registers.
	OpList Op = 3
)

// String returns the operation name.
func (o Op) String() string {
	switch o {
	case OpRead:
		return "Read"
	case OpWrite:
		return "Write"
	case OpList:
		return "List"
	default:
		return "Unknown"
	}
}

// IsValid returns true if the operation is a known operation.
func (o Op) IsValid() bool {
	return o >= OpRead && o <= OpList
}

// Request is a register operation sent from client to agent.
//
// CBOR encoding:
//
//	{
//	  1: op,      // uint8: 1=Read, 2=Write, 3=List
//	  2: id,      // uint32: echoed in the response
//	  3: offset,  // uint64: register byte offset (Read/Write)
//	  4: width,   // uint8: expected register width in bits (Read/Write)
//	  5: value    // uint32: value to store (Write)
//	}
type Request struct {
	Op     Op     `cbor:"1,keyasint"`
	ID     uint32 `cbor:"2,keyasint"`
	Offset uint64 `cbor:"3,keyasint,omitempty"`
	Width  uint8  `cbor:"4,keyasint,omitempty"`
	Value  uint32 `cbor:"5,keyasint,omitempty"`
}

// Validate checks if the request is valid.
func (r *Request) Validate() error {
	if !r.Op.IsValid() {
		return fmt.Errorf("invalid operation: %d", r.Op)
	}
	return nil
}

// Response answers a request.
//
// CBOR encoding:
//
//	{
//	  1: id,       // uint32: matches the request
//	  2: status,   // uint8: 0=ok, or error code
//	  3: value,    // uint32: raw register value (Read)
//	  4: detail,   // string: human-readable error context
//	  5: entries   // array: served registers (List)
//	}
type Response struct {
	ID      uint32      `cbor:"1,keyasint"`
	Status  Status      `cbor:"2,keyasint"`
	Value   uint32      `cbor:"3,keyasint,omitempty"`
	Detail  string      `cbor:"4,keyasint,omitempty"`
	Entries []ListEntry `cbor:"5,keyasint,omitempty"`
}

// ListEntry describes one register of a served space.
type ListEntry struct {
	Offset uint64 `cbor:"1,keyasint"`
	Width  uint8  `cbor:"2,keyasint"`
	Name   string `cbor:"3,keyasint"`
}

// Hello opens a connection. A non-empty Nonce requests the
// authentication rounds described in the session documentation.
//
// CBOR encoding:
//
//	{
//	  1: protocol,  // string: e.g. "regmap/1"
//	  2: nonce      // bytes: client nonce, present iff the client authenticates
//	}
type Hello struct {
	Protocol string `cbor:"1,keyasint"`
	Nonce    []byte `cbor:"2,keyasint,omitempty"`
}

// Challenge answers a Hello. A non-empty Nonce means the agent
// authenticates and the client must send a Proof before requests are
// honored; Proof is the agent's own proof over both nonces.
//
// CBOR encoding:
//
//	{
//	  1: protocol,  // string: the agent's protocol identifier
//	  2: session,   // string: agent-assigned session ID
//	  3: nonce,     // bytes: agent nonce (authenticating agents only)
//	  4: proof      // bytes: agent proof (requires a client nonce)
//	}
type Challenge struct {
	Protocol string `cbor:"1,keyasint"`
	Session  string `cbor:"2,keyasint"`
	Nonce    []byte `cbor:"3,keyasint,omitempty"`
	Proof    []byte `cbor:"4,keyasint,omitempty"`
}

// Proof is the client's response to a Challenge.
//
// CBOR encoding:
//
//	{
//	  1: proof  // bytes: client proof over both nonces
//	}
type Proof struct {
	Proof []byte `cbor:"1,keyasint"`
}

// Status is a response status code.
type Status uint8

const (
	// StatusOK indicates the operation completed successfully.
	StatusOK Status = 0

	// StatusUnknownOffset indicates no register is served at the offset.
	StatusUnknownOffset Status = 1

	// StatusBadWidth indicates the request width does not match the
	// served register's width.
	StatusBadWidth Status = 2

	// StatusValueRange indicates the value exceeds the register's width.
	StatusValueRange Status = 3

	// StatusUnauthenticated indicates the session has not proven
	// knowledge of the agent's pre-shared key.
	StatusUnauthenticated Status = 4

	// StatusBusy indicates the agent cannot serve the request right now.
	StatusBusy Status = 5

	// StatusInternal indicates an agent-side failure.
	StatusInternal Status = 6
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusUnknownOffset:
		return "UNKNOWN_OFFSET"
	case StatusBadWidth:
		return "BAD_WIDTH"
	case StatusValueRange:
		return "VALUE_RANGE"
	case StatusUnauthenticated:
		return "UNAUTHENTICATED"
	case StatusBusy:
		return "BUSY"
	case StatusInternal:
		return "INTERNAL"
	default:
		return "UNKNOWN"
	}
}

// IsOK returns true if the status indicates success.
func (s Status) IsOK() bool {
	return s == StatusOK
}

// Remote operation errors. ErrUnknownOffset and value-range failures are
// not listed here: the client maps those statuses onto the same sentinels
// local callers see (bus.ErrUnknownRegister, register.ErrValueExceedsWidth).
var (
	// ErrWidthMismatch indicates the agent serves a register of a
	// different width at the requested offset.
	ErrWidthMismatch = errors.New("width mismatch")

	// ErrUnauthenticated indicates the session is not authenticated.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrBusy indicates the agent is busy; try again later.
	ErrBusy = errors.New("agent busy")

	// ErrRemote indicates an agent-side failure with no local equivalent.
	ErrRemote = errors.New("remote error")

	// ErrProtocolMismatch indicates the agent speaks an incompatible
	// protocol major version.
	ErrProtocolMismatch = errors.New("protocol mismatch")
)

// statusFromError maps an agent-side error to a wire status and detail.
func statusFromError(err error) (Status, string) {
	switch {
	case err == nil:
		return StatusOK, ""
	case errors.Is(err, bus.ErrUnknownRegister):
		return StatusUnknownOffset, err.Error()
	case errors.Is(err, ErrWidthMismatch):
		return StatusBadWidth, err.Error()
	case errors.Is(err, register.ErrValueExceedsWidth):
		return StatusValueRange, err.Error()
	case errors.Is(err, ErrUnauthenticated):
		return StatusUnauthenticated, err.Error()
	case errors.Is(err, ErrBusy):
		return StatusBusy, err.Error()
	default:
		return StatusInternal, err.Error()
	}
}

// errorFromStatus maps a wire status back onto the error taxonomy local
// callers test with errors.Is. Returns nil for StatusOK.
func errorFromStatus(status Status, detail string) error {
	if status.IsOK() {
		return nil
	}
	return &StatusError{Status: status, Detail: detail}
}

// StatusError is an error response from an agent. Unwrap yields the
// sentinel matching the status, so errors.Is sees the same taxonomy as
// local calls: StatusUnknownOffset matches bus.ErrUnknownRegister and
// StatusValueRange matches register.ErrValueExceedsWidth.
type StatusError struct {
	Status Status
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Status.String()
}

func (e *StatusError) Unwrap() error {
	switch e.Status {
	case StatusUnknownOffset:
		return bus.ErrUnknownRegister
	case StatusBadWidth:
		return ErrWidthMismatch
	case StatusValueRange:
		return register.ErrValueExceedsWidth
	case StatusUnauthenticated:
		return ErrUnauthenticated
	case StatusBusy:
		return ErrBusy
	default:
		return ErrRemote
	}
}
