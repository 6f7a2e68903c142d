// Package conformance runs YAML conformance vectors against register
// layouts. A vector names a layout, starts from a zeroed register, and
// replays a sequence of operations with expected values or expected
// error outcomes.
package conformance

import (
	"fmt"
	"time"
)

// Vector is a single conformance vector loaded from YAML.
type Vector struct {
	// ID is the unique vector identifier (e.g., "TC-LINKCAP-001").
	ID string `yaml:"id"`

	// Name is a human-readable name for the vector.
	Name string `yaml:"name"`

	// Description explains what the vector validates.
	Description string `yaml:"description,omitempty"`

	// Register names the layout the vector runs against.
	Register string `yaml:"register"`

	// Steps are the operations to execute in order.
	Steps []Step `yaml:"steps"`
}

// Step is a single operation in a vector.
type Step struct {
	// Op is the operation to perform (e.g., "set_value", "get").
	Op string `yaml:"op"`

	// Field names the target field for field-level ops.
	Field string `yaml:"field,omitempty"`

	// Value is the input value for write ops.
	Value *uint64 `yaml:"value,omitempty"`

	// Expect defines the expected outcome. A step without an Expect
	// merely requires the op to succeed.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect describes the expected outcome of a step. Exactly one of
// Value and Error is set.
type Expect struct {
	// Value is the expected result of a value-producing op.
	Value *uint64 `yaml:"value,omitempty"`

	// Error names the expected error (e.g., "not_writable").
	Error string `yaml:"error,omitempty"`
}

// Operation names accepted in Step.Op.
const (
	OpSetValue    = "set_value"
	OpGetValue    = "get_value"
	OpClear       = "clear"
	OpSet         = "set"
	OpGet         = "get"
	OpSetInternal = "set_internal"
	OpGetInternal = "get_internal"
)

// LoadError provides details about a vector loading error.
type LoadError struct {
	// File is the path to the file that failed to load.
	File string

	// Message describes the error.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

func (e *LoadError) Error() string {
	if e.File != "" {
		return e.File + ": " + e.Message
	}
	return e.Message
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// StepResult is the outcome of a single step.
type StepResult struct {
	// Step is the step that was executed.
	Step *Step

	// StepIndex is the index of this step (0-based).
	StepIndex int

	// Passed indicates if the step met its expectation.
	Passed bool

	// Error is the failure, if any.
	Error error

	// Value is the value the op produced, for value-producing ops.
	Value uint64

	// HasValue indicates whether Value is meaningful.
	HasValue bool
}

// VectorResult is the outcome of running one vector.
type VectorResult struct {
	// Vector is the vector that was executed.
	Vector *Vector

	// Passed indicates if all steps passed.
	Passed bool

	// Error is the first step failure, if any.
	Error error

	// StepResults contains results for the steps that ran. Execution
	// stops at the first failing step.
	StepResults []*StepResult

	// Duration is how long the vector took.
	Duration time.Duration
}

// SuiteResult is the outcome of running a set of vectors.
type SuiteResult struct {
	// SuiteName identifies the suite.
	SuiteName string

	// Results contains one result per vector.
	Results []*VectorResult

	// PassCount is the number of passed vectors.
	PassCount int

	// FailCount is the number of failed vectors.
	FailCount int

	// Duration is the total time for all vectors.
	Duration time.Duration
}

// PassRate returns the percentage of vectors that passed, or 0 when
// the suite is empty.
func (s *SuiteResult) PassRate() float64 {
	total := s.PassCount + s.FailCount
	if total == 0 {
		return 0
	}
	return float64(s.PassCount) / float64(total) * 100
}

func stepError(index int, format string, args ...any) *LoadError {
	return &LoadError{
		Message: fmt.Sprintf("step %d: %s", index+1, fmt.Sprintf(format, args...)),
	}
}
