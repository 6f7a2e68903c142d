package conformance

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/regmap-project/regmap-go/pkg/bitfield"
	"github.com/regmap-project/regmap-go/pkg/register"
	"github.com/regmap-project/regmap-go/pkg/schema"
)

// ErrUnknownLayout indicates a vector naming a layout the runner does
// not hold.
var ErrUnknownLayout = errors.New("unknown register layout")

// errorNames maps expectation error names to the sentinels a failing
// op must match.
var errorNames = map[string]error{
	"not_found":           register.ErrFieldNotFound,
	"not_readable":        register.ErrFieldNotReadable,
	"not_writable":        register.ErrFieldNotWritable,
	"value_too_wide":      bitfield.ErrValueTooWide,
	"value_exceeds_width": register.ErrValueExceedsWidth,
}

// Runner executes conformance vectors against a set of named layouts.
// Each vector runs on a fresh zeroed register of its layout.
type Runner struct {
	layouts map[string]*register.Layout
}

// NewRunner creates a runner with no layouts.
func NewRunner() *Runner {
	return &Runner{
		layouts: make(map[string]*register.Layout),
	}
}

// AddLayout registers a layout under its own name.
func (r *Runner) AddLayout(layout *register.Layout) error {
	if layout == nil {
		return errors.New("layout must not be nil")
	}
	if _, exists := r.layouts[layout.Name()]; exists {
		return fmt.Errorf("layout %q already added", layout.Name())
	}
	r.layouts[layout.Name()] = layout
	return nil
}

// AddDefinitions builds layouts from raw register definitions and adds
// them all.
func (r *Runner) AddDefinitions(defs []*schema.RawRegisterDef) error {
	for _, def := range defs {
		layout, err := def.BuildLayout()
		if err != nil {
			return fmt.Errorf("definition %q: %w", def.Register, err)
		}
		if err := r.AddLayout(layout); err != nil {
			return err
		}
	}
	return nil
}

// Layout returns the layout registered under name.
func (r *Runner) Layout(name string) (*register.Layout, bool) {
	layout, ok := r.layouts[name]
	return layout, ok
}

// Run executes a single vector and reports its outcome. Execution
// stops at the first failing step.
func (r *Runner) Run(vec *Vector) *VectorResult {
	start := time.Now()
	result := &VectorResult{Vector: vec}

	layout, ok := r.layouts[vec.Register]
	if !ok {
		result.Error = fmt.Errorf("%w: %s", ErrUnknownLayout, vec.Register)
		result.Duration = time.Since(start)
		return result
	}

	reg := register.New(layout)
	for i := range vec.Steps {
		sr := runStep(reg, &vec.Steps[i], i)
		result.StepResults = append(result.StepResults, sr)
		if !sr.Passed {
			result.Error = fmt.Errorf("step %d (%s): %w", i+1, vec.Steps[i].Op, sr.Error)
			break
		}
	}

	result.Passed = result.Error == nil
	result.Duration = time.Since(start)
	return result
}

// RunAll executes vectors in order and aggregates their results.
func (r *Runner) RunAll(suiteName string, vectors []*Vector) *SuiteResult {
	start := time.Now()
	suite := &SuiteResult{SuiteName: suiteName}

	for _, vec := range vectors {
		vr := r.Run(vec)
		suite.Results = append(suite.Results, vr)
		if vr.Passed {
			suite.PassCount++
		} else {
			suite.FailCount++
		}
	}

	suite.Duration = time.Since(start)
	return suite
}

func runStep(reg *register.Register, step *Step, index int) *StepResult {
	result := &StepResult{
		Step:      step,
		StepIndex: index,
	}

	value, hasValue, err := applyOp(reg, step)
	result.Value = value
	result.HasValue = hasValue

	exp := step.Expect
	switch {
	case exp == nil:
		if err != nil {
			result.Error = err
			return result
		}

	case exp.Error != "":
		want := errorNames[exp.Error]
		if err == nil {
			result.Error = fmt.Errorf("expected %s error, got none", exp.Error)
			return result
		}
		if !errors.Is(err, want) {
			result.Error = fmt.Errorf("expected %s error, got: %w", exp.Error, err)
			return result
		}

	default:
		if err != nil {
			result.Error = err
			return result
		}
		if !hasValue {
			result.Error = fmt.Errorf("op %s produces no value to compare", step.Op)
			return result
		}
		if value != *exp.Value {
			result.Error = fmt.Errorf("value mismatch: expected 0x%X, got 0x%X", *exp.Value, value)
			return result
		}
	}

	result.Passed = true
	return result
}

// applyOp performs a step's operation on the register. Vector values
// are 64-bit so that overflow vectors can state values wider than any
// register; anything above 32 bits maps to the matching width error
// before the narrowing cast.
func applyOp(reg *register.Register, step *Step) (value uint64, hasValue bool, err error) {
	switch step.Op {
	case OpSetValue:
		if *step.Value > math.MaxUint32 {
			return 0, false, register.ErrValueExceedsWidth
		}
		return 0, false, reg.SetValue(uint32(*step.Value))

	case OpGetValue:
		return uint64(reg.Value()), true, nil

	case OpClear:
		reg.Clear()
		return 0, false, nil

	case OpSet:
		if *step.Value > math.MaxUint32 {
			return 0, false, bitfield.ErrValueTooWide
		}
		return 0, false, reg.Set(step.Field, uint32(*step.Value))

	case OpGet:
		v, err := reg.Get(step.Field)
		return uint64(v), err == nil, err

	case OpSetInternal:
		if *step.Value > math.MaxUint32 {
			return 0, false, bitfield.ErrValueTooWide
		}
		return 0, false, reg.SetInternal(step.Field, uint32(*step.Value))

	case OpGetInternal:
		v, err := reg.GetInternal(step.Field)
		return uint64(v), err == nil, err
	}

	return 0, false, fmt.Errorf("unknown op %q", step.Op)
}
