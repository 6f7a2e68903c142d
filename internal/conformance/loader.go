package conformance

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseVector parses a conformance vector from YAML bytes.
func ParseVector(data []byte) (*Vector, error) {
	var vec Vector
	if err := yaml.Unmarshal(data, &vec); err != nil {
		return nil, &LoadError{
			Message: "failed to parse YAML",
			Cause:   err,
		}
	}

	// Validate required fields
	if vec.ID == "" {
		return nil, &LoadError{
			Message: "vector ID is required",
		}
	}

	if vec.Register == "" {
		return nil, &LoadError{
			Message: "vector must name a register layout",
		}
	}

	if len(vec.Steps) == 0 {
		return nil, &LoadError{
			Message: "vector must have at least one step",
		}
	}

	for i := range vec.Steps {
		if err := validateStep(&vec.Steps[i], i); err != nil {
			return nil, err
		}
	}

	return &vec, nil
}

func validateStep(step *Step, index int) error {
	switch step.Op {
	case OpSetValue:
		if step.Value == nil {
			return stepError(index, "%s requires a value", step.Op)
		}
	case OpSet, OpSetInternal:
		if step.Field == "" {
			return stepError(index, "%s requires a field", step.Op)
		}
		if step.Value == nil {
			return stepError(index, "%s requires a value", step.Op)
		}
	case OpGet, OpGetInternal:
		if step.Field == "" {
			return stepError(index, "%s requires a field", step.Op)
		}
	case OpGetValue, OpClear:
	case "":
		return stepError(index, "op is required")
	default:
		return stepError(index, "unknown op %q", step.Op)
	}

	if exp := step.Expect; exp != nil {
		if exp.Value == nil && exp.Error == "" {
			return stepError(index, "expect must set value or error")
		}
		if exp.Value != nil && exp.Error != "" {
			return stepError(index, "expect cannot set both value and error")
		}
		if exp.Error != "" {
			if _, ok := errorNames[exp.Error]; !ok {
				return stepError(index, "unknown expected error %q", exp.Error)
			}
		}
	}

	return nil
}

// LoadVector loads a conformance vector from a file.
func LoadVector(path string) (*Vector, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{
			File:    path,
			Message: "failed to read file",
			Cause:   err,
		}
	}

	vec, err := ParseVector(data)
	if err != nil {
		if le, ok := err.(*LoadError); ok {
			le.File = path
			return nil, le
		}
		return nil, &LoadError{
			File:    path,
			Message: err.Error(),
		}
	}

	return vec, nil
}

// LoadDirectory loads all conformance vectors from a directory, in
// filename order. Only files with .yaml or .yml extensions are loaded.
func LoadDirectory(dir string) ([]*Vector, error) {
	var vectors []*Vector

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &LoadError{
			File:    dir,
			Message: "failed to read directory",
			Cause:   err,
		}
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		path := filepath.Join(dir, name)
		vec, err := LoadVector(path)
		if err != nil {
			return nil, err
		}

		vectors = append(vectors, vec)
	}

	return vectors, nil
}
