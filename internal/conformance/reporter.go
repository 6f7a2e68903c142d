package conformance

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Reporter formats and outputs suite results.
type Reporter interface {
	// ReportSuite reports results for a vector suite.
	ReportSuite(result *SuiteResult)

	// ReportVector reports results for a single vector.
	ReportVector(result *VectorResult)
}

// TextReporter outputs human-readable text reports.
type TextReporter struct {
	writer  io.Writer
	verbose bool
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(w io.Writer, verbose bool) *TextReporter {
	return &TextReporter{
		writer:  w,
		verbose: verbose,
	}
}

// ReportSuite reports suite results in text format.
func (r *TextReporter) ReportSuite(result *SuiteResult) {
	fmt.Fprintf(r.writer, "\n=== Suite: %s ===\n", result.SuiteName)
	fmt.Fprintf(r.writer, "Duration: %s\n", result.Duration.Round(time.Millisecond))
	fmt.Fprintf(r.writer, "\n")

	for _, vr := range result.Results {
		r.ReportVector(vr)
	}

	// Summary
	fmt.Fprintf(r.writer, "\n--- Summary ---\n")
	fmt.Fprintf(r.writer, "Total:  %d\n", len(result.Results))
	fmt.Fprintf(r.writer, "Passed: %d\n", result.PassCount)
	fmt.Fprintf(r.writer, "Failed: %d\n", result.FailCount)

	if result.PassCount+result.FailCount > 0 {
		fmt.Fprintf(r.writer, "Pass Rate: %.1f%%\n", result.PassRate())
	}
}

// ReportVector reports a single vector result in text format.
func (r *TextReporter) ReportVector(result *VectorResult) {
	vec := result.Vector

	status := "PASS"
	if !result.Passed {
		status = "FAIL"
	}

	fmt.Fprintf(r.writer, "[%s] %s - %s\n", status, vec.ID, vec.Name)

	if !result.Passed && result.Error != nil {
		fmt.Fprintf(r.writer, "       Error: %v\n", result.Error)
	}

	// Verbose: show step details
	if r.verbose {
		for _, sr := range result.StepResults {
			stepStatus := "PASS"
			if !sr.Passed {
				stepStatus = "FAIL"
			}
			fmt.Fprintf(r.writer, "    [%s] Step %d: %s\n",
				stepStatus, sr.StepIndex+1, describeStep(sr.Step))
		}
	}
}

func describeStep(step *Step) string {
	s := step.Op
	if step.Field != "" {
		s += " " + step.Field
	}
	if step.Value != nil {
		s += fmt.Sprintf(" 0x%X", *step.Value)
	}
	return s
}

// JSONReporter outputs JSON-formatted reports.
type JSONReporter struct {
	writer io.Writer
	pretty bool
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(w io.Writer, pretty bool) *JSONReporter {
	return &JSONReporter{
		writer: w,
		pretty: pretty,
	}
}

// JSONSuiteResult is the JSON representation of suite results.
type JSONSuiteResult struct {
	SuiteName string             `json:"suite_name"`
	Duration  string             `json:"duration"`
	Total     int                `json:"total"`
	Passed    int                `json:"passed"`
	Failed    int                `json:"failed"`
	PassRate  float64            `json:"pass_rate"`
	Vectors   []JSONVectorResult `json:"vectors"`
}

// JSONVectorResult is the JSON representation of a vector result.
type JSONVectorResult struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Register string           `json:"register"`
	Status   string           `json:"status"`
	Error    string           `json:"error,omitempty"`
	Steps    []JSONStepResult `json:"steps,omitempty"`
}

// JSONStepResult is the JSON representation of a step result.
type JSONStepResult struct {
	Index  int    `json:"index"`
	Op     string `json:"op"`
	Field  string `json:"field,omitempty"`
	Status string `json:"status"`
	Value  string `json:"value,omitempty"`
	Error  string `json:"error,omitempty"`
}

// ReportSuite reports suite results in JSON format.
func (r *JSONReporter) ReportSuite(result *SuiteResult) {
	jr := JSONSuiteResult{
		SuiteName: result.SuiteName,
		Duration:  result.Duration.Round(time.Millisecond).String(),
		Total:     len(result.Results),
		Passed:    result.PassCount,
		Failed:    result.FailCount,
		PassRate:  result.PassRate(),
		Vectors:   make([]JSONVectorResult, 0, len(result.Results)),
	}

	for _, vr := range result.Results {
		jr.Vectors = append(jr.Vectors, r.vectorToJSON(vr))
	}

	r.writeJSON(jr)
}

// ReportVector reports a single vector result in JSON format.
func (r *JSONReporter) ReportVector(result *VectorResult) {
	r.writeJSON(r.vectorToJSON(result))
}

func (r *JSONReporter) vectorToJSON(result *VectorResult) JSONVectorResult {
	vec := result.Vector

	status := "passed"
	if !result.Passed {
		status = "failed"
	}

	jr := JSONVectorResult{
		ID:       vec.ID,
		Name:     vec.Name,
		Register: vec.Register,
		Status:   status,
	}

	if result.Error != nil {
		jr.Error = result.Error.Error()
	}

	for _, sr := range result.StepResults {
		stepStatus := "passed"
		if !sr.Passed {
			stepStatus = "failed"
		}

		jsr := JSONStepResult{
			Index:  sr.StepIndex,
			Op:     sr.Step.Op,
			Field:  sr.Step.Field,
			Status: stepStatus,
		}
		if sr.HasValue {
			jsr.Value = fmt.Sprintf("0x%X", sr.Value)
		}
		if sr.Error != nil {
			jsr.Error = sr.Error.Error()
		}

		jr.Steps = append(jr.Steps, jsr)
	}

	return jr
}

func (r *JSONReporter) writeJSON(v any) {
	var data []byte
	var err error

	if r.pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		fmt.Fprintf(r.writer, `{"error": "failed to marshal: %s"}`, err)
		return
	}

	fmt.Fprintln(r.writer, string(data))
}
