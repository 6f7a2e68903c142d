// Command regmap-check runs YAML conformance vectors against register
// layouts.
//
// Vectors name a register layout, start from a zeroed register, and
// replay operations with expected values or expected errors. Layouts
// are built from a directory of register definition YAML files, or
// default to the built-in PCI Express capability set.
//
// Usage:
//
//	regmap-check [flags] [id-pattern]
//
// Flags:
//
//	-vectors string  Path to conformance vector directory (default "./vectors")
//	-defs string     Path to register definition directory (default: built-in PCIe set)
//	-suite string    Suite name for reports (default "conformance")
//	-verbose         Show per-step results
//	-json            Output results as JSON
//
// Examples:
//
//	# Run all vectors against the built-in PCIe layouts
//	regmap-check -vectors ./vectors
//
//	# Run vectors against custom register definitions
//	regmap-check -defs ./defs -vectors ./vectors
//
//	# Run only link control vectors, with step detail
//	regmap-check -vectors ./vectors -verbose TC-LINKCTL
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/regmap-project/regmap-go/internal/conformance"
	"github.com/regmap-project/regmap-go/pkg/pcie"
	"github.com/regmap-project/regmap-go/pkg/schema"
)

var (
	vectorsDir = flag.String("vectors", "./vectors", "Path to conformance vector directory")
	defsDir    = flag.String("defs", "", "Path to register definition directory (default: built-in PCIe set)")
	suiteName  = flag.String("suite", "conformance", "Suite name for reports")
	verbose    = flag.Bool("verbose", false, "Show per-step results")
	jsonOut    = flag.Bool("json", false, "Output results as JSON")
)

func main() {
	flag.Parse()

	// Get optional ID pattern
	pattern := ""
	if flag.NArg() > 0 {
		pattern = flag.Arg(0)
	}

	defs, err := loadDefinitions()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	runner := conformance.NewRunner()
	if err := runner.AddDefinitions(defs); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	vectors, err := conformance.LoadDirectory(*vectorsDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if pattern != "" {
		vectors = filterByID(vectors, pattern)
	}

	if len(vectors) == 0 {
		fmt.Fprintf(os.Stderr, "Error: no conformance vectors found in %s\n", *vectorsDir)
		os.Exit(1)
	}

	suite := runner.RunAll(*suiteName, vectors)

	var reporter conformance.Reporter
	if *jsonOut {
		reporter = conformance.NewJSONReporter(os.Stdout, false)
	} else {
		reporter = conformance.NewTextReporter(os.Stdout, *verbose)
	}
	reporter.ReportSuite(suite)

	if suite.FailCount > 0 {
		os.Exit(1)
	}
}

func loadDefinitions() ([]*schema.RawRegisterDef, error) {
	if *defsDir != "" {
		return schema.LoadDir(*defsDir)
	}
	return pcie.Definitions()
}

func filterByID(vectors []*conformance.Vector, pattern string) []*conformance.Vector {
	var matched []*conformance.Vector
	for _, vec := range vectors {
		if strings.Contains(vec.ID, pattern) {
			matched = append(matched, vec)
		}
	}
	return matched
}
