package main

import (
	"flag"
	"fmt"
	"os"
)

func main() {
	defsDir := flag.String("defs", "", "Directory of YAML register definitions (built-in PCIe set if empty)")
	outputDir := flag.String("output", "", "Output directory for generated Markdown")
	spaceName := flag.String("space", "", "Space name shown on the index page (derived from -defs if empty)")
	flag.Parse()

	if *outputDir == "" {
		fmt.Fprintln(os.Stderr, "Usage: regmap-docgen -output <dir> [-defs <dir>] [-space <name>]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := run(*defsDir, *outputDir, *spaceName); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(defsDir, outputDir, spaceName string) error {
	model, err := BuildDocModel(defsDir, spaceName)
	if err != nil {
		return fmt.Errorf("building doc model: %w", err)
	}

	return generateAll(model, outputDir)
}
