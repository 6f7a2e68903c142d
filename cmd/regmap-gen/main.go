// Command regmap-gen generates typed Go register wrappers from YAML
// register definitions.
//
// For each definition it emits a <register>_gen.go file containing the
// field name constants, named value constants, the validated layout,
// and a wrapper struct with per-field Get/Set accessors. Generated
// output is formatted with goimports before writing.
//
// Usage:
//
//	regmap-gen -defs <dir> -output <dir> [-package <name>]
//
// Example:
//
//	regmap-gen -defs pkg/pcie/defs -output pkg/pcie -package pcie
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/tools/imports"

	"github.com/regmap-project/regmap-go/pkg/schema"
)

func main() {
	defsDir := flag.String("defs", "", "Directory of register definition YAMLs")
	outputDir := flag.String("output", "", "Output directory for generated Go files")
	pkgName := flag.String("package", "", "Package name for generated files (default: output directory name)")
	flag.Parse()

	if *defsDir == "" || *outputDir == "" {
		fmt.Fprintln(os.Stderr, "Usage: regmap-gen -defs <dir> -output <dir> [-package <name>]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := run(*defsDir, *outputDir, *pkgName); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(defsDir, outputDir, pkgName string) error {
	if pkgName == "" {
		abs, err := filepath.Abs(outputDir)
		if err != nil {
			return fmt.Errorf("resolving output dir: %w", err)
		}
		pkgName = filepath.Base(abs)
	}

	defs, err := schema.LoadDir(defsDir)
	if err != nil {
		return fmt.Errorf("loading register definitions: %w", err)
	}
	if len(defs) == 0 {
		return fmt.Errorf("no register definitions found in %s", defsDir)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	for _, def := range defs {
		code, err := GenerateRegister(def, pkgName)
		if err != nil {
			return fmt.Errorf("generating %s: %w", def.Register, err)
		}

		outName := registerFileName(def.Register) + "_gen.go"
		outPath := filepath.Join(outputDir, outName)
		if err := writeFormatted(outPath, code); err != nil {
			return fmt.Errorf("writing %s: %w", outName, err)
		}
		fmt.Printf("  generated %s\n", outPath)
	}

	return nil
}

// writeFormatted formats Go source code with goimports and writes it to a file.
func writeFormatted(path string, code string) error {
	formatted, err := imports.Process(path, []byte(code), nil)
	if err != nil {
		// Write unformatted so you can debug the generator output
		_ = os.WriteFile(path+".broken", []byte(code), 0o644)
		return fmt.Errorf("goimports %s: %w", filepath.Base(path), err)
	}
	return os.WriteFile(path, formatted, 0o644)
}

// registerFileName converts "linkCapabilities" to "link_capabilities".
func registerFileName(name string) string {
	var result strings.Builder
	for i, r := range name {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteByte('_')
		}
		result.WriteRune(r)
	}
	return strings.ToLower(result.String())
}
