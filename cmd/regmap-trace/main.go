// Command regmap-trace is a tool for viewing and analyzing register trace files.
//
// Trace files are created by the capture infrastructure when running
// regmap-agent or regmap-shell with tracing enabled.
//
// Usage:
//
//	regmap-trace <command> [flags] <file.rtrace>
//
// Commands:
//
//	view     View trace file in human-readable format
//	export   Export trace file to JSONL or CSV format
//	filter   Filter trace file and write to new file
//	stats    Show statistics about the trace file
//	archive  Import captures into a SQLite archive
//
// Examples:
//
//	# View all events
//	regmap-trace view session.rtrace
//
//	# View only raw bus transfers
//	regmap-trace view --kind bus session.rtrace
//
//	# View accesses to one register
//	regmap-trace view --register linkControl session.rtrace
//
//	# Export to JSONL
//	regmap-trace export --format jsonl session.rtrace
//
//	# Keep only denied accesses in a new file
//	regmap-trace filter --denied-only -o denied.rtrace session.rtrace
//
//	# Show statistics
//	regmap-trace stats session.rtrace
//
//	# Archive captures and list them
//	regmap-trace archive -db traces.db session.rtrace
//	regmap-trace archive -db traces.db -list
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/regmap-project/regmap-go/cmd/regmap-trace/commands"
)

const usage = `regmap-trace - Register Trace Analyzer

Usage:
  regmap-trace <command> [flags] <file.rtrace>

Commands:
  view     View trace file in human-readable format
  export   Export trace file to JSONL or CSV format
  filter   Filter trace file and write to new file
  stats    Show statistics about the trace file
  archive  Import captures into a SQLite archive

Use "regmap-trace <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "export":
		runExport(args)
	case "filter":
		runFilter(args)
	case "stats":
		runStats(args)
	case "archive":
		runArchive(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func runView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `regmap-trace view - View trace file in human-readable format

Usage:
  regmap-trace view [flags] <file.rtrace>

Flags:
`)
		fs.PrintDefaults()
	}

	kind := fs.String("kind", "", "Filter by event kind (access, bus, session, error)")
	role := fs.String("role", "", "Filter by role (host, agent)")
	register := fs.String("register", "", "Filter by register name")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: trace file path required")
		fs.Usage()
		os.Exit(1)
	}

	path := fs.Arg(0)

	// Build filter
	var filter commands.ViewFilter
	filter.Register = *register

	if *kind != "" {
		k, err := commands.ParseKindFlag(*kind)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		filter.Kind = &k
	}

	if *role != "" {
		r, err := commands.ParseRoleFlag(*role)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		filter.Role = &r
	}

	if err := commands.RunView(path, filter, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `regmap-trace export - Export trace file to JSONL or CSV format

Usage:
  regmap-trace export [flags] <file.rtrace>

Flags:
`)
		fs.PrintDefaults()
	}

	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: trace file path required")
		fs.Usage()
		os.Exit(1)
	}

	path := fs.Arg(0)

	if err := commands.RunExport(path, *format, *output); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runFilter(args []string) {
	fs := flag.NewFlagSet("filter", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `regmap-trace filter - Filter trace file and write to new file

Usage:
  regmap-trace filter [flags] <file.rtrace>

Flags:
`)
		fs.PrintDefaults()
	}

	output := fs.String("o", "", "Output file (required)")
	captureID := fs.String("capture-id", "", "Filter by capture ID")
	space := fs.String("space", "", "Filter by register space name")
	register := fs.String("register", "", "Filter by register name")
	field := fs.String("field", "", "Filter by field name")
	deniedOnly := fs.Bool("denied-only", false, "Keep only denied accesses")
	timeStart := fs.String("time-start", "", "Filter by start time (RFC3339)")
	timeEnd := fs.String("time-end", "", "Filter by end time (RFC3339)")
	kind := fs.String("kind", "", "Filter by event kind (access, bus, session, error)")
	role := fs.String("role", "", "Filter by role (host, agent)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: trace file path required")
		fs.Usage()
		os.Exit(1)
	}

	if *output == "" {
		fmt.Fprintln(os.Stderr, "Error: output file (-o) required")
		fs.Usage()
		os.Exit(1)
	}

	path := fs.Arg(0)

	opts := commands.FilterOptions{
		Output:     *output,
		CaptureID:  *captureID,
		Space:      *space,
		Register:   *register,
		Field:      *field,
		DeniedOnly: *deniedOnly,
		TimeStart:  *timeStart,
		TimeEnd:    *timeEnd,
		Kind:       *kind,
		Role:       *role,
	}

	if err := commands.RunFilter(path, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `regmap-trace stats - Show statistics about the trace file

Usage:
  regmap-trace stats <file.rtrace>

`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: trace file path required")
		fs.Usage()
		os.Exit(1)
	}

	path := fs.Arg(0)

	if err := commands.RunStats(path, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runArchive(args []string) {
	fs := flag.NewFlagSet("archive", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `regmap-trace archive - Import captures into a SQLite archive

Usage:
  regmap-trace archive [flags] <file.rtrace> [<file.rtrace> ...]
  regmap-trace archive [flags] -list

Flags:
`)
		fs.PrintDefaults()
	}

	db := fs.String("db", "traces.db", "SQLite archive database path")
	list := fs.Bool("list", false, "List archived captures instead of importing")
	replace := fs.Bool("replace", false, "Replace captures that are already archived")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *list {
		if err := commands.RunArchiveList(*db, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: trace file path required")
		fs.Usage()
		os.Exit(1)
	}

	if err := commands.RunArchiveImport(*db, fs.Args(), *replace, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
