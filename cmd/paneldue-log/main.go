// Command paneldue-log views and analyzes panel protocol traces.
//
// Trace files are written by paneldue-link with the -protocol-log flag.
//
// Usage:
//
//	paneldue-log <command> [flags] <file.plog>
//
// Commands:
//
//	view     View trace in human-readable format
//	export   Export trace to JSONL or CSV format
//	filter   Filter trace and write to new file
//	stats    Show statistics about the trace
//
// Examples:
//
//	# View all events
//	paneldue-log view link.plog
//
//	# View only requests and responses for the heat subsystem
//	paneldue-log view -layer wire -subsystem heat link.plog
//
//	# Export to CSV
//	paneldue-log export -format csv -o link.csv link.plog
//
//	# Show statistics
//	paneldue-log stats link.plog
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/paneldue/paneldue-go/cmd/paneldue-log/commands"
	"github.com/paneldue/paneldue-go/pkg/log"
)

const usage = `paneldue-log - Panel Protocol Trace Analyzer

Usage:
  paneldue-log <command> [flags] <file.plog>

Commands:
  view     View trace in human-readable format
  export   Export trace to JSONL or CSV format
  filter   Filter trace and write to new file
  stats    Show statistics about the trace

Use "paneldue-log <command> -help" for more information about a command.
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
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func newFlagSet(name, summary string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "paneldue-log %s - %s\n\nUsage:\n  paneldue-log %s [flags] <file.plog>\n\nFlags:\n", name, summary, name)
		fs.PrintDefaults()
	}
	return fs
}

func bindFilterFlags(fs *flag.FlagSet, opts *commands.FilterOptions) {
	fs.StringVar(&opts.SessionID, "session", "", "Filter by session ID")
	fs.StringVar(&opts.Subsystem, "subsystem", "", "Filter requests and responses by subsystem key")
	fs.StringVar(&opts.TimeStart, "time-start", "", "Filter by start time (RFC3339)")
	fs.StringVar(&opts.TimeEnd, "time-end", "", "Filter by end time (RFC3339)")
	fs.StringVar(&opts.Layer, "layer", "", "Filter by layer (transport, wire, model)")
	fs.StringVar(&opts.Direction, "direction", "", "Filter by direction (in, out)")
	fs.StringVar(&opts.Category, "category", "", "Filter by category (message, poll, state, error)")
}

// parseArgs parses fs and returns the trace path and filter.
func parseArgs(fs *flag.FlagSet, args []string, opts *commands.FilterOptions) (string, log.Filter) {
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}
	var filter log.Filter
	if opts != nil {
		var err error
		filter, err = commands.BuildFilter(*opts)
		if err != nil {
			fail(err)
		}
	}
	return fs.Arg(0), filter
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func runView(args []string) {
	fs := newFlagSet("view", "View trace in human-readable format")
	var opts commands.FilterOptions
	bindFilterFlags(fs, &opts)

	path, filter := parseArgs(fs, args, &opts)
	if err := commands.RunView(path, filter, os.Stdout); err != nil {
		fail(err)
	}
}

func runExport(args []string) {
	fs := newFlagSet("export", "Export trace to JSONL or CSV format")
	var opts commands.FilterOptions
	bindFilterFlags(fs, &opts)
	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")

	path, filter := parseArgs(fs, args, &opts)
	if err := commands.RunExport(path, *format, *output, filter); err != nil {
		fail(err)
	}
}

func runFilter(args []string) {
	fs := newFlagSet("filter", "Filter trace and write to new file")
	var opts commands.FilterOptions
	bindFilterFlags(fs, &opts)
	output := fs.String("o", "", "Output file (required)")

	path, filter := parseArgs(fs, args, &opts)
	if *output == "" {
		fmt.Fprintln(os.Stderr, "Error: output file (-o) required")
		fs.Usage()
		os.Exit(1)
	}
	if err := commands.RunFilter(path, *output, filter, os.Stdout); err != nil {
		fail(err)
	}
}

func runStats(args []string) {
	fs := newFlagSet("stats", "Show statistics about the trace")

	path, _ := parseArgs(fs, args, nil)
	if err := commands.RunStats(path, os.Stdout); err != nil {
		fail(err)
	}
}
