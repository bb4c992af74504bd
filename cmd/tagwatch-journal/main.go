// Command tagwatch-journal views and analyzes tagwatch notification journals.
//
// Journals are written by tagwatchd when started with --journal.
//
// Usage:
//
//	tagwatch-journal <command> [flags] <file.tnj>
//
// Commands:
//
//	view     View journal in human-readable format
//	export   Export journal to JSONL or CSV format
//	filter   Filter journal and write to new file
//	stats    Show statistics about the journal
//
// Examples:
//
//	# View all notifications
//	tagwatch-journal view notifications.tnj
//
//	# View only exits of one subscription
//	tagwatch-journal view --subscription 3f2a... --transition exited notifications.tnj
//
//	# View one morning
//	tagwatch-journal view --time-start 2026-04-01T06:00:00Z --time-end 2026-04-01T12:00:00Z notifications.tnj
//
//	# Export to CSV
//	tagwatch-journal export --format csv -o out.csv notifications.tnj
//
//	# Show statistics
//	tagwatch-journal stats notifications.tnj
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/tagwatch/tagwatch-go/cmd/tagwatch-journal/commands"
)

const usage = `tagwatch-journal - Tagwatch Notification Journal Tool

Usage:
  tagwatch-journal <command> [flags] <file.tnj>

Commands:
  view     View journal in human-readable format
  export   Export journal to JSONL or CSV format
  filter   Filter journal and write to new file
  stats    Show statistics about the journal

Use "tagwatch-journal <command> --help" for more information about a command.
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

func newFlagSet(name, synopsis string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "tagwatch-journal %s - %s\n\nUsage:\n  tagwatch-journal %s [flags] <file.tnj>\n\nFlags:\n",
			name, synopsis, name)
		fs.PrintDefaults()
	}
	return fs
}

// journalPath returns the positional journal argument or exits.
func journalPath(fs *pflag.FlagSet) string {
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: journal file path required")
		fs.Usage()
		os.Exit(1)
	}
	return fs.Arg(0)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func runView(args []string) {
	fs := newFlagSet("view", "View journal in human-readable format")
	subID := fs.StringP("subscription", "s", "", "Filter by subscription ID")
	transition := fs.StringP("transition", "t", "", "Filter by transition (entered, exited)")
	timeStart := fs.String("time-start", "", "Filter by start time (RFC3339)")
	timeEnd := fs.String("time-end", "", "Filter by end time (RFC3339)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := journalPath(fs)

	filter := commands.ViewFilter{SubscriptionID: *subID}
	var err error
	if filter.TimeStart, err = commands.ParseTimeFlag("time-start", *timeStart); err != nil {
		fail(err)
	}
	if filter.TimeEnd, err = commands.ParseTimeFlag("time-end", *timeEnd); err != nil {
		fail(err)
	}
	if *transition != "" {
		tr, err := commands.ParseTransitionFlag(*transition)
		if err != nil {
			fail(err)
		}
		filter.Transition = &tr
	}

	if err := commands.RunView(path, filter, os.Stdout); err != nil {
		fail(err)
	}
}

func runExport(args []string) {
	fs := newFlagSet("export", "Export journal to JSONL or CSV format")
	format := fs.StringP("format", "f", "jsonl", "Output format (jsonl, csv)")
	output := fs.StringP("output", "o", "", "Output file (default: stdout)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := journalPath(fs)

	if err := commands.RunExport(path, *format, *output); err != nil {
		fail(err)
	}
}

func runFilter(args []string) {
	fs := newFlagSet("filter", "Filter journal and write to new file")
	output := fs.StringP("output", "o", "", "Output file (required)")
	subID := fs.StringP("subscription", "s", "", "Filter by subscription ID")
	transition := fs.StringP("transition", "t", "", "Filter by transition (entered, exited)")
	timeStart := fs.String("time-start", "", "Filter by start time (RFC3339)")
	timeEnd := fs.String("time-end", "", "Filter by end time (RFC3339)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := journalPath(fs)

	if *output == "" {
		fmt.Fprintln(os.Stderr, "Error: output file (-o) required")
		fs.Usage()
		os.Exit(1)
	}

	n, err := commands.RunFilter(path, commands.FilterOptions{
		Output:         *output,
		SubscriptionID: *subID,
		Transition:     *transition,
		TimeStart:      *timeStart,
		TimeEnd:        *timeEnd,
	})
	if err != nil {
		fail(err)
	}
	fmt.Printf("Filtered %d notifications to %s\n", n, *output)
}

func runStats(args []string) {
	fs := newFlagSet("stats", "Show statistics about the journal")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := journalPath(fs)

	if err := commands.RunStats(path, os.Stdout); err != nil {
		fail(err)
	}
}
