package commands

import (
	"fmt"
	"io"

	"github.com/tagwatch/tagwatch-go/pkg/notify"
)

// FilterOptions specifies filtering criteria for the filter command.
type FilterOptions struct {
	Output         string
	SubscriptionID string
	Transition     string
	TimeStart      string
	TimeEnd        string
}

// RunFilter filters the journal and writes matching entries to a new file.
// It returns the number of entries written.
func RunFilter(path string, opts FilterOptions) (int, error) {
	filter := notify.Filter{SubscriptionID: opts.SubscriptionID}

	var err error
	if filter.TimeStart, err = parseTime("time-start", opts.TimeStart); err != nil {
		return 0, err
	}
	if filter.TimeEnd, err = parseTime("time-end", opts.TimeEnd); err != nil {
		return 0, err
	}

	if opts.Transition != "" {
		tr, err := parseTransition(opts.Transition)
		if err != nil {
			return 0, err
		}
		filter.Transition = &tr
	}

	// Open input
	reader, err := notify.NewFilteredReader(path, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to open journal: %w", err)
	}
	defer reader.Close()

	// Append matching entries to the output journal
	journal, err := notify.NewFileJournal(opts.Output)
	if err != nil {
		return 0, fmt.Errorf("failed to create output journal: %w", err)
	}
	defer journal.Close()

	count := 0
	for {
		n, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, fmt.Errorf("failed to read entry: %w", err)
		}

		journal.Notify(n)
		count++
	}

	return count, nil
}
