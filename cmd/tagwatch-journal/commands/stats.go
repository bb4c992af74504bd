package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/tagwatch/tagwatch-go/pkg/notify"
)

// Stats holds aggregate statistics about a journal.
type Stats struct {
	TotalEntries  int
	ByTransition  map[notify.Transition]int
	Subscriptions map[string]*SubscriptionStats
	TimeRange     struct {
		Start time.Time
		End   time.Time
	}
}

// SubscriptionStats holds statistics for a single subscription.
type SubscriptionStats struct {
	PlaceName string
	FirstSeen time.Time
	LastSeen  time.Time
	Entered   int
	Exited    int
}

// RunStats analyzes the journal and prints statistics.
func RunStats(path string, w io.Writer) error {
	reader, err := notify.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		ByTransition:  make(map[notify.Transition]int),
		Subscriptions: make(map[string]*SubscriptionStats),
	}

	for {
		n, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read entry: %w", err)
		}

		stats.TotalEntries++
		stats.ByTransition[n.Transition]++

		// Track time range
		if stats.TimeRange.Start.IsZero() || n.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = n.Timestamp
		}
		if n.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = n.Timestamp
		}

		// Track subscription stats
		sub, ok := stats.Subscriptions[n.SubscriptionID]
		if !ok {
			sub = &SubscriptionStats{
				PlaceName: n.PlaceName,
				FirstSeen: n.Timestamp,
				LastSeen:  n.Timestamp,
			}
			stats.Subscriptions[n.SubscriptionID] = sub
		}
		if n.Timestamp.After(sub.LastSeen) {
			sub.LastSeen = n.Timestamp
		}
		switch n.Transition {
		case notify.TransitionEntered:
			sub.Entered++
		case notify.TransitionExited:
			sub.Exited++
		}
	}

	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Tagwatch Notification Journal Statistics ===")
	fmt.Fprintln(w)

	// Time range
	if stats.TotalEntries > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Notifications: %d\n", stats.TotalEntries)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "By Transition:")
	for _, tr := range []notify.Transition{notify.TransitionEntered, notify.TransitionExited} {
		if count := stats.ByTransition[tr]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", tr.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Subscriptions: %d\n", len(stats.Subscriptions))
	if len(stats.Subscriptions) == 0 {
		return
	}

	// Sort by first seen time
	type subInfo struct {
		id    string
		stats *SubscriptionStats
	}
	subs := make([]subInfo, 0, len(stats.Subscriptions))
	for id, ss := range stats.Subscriptions {
		subs = append(subs, subInfo{id, ss})
	}
	sort.Slice(subs, func(i, j int) bool {
		return subs[i].stats.FirstSeen.Before(subs[j].stats.FirstSeen)
	})

	fmt.Fprintln(w)
	for _, s := range subs {
		fmt.Fprintf(w, "  [%s] entered %d, exited %d, last %s\n",
			shortenID(s.id), s.stats.Entered, s.stats.Exited, s.stats.LastSeen.Format(time.RFC3339))
		if s.stats.PlaceName != "" {
			fmt.Fprintf(w, "             Place: %s\n", s.stats.PlaceName)
		}
	}
}
