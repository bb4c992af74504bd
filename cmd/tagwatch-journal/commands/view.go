// Package commands implements the tagwatch-journal CLI commands.
package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/tagwatch/tagwatch-go/pkg/notify"
)

// ViewFilter specifies criteria for filtering entries in the view command.
type ViewFilter struct {
	SubscriptionID string
	Transition     *notify.Transition
	TimeStart      *time.Time
	TimeEnd        *time.Time
}

// ParseTimeFlag parses an RFC3339 time flag. An empty value yields nil.
func ParseTimeFlag(name, s string) (*time.Time, error) {
	return parseTime(name, s)
}

// formatNotification writes a human-readable representation of n to w.
func formatNotification(w io.Writer, n notify.Notification) {
	// Header line: timestamp [sub:id] TRANSITION Title
	ts := n.Timestamp.UTC().Format("2006-01-02T15:04:05.000Z")
	fmt.Fprintf(w, "%s [sub:%s] %-7s %s\n", ts, shortenID(n.SubscriptionID), n.Transition.String(), n.Title)

	fmt.Fprintf(w, "  Message: %s\n", n.Message)
	if n.PlaceID != "" {
		fmt.Fprintf(w, "  Place: %s (%s)\n", n.PlaceName, n.PlaceID)
	}
	if n.DistanceMeters > 0 {
		fmt.Fprintf(w, "  Distance: %s\n", formatDistance(n.DistanceMeters))
	}

	fmt.Fprintln(w) // Blank line between entries
}

// shortenID returns the first 8 characters of an identifier.
func shortenID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

// formatDistance formats metres for display.
func formatDistance(m float64) string {
	if m < 1000 {
		return fmt.Sprintf("%.1fm", m)
	}
	return fmt.Sprintf("%.2fkm", m/1000)
}

// ParseTransitionFlag parses a transition string from command-line flag (case-insensitive).
func ParseTransitionFlag(s string) (notify.Transition, error) {
	return parseTransition(s)
}

// parseTransition parses a transition string (case-insensitive).
func parseTransition(s string) (notify.Transition, error) {
	switch strings.ToLower(s) {
	case "entered", "entry", "in":
		return notify.TransitionEntered, nil
	case "exited", "exit", "out":
		return notify.TransitionExited, nil
	default:
		return 0, fmt.Errorf("invalid transition: %s (must be entered or exited)", s)
	}
}

// parseTime parses an RFC3339 timestamp flag.
func parseTime(name, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("invalid %s format: %w", name, err)
	}
	return &t, nil
}

// RunView executes the view command.
func RunView(path string, filter ViewFilter, output io.Writer) error {
	reader, err := notify.NewFilteredReader(path, notify.Filter{
		SubscriptionID: filter.SubscriptionID,
		Transition:     filter.Transition,
		TimeStart:      filter.TimeStart,
		TimeEnd:        filter.TimeEnd,
	})
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer reader.Close()

	for {
		n, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read entry: %w", err)
		}
		formatNotification(output, n)
	}

	return nil
}
