package notify

import (
	"testing"
	"time"
)

func TestReaderFilters(t *testing.T) {
	base := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	path := createTestJournal(t, []Notification{
		{Timestamp: base, SubscriptionID: "s1", Transition: TransitionEntered},
		{Timestamp: base.Add(time.Minute), SubscriptionID: "s1", Transition: TransitionExited},
		{Timestamp: base.Add(2 * time.Minute), SubscriptionID: "s2", Transition: TransitionEntered},
	})

	entered := TransitionEntered
	start := base.Add(30 * time.Second)
	end := base.Add(2 * time.Minute)

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"All", Filter{}, 3},
		{"BySubscription", Filter{SubscriptionID: "s1"}, 2},
		{"ByTransition", Filter{Transition: &entered}, 2},
		{"TimeRangeEndExclusive", Filter{TimeStart: &start, TimeEnd: &end}, 1},
		{"NoMatch", Filter{SubscriptionID: "missing"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadAll(path, tt.filter)
			if err != nil {
				t.Fatalf("ReadAll failed: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("got %d entries, want %d", len(got), tt.want)
			}
		})
	}
}

func TestNewReaderMissingFile(t *testing.T) {
	if _, err := NewReader("/nonexistent/journal.tnj"); err == nil {
		t.Error("NewReader on missing file succeeded")
	}
}
