package commands

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/tagwatch/tagwatch-go/pkg/notify"
)

var testTime = time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

// createTestJournal writes items to a temporary journal and returns its path.
func createTestJournal(t *testing.T, items []notify.Notification) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.tnj")

	j, err := notify.NewFileJournal(path)
	if err != nil {
		t.Fatalf("NewFileJournal failed: %v", err)
	}
	for _, n := range items {
		j.Notify(n)
	}
	if err := j.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	return path
}

func sampleJournal(t *testing.T) string {
	t.Helper()
	return createTestJournal(t, []notify.Notification{
		notify.NewTransition("sub-aaaa-1111", "mg", "MG Road", notify.TransitionEntered, testTime, 8.5),
		notify.NewTransition("sub-aaaa-1111", "mg", "MG Road", notify.TransitionExited, testTime.Add(time.Minute), 204.2),
		notify.NewTransition("sub-bbbb-2222", "home", "Home", notify.TransitionEntered, testTime.Add(2*time.Minute), 1500),
	})
}
