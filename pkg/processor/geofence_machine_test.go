package processor

import (
	"testing"
	"time"

	"github.com/tagwatch/tagwatch-go/pkg/geo"
	"github.com/tagwatch/tagwatch-go/pkg/notify"
	"github.com/tagwatch/tagwatch-go/pkg/sensor"
)

var (
	testCenter = geo.Point{Latitude: 12.9716, Longitude: 77.5946}
	testFence  = Fence{Name: "MG Road", Center: testCenter, RadiusMeters: 50}
	t0         = time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
)

func fixAt(metersNorth float64, at time.Duration) sensor.Fix {
	return sensor.Fix{Point: geo.Offset(testCenter, metersNorth, 0), Timestamp: t0.Add(at)}
}

func TestGeofenceMachineInitialState(t *testing.T) {
	m := NewGeofenceMachine(testFence, 10*time.Second, t0)
	st := m.State()
	if st.CurrentZone != ZoneOut {
		t.Errorf("CurrentZone = %v, want OUT", st.CurrentZone)
	}
	if !st.LastTransitionAt.Equal(t0) {
		t.Errorf("LastTransitionAt = %v, want construction time", st.LastTransitionAt)
	}
}

// Cold start: the entry fix at t=1s falls inside the first debounce window
// after construction and is dropped.
func TestGeofenceMachineScenarioColdStartDropsEntry(t *testing.T) {
	m := NewGeofenceMachine(testFence, 10*time.Second, t0)

	steps := []struct {
		name      string
		fix       sensor.Fix
		candidate bool
		committed bool
		zone      Zone
	}{
		{"A_Outside", fixAt(200, 0), false, false, ZoneOut},
		{"B_InsideWithinWindow", fixAt(10, time.Second), true, false, ZoneOut},
		{"C_StillInside", fixAt(10, 2*time.Second), true, false, ZoneOut},
		{"D_Outside", fixAt(200, 12*time.Second), false, false, ZoneOut},
	}

	for _, s := range steps {
		ev := m.Observe(s.fix)
		if ev.Candidate != s.candidate || ev.Committed != s.committed {
			t.Errorf("%s: candidate=%v committed=%v, want %v/%v", s.name, ev.Candidate, ev.Committed, s.candidate, s.committed)
		}
		if got := m.State().CurrentZone; got != s.zone {
			t.Errorf("%s: zone = %v, want %v", s.name, got, s.zone)
		}
	}
}

// Warm start: construction well before the first fix, so the entry commits
// and the exit 11s later commits too.
func TestGeofenceMachineScenarioEntryThenExit(t *testing.T) {
	m := NewGeofenceMachine(testFence, 10*time.Second, t0.Add(-time.Minute))

	if ev := m.Observe(fixAt(200, 0)); ev.Candidate {
		t.Fatal("A: outside fix produced a candidate while OUT")
	}

	ev := m.Observe(fixAt(10, time.Second))
	if !ev.Committed || ev.Transition != notify.TransitionEntered {
		t.Fatalf("B: got %+v, want committed ENTERED", ev)
	}
	if m.State().CurrentZone != ZoneIn || !m.State().LastTransitionAt.Equal(t0.Add(time.Second)) {
		t.Fatalf("B: state = %+v", m.State())
	}

	if ev := m.Observe(fixAt(10, 2*time.Second)); ev.Candidate {
		t.Fatal("C: inside fix while IN produced a candidate")
	}

	ev = m.Observe(fixAt(200, 12*time.Second))
	if !ev.Committed || ev.Transition != notify.TransitionExited {
		t.Fatalf("D: got %+v, want committed EXITED", ev)
	}
	if m.State().CurrentZone != ZoneOut {
		t.Errorf("D: zone = %v, want OUT", m.State().CurrentZone)
	}
}

func TestGeofenceMachineDebounceBoundaryIsExclusive(t *testing.T) {
	m := NewGeofenceMachine(testFence, 10*time.Second, t0)

	if ev := m.Observe(fixAt(0, 10*time.Second)); ev.Committed {
		t.Error("transition exactly one window after the last one committed")
	}
	if ev := m.Observe(fixAt(0, 10*time.Second+time.Millisecond)); !ev.Committed {
		t.Error("transition just past the window was dropped")
	}
}

func TestGeofenceMachineSuppressesOscillation(t *testing.T) {
	m := NewGeofenceMachine(testFence, 10*time.Second, t0.Add(-time.Hour))

	if ev := m.Observe(fixAt(0, 0)); !ev.Committed {
		t.Fatal("initial entry not committed")
	}

	commits := 0
	for i := 1; i <= 18; i++ {
		meters := 0.0
		if i%2 == 1 {
			meters = 120
		}
		if ev := m.Observe(fixAt(meters, time.Duration(i)*500*time.Millisecond)); ev.Committed {
			commits++
		}
	}
	if commits != 0 {
		t.Errorf("oscillation inside window committed %d transitions", commits)
	}
	if m.State().CurrentZone != ZoneIn {
		t.Errorf("zone = %v, want IN", m.State().CurrentZone)
	}
}

func TestGeofenceMachineRadiusIsInclusive(t *testing.T) {
	m := NewGeofenceMachine(Fence{Center: testCenter, RadiusMeters: 50}, 0, t0.Add(-time.Hour))

	// Place the fix slightly inside the radius to stay clear of float rounding.
	ev := m.Observe(fixAt(49.999, 0))
	if !ev.Inside {
		t.Errorf("fix at %.3fm reported outside a 50m fence", ev.Distance)
	}
}

// Property: over an arbitrary fix sequence, commits happen only on a zone
// change and never closer together than the window.
func TestGeofenceMachineCommitSpacing(t *testing.T) {
	const window = 10 * time.Second
	m := NewGeofenceMachine(testFence, window, t0)

	pattern := []float64{200, 10, 10, 300, 5, 80, 20, 20, 500, 0, 0, 60, 40}
	var last time.Time
	prevZone := m.State().CurrentZone

	for i := 0; i < 200; i++ {
		fix := fixAt(pattern[i%len(pattern)], time.Duration(i)*1700*time.Millisecond)
		ev := m.Observe(fix)
		zone := m.State().CurrentZone

		if ev.Committed {
			if zone == prevZone {
				t.Fatalf("fix %d: committed without zone change", i)
			}
			if !last.IsZero() && fix.Timestamp.Sub(last) <= window {
				t.Fatalf("fix %d: commits %v apart, window %v", i, fix.Timestamp.Sub(last), window)
			}
			last = fix.Timestamp
		} else if zone != prevZone {
			t.Fatalf("fix %d: zone changed without commit", i)
		}
		prevZone = zone
	}
}
