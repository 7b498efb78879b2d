package observ

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	if r := tm.Report(); len(r.Phases) != 0 || r.WallMS != 0 {
		t.Fatalf("empty timer report = %+v", r)
	}
	idx := tm.Begin("parse")
	time.Sleep(2 * time.Millisecond)
	tm.End(idx, "14 sensors")
	tm.End(42, "ignored")

	r := tm.Report()
	if len(r.Phases) != 1 || r.Phases[0].Name != "parse" || r.Phases[0].Note != "14 sensors" {
		t.Fatalf("unexpected report %+v", r)
	}
	if r.Phases[0].DurationMS <= 0 || r.WallMS < r.Phases[0].DurationMS {
		t.Fatalf("durations not recorded: %+v", r)
	}
}

func TestTimerConcurrentPhases(t *testing.T) {
	tm := NewTimer()
	var wg sync.WaitGroup
	for _, name := range []string{"row", "gap"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			idx := tm.Begin(name)
			tm.End(idx, "")
		}()
	}
	wg.Wait()

	if r := tm.Report(); len(r.Phases) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(r.Phases))
	}

	// overlapping phases: [0, 10ms] and [5ms, 15ms]
	start := time.Now()
	tm.phases = []Phase{
		{Name: "row", Start: start, Dur: 10 * time.Millisecond},
		{Name: "gap", Start: start.Add(5 * time.Millisecond), Dur: 10 * time.Millisecond},
	}
	if r := tm.Report(); r.WallMS != 15 {
		t.Fatalf("wall = %.2f ms, want 15", r.WallMS)
	}
	if s := tm.Summary(); !strings.Contains(s, "wall") || !strings.Contains(s, "gap") {
		t.Fatalf("summary:\n%s", s)
	}
}
