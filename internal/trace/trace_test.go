package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want Level
	}{
		{"off", LevelOff},
		{"ERROR", LevelError},
		{"phase", LevelPhase},
		{" detail ", LevelDetail},
		{"debug", LevelDebug},
	}
	for _, tc := range cases {
		got, err := ParseLevel(tc.in)
		if err != nil {
			t.Fatalf("ParseLevel(%q) error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestLevelShouldEmit(t *testing.T) {
	if LevelPhase.ShouldEmit(ScopeBand) {
		t.Fatalf("phase level must not emit band events")
	}
	if !LevelDetail.ShouldEmit(ScopeBand) || LevelDetail.ShouldEmit(ScopeRow) {
		t.Fatalf("detail level must emit bands but not rows")
	}
	if !LevelDebug.ShouldEmit(ScopeRow) {
		t.Fatalf("debug level must emit rows")
	}
	if LevelOff.ShouldEmit(ScopeDriver) {
		t.Fatalf("off level must emit nothing")
	}
}

func TestStreamTracerText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatText)

	span := Begin(tr, ScopeQuery, "gap", 0)
	band := Begin(tr, ScopeBand, "band:0", span.ID())
	Begin(tr, ScopeRow, "row:0", band.ID()).End("")
	band.End("clear")
	span.WithExtra("square", "[0, 20] x [0, 20]").End("found (14, 11)")

	out := buf.String()
	if strings.Count(out, "\n") != 4 {
		t.Fatalf("expected 4 lines (row events filtered), got:\n%s", out)
	}
	if !strings.Contains(out, "→ gap") || !strings.Contains(out, "← gap (found (14, 11))") {
		t.Fatalf("missing gap span lines:\n%s", out)
	}
	if !strings.Contains(out, "square=[0, 20] x [0, 20]") {
		t.Fatalf("missing extra field:\n%s", out)
	}
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatNDJSON)
	Point(tr, ScopeQuery, "parse", "14 sensors", 0)

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid NDJSON %q: %v", buf.String(), err)
	}
	if got["name"] != "parse" || got["kind"] != "point" || got["scope"] != "query" {
		t.Fatalf("unexpected event %v", got)
	}
}

func TestRingTracerWraps(t *testing.T) {
	ring := NewRingTracer(3, LevelPhase)
	for i := 0; i < 5; i++ {
		Point(ring, ScopeQuery, "p", string(rune('a'+i)), 0)
	}
	events := ring.Snapshot()
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	if events[0].Detail != "c" || events[2].Detail != "e" {
		t.Fatalf("ring order wrong: %q .. %q", events[0].Detail, events[2].Detail)
	}

	var buf bytes.Buffer
	if err := ring.Dump(&buf, FormatText); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	if strings.Count(buf.String(), "\n") != 3 {
		t.Fatalf("Dump wrote:\n%s", buf.String())
	}
}

func TestErrorLevelRecordsOnlyInRing(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelError, Mode: ModeBoth, Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	Begin(tr, ScopeQuery, "row", 0).End("26")
	if buf.Len() != 0 {
		t.Fatalf("error level must not stream, got %q", buf.String())
	}
	ring, ok := Ring(tr)
	if !ok {
		t.Fatalf("both mode must expose a ring")
	}
	if n := len(ring.Snapshot()); n != 2 {
		t.Fatalf("ring holds %d events, want 2", n)
	}
}

func TestNewOffIsNop(t *testing.T) {
	tr, err := New(Config{Level: LevelOff, Mode: ModeStream})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if tr.Enabled() {
		t.Fatalf("off tracer must be disabled")
	}
	span := Begin(tr, ScopeQuery, "gap", 0)
	if span.ID() != 0 || span.End("x") != 0 {
		t.Fatalf("disabled span must be inert")
	}
}

func TestContextPropagation(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatalf("empty context must yield Nop")
	}
	ring := NewRingTracer(8, LevelDebug)
	ctx := WithTracer(context.Background(), ring)
	if FromContext(ctx) != Tracer(ring) {
		t.Fatalf("tracer not propagated")
	}
	span := Begin(ring, ScopeDriver, "solve", 0)
	ctx = WithSpan(ctx, span)
	if CurrentSpan(ctx).SpanID != span.ID() {
		t.Fatalf("span not propagated")
	}
}

func TestHeartbeat(t *testing.T) {
	ring := NewRingTracer(16, LevelPhase)
	hb := StartHeartbeat(ring, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	hb.Stop()
	hb.Stop()
	if len(ring.Snapshot()) == 0 {
		t.Fatalf("expected heartbeat events")
	}
	if StartHeartbeat(Nop, time.Millisecond) != nil {
		t.Fatalf("heartbeat on Nop must be nil")
	}
	var nilHB *Heartbeat
	nilHB.Stop()
}
