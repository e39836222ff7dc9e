package state

import "testing"

func TestDebugStateInitialToJSON(t *testing.T) {
	d := NewDebugState()
	j := d.ToJSON()
	if j.Enabled || j.IsPaused || j.PauseReason != nil || j.CallFrameCount != 0 ||
		j.BreakpointCount != 0 || j.PauseOnExceptions != PauseOnExceptionsNone || j.AsyncStackTraceDepth != 0 {
		t.Fatalf("unexpected initial state: %+v", j)
	}
}

func TestDebugStatePausedResumed(t *testing.T) {
	d := NewDebugState()
	d.OnPaused("breakpoint", []CallFrame{{CallFrameID: "cf1"}}, []string{"bp-1"}, nil, nil)
	if !d.IsPaused() {
		t.Fatal("expected isPaused true after Debugger.paused")
	}
	if len(d.CallFrames()) == 0 {
		t.Fatal("Paused implies callFrames non-empty")
	}

	d.OnResumed()
	if d.IsPaused() {
		t.Fatal("expected isPaused false after Debugger.resumed")
	}
	if len(d.CallFrames()) != 0 {
		t.Fatal("expected callFrames cleared after resumed")
	}
}

func TestDebugStateDisableClearsBreakpointsAndPause(t *testing.T) {
	d := NewDebugState()
	d.SetEnabled(true)
	d.AddBreakpoint(&ManagedBreakpoint{ID: "bp-1", URL: "http://x/p.html", LineNumber: 4, Enabled: true})
	d.OnPaused("breakpoint", []CallFrame{{CallFrameID: "cf1"}}, []string{"bp-1"}, nil, nil)

	d.SetEnabled(false)

	if d.IsPaused() {
		t.Fatal("disabling debugger must reset pause state to running")
	}
	if len(d.Breakpoints()) != 0 {
		t.Fatal("disabling debugger must clear all managed breakpoints")
	}
}

func TestDebugStateBreakpointResolution(t *testing.T) {
	d := NewDebugState()
	d.AddBreakpoint(&ManagedBreakpoint{ID: "bp-1", URL: "http://x/p.html", LineNumber: 4, Enabled: true})
	ok := d.ResolveBreakpoint("bp-1", ResolvedLocation{ScriptID: "s1", LineNumber: 4, ColumnNumber: 0})
	if !ok {
		t.Fatal("expected resolve to succeed for known breakpoint")
	}
	bp, ok := d.GetBreakpoint("bp-1")
	if !ok || len(bp.ResolvedLocations) != 1 {
		t.Fatalf("expected 1 resolved location, got %+v", bp)
	}

	if d.ResolveBreakpoint("bp-ghost", ResolvedLocation{}) {
		t.Fatal("resolving an unknown breakpoint must fail")
	}
}
