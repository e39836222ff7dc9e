package state

import "sync"

// CallFrame is a field-minimal projection of a CDP Debugger.CallFrame,
// carrying only what the session facade and its callers consume.
type CallFrame struct {
	CallFrameID CallFrameID `json:"callFrameId"`
	FunctionName string `json:"functionName"`
	URL string `json:"url"`
	ScriptID ScriptID `json:"scriptId,omitempty"`
	LineNumber int `json:"lineNumber"`
	ColumnNumber int `json:"columnNumber"`
}

// PauseOnExceptionsState mirrors Debugger.setPauseOnExceptions' state enum.
type PauseOnExceptionsState string

const (
	PauseOnExceptionsNone PauseOnExceptionsState = "none"
	PauseOnExceptionsCaught PauseOnExceptionsState = "caught"
	PauseOnExceptionsUncaught PauseOnExceptionsState = "uncaught"
	PauseOnExceptionsAll PauseOnExceptionsState = "all"
)

// ManagedBreakpoint is this contract's ManagedBreakpoint entity.
type ManagedBreakpoint struct {
	ID string `json:"id"`
	URL string `json:"url,omitempty"`
	URLRegex string `json:"urlRegex,omitempty"`
	ScriptID ScriptID `json:"scriptId,omitempty"`
	LineNumber int `json:"lineNumber"`
	ColumnNumber int `json:"columnNumber,omitempty"`
	Condition string `json:"condition,omitempty"`
	Enabled bool `json:"enabled"`
	ResolvedLocations []ResolvedLocation `json:"resolvedLocations"`
}

// ResolvedLocation is a concrete {scriptId, line, column} that Chrome
// derives after a URL-based breakpoint's script parses.
type ResolvedLocation struct {
	ScriptID ScriptID `json:"scriptId"`
	LineNumber int `json:"lineNumber"`
	ColumnNumber int `json:"columnNumber"`
}

// DebugState is the pause + breakpoint projection (this contract). It is
// the projection that the evaluate race reads first, per this contract's lock
// order.
type DebugState struct {
	mu sync.Mutex

	enabled bool
	isPaused bool
	pauseReason string
	pauseData map[string]any
	callFrames []CallFrame
	hitBreakpoints []string
	asyncStackTrace map[string]any
	pauseOnExceptions PauseOnExceptionsState
	asyncStackTraceDepth int

	breakpoints map[string]*ManagedBreakpoint
}

// NewDebugState returns a DebugState in its zero-value ("running, disabled,
// no breakpoints") state, matching this contract's toJSON round-trip property.
func NewDebugState() *DebugState {
	return &DebugState{
		pauseOnExceptions: PauseOnExceptionsNone,
		breakpoints: make(map[string]*ManagedBreakpoint),
	}
}

// SetEnabled mirrors the CDP domain's enable/disable lifecycle into the
// projection. Disabling resets pause state to Running and clears all
// managed breakpoints (this contract PauseState invariant).
func (d *DebugState) SetEnabled(enabled bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.enabled = enabled
	if !enabled {
		d.resetLocked()
	}
}

func (d *DebugState) Enabled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.enabled
}

// OnPaused handles Debugger.paused: every event overwrites the current
// state (this contract PauseState invariant).
func (d *DebugState) OnPaused(reason string, callFrames []CallFrame, hitBreakpoints []string, data map[string]any, asyncStackTrace map[string]any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.isPaused = true
	d.pauseReason = reason
	d.callFrames = callFrames
	d.hitBreakpoints = hitBreakpoints
	d.pauseData = data
	d.asyncStackTrace = asyncStackTrace
}

// OnResumed handles Debugger.resumed: reset to Running, clear callFrames.
func (d *DebugState) OnResumed() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.isPaused = false
	d.pauseReason = ""
	d.callFrames = nil
	d.hitBreakpoints = nil
	d.pauseData = nil
	d.asyncStackTrace = nil
}

// IsPaused reports the current pause state.
func (d *DebugState) IsPaused() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.isPaused
}

// PauseReason returns the reason for the current pause, or "" if running.
func (d *DebugState) PauseReason() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pauseReason
}

// CallFrames returns a defensive copy of the current call frames. Per
// this contract, Paused implies callFrames is non-empty.
func (d *DebugState) CallFrames() []CallFrame {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]CallFrame, len(d.callFrames))
	copy(out, d.callFrames)
	return out
}

// HitBreakpoints returns a defensive copy of the breakpoint ids that were
// hit by the current pause.
func (d *DebugState) HitBreakpoints() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.hitBreakpoints))
	copy(out, d.hitBreakpoints)
	return out
}

// SetPauseOnExceptions records the state passed to
// Debugger.setPauseOnExceptions, surfaced via ToJSON.
func (d *DebugState) SetPauseOnExceptions(s PauseOnExceptionsState) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pauseOnExceptions = s
}

// SetAsyncStackTraceDepth records the depth passed to
// Debugger.setAsyncCallStackDepth.
func (d *DebugState) SetAsyncStackTraceDepth(depth int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.asyncStackTraceDepth = depth
}

// AddBreakpoint registers a newly created ManagedBreakpoint.
func (d *DebugState) AddBreakpoint(bp *ManagedBreakpoint) {
	d.mu.Lock()
	defer d.mu.Unlock()
	cp := *bp
	cp.ResolvedLocations = append([]ResolvedLocation(nil), bp.ResolvedLocations...)
	d.breakpoints[bp.ID] = &cp
}

// ResolveBreakpoint appends a resolved location, handling
// Debugger.breakpointResolved.
func (d *DebugState) ResolveBreakpoint(id string, loc ResolvedLocation) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	bp, ok := d.breakpoints[id]
	if !ok {
		return false
	}
	bp.ResolvedLocations = append(bp.ResolvedLocations, loc)
	return true
}

// RemoveBreakpoint destroys a managed breakpoint by id.
func (d *DebugState) RemoveBreakpoint(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.breakpoints[id]; !ok {
		return false
	}
	delete(d.breakpoints, id)
	return true
}

// GetBreakpoint returns a defensive copy of a managed breakpoint.
func (d *DebugState) GetBreakpoint(id string) (ManagedBreakpoint, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	bp, ok := d.breakpoints[id]
	if !ok {
		return ManagedBreakpoint{}, false
	}
	return copyBreakpoint(bp), true
}

// Breakpoints returns defensive copies of all managed breakpoints.
func (d *DebugState) Breakpoints() []ManagedBreakpoint {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]ManagedBreakpoint, 0, len(d.breakpoints))
	for _, bp := range d.breakpoints {
		out = append(out, copyBreakpoint(bp))
	}
	return out
}

func copyBreakpoint(bp *ManagedBreakpoint) ManagedBreakpoint {
	cp := *bp
	cp.ResolvedLocations = append([]ResolvedLocation(nil), bp.ResolvedLocations...)
	return cp
}

// Reset clears pause state and all managed breakpoints (session reset,
// this contract ManagedBreakpoint "Destroyed on ... session reset").
func (d *DebugState) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.resetLocked()
}

func (d *DebugState) resetLocked() {
	d.isPaused = false
	d.pauseReason = ""
	d.callFrames = nil
	d.hitBreakpoints = nil
	d.pauseData = nil
	d.asyncStackTrace = nil
	d.breakpoints = make(map[string]*ManagedBreakpoint)
}

// DebugStateJSON is the toJSON(debugState) shape from this contract
type DebugStateJSON struct {
	Enabled bool `json:"enabled"`
	IsPaused bool `json:"isPaused"`
	PauseReason *string `json:"pauseReason"`
	CallFrameCount int `json:"callFrameCount"`
	BreakpointCount int `json:"breakpointCount"`
	PauseOnExceptions PauseOnExceptionsState `json:"pauseOnExceptions"`
	AsyncStackTraceDepth int `json:"asyncStackTraceDepth"`
}

// ToJSON produces the exact shape asserted by this contract's round-trip
// property: before any event, {enabled:false, isPaused:false,
// pauseReason:undefined, callFrameCount:0, breakpointCount:0,
// pauseOnExceptions:"none", asyncStackTraceDepth:0}.
func (d *DebugState) ToJSON() DebugStateJSON {
	d.mu.Lock()
	defer d.mu.Unlock()

	var reason *string
	if d.isPaused && d.pauseReason != "" {
		r := d.pauseReason
		reason = &r
	}

	return DebugStateJSON{
		Enabled: d.enabled,
		IsPaused: d.isPaused,
		PauseReason: reason,
		CallFrameCount: len(d.callFrames),
		BreakpointCount: len(d.breakpoints),
		PauseOnExceptions: d.pauseOnExceptions,
		AsyncStackTraceDepth: d.asyncStackTraceDepth,
	}
}
