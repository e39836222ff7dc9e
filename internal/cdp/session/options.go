package session

import "time"

// Options configures a Session's timeouts and projection capacities,
// realizing this contract "Configuration" as a concrete struct populated by
// internal/config.Load().
type Options struct {
	// Timeout is the default per-call Transport deadline.
	Timeout time.Duration

	// MaxRequests bounds NetworkState (default 1000).
	MaxRequests int

	// MaxMessages bounds ConsoleState (default 1000).
	MaxMessages int

	// LogBufferCap is carried through from configuration and defaulted, but
	// Session does not pass it to the Log.entryAdded buffer: that buffer
	// (state.NewLogBuffer) is fixed at 1000 entries regardless of this field.
	LogBufferCap int

	// AsyncStackDepth is passed through to Debugger.setAsyncCallStackDepth.
	AsyncStackDepth int

	// DetectionWindow is the "wait up to ~200ms for a paused event" policy
	// knob for withBreakpointDetection (this contract secondary contract).
	DetectionWindow time.Duration
}

// DefaultOptions returns sane defaults for every projection cap and timeout.
func DefaultOptions() Options {
	return Options{
		Timeout: 30 * time.Second,
		MaxRequests: 1000,
		MaxMessages: 1000,
		LogBufferCap: 1000,
		AsyncStackDepth: 0,
		DetectionWindow: 200 * time.Millisecond,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Timeout <= 0 {
		o.Timeout = d.Timeout
	}
	if o.MaxRequests <= 0 {
		o.MaxRequests = d.MaxRequests
	}
	if o.MaxMessages <= 0 {
		o.MaxMessages = d.MaxMessages
	}
	if o.LogBufferCap <= 0 {
		o.LogBufferCap = d.LogBufferCap
	}
	if o.DetectionWindow <= 0 {
		o.DetectionWindow = d.DetectionWindow
	}
	return o
}
