// Package session implements the Session Facade: the component that owns
// the Transport, the Event Router, and all five domain projections, and
// exposes the tool-level operations described in this contract — most
// notably the breakpoint-aware evaluate race in evaluate.go.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dgnsrekt/cdpagent/internal/cdp/router"
	"github.com/dgnsrekt/cdpagent/internal/cdp/state"
	"github.com/dgnsrekt/cdpagent/internal/cdp/transport"
)

// commandSender is the subset of *transport.Client that command dispatch
// needs. Factoring it out lets tests substitute a fake in place of a real
// WebSocket connection to exercise races against router events without
// dialing anything (this contract's evaluate race being the main
// beneficiary).
type commandSender interface {
	Send(ctx context.Context, method string, params any) (json.RawMessage, error)
	SendSession(ctx context.Context, sessionID, method string, params any) (json.RawMessage, error)
}

// PausedInfo is what facade subscribers receive when Debugger.paused fires,
// independent of any in-flight evaluate race (this contract: "emit paused to
// facade subscribers").
type PausedInfo struct {
	Reason string
	CallFrames []state.CallFrame
}

// Session owns exactly one Transport connection and the projections fed by
// its events. Nothing outside this package may mutate the Transport or a
// projection directly (this contract "Ownership").
type Session struct {
	opts Options

	transport *transport.Client
	sender commandSender
	router *router.Router

	debug *state.DebugState
	scripts *state.ScriptRegistry
	network *state.NetworkState
	console *state.ConsoleState
	fetch *state.FetchInterceptor
	logs *state.LogBuffer
	workers *state.WorkerRegistry
	targets *state.TargetCache

	mu sync.Mutex
	httpBase string
	targetSessionID string
	documentNodeID *state.NodeID

	subMu sync.Mutex
	pauseSubs map[int]func(PausedInfo)
	nextSubID int
}

// New constructs a Session with fresh, empty projections. Call Connect to
// attach it to a running Chrome instance.
func New(opts Options) *Session {
	opts = opts.withDefaults()
	s := &Session{
		opts: opts,
		router: router.New(),
		debug: state.NewDebugState(),
		scripts: state.NewScriptRegistry(),
		network: state.NewNetworkState(opts.MaxRequests),
		console: state.NewConsoleState(opts.MaxMessages),
		fetch: state.NewFetchInterceptor(),
		logs: state.NewLogBuffer(),
		workers: state.NewWorkerRegistry(),
		targets: state.NewTargetCache(),
		pauseSubs: make(map[int]func(PausedInfo)),
	}
	return s
}

// Connect dials the browser-level CDP endpoint at httpBase (e.g.
// "http://127.0.0.1:9222"), starts the router pump, and wires every
// projection to its event handler.
func (s *Session) Connect(ctx context.Context, httpBase string) error {
	s.mu.Lock()
	s.httpBase = httpBase
	s.mu.Unlock()

	s.transport = transport.New(httpBase, s.opts.Timeout)
	s.sender = s.transport
	s.wireProjections()

	if err := s.transport.Connect(ctx); err != nil {
		return fmt.Errorf("session: connect: %w", err)
	}
	go s.router.Run(s.transport.Events())
	return nil
}

// AttachToTarget attaches to a specific page/iframe/worker target and
// flattens subsequent commands onto the returned CDP session id, per the
// wire protocol in this contract
func (s *Session) AttachToTarget(ctx context.Context, targetID string) error {
	if s.sender == nil {
		return ErrNotConnected()
	}
	var result struct {
		SessionID string `json:"sessionId"`
	}
	if err := s.call(ctx, "Target.attachToTarget", map[string]any{"targetId": targetID, "flatten": true}, &result); err != nil {
		return err
	}
	s.mu.Lock()
	s.targetSessionID = result.SessionID
	s.mu.Unlock()
	return nil
}

// Send issues a raw CDP command flattened onto the attached target's
// session, if one is attached, or at browser scope otherwise. It exists so
// higher layers (internal/tool) can issue commands this facade doesn't
// wrap with dedicated semantics.
func (s *Session) Send(ctx context.Context, method string, params any) ([]byte, error) {
	if s.sender == nil {
		return nil, ErrNotConnected()
	}
	s.mu.Lock()
	sid := s.targetSessionID
	s.mu.Unlock()
	if sid == "" {
		return s.sender.Send(ctx, method, params)
	}
	return s.sender.SendSession(ctx, sid, method, params)
}

func (s *Session) call(ctx context.Context, method string, params any, out any) error {
	raw, err := s.Send(ctx, method, params)
	if err != nil {
		return err
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	return decodeJSON(raw, out)
}

// EnableDebugger enables the Debugger domain and mirrors the enabled flag
// into DebugState.
func (s *Session) EnableDebugger(ctx context.Context) error {
	if err := s.call(ctx, "Debugger.enable", struct{}{}, nil); err != nil {
		return err
	}
	s.debug.SetEnabled(true)
	if s.opts.AsyncStackDepth > 0 {
		_ = s.call(ctx, "Debugger.setAsyncCallStackDepth", map[string]any{"maxDepth": s.opts.AsyncStackDepth}, nil)
		s.debug.SetAsyncStackTraceDepth(s.opts.AsyncStackDepth)
	}
	return nil
}

// DisableDebugger disables the Debugger domain; DebugState.SetEnabled(false)
// resets pause state and clears managed breakpoints (this contract).
func (s *Session) DisableDebugger(ctx context.Context) error {
	if err := s.call(ctx, "Debugger.disable", struct{}{}, nil); err != nil {
		return err
	}
	s.debug.SetEnabled(false)
	return nil
}

// EnableRuntime enables the Runtime domain (console/exception capture).
func (s *Session) EnableRuntime(ctx context.Context) error {
	return s.call(ctx, "Runtime.enable", struct{}{}, nil)
}

// DisableRuntime disables the Runtime domain.
func (s *Session) DisableRuntime(ctx context.Context) error {
	return s.call(ctx, "Runtime.disable", struct{}{}, nil)
}

// EnableNetwork enables the Network domain.
func (s *Session) EnableNetwork(ctx context.Context) error {
	return s.call(ctx, "Network.enable", struct{}{}, nil)
}

// DisableNetwork disables the Network domain.
func (s *Session) DisableNetwork(ctx context.Context) error {
	return s.call(ctx, "Network.disable", struct{}{}, nil)
}

// EnableFetch (re)issues Fetch.enable with the current rule set's generated
// pattern list (this contract: "changes require Fetch.enable to be
// re-invoked").
func (s *Session) EnableFetch(ctx context.Context) error {
	patterns := s.fetch.BuildFetchPatterns()
	wire := make([]map[string]any, 0, len(patterns))
	for _, p := range patterns {
		entry := map[string]any{"urlPattern": p.URLPattern, "requestStage": p.RequestStage}
		if p.ResourceType != "" {
			entry["resourceType"] = p.ResourceType
		}
		wire = append(wire, entry)
	}
	return s.call(ctx, "Fetch.enable", map[string]any{"patterns": wire}, nil)
}

// DisableFetch disables the Fetch domain. The paused table and rules are
// left intact; only Reset or explicit rule removal clears them.
func (s *Session) DisableFetch(ctx context.Context) error {
	return s.call(ctx, "Fetch.disable", struct{}{}, nil)
}

// OnPaused registers a facade-level subscriber notified whenever
// Debugger.paused fires, independent of any evaluate race in flight.
// Returns an unsubscribe function.
func (s *Session) OnPaused(fn func(PausedInfo)) func() {
	s.subMu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.pauseSubs[id] = fn
	s.subMu.Unlock()
	return func() {
		s.subMu.Lock()
		delete(s.pauseSubs, id)
		s.subMu.Unlock()
	}
}

func (s *Session) notifyPaused(ev pausedEvent) {
	s.subMu.Lock()
	subs := make([]func(PausedInfo), 0, len(s.pauseSubs))
	for _, fn := range s.pauseSubs {
		subs = append(subs, fn)
	}
	s.subMu.Unlock()
	info := PausedInfo{Reason: ev.Reason, CallFrames: decodeCallFrames(ev.CallFrames)}
	for _, fn := range subs {
		fn(info)
	}
}

func (s *Session) invalidateDocumentNode() {
	s.mu.Lock()
	s.documentNodeID = nil
	s.mu.Unlock()
}

// Debug, Scripts, Network, Console, Fetch, Logs, Workers, and Targets
// expose read-only access to the projections for query operations that
// don't need facade-level semantics (defensive copies throughout, per
// this contract "Ownership").
func (s *Session) Debug() *state.DebugState { return s.debug }
func (s *Session) Scripts() *state.ScriptRegistry { return s.scripts }
func (s *Session) Network() *state.NetworkState { return s.network }
func (s *Session) Console() *state.ConsoleState { return s.console }
func (s *Session) Fetch() *state.FetchInterceptor { return s.fetch }
func (s *Session) Logs() *state.LogBuffer { return s.logs }
func (s *Session) Workers() *state.WorkerRegistry { return s.workers }
func (s *Session) Targets() *state.TargetCache { return s.targets }

// RefreshTargets fetches the current target list via GET /json/list and
// refreshes the target cache, preserving the HTTP endpoint across target
// switches (this contract "Other façade duties").
func (s *Session) RefreshTargets(ctx context.Context) error {
	if s.transport == nil {
		return ErrNotConnected()
	}
	entries, err := s.transport.ListTargets(ctx)
	if err != nil {
		return err
	}
	targets := make([]state.TargetInfo, len(entries))
	for i, e := range entries {
		targets[i] = state.TargetInfo{TargetID: e.ID, Type: e.Type, Title: e.Title, URL: e.URL}
	}
	s.targets.Refresh(targets)
	return nil
}

// Reset resets every projection; it does not touch the Transport (Kill
// pairs it with Disconnect). Projections retain their state across disconnect/reconnect
// unless Reset is called explicitly (this contract "Recovery") — callers
// decide whether a reconnect should also Reset.
func (s *Session) Reset() {
	s.debug.Reset()
	s.scripts.Reset()
	s.network.Reset()
	s.console.Reset()
	s.fetch.Reset()
	s.logs.Reset()
	s.workers.Reset()
}

// Disconnect closes the Transport, which fails every outstanding call with
// ErrConnectionClosed, then leaves projections untouched (this contract:
// "Projections retain their state across disconnect/reconnect; only kill
// or explicit reset clears them").
func (s *Session) Disconnect() error {
	if s.transport == nil {
		return nil
	}
	return s.transport.Disconnect()
}

// Kill fully tears the session down: disconnects and resets every
// projection, matching this contract's disconnect/kill duty.
func (s *Session) Kill() error {
	err := s.Disconnect()
	s.Reset()
	s.mu.Lock()
	s.targetSessionID = ""
	s.documentNodeID = nil
	s.mu.Unlock()
	return err
}
