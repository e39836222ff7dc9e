package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dgnsrekt/cdpagent/internal/cdp/state"
)

// EvaluateOptions parameterizes Evaluate/EvaluateOnCallFrame. Empty
// ExecutionContextID lets Chrome pick the page's default context.
type EvaluateOptions struct {
	ExecutionContextID state.ExecutionContextID
	AwaitPromise bool
	ReturnByValue bool
}

// EvaluateResult is the union described in this contract: either a pause
// outcome, an exception outcome, or a plain remote-object outcome. Exactly
// one branch is populated per call.
type EvaluateResult struct {
	Paused bool
	PauseReason string
	CallFrameCount int
	TopFrame *state.CallFrame

	Exception bool
	ExceptionText string
	ExceptionDetails string

	Type string
	Subtype string
	Value any
	ObjectID string
}

type remoteObjectResult struct {
	Result struct {
		Type string `json:"type"`
		Subtype string `json:"subtype"`
		Value any `json:"value"`
		ObjectID string `json:"objectId"`
		Description string `json:"description"`
	} `json:"result"`
	ExceptionDetails *struct {
		Text string `json:"text"`
		Exception *struct {
			Description string `json:"description"`
		} `json:"exception"`
	} `json:"exceptionDetails"`
}

func decodeEvaluateResult(raw []byte) (*EvaluateResult, error) {
	var wire remoteObjectResult
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, err
	}
	if wire.ExceptionDetails != nil {
		r := &EvaluateResult{Exception: true, ExceptionText: wire.ExceptionDetails.Text}
		if wire.ExceptionDetails.Exception != nil {
			r.ExceptionDetails = wire.ExceptionDetails.Exception.Description
		}
		return r, nil
	}
	return &EvaluateResult{
		Type: wire.Result.Type,
		Subtype: wire.Result.Subtype,
		Value: wire.Result.Value,
		ObjectID: wire.Result.ObjectID,
	}, nil
}

// Evaluate implements the breakpoint-aware evaluation contract, the single
// hardest correctness requirement in this engine.
//
// Steps:
// 1. If DebugState is already Paused, fail immediately with AlreadyPaused
// and make no CDP call — evaluating while paused must go through
// EvaluateOnCallFrame instead.
// 2. If the debugger domain is not enabled, issue Runtime.evaluate and
// return its result unchanged; paused is always false on this path.
// 3. If enabled, race the outstanding Runtime.evaluate call against the
// next Debugger.paused event via a one-shot router subscription. If the
// pause wins, the CDP call is left outstanding — a background
// goroutine keeps waiting on it so the Transport's pending slot is
// still freed by the eventual late response, never by us reaching in
// and canceling it. If the call wins, the one-shot subscription is
// canceled so it never fires (this contract's "memory leak hazard" note).
func (s *Session) Evaluate(ctx context.Context, expression string, opts EvaluateOptions) (*EvaluateResult, error) {
	if s.debug.IsPaused() {
		return nil, ErrAlreadyPaused(s.debug.PauseReason())
	}

	params := map[string]any{
		"expression": expression,
		"returnByValue": opts.ReturnByValue,
		"awaitPromise": opts.AwaitPromise,
	}
	if opts.ExecutionContextID != 0 {
		params["contextId"] = opts.ExecutionContextID
	}

	if !s.debug.Enabled() {
		raw, err := s.Send(ctx, "Runtime.evaluate", params)
		if err != nil {
			return nil, err
		}
		return decodeEvaluateResult(raw)
	}

	type callOutcome struct {
		raw []byte
		err error
	}
	callCh := make(chan callOutcome, 1)
	go func() {
		raw, err := s.Send(ctx, "Runtime.evaluate", params)
		callCh <- callOutcome{raw, err}
	}()

	pausedCh := make(chan pausedEvent, 1)
	cancelOnce := s.router.Once("Debugger.paused", func(_ string, raw json.RawMessage) {
		var ev pausedEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			return
		}
		select {
		case pausedCh <- ev:
		default:
		}
	})

	select {
	case ev := <-pausedCh:
		// The CDP call is still outstanding; drain its eventual late
		// response in the background so the Transport's pending slot is
		// freed by the response itself, per this contract point 4.
		go func() { <-callCh }()

		frames := decodeCallFrames(ev.CallFrames)
		result := &EvaluateResult{
			Paused: true,
			PauseReason: ev.Reason,
			CallFrameCount: len(frames),
		}
		if len(frames) > 0 {
			result.TopFrame = &frames[0]
		}
		return result, nil

	case outcome := <-callCh:
		cancelOnce()
		if outcome.err != nil {
			return nil, outcome.err
		}
		return decodeEvaluateResult(outcome.raw)

	case <-ctx.Done():
		cancelOnce()
		return nil, ctx.Err()
	}
}

// EvaluateOnCallFrame evaluates an expression in the scope of a specific
// paused call frame. It is the only valid form of evaluation while paused
// (this contract point 1) and fails with NotPaused otherwise.
func (s *Session) EvaluateOnCallFrame(ctx context.Context, callFrameID state.CallFrameID, expression string, opts EvaluateOptions) (*EvaluateResult, error) {
	if !s.debug.IsPaused() {
		return nil, ErrNotPaused()
	}
	params := map[string]any{
		"callFrameId": string(callFrameID),
		"expression": expression,
		"returnByValue": opts.ReturnByValue,
	}
	raw, err := s.Send(ctx, "Debugger.evaluateOnCallFrame", params)
	if err != nil {
		return nil, err
	}
	return decodeEvaluateResult(raw)
}

// BreakpointAware wraps the result of a side-effecting operation with
// whether a pause was observed within the detection window (this contract
// "Secondary contract for side-effecting operations").
type BreakpointAware struct {
	Result json.RawMessage
	Paused bool
	Info PausedInfo
}

// WithBreakpointDetection issues op, awaits its CDP response, then waits up
// to opts.DetectionWindow for a Debugger.paused event before returning. The
// window is a policy knob, not a correctness requirement — a pause that
// arrives later than the window is still visible via DebugState, just not
// reflected in this particular return value (this contract).
func (s *Session) WithBreakpointDetection(ctx context.Context, op func(context.Context) (json.RawMessage, error)) (*BreakpointAware, error) {
	result, err := op(ctx)
	if err != nil {
		return nil, err
	}

	pausedCh := make(chan pausedEvent, 1)
	cancelOnce := s.router.Once("Debugger.paused", func(_ string, raw json.RawMessage) {
		var ev pausedEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			return
		}
		select {
		case pausedCh <- ev:
		default:
		}
	})

	timer := time.NewTimer(s.opts.DetectionWindow)
	defer timer.Stop()

	select {
	case ev := <-pausedCh:
		return &BreakpointAware{
			Result: result,
			Paused: true,
			Info: PausedInfo{Reason: ev.Reason, CallFrames: decodeCallFrames(ev.CallFrames)},
		}, nil
	case <-timer.C:
		cancelOnce()
		return &BreakpointAware{Result: result, Paused: false}, nil
	case <-ctx.Done():
		cancelOnce()
		return &BreakpointAware{Result: result, Paused: false}, nil
	}
}
