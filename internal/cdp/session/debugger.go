package session

import (
	"context"
	"fmt"

	"github.com/dgnsrekt/cdpagent/internal/cdp/state"
)

// BreakpointSpec is the caller-supplied request to SetBreakpoint. At least
// one of URL or URLRegex must be set (this contract ManagedBreakpoint,
// §7 BreakpointSpecInvalid); when both are set, both are sent.
type BreakpointSpec struct {
	URL string
	URLRegex string
	ScriptID state.ScriptID
	LineNumber int
	ColumnNumber int
	Condition string
}

// SetBreakpoint registers a URL- or urlRegex-scoped breakpoint via
// Debugger.setBreakpointByUrl, recording it in DebugState. When the caller
// gives a URL but no ScriptID, the recorded breakpoint's ScriptID is best-
// effort resolved from already-known scripts via
// ScriptRegistry.FindScriptForLocation; it stays empty if no matching
// script has parsed yet.
func (s *Session) SetBreakpoint(ctx context.Context, spec BreakpointSpec) (state.ManagedBreakpoint, error) {
	if spec.URL == "" && spec.URLRegex == "" {
		return state.ManagedBreakpoint{}, ErrBreakpointSpecInvalid()
	}

	params := map[string]any{
		"lineNumber": spec.LineNumber,
	}
	if spec.URL != "" {
		params["url"] = spec.URL
	}
	if spec.URLRegex != "" {
		params["urlRegex"] = spec.URLRegex
	}
	if spec.ColumnNumber != 0 {
		params["columnNumber"] = spec.ColumnNumber
	}
	if spec.Condition != "" {
		params["condition"] = spec.Condition
	}

	var result struct {
		BreakpointID string `json:"breakpointId"`
		Locations []struct {
			ScriptID string `json:"scriptId"`
			LineNumber int `json:"lineNumber"`
			ColumnNumber int `json:"columnNumber"`
		} `json:"locations"`
	}
	if err := s.call(ctx, "Debugger.setBreakpointByUrl", params, &result); err != nil {
		return state.ManagedBreakpoint{}, err
	}

	scriptID := spec.ScriptID
	if scriptID == "" && spec.URL != "" {
		if id, ok := s.scripts.FindScriptForLocation(spec.URL, spec.LineNumber); ok {
			scriptID = id
		}
	}

	bp := &state.ManagedBreakpoint{
		ID: result.BreakpointID,
		URL: spec.URL,
		URLRegex: spec.URLRegex,
		ScriptID: scriptID,
		LineNumber: spec.LineNumber,
		ColumnNumber: spec.ColumnNumber,
		Condition: spec.Condition,
		Enabled: true,
	}
	for _, loc := range result.Locations {
		bp.ResolvedLocations = append(bp.ResolvedLocations, state.ResolvedLocation{
			ScriptID: state.ScriptID(loc.ScriptID),
			LineNumber: loc.LineNumber,
			ColumnNumber: loc.ColumnNumber,
		})
	}
	s.debug.AddBreakpoint(bp)
	return *bp, nil
}

// RemoveBreakpoint destroys a managed breakpoint by id, via
// Debugger.removeBreakpoint.
func (s *Session) RemoveBreakpoint(ctx context.Context, id string) error {
	if _, ok := s.debug.GetBreakpoint(id); !ok {
		return fmt.Errorf("session: remove breakpoint: no managed breakpoint with id %q", id)
	}
	if err := s.call(ctx, "Debugger.removeBreakpoint", map[string]any{"breakpointId": id}, nil); err != nil {
		return err
	}
	s.debug.RemoveBreakpoint(id)
	return nil
}

// SetPauseOnExceptions issues Debugger.setPauseOnExceptions and mirrors the
// state into DebugState for ToJSON.
func (s *Session) SetPauseOnExceptions(ctx context.Context, mode state.PauseOnExceptionsState) error {
	if err := s.call(ctx, "Debugger.setPauseOnExceptions", map[string]any{"state": string(mode)}, nil); err != nil {
		return err
	}
	s.debug.SetPauseOnExceptions(mode)
	return nil
}

// Resume continues execution past the current pause via Debugger.resume.
// Fails with NotPaused if the debugger isn't currently paused.
func (s *Session) Resume(ctx context.Context) error {
	if !s.debug.IsPaused() {
		return ErrNotPaused()
	}
	return s.call(ctx, "Debugger.resume", struct{}{}, nil)
}

// StepOver, StepInto, and StepOut issue the corresponding Debugger stepping
// command. All three require the debugger to currently be paused.
func (s *Session) StepOver(ctx context.Context) error { return s.step(ctx, "Debugger.stepOver") }
func (s *Session) StepInto(ctx context.Context) error { return s.step(ctx, "Debugger.stepInto") }
func (s *Session) StepOut(ctx context.Context) error { return s.step(ctx, "Debugger.stepOut") }

func (s *Session) step(ctx context.Context, method string) error {
	if !s.debug.IsPaused() {
		return ErrNotPaused()
	}
	return s.call(ctx, method, struct{}{}, nil)
}

// GetCallFrames returns the current call frames. Fails with NotPaused when
// running.
func (s *Session) GetCallFrames() ([]state.CallFrame, error) {
	if !s.debug.IsPaused() {
		return nil, ErrNotPaused()
	}
	return s.debug.CallFrames(), nil
}

// GetScriptSource returns a script's source text, caching it in the
// ScriptRegistry on first fetch (this contract "Other façade duties": "cache
// the script source on first fetch").
func (s *Session) GetScriptSource(ctx context.Context, scriptID state.ScriptID) (string, error) {
	if src, ok := s.scripts.CachedSource(scriptID); ok {
		return src, nil
	}
	if _, ok := s.scripts.Get(scriptID); !ok {
		return "", ErrScriptNotFound(string(scriptID))
	}

	var result struct {
		ScriptSource string `json:"scriptSource"`
	}
	if err := s.call(ctx, "Debugger.getScriptSource", map[string]any{"scriptId": string(scriptID)}, &result); err != nil {
		return "", err
	}
	s.scripts.CacheSource(scriptID, result.ScriptSource)
	return result.ScriptSource, nil
}
