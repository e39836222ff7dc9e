package session

import "fmt"

// Error codes for session-level CodedErrors, mirroring
// internal/cdpcontrol/types.go's flat string-constant style.
const (
	CodeAlreadyPaused = "ALREADY_PAUSED"
	CodeNotPaused = "NOT_PAUSED"
	CodeBreakpointSpecInvalid = "BREAKPOINT_SPEC_INVALID"
	CodePausedRequestNotFound = "PAUSED_REQUEST_NOT_FOUND"
	CodeRuleNotFound = "RULE_NOT_FOUND"
	CodeTargetNotFound = "TARGET_NOT_FOUND"
	CodeResponseBodyUnavailable = "RESPONSE_BODY_UNAVAILABLE"
	CodeScriptNotFound = "SCRIPT_NOT_FOUND"
	CodeNotConnected = "NOT_CONNECTED"
)

// CodedError is the session-level typed error: a flat string code plus a
// human message and optional cause, so the south-bound HTTP shell can map
// it to a status code (see internal/api's mapErr).
type CodedError struct {
	Code string
	Message string
	Cause error
}

func (e *CodedError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *CodedError) Unwrap() error { return e.Cause }

func newError(code, msg string, cause error) error {
	return &CodedError{Code: code, Message: msg, Cause: cause}
}

// ErrAlreadyPaused reports that evaluate was called while DebugState was
// already Paused (this contract step 1).
func ErrAlreadyPaused(reason string) error {
	return newError(CodeAlreadyPaused, fmt.Sprintf("debugger already paused: %s", reason), nil)
}

// ErrNotPaused reports that a paused-only operation (stepOver, stepInto,
// stepOut, evaluateOnFrame, getCallFrames) was called while running.
func ErrNotPaused() error {
	return newError(CodeNotPaused, "debugger is not paused", nil)
}

// ErrBreakpointSpecInvalid reports that a breakpoint request supplied
// neither url nor urlRegex.
func ErrBreakpointSpecInvalid() error {
	return newError(CodeBreakpointSpecInvalid, "breakpoint spec must set either url or urlRegex", nil)
}

// ErrPausedRequestNotFound reports a continue/fulfill/fail on an unknown
// fetch-paused request id.
func ErrPausedRequestNotFound(id string) error {
	return newError(CodePausedRequestNotFound, fmt.Sprintf("no paused request with id %q", id), nil)
}

// ErrRuleNotFound reports a removeRule/getRule miss.
func ErrRuleNotFound(id string) error {
	return newError(CodeRuleNotFound, fmt.Sprintf("no intercept rule with id %q", id), nil)
}

// ErrTargetNotFound reports a target switch to an unknown targetId.
func ErrTargetNotFound(id string) error {
	return newError(CodeTargetNotFound, fmt.Sprintf("no target with id %q", id), nil)
}

// ErrResponseBodyUnavailable reports that Chrome could not supply a
// response body (e.g. cross-origin opaque response, or the request never
// completed).
func ErrResponseBodyUnavailable(cause error) error {
	return newError(CodeResponseBodyUnavailable, "response body unavailable", cause)
}

// ErrScriptNotFound reports a getScriptSource/lookup miss by scriptId.
func ErrScriptNotFound(id string) error {
	return newError(CodeScriptNotFound, fmt.Sprintf("no script with id %q", id), nil)
}

// ErrNotConnected reports a facade call made before Connect/Launch.
func ErrNotConnected() error {
	return newError(CodeNotConnected, "session is not connected", nil)
}
