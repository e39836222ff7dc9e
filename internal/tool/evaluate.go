package tool

import (
	"context"
	"encoding/json"

	"github.com/dgnsrekt/cdpagent/internal/cdp/session"
)

type evaluateArgs struct {
	Expression string `json:"expression"`
}

// evaluateResultView mirrors the exact result shape from this contract:
// "evaluate returns either {paused, pauseReason, callFrameCount, topFrame}
// or {exception, details} or {type, subtype, value, objectId}".
type evaluateResultView struct {
	Paused *bool `json:"paused,omitempty"`
	PauseReason string `json:"pauseReason,omitempty"`
	CallFrameCount *int `json:"callFrameCount,omitempty"`
	TopFrame any `json:"topFrame,omitempty"`

	Exception string `json:"exception,omitempty"`
	Details string `json:"details,omitempty"`

	Type string `json:"type,omitempty"`
	Subtype string `json:"subtype,omitempty"`
	Value any `json:"value,omitempty"`
	ObjectID string `json:"objectId,omitempty"`
}

func evaluateTool() Tool {
	return Tool{
		Name: "evaluate",
		Description: "Evaluate a JavaScript expression, racing it against a breakpoint pause.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{"expression": map[string]any{"type": "string"}},
			"required": []string{"expression"},
		},
		Handler: func(ctx context.Context, sess *session.Session, raw json.RawMessage) *Result {
			var args evaluateArgs
			if err := json.Unmarshal(raw, &args); err != nil {
				return ErrorResult(err)
			}
			res, err := sess.Evaluate(ctx, args.Expression, session.EvaluateOptions{})
			if err != nil {
				return ErrorResult(err)
			}

			if res.Paused {
				count := res.CallFrameCount
				paused := true
				view := evaluateResultView{Paused: &paused, PauseReason: res.PauseReason, CallFrameCount: &count}
				if res.TopFrame != nil {
					view.TopFrame = res.TopFrame
				}
				return TextResult(view)
			}
			if res.Exception {
				return TextResult(evaluateResultView{Exception: res.ExceptionText, Details: res.ExceptionDetails})
			}
			return TextResult(evaluateResultView{Type: res.Type, Subtype: res.Subtype, Value: res.Value, ObjectID: res.ObjectID})
		},
	}
}
