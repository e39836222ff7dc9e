package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/dgnsrekt/cdpagent/internal/cdp/session"
)

// registerDebuggerHandlers exposes a couple of first-class endpoints on top
// of the Session Facade directly (rather than the generic tool envelope) so
// mapErr's CodedError-to-status translation is exercised at the transport
// boundary, one registerXHandlers file per concern.
func registerDebuggerHandlers(api huma.API, sess *session.Session) {
	type evaluateInput struct {
		Body struct {
			Expression string `json:"expression"`
		}
	}
	type evaluateOutput struct {
		Body *session.EvaluateResult
	}
	huma.Register(api, huma.Operation{OperationID: "evaluate", Method: http.MethodPost, Path: "/api/v1/evaluate", Summary: "Evaluate a JavaScript expression", Tags: []string{"Debugger"}},
		func(ctx context.Context, input *evaluateInput) (*evaluateOutput, error) {
			result, err := sess.Evaluate(ctx, input.Body.Expression, session.EvaluateOptions{})
			if err != nil {
				return nil, mapErr(err)
			}
			return &evaluateOutput{Body: result}, nil
		})

	type resumeOutput struct {
		Body struct {
			Resumed bool `json:"resumed"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "resume", Method: http.MethodPost, Path: "/api/v1/resume", Summary: "Resume past the current pause", Tags: []string{"Debugger"}},
		func(ctx context.Context, input *struct{}) (*resumeOutput, error) {
			if err := sess.Resume(ctx); err != nil {
				return nil, mapErr(err)
			}
			out := &resumeOutput{}
			out.Body.Resumed = true
			return out, nil
		})
}
