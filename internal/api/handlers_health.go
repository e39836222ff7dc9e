package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/dgnsrekt/cdpagent/internal/cdp/session"
)

func registerHealthHandlers(api huma.API, sess *session.Session) {
	type healthOutput struct {
		Body struct {
			Status string `json:"status"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "health", Method: http.MethodGet, Path: "/health", Summary: "Health check", Tags: []string{"Health"}},
		func(ctx context.Context, input *struct{}) (*healthOutput, error) {
			out := &healthOutput{}
			out.Body.Status = "ok"
			return out, nil
		})

	type debugStateOutput struct {
		Body any
	}
	huma.Register(api, huma.Operation{OperationID: "get-debug-state", Method: http.MethodGet, Path: "/api/v1/debug-state", Summary: "Current pause state and breakpoint set", Tags: []string{"Health"}},
		func(ctx context.Context, input *struct{}) (*debugStateOutput, error) {
			return &debugStateOutput{Body: sess.Debug().ToJSON()}, nil
		})
}
