package tool

import (
	"context"
	"encoding/json"

	"github.com/dgnsrekt/cdpagent/internal/cdp/session"
	"github.com/dgnsrekt/cdpagent/internal/cdp/state"
)

func addInterceptRuleTool() Tool {
	return Tool{
		Name:        "add_intercept_rule",
		Description: "Register a Fetch interception rule.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"pattern":       map[string]any{"type": "string"},
				"resourceTypes": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				"action":        map[string]any{"type": "string", "enum": []string{"pause", "modify", "mock", "fail"}},
				"enabled":       map[string]any{"type": "boolean"},
			},
			"required": []string{"pattern", "action"},
		},
		Handler: func(ctx context.Context, sess *session.Session, raw json.RawMessage) *Result {
			var rule state.InterceptRule
			if err := json.Unmarshal(raw, &rule); err != nil {
				return ErrorResult(err)
			}
			added, err := sess.AddInterceptRule(ctx, rule)
			if err != nil {
				return ErrorResult(err)
			}
			return TextResult(added)
		},
	}
}

func removeInterceptRuleTool() Tool {
	return Tool{
		Name:        "remove_intercept_rule",
		Description: "Remove a Fetch interception rule by id.",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{"id": map[string]any{"type": "string"}},
			"required":   []string{"id"},
		},
		Handler: func(ctx context.Context, sess *session.Session, raw json.RawMessage) *Result {
			var args breakpointIDArgs
			if err := json.Unmarshal(raw, &args); err != nil {
				return ErrorResult(err)
			}
			if err := sess.RemoveInterceptRule(ctx, args.ID); err != nil {
				return ErrorResult(err)
			}
			return TextResult(struct {
				Removed string `json:"removed"`
			}{Removed: args.ID})
		},
	}
}

type pausedRequestIDArgs struct {
	RequestID string `json:"requestId"`
}

func continueRequestTool() Tool {
	return Tool{
		Name:        "continue_request",
		Description: "Resume a paused Fetch request unmodified.",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{"requestId": map[string]any{"type": "string"}},
			"required":   []string{"requestId"},
		},
		Handler: func(ctx context.Context, sess *session.Session, raw json.RawMessage) *Result {
			var args pausedRequestIDArgs
			if err := json.Unmarshal(raw, &args); err != nil {
				return ErrorResult(err)
			}
			if err := sess.ContinueRequest(ctx, state.RequestID(args.RequestID)); err != nil {
				return ErrorResult(err)
			}
			return TextResult(struct {
				Continued string `json:"continued"`
			}{Continued: args.RequestID})
		},
	}
}

type fulfillRequestArgs struct {
	RequestID          string                  `json:"requestId"`
	StatusCode         int                     `json:"statusCode"`
	Headers            []session.FulfillHeader `json:"headers"`
	Body               string                  `json:"body"`
	BodyAlreadyEncoded bool                    `json:"bodyAlreadyEncoded"`
}

func fulfillRequestTool() Tool {
	return Tool{
		Name:        "fulfill_request",
		Description: "Complete a paused Fetch request with a synthesized response.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"requestId":  map[string]any{"type": "string"},
				"statusCode": map[string]any{"type": "integer"},
				"body":       map[string]any{"type": "string"},
			},
			"required": []string{"requestId", "statusCode"},
		},
		Handler: func(ctx context.Context, sess *session.Session, raw json.RawMessage) *Result {
			var args fulfillRequestArgs
			if err := json.Unmarshal(raw, &args); err != nil {
				return ErrorResult(err)
			}
			if err := sess.FulfillRequest(ctx, state.RequestID(args.RequestID), args.StatusCode, args.Headers, args.Body, args.BodyAlreadyEncoded); err != nil {
				return ErrorResult(err)
			}
			return TextResult(struct {
				Fulfilled string `json:"fulfilled"`
			}{Fulfilled: args.RequestID})
		},
	}
}

type failRequestArgs struct {
	RequestID   string `json:"requestId"`
	ErrorReason string `json:"errorReason"`
}

func failRequestTool() Tool {
	return Tool{
		Name:        "fail_request",
		Description: "Abort a paused Fetch request with a network error reason.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"requestId":   map[string]any{"type": "string"},
				"errorReason": map[string]any{"type": "string"},
			},
			"required": []string{"requestId", "errorReason"},
		},
		Handler: func(ctx context.Context, sess *session.Session, raw json.RawMessage) *Result {
			var args failRequestArgs
			if err := json.Unmarshal(raw, &args); err != nil {
				return ErrorResult(err)
			}
			if err := sess.FailRequest(ctx, state.RequestID(args.RequestID), args.ErrorReason); err != nil {
				return ErrorResult(err)
			}
			return TextResult(struct {
				Failed string `json:"failed"`
			}{Failed: args.RequestID})
		},
	}
}

func getResponseBodyTool() Tool {
	return Tool{
		Name:        "get_response_body",
		Description: "Fetch a completed network request's response body.",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{"requestId": map[string]any{"type": "string"}},
			"required":   []string{"requestId"},
		},
		Handler: func(ctx context.Context, sess *session.Session, raw json.RawMessage) *Result {
			var args pausedRequestIDArgs
			if err := json.Unmarshal(raw, &args); err != nil {
				return ErrorResult(err)
			}
			body, base64Encoded, err := sess.GetResponseBody(ctx, state.RequestID(args.RequestID))
			if err != nil {
				return ErrorResult(err)
			}
			return TextResult(struct {
				Body          string `json:"body"`
				Base64Encoded bool   `json:"base64Encoded"`
			}{Body: body, Base64Encoded: base64Encoded})
		},
	}
}
