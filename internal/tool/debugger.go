package tool

import (
	"context"
	"encoding/json"

	"github.com/dgnsrekt/cdpagent/internal/cdp/session"
	"github.com/dgnsrekt/cdpagent/internal/cdp/state"
)

type setBreakpointArgs struct {
	URL          string `json:"url"`
	URLRegex     string `json:"urlRegex"`
	LineNumber   int    `json:"lineNumber"`
	ColumnNumber int    `json:"columnNumber"`
	Condition    string `json:"condition"`
}

func setBreakpointTool() Tool {
	return Tool{
		Name:        "set_breakpoint",
		Description: "Set a URL- or urlRegex-scoped breakpoint via Debugger.setBreakpointByUrl.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"url":          map[string]any{"type": "string"},
				"urlRegex":     map[string]any{"type": "string"},
				"lineNumber":   map[string]any{"type": "integer"},
				"columnNumber": map[string]any{"type": "integer"},
				"condition":    map[string]any{"type": "string"},
			},
			"required": []string{"lineNumber"},
		},
		Handler: func(ctx context.Context, sess *session.Session, raw json.RawMessage) *Result {
			var args setBreakpointArgs
			if err := json.Unmarshal(raw, &args); err != nil {
				return ErrorResult(err)
			}
			bp, err := sess.SetBreakpoint(ctx, session.BreakpointSpec{
				URL:          args.URL,
				URLRegex:     args.URLRegex,
				LineNumber:   args.LineNumber,
				ColumnNumber: args.ColumnNumber,
				Condition:    args.Condition,
			})
			if err != nil {
				return ErrorResult(err)
			}
			return TextResult(bp)
		},
	}
}

type breakpointIDArgs struct {
	ID string `json:"id"`
}

func removeBreakpointTool() Tool {
	return Tool{
		Name:        "remove_breakpoint",
		Description: "Remove a managed breakpoint by id.",
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
			if err := sess.RemoveBreakpoint(ctx, args.ID); err != nil {
				return ErrorResult(err)
			}
			return TextResult(struct {
				Removed string `json:"removed"`
			}{Removed: args.ID})
		},
	}
}

func resumeTool() Tool {
	return Tool{
		Name:        "resume",
		Description: "Resume execution past the current pause.",
		InputSchema: map[string]any{"type": "object", "properties": map[string]any{}},
		Handler: func(ctx context.Context, sess *session.Session, _ json.RawMessage) *Result {
			if err := sess.Resume(ctx); err != nil {
				return ErrorResult(err)
			}
			return TextResult(struct {
				Resumed bool `json:"resumed"`
			}{true})
		},
	}
}

func stepTool(name, description string, step func(*session.Session, context.Context) error) Tool {
	return Tool{
		Name:        name,
		Description: description,
		InputSchema: map[string]any{"type": "object", "properties": map[string]any{}},
		Handler: func(ctx context.Context, sess *session.Session, _ json.RawMessage) *Result {
			if err := step(sess, ctx); err != nil {
				return ErrorResult(err)
			}
			return TextResult(struct {
				Stepped bool `json:"stepped"`
			}{true})
		},
	}
}

func debugStateTool() Tool {
	return Tool{
		Name:        "get_debug_state",
		Description: "Return the current debugger pause state and breakpoint set.",
		InputSchema: map[string]any{"type": "object", "properties": map[string]any{}},
		Handler: func(ctx context.Context, sess *session.Session, _ json.RawMessage) *Result {
			return TextResult(sess.Debug().ToJSON())
		},
	}
}

func getScriptSourceTool() Tool {
	return Tool{
		Name:        "get_script_source",
		Description: "Return a parsed script's source text, caching it on first fetch.",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{"scriptId": map[string]any{"type": "string"}},
			"required":   []string{"scriptId"},
		},
		Handler: func(ctx context.Context, sess *session.Session, raw json.RawMessage) *Result {
			var args struct {
				ScriptID string `json:"scriptId"`
			}
			if err := json.Unmarshal(raw, &args); err != nil {
				return ErrorResult(err)
			}
			src, err := sess.GetScriptSource(ctx, state.ScriptID(args.ScriptID))
			if err != nil {
				return ErrorResult(err)
			}
			return TextResult(struct {
				Source string `json:"source"`
			}{Source: src})
		},
	}
}
