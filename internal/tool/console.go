package tool

import (
	"context"
	"encoding/json"

	"github.com/dgnsrekt/cdpagent/internal/cdp/session"
)

type listConsoleMessagesArgs struct {
	Level string `json:"level"`
}

func listConsoleMessagesTool() Tool {
	return Tool{
		Name:        "list_console_messages",
		Description: "List collected console.* messages, optionally filtered by level.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"level": map[string]any{"type": "string", "enum": []string{"log", "info", "warning", "error", "debug"}},
			},
		},
		Handler: func(ctx context.Context, sess *session.Session, raw json.RawMessage) *Result {
			var args listConsoleMessagesArgs
			if len(raw) > 0 {
				if err := json.Unmarshal(raw, &args); err != nil {
					return ErrorResult(err)
				}
			}
			var msgs = sess.Console().Messages()
			if args.Level != "" {
				msgs = sess.Console().MessagesByLevel(args.Level)
			}
			return TextResult(struct {
				Count    int `json:"count"`
				Messages any `json:"messages"`
			}{Count: len(msgs), Messages: msgs})
		},
	}
}

func listExceptionsTool() Tool {
	return Tool{
		Name:        "list_exceptions",
		Description: "List collected uncaught exceptions.",
		InputSchema: map[string]any{"type": "object", "properties": map[string]any{}},
		Handler: func(ctx context.Context, sess *session.Session, _ json.RawMessage) *Result {
			exc := sess.Console().Exceptions()
			return TextResult(struct {
				Count      int `json:"count"`
				Exceptions any `json:"exceptions"`
			}{Count: len(exc), Exceptions: exc})
		},
	}
}
