package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dgnsrekt/cdpagent/internal/cdp/session"
)

var domainEnablers = map[string]func(*session.Session, context.Context) error{
	"Debugger": (*session.Session).EnableDebugger,
	"Runtime":  (*session.Session).EnableRuntime,
	"Network":  (*session.Session).EnableNetwork,
	"Fetch":    (*session.Session).EnableFetch,
}

var domainDisablers = map[string]func(*session.Session, context.Context) error{
	"Debugger": (*session.Session).DisableDebugger,
	"Runtime":  (*session.Session).DisableRuntime,
	"Network":  (*session.Session).DisableNetwork,
	"Fetch":    (*session.Session).DisableFetch,
}

type setDomainEnabledArgs struct {
	Domain  string `json:"domain"`
	Enabled bool   `json:"enabled"`
}

func setDomainEnabledTool() Tool {
	return Tool{
		Name:        "set_domain_enabled",
		Description: "Enable or disable a CDP domain subscription (Debugger, Runtime, Network, Fetch).",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"domain":  map[string]any{"type": "string", "enum": []string{"Debugger", "Runtime", "Network", "Fetch"}},
				"enabled": map[string]any{"type": "boolean"},
			},
			"required": []string{"domain", "enabled"},
		},
		Handler: func(ctx context.Context, sess *session.Session, raw json.RawMessage) *Result {
			var args setDomainEnabledArgs
			if err := json.Unmarshal(raw, &args); err != nil {
				return ErrorResult(err)
			}
			var fn func(*session.Session, context.Context) error
			var ok bool
			if args.Enabled {
				fn, ok = domainEnablers[args.Domain]
			} else {
				fn, ok = domainDisablers[args.Domain]
			}
			if !ok {
				return ErrorResult(fmt.Errorf("unknown domain %q", args.Domain))
			}
			if err := fn(sess, ctx); err != nil {
				return ErrorResult(err)
			}
			return TextResult(setDomainEnabledArgs{Domain: args.Domain, Enabled: args.Enabled})
		},
	}
}
