package tool

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/dgnsrekt/cdpagent/internal/cdp/session"
	"github.com/dgnsrekt/cdpagent/internal/cdp/state"
)

func TestDebugStateToolReflectsPauseState(t *testing.T) {
	sess := session.New(session.DefaultOptions())
	sess.Debug().SetEnabled(true)

	tl := debugStateTool()
	res := tl.Handler(context.Background(), sess, nil)
	if res.IsError {
		t.Fatalf("unexpected error: %+v", res)
	}
	var generic map[string]any
	if err := json.Unmarshal([]byte(res.Content[0].Text), &generic); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if generic["enabled"] != true {
		t.Fatalf("expected enabled=true, got %+v", generic)
	}
}

func TestBreakpointToolsFailWithoutConnection(t *testing.T) {
	sess := session.New(session.DefaultOptions())

	setBP := setBreakpointTool()
	res := setBP.Handler(context.Background(), sess, json.RawMessage(`{"url":"app.js","lineNumber":5}`))
	if !res.IsError {
		t.Fatal("expected set_breakpoint to fail without a connected transport")
	}

	// Pause first so resume gets past its NotPaused check and reaches the
	// transport.
	sess.Debug().OnPaused("breakpoint", []state.CallFrame{{CallFrameID: "cf1"}}, nil, nil, nil)
	resume := resumeTool()
	res = resume.Handler(context.Background(), sess, nil)
	if !res.IsError {
		t.Fatal("expected resume to fail without a connected transport")
	}
}

func TestSetBreakpointToolRejectsMalformedArgs(t *testing.T) {
	sess := session.New(session.DefaultOptions())
	tl := setBreakpointTool()
	res := tl.Handler(context.Background(), sess, json.RawMessage(`not-json`))
	if !res.IsError {
		t.Fatal("expected malformed args to produce an error result")
	}
}
