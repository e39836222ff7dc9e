package tool

import (
	"context"

	"github.com/dgnsrekt/cdpagent/internal/cdp/session"
)

// builtins returns the fixed set of tools a running agent exposes,
// covering evaluation, breakpoints, network inspection, fetch
// interception, console collection, and page capture.
func builtins() []Tool {
	return []Tool{
		evaluateTool(),
		setBreakpointTool(),
		removeBreakpointTool(),
		resumeTool(),
		stepTool("step_over", "Step over the current line.", func(s *session.Session, ctx context.Context) error { return s.StepOver(ctx) }),
		stepTool("step_into", "Step into the current call.", func(s *session.Session, ctx context.Context) error { return s.StepInto(ctx) }),
		stepTool("step_out", "Step out of the current function.", func(s *session.Session, ctx context.Context) error { return s.StepOut(ctx) }),
		debugStateTool(),
		getScriptSourceTool(),
		listRequestsTool(),
		getResponseBodyTool(),
		addInterceptRuleTool(),
		removeInterceptRuleTool(),
		continueRequestTool(),
		fulfillRequestTool(),
		failRequestTool(),
		listConsoleMessagesTool(),
		listExceptionsTool(),
		setDomainEnabledTool(),
		captureScreenshotTool(),
		captureSnapshotTool(),
	}
}
