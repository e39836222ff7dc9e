package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/dgnsrekt/cdpagent/internal/cdp/session"
	"github.com/dgnsrekt/cdpagent/internal/tool"
)

// registerToolHandlers exposes the tool registry as a generic list-and-
// invoke pair rather than one hand-written endpoint per tool: the tool
// contract already carries {name, inputSchema, handler}, so duplicating it
// behind bespoke huma operations per tool would just be restating the
// registry in a second form.
func registerToolHandlers(api huma.API, sess *session.Session, registry *tool.Registry) {
	type toolDescriptor struct {
		Name string `json:"name"`
		Description string `json:"description"`
		InputSchema map[string]any `json:"inputSchema"`
	}
	type listToolsOutput struct {
		Body struct {
			Tools []toolDescriptor `json:"tools"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "list-tools", Method: http.MethodGet, Path: "/api/v1/tools", Summary: "List available tools", Tags: []string{"Tools"}},
		func(ctx context.Context, input *struct{}) (*listToolsOutput, error) {
		out := &listToolsOutput{}
		for _, t := range registry.List() {
			out.Body.Tools = append(out.Body.Tools, toolDescriptor{Name: t.Name, Description: t.Description, InputSchema: t.InputSchema})
		}
		return out, nil
	})

	type invokeToolInput struct {
		Name string `path:"name"`
		Body json.RawMessage
	}
	type invokeToolOutput struct {
		Body tool.Result
	}
	huma.Register(api, huma.Operation{OperationID: "invoke-tool", Method: http.MethodPost, Path: "/api/v1/tools/{name}", Summary: "Invoke a tool by name", Tags: []string{"Tools"}},
		func(ctx context.Context, input *invokeToolInput) (*invokeToolOutput, error) {
		t, ok := registry.Get(input.Name)
		if !ok {
			return nil, huma.Error404NotFound("no tool named " + input.Name)
		}
		// The tool result already carries its own isError/text-message
		// signaling and is returned verbatim rather than remapped onto
		// an HTTP status here.
		result := t.Handler(ctx, sess, input.Body)
		return &invokeToolOutput{Body: *result}, nil
	})
}
