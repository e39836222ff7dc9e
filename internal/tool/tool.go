// Package tool implements the south-bound tool contract from this contract:
// each tool is {name, inputSchema, handler(session, args) -> Result}, and
// results are a tagged union of text/image content, with errors carrying
// IsError plus a message beginning "Error: ". This is the "thin wrapping"
// the contract explicitly excludes from the core engine, kept minimal here so
// the repo has a runnable south-bound surface.
package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dgnsrekt/cdpagent/internal/cdp/session"
)

// ContentType tags a Content union member.
type ContentType string

const (
	ContentText ContentType = "text"
	ContentImage ContentType = "image"
)

// Content is one piece of a tool Result: either a text payload (a JSON
// string, usually) or an inline base64 image.
type Content struct {
	Type ContentType `json:"type"`
	Text string `json:"text,omitempty"`
	Data string `json:"data,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
}

// Result is the envelope every tool handler returns (this contract).
type Result struct {
	Content []Content `json:"content"`
	IsError bool `json:"isError,omitempty"`
}

// TextResult wraps a JSON-stringified value as a single text Content.
func TextResult(v any) *Result {
	data, err := json.Marshal(v)
	if err != nil {
		return ErrorResult(fmt.Errorf("marshal result: %w", err))
	}
	return &Result{Content: []Content{{Type: ContentText, Text: string(data)}}}
}

// ErrorResult wraps err as a single text Content beginning "Error: ", with
// IsError set, per this contract
func ErrorResult(err error) *Result {
	return &Result{
		Content: []Content{{Type: ContentText, Text: "Error: " + err.Error()}},
		IsError: true,
	}
}

// ImageResult wraps an inline base64 image Content.
func ImageResult(base64Data, mimeType string) *Result {
	return &Result{Content: []Content{{Type: ContentImage, Data: base64Data, MimeType: mimeType}}}
}

// Handler executes one invocation of a Tool against a live session.
type Handler func(ctx context.Context, sess *session.Session, args json.RawMessage) *Result

// Tool is the {name, inputSchema, handler} contract from this contract
// InputSchema is a JSON Schema object describing the expected args shape;
// internal/api delegates its validation to huma's struct-tag machinery
// rather than interpreting InputSchema itself.
type Tool struct {
	Name string
	Description string
	InputSchema map[string]any
	Handler Handler
}
