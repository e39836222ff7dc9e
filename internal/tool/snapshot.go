package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dgnsrekt/cdpagent/internal/cdp/session"
)

type captureSnapshotResult struct {
	Format   string `json:"format"`
	ByteSize int    `json:"byteSize"`
	SavedTo  string `json:"savedTo,omitempty"`
}

func captureSnapshotTool() Tool {
	return Tool{
		Name:        "capture_snapshot",
		Description: "Capture the page as a single MHTML file via Page.captureSnapshot.",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
		Handler: func(ctx context.Context, sess *session.Session, _ json.RawMessage) *Result {
			rawResp, err := sess.Send(ctx, "Page.captureSnapshot", map[string]any{"format": "mhtml"})
			if err != nil {
				return ErrorResult(err)
			}

			var resp struct {
				Data string `json:"data"`
			}
			if err := json.Unmarshal(rawResp, &resp); err != nil {
				return ErrorResult(fmt.Errorf("decode snapshot response: %w", err))
			}

			byteSize := len(resp.Data)
			if byteSize <= inlineByteLimit {
				return TextResult(struct {
					Format   string `json:"format"`
					ByteSize int    `json:"byteSize"`
					Data     string `json:"data"`
				}{Format: "mhtml", ByteSize: byteSize, Data: resp.Data})
			}

			path, err := writeToTemp("snapshot", "mhtml", []byte(resp.Data))
			if err != nil {
				return ErrorResult(err)
			}
			return TextResult(captureSnapshotResult{Format: "mhtml", ByteSize: byteSize, SavedTo: path})
		},
	}
}
