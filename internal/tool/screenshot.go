package tool

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dgnsrekt/cdpagent/internal/cdp/session"
)

// inlineByteLimit is the threshold above which capture_screenshot and
// capture_snapshot write to disk instead of returning inline base64.
const inlineByteLimit = 1 << 20 // 1 MiB

type captureScreenshotArgs struct {
	Format  string `json:"format"`
	Quality int    `json:"quality"`
}

type captureScreenshotResult struct {
	Format   string `json:"format"`
	ByteSize int    `json:"byteSize"`
	SavedTo  string `json:"savedTo,omitempty"`
}

func captureScreenshotTool() Tool {
	return Tool{
		Name:        "capture_screenshot",
		Description: "Capture a viewport screenshot via Page.captureScreenshot.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"format":  map[string]any{"type": "string", "enum": []string{"png", "jpeg"}},
				"quality": map[string]any{"type": "integer"},
			},
		},
		Handler: func(ctx context.Context, sess *session.Session, raw json.RawMessage) *Result {
			var args captureScreenshotArgs
			if len(raw) > 0 {
				if err := json.Unmarshal(raw, &args); err != nil {
					return ErrorResult(err)
				}
			}
			format := args.Format
			if format == "" {
				format = "png"
			}

			params := map[string]any{"format": format, "fromSurface": true}
			if format == "jpeg" && args.Quality > 0 {
				params["quality"] = args.Quality
			}

			rawResp, err := sess.Send(ctx, "Page.captureScreenshot", params)
			if err != nil {
				return ErrorResult(err)
			}

			var resp struct {
				Data string `json:"data"`
			}
			if err := json.Unmarshal(rawResp, &resp); err != nil {
				return ErrorResult(fmt.Errorf("decode screenshot response: %w", err))
			}

			imageData, err := base64.StdEncoding.DecodeString(resp.Data)
			if err != nil {
				return ErrorResult(fmt.Errorf("decode screenshot data: %w", err))
			}

			if len(imageData) <= inlineByteLimit {
				return &Result{Content: []Content{
					{Type: ContentImage, Data: resp.Data, MimeType: "image/" + format},
					{Type: ContentText, Text: mustJSON(captureScreenshotResult{Format: format, ByteSize: len(imageData)})},
				}}
			}

			path, err := writeToTemp("screenshot", format, imageData)
			if err != nil {
				return ErrorResult(err)
			}
			return TextResult(captureScreenshotResult{Format: format, ByteSize: len(imageData), SavedTo: path})
		},
	}
}

func writeToTemp(prefix, ext string, data []byte) (string, error) {
	name := fmt.Sprintf("%s-%d.%s", prefix, time.Now().UnixMilli(), ext)
	path := filepath.Join(os.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

func mustJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(data)
}
