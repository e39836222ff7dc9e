package tool

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/dgnsrekt/cdpagent/internal/cdp/session"
)

func TestWriteToTempUsesEpochMillisecondNaming(t *testing.T) {
	path, err := writeToTemp("screenshot", "png", []byte("fake-png-bytes"))
	if err != nil {
		t.Fatalf("writeToTemp: %v", err)
	}
	defer os.Remove(path)

	if ok, _ := regexp.MatchString(`^screenshot-\d+\.png$`, filepath.Base(path)); !ok {
		t.Fatalf("expected screenshot-<epochMs>.png naming, got %s", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected file to exist at %s: %v", path, err)
	}
	if string(data) != "fake-png-bytes" {
		t.Fatalf("unexpected file contents: %q", data)
	}
}

func TestMustJSONFallsBackOnUnmarshalableValue(t *testing.T) {
	if got := mustJSON(make(chan int)); got != "{}" {
		t.Fatalf("expected fallback \"{}\", got %q", got)
	}
	if got := mustJSON(map[string]int{"a": 1}); got != `{"a":1}` {
		t.Fatalf("unexpected json: %q", got)
	}
}

func TestCaptureScreenshotToolFailsWithoutConnection(t *testing.T) {
	sess := session.New(session.DefaultOptions())
	tl := captureScreenshotTool()
	res := tl.Handler(context.Background(), sess, json.RawMessage(`{"format":"png"}`))
	if !res.IsError {
		t.Fatal("expected capture_screenshot to fail without a connected transport")
	}
}
