package tool

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/dgnsrekt/cdpagent/internal/cdp/session"
	"github.com/dgnsrekt/cdpagent/internal/cdp/state"
)

func TestListRequestsToolReportsPendingAndDuration(t *testing.T) {
	sess := session.New(session.DefaultOptions())
	sess.Network().OnRequestWillBeSent("req-1", "https://example.com/a", "GET", "Document", nil, 1.0)
	sess.Network().OnRequestWillBeSent("req-2", "https://example.com/b", "GET", "Script", nil, 2.0)
	sess.Network().OnLoadingFinished("req-1", 1.5, 100)

	tl := listRequestsTool()
	res := tl.Handler(context.Background(), sess, json.RawMessage(`{}`))
	if res.IsError {
		t.Fatalf("unexpected error result: %+v", res)
	}

	var out listRequestsResult
	if err := json.Unmarshal([]byte(res.Content[0].Text), &out); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if out.Count != 2 {
		t.Fatalf("expected 2 requests, got %d", out.Count)
	}

	byID := map[string]networkRequestView{}
	for _, r := range out.Requests {
		byID[r.RequestID] = r
	}
	if d, ok := byID["req-1"].Duration.(float64); !ok || d <= 0 {
		t.Fatalf("expected req-1 to report a positive numeric duration, got %#v", byID["req-1"].Duration)
	}
	if s, ok := byID["req-2"].Duration.(string); !ok || s != "pending" {
		t.Fatalf("expected req-2 to report \"pending\", got %#v", byID["req-2"].Duration)
	}
}

func TestListRequestsToolFiltersByStatus(t *testing.T) {
	sess := session.New(session.DefaultOptions())
	sess.Network().OnRequestWillBeSent("req-1", "https://example.com/a", "GET", "Document", nil, 1.0)
	sess.Network().OnLoadingFailed("req-1", 1.2, "net::ERR_FAILED", false)

	tl := listRequestsTool()
	res := tl.Handler(context.Background(), sess, json.RawMessage(`{"status":"failed"}`))
	var out listRequestsResult
	if err := json.Unmarshal([]byte(res.Content[0].Text), &out); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if out.Count != 1 || !out.Requests[0].Failed {
		t.Fatalf("expected one failed request, got %+v", out)
	}
	_ = state.NetworkFailed
}

func TestListRequestsToolRejectsMalformedArgs(t *testing.T) {
	sess := session.New(session.DefaultOptions())
	tl := listRequestsTool()
	res := tl.Handler(context.Background(), sess, json.RawMessage(`not-json`))
	if !res.IsError {
		t.Fatal("expected malformed args to produce an error result")
	}
}
