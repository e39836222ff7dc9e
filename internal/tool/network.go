package tool

import (
	"context"
	"encoding/json"

	"github.com/dgnsrekt/cdpagent/internal/cdp/session"
	"github.com/dgnsrekt/cdpagent/internal/cdp/state"
)

type listRequestsArgs struct {
	URLPattern   string `json:"urlPattern"`
	ResourceType string `json:"resourceType"`
	Status       string `json:"status"`
}

type networkRequestView struct {
	RequestID    string `json:"requestId"`
	URL          string `json:"url"`
	Method       string `json:"method"`
	ResourceType string `json:"resourceType"`
	Status       string `json:"status"`
	Duration     any    `json:"duration"`
	Size         int64  `json:"size"`
	Failed       bool   `json:"failed"`
	ErrorText    string `json:"errorText,omitempty"`
}

type listRequestsResult struct {
	Count    int                   `json:"count"`
	Requests []networkRequestView `json:"requests"`
}

func toRequestView(r state.NetworkRequest) networkRequestView {
	view := networkRequestView{
		RequestID:    string(r.RequestID),
		URL:          r.URL,
		Method:       r.Method,
		ResourceType: r.ResourceType,
		Status:       string(r.Status),
		Size:         int64(r.EncodedDataLength),
		Failed:       r.Status == state.NetworkFailed,
		ErrorText:    r.ErrorText,
	}
	if ms, ok := r.DurationMS(); ok {
		view.Duration = ms
	} else {
		view.Duration = "pending"
	}
	return view
}

func listRequestsTool() Tool {
	return Tool{
		Name:        "list_requests",
		Description: "List tracked network requests, optionally filtered by url pattern, resource type, or status.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"urlPattern":   map[string]any{"type": "string"},
				"resourceType": map[string]any{"type": "string"},
				"status":       map[string]any{"type": "string", "enum": []string{"pending", "finished", "failed"}},
			},
		},
		Handler: func(ctx context.Context, sess *session.Session, raw json.RawMessage) *Result {
			var args listRequestsArgs
			if len(raw) > 0 {
				if err := json.Unmarshal(raw, &args); err != nil {
					return ErrorResult(err)
				}
			}

			var reqs []state.NetworkRequest
			switch {
			case args.URLPattern != "":
				reqs = sess.Network().GetByURL(args.URLPattern)
			case args.ResourceType != "":
				reqs = sess.Network().GetByType(args.ResourceType)
			case args.Status == "pending":
				reqs = sess.Network().GetPending()
			case args.Status == "failed":
				reqs = sess.Network().GetFailed()
			case args.Status == "finished":
				for _, r := range sess.Network().GetAll() {
					if r.Status == state.NetworkFinished {
						reqs = append(reqs, r)
					}
				}
			default:
				reqs = sess.Network().GetAll()
			}

			out := listRequestsResult{Count: len(reqs), Requests: make([]networkRequestView, 0, len(reqs))}
			for _, r := range reqs {
				out.Requests = append(out.Requests, toRequestView(r))
			}
			return TextResult(out)
		},
	}
}
