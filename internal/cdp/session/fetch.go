package session

import (
	"context"

	"github.com/dgnsrekt/cdpagent/internal/cdp/state"
)

// AddInterceptRule registers a new rule and, if fetch is currently enabled,
// re-issues Fetch.enable so the new pattern takes effect immediately.
func (s *Session) AddInterceptRule(ctx context.Context, r state.InterceptRule) (state.InterceptRule, error) {
	added := s.fetch.AddRule(r)
	if err := s.EnableFetch(ctx); err != nil {
		return added, err
	}
	return added, nil
}

// RemoveInterceptRule deletes a rule by id and re-syncs Fetch.enable.
func (s *Session) RemoveInterceptRule(ctx context.Context, id string) error {
	if !s.fetch.RemoveRule(id) {
		return ErrRuleNotFound(id)
	}
	return s.EnableFetch(ctx)
}

// GetInterceptRule returns a rule by id.
func (s *Session) GetInterceptRule(id string) (state.InterceptRule, error) {
	r, ok := s.fetch.GetRule(id)
	if !ok {
		return state.InterceptRule{}, ErrRuleNotFound(id)
	}
	return r, nil
}

// ContinueRequest resumes a paused request unmodified via
// Fetch.continueRequest.
func (s *Session) ContinueRequest(ctx context.Context, id state.RequestID) error {
	if _, ok := s.fetch.GetPaused(id); !ok {
		return ErrPausedRequestNotFound(string(id))
	}
	if err := s.call(ctx, "Fetch.continueRequest", map[string]any{"requestId": string(id)}, nil); err != nil {
		return err
	}
	s.fetch.Dispatch(id)
	return nil
}

// FulfillHeader is a {name, value} pair for FulfillRequest, matching the
// CDP Fetch.fulfillRequest wire shape.
type FulfillHeader struct {
	Name string `json:"name"`
	Value string `json:"value"`
}

// FulfillRequest completes a paused request with a synthesized response.
// A non-pre-encoded text Body is base64-encoded before being placed on the
// wire (this contract "Response body encoding").
func (s *Session) FulfillRequest(ctx context.Context, id state.RequestID, statusCode int, headers []FulfillHeader, body string, bodyAlreadyEncoded bool) error {
	if _, ok := s.fetch.GetPaused(id); !ok {
		return ErrPausedRequestNotFound(string(id))
	}

	encoded := body
	if !bodyAlreadyEncoded {
		encoded = state.EncodeFulfillBody(body)
	}

	params := map[string]any{
		"requestId": string(id),
		"responseCode": statusCode,
		"responseHeaders": headers,
		"body": encoded,
	}
	if err := s.call(ctx, "Fetch.fulfillRequest", params, nil); err != nil {
		return err
	}
	s.fetch.Dispatch(id)
	return nil
}

// FailRequest aborts a paused request with a network error reason via
// Fetch.failRequest.
func (s *Session) FailRequest(ctx context.Context, id state.RequestID, errorReason string) error {
	if _, ok := s.fetch.GetPaused(id); !ok {
		return ErrPausedRequestNotFound(string(id))
	}
	if err := s.call(ctx, "Fetch.failRequest", map[string]any{"requestId": string(id), "errorReason": errorReason}, nil); err != nil {
		return err
	}
	s.fetch.Dispatch(id)
	return nil
}

// GetResponseBody fetches a completed network request's body via
// Network.getResponseBody, surfaced as ResponseBodyUnavailable on failure
// (e.g. cross-origin opaque responses, or a request that never completed).
func (s *Session) GetResponseBody(ctx context.Context, id state.RequestID) (body string, base64Encoded bool, err error) {
	var result struct {
		Body string `json:"body"`
		Base64Encoded bool `json:"base64Encoded"`
	}
	if callErr := s.call(ctx, "Network.getResponseBody", map[string]any{"requestId": string(id)}, &result); callErr != nil {
		return "", false, ErrResponseBodyUnavailable(callErr)
	}
	return result.Body, result.Base64Encoded, nil
}
