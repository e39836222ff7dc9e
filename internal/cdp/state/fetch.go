package state

import (
	"encoding/base64"
	"fmt"
	"sync"

	"github.com/dgnsrekt/cdpagent/internal/cdp/match"
)

// InterceptAction is the advisory action recorded on an InterceptRule. The
// engine never auto-dispatches on it; the caller must still invoke
// continue/fulfill/fail explicitly (this contract).
type InterceptAction string

const (
	ActionPause InterceptAction = "pause"
	ActionModify InterceptAction = "modify"
	ActionMock InterceptAction = "mock"
	ActionFail InterceptAction = "fail"
)

// HeaderCondition is a domain-expansion addition: a {name, value} pair
// stored on a rule (InterceptRule.Headers, InterceptRule.ModifyHeaders),
// grounded in ITnpc-cdpnetool's allOf/anyOf header conditions.
// FindMatchingRule does not evaluate it.
type HeaderCondition struct {
	Name string `json:"name"`
	Value string `json:"value"`
}

// InterceptRule is this contract's InterceptRule entity, plus optional
// Method/Headers fields. Method and Headers are stored and returned with
// the rule but are not consulted by FindMatchingRule, which selects on
// enabled, resourceTypes and pattern only.
type InterceptRule struct {
	ID string `json:"id"`
	Pattern string `json:"pattern"`
	ResourceTypes []string `json:"resourceTypes,omitempty"`
	Method string `json:"method,omitempty"`
	Headers []HeaderCondition `json:"headers,omitempty"`
	Action InterceptAction `json:"action"`
	ModifyHeaders []HeaderCondition `json:"modifyHeaders,omitempty"`
	ModifyURL string `json:"modifyUrl,omitempty"`
	MockResponse *MockResponse `json:"mockResponse,omitempty"`
	FailReason string `json:"failReason,omitempty"`
	Enabled bool `json:"enabled"`

	matcher *match.Matcher
}

// MockResponse is the payload used by a "mock" action.
type MockResponse struct {
	StatusCode int `json:"statusCode"`
	Headers map[string]string `json:"headers,omitempty"`
	Body string `json:"body,omitempty"`
}

// PausedRequest is this contract's PausedRequest entity.
type PausedRequest struct {
	RequestID RequestID `json:"requestId"`
	URL string `json:"url"`
	Method string `json:"method"`
	ResourceType string `json:"resourceType"`
	Headers map[string]string `json:"headers"`
	PostData string `json:"postData,omitempty"`
	Timestamp float64 `json:"timestamp"`
	MatchedRule string `json:"matchedRule,omitempty"`
}

// FetchPattern is one entry of the deduplicated CDP pattern list passed to
// Fetch.enable (this contract "CDP pattern generation").
type FetchPattern struct {
	URLPattern string `json:"urlPattern"`
	ResourceType string `json:"resourceType,omitempty"`
	RequestStage string `json:"requestStage"`
}

// FetchInterceptor is the fetch-interception rule engine and paused-request
// table (this contract).
type FetchInterceptor struct {
	mu sync.Mutex

	rules []*InterceptRule
	nextRuleID int

	paused map[RequestID]*PausedRequest
}

// NewFetchInterceptor returns an empty interceptor.
func NewFetchInterceptor() *FetchInterceptor {
	return &FetchInterceptor{
		paused: make(map[RequestID]*PausedRequest),
	}
}

// AddRule compiles and stores a new rule, assigning it the next id from a
// counter that is reset only by Reset — never by RemoveRule (this contract,
// §9 "Rule-ID monotonicity").
func (f *FetchInterceptor) AddRule(r InterceptRule) InterceptRule {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextRuleID++
	r.ID = fmt.Sprintf("rule-%d", f.nextRuleID)
	r.matcher = match.Compile(r.Pattern, true)
	f.rules = append(f.rules, &r)
	return stripMatcher(r)
}

// GetRule returns a copy of a rule by id.
func (f *FetchInterceptor) GetRule(id string) (InterceptRule, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rules {
		if r.ID == id {
			return stripMatcher(*r), true
		}
	}
	return InterceptRule{}, false
}

// RemoveRule deletes a rule by id without touching the id counter.
func (f *FetchInterceptor) RemoveRule(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.rules {
		if r.ID == id {
			f.rules = append(f.rules[:i], f.rules[i+1:]...)
			return true
		}
	}
	return false
}

// Rules returns a copy of every registered rule, insertion order.
func (f *FetchInterceptor) Rules() []InterceptRule {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]InterceptRule, 0, len(f.rules))
	for _, r := range f.rules {
		out = append(out, stripMatcher(*r))
	}
	return out
}

func stripMatcher(r InterceptRule) InterceptRule {
	r.matcher = nil
	return r
}

// FindMatchingRule implements this contract's findMatchingRule: iterates
// rules in insertion order, skipping disabled ones, and returns the first
// whose resourceTypes filter (if any) includes resourceType and whose
// pattern matches url.
func (f *FetchInterceptor) FindMatchingRule(url, resourceType string) (InterceptRule, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rules {
		if !r.Enabled {
			continue
		}
		if len(r.ResourceTypes) > 0 && !containsString(r.ResourceTypes, resourceType) {
			continue
		}
		if r.matcher == nil {
			r.matcher = match.Compile(r.Pattern, true)
		}
		if r.matcher.MatchString(url) {
			return stripMatcher(*r), true
		}
	}
	return InterceptRule{}, false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// BuildFetchPatterns produces the deduplicated {urlPattern, resourceType,
// requestStage} list passed to Fetch.enable, fanning rules with multiple
// resourceTypes out to one pattern per type (this contract).
func (f *FetchInterceptor) BuildFetchPatterns() []FetchPattern {
	f.mu.Lock()
	defer f.mu.Unlock()

	seen := make(map[FetchPattern]struct{})
	var out []FetchPattern
	add := func(p FetchPattern) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}

	for _, r := range f.rules {
		if !r.Enabled {
			continue
		}
		if len(r.ResourceTypes) == 0 {
			add(FetchPattern{URLPattern: r.Pattern, RequestStage: "Request"})
			continue
		}
		for _, rt := range r.ResourceTypes {
			add(FetchPattern{URLPattern: r.Pattern, ResourceType: rt, RequestStage: "Request"})
		}
	}
	return out
}

// OnRequestPaused snapshots a Fetch.requestPaused event, computes its
// matched rule, and inserts it into the paused table.
func (f *FetchInterceptor) OnRequestPaused(id RequestID, url, method, resourceType string, headers map[string]string, postData string, ts float64) PausedRequest {
	rule, matched := f.FindMatchingRule(url, resourceType)

	pr := &PausedRequest{
		RequestID: id,
		URL: url,
		Method: method,
		ResourceType: resourceType,
		Headers: headers,
		PostData: postData,
		Timestamp: ts,
	}
	if matched {
		pr.MatchedRule = rule.ID
	}

	f.mu.Lock()
	f.paused[id] = pr
	f.mu.Unlock()

	return *pr
}

// GetPaused returns a copy of a paused request by id.
func (f *FetchInterceptor) GetPaused(id RequestID) (PausedRequest, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pr, ok := f.paused[id]
	if !ok {
		return PausedRequest{}, false
	}
	return *pr, true
}

// PausedRequests returns a copy of every currently paused request.
func (f *FetchInterceptor) PausedRequests() []PausedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]PausedRequest, 0, len(f.paused))
	for _, pr := range f.paused {
		out = append(out, *pr)
	}
	return out
}

// Dispatch removes a paused request from the table, as required after
// continue/fulfill/fail (this contract). It reports false if the id was
// unknown, so the caller can surface PausedRequestNotFound without having
// made any CDP call.
func (f *FetchInterceptor) Dispatch(id RequestID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.paused[id]; !ok {
		return false
	}
	delete(f.paused, id)
	return true
}

// EncodeFulfillBody base64-encodes a text response body for
// Fetch.fulfillRequest, per this contract's "response body encoding" rule. A
// caller that already has a pre-encoded body should not call this.
func EncodeFulfillBody(text string) string {
	return base64.StdEncoding.EncodeToString([]byte(text))
}

// Reset clears rules, the id counter, and the paused table (this contract).
func (f *FetchInterceptor) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules = nil
	f.nextRuleID = 0
	f.paused = make(map[RequestID]*PausedRequest)
}
