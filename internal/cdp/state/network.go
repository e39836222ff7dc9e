package state

import (
	"container/list"
	"sync"

	"github.com/dgnsrekt/cdpagent/internal/cdp/match"
)

// NetworkRequestStatus is the lifecycle status of a NetworkRequest entity
// (this contract).
type NetworkRequestStatus string

const (
	NetworkPending NetworkRequestStatus = "pending"
	NetworkFinished NetworkRequestStatus = "finished"
	NetworkFailed NetworkRequestStatus = "failed"
)

// NetworkRequest is this contract's NetworkRequest entity, incrementally
// patched across Network.requestWillBeSent / responseReceived /
// loadingFinished / loadingFailed, following the same pending-record
// patching pattern used for incremental HTTP capture.
type NetworkRequest struct {
	RequestID RequestID `json:"requestId"`
	URL string `json:"url"`
	Method string `json:"method"`
	ResourceType string `json:"resourceType"`
	Status NetworkRequestStatus `json:"status"`
	StatusCode int `json:"statusCode,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
	RequestHeaders map[string]string `json:"requestHeaders,omitempty"`
	ResponseHeaders map[string]string `json:"responseHeaders,omitempty"`
	ErrorText string `json:"errorText,omitempty"`
	Canceled bool `json:"canceled,omitempty"`
	EncodedDataLength float64 `json:"encodedDataLength,omitempty"`
	Timestamp float64 `json:"timestamp"`
	EndTimestamp float64 `json:"endTimestamp,omitempty"`
}

// NetworkSummary is the toJSON(networkState).summary shape from this contract
type NetworkSummary struct {
	Total int `json:"total"`
	Pending int `json:"pending"`
	Finished int `json:"finished"`
	Failed int `json:"failed"`
}

// NetworkState is the bounded, insertion-ordered network request
// projection (this contract). When Capacity is exceeded the oldest
// entry by insertion order is evicted, regardless of its status.
type NetworkState struct {
	mu sync.Mutex
	capacity int
	order *list.List // of RequestID, oldest at front
	elems map[RequestID]*list.Element
	byID map[RequestID]*NetworkRequest
}

// NewNetworkState returns a NetworkState bounded at capacity entries. A
// non-positive capacity is treated as unbounded.
func NewNetworkState(capacity int) *NetworkState {
	return &NetworkState{
		capacity: capacity,
		order: list.New(),
		elems: make(map[RequestID]*list.Element),
		byID: make(map[RequestID]*NetworkRequest),
	}
}

// OnRequestWillBeSent creates or restarts tracking for a request, handling
// Network.requestWillBeSent.
func (n *NetworkState) OnRequestWillBeSent(id RequestID, url, method, resourceType string, headers map[string]string, ts float64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if _, exists := n.byID[id]; !exists {
		n.evictIfFullLocked()
	}

	req := &NetworkRequest{
		RequestID: id,
		URL: url,
		Method: method,
		ResourceType: resourceType,
		Status: NetworkPending,
		RequestHeaders: headers,
		Timestamp: ts,
	}
	n.byID[id] = req
	if el, ok := n.elems[id]; ok {
		n.order.MoveToBack(el)
	} else {
		n.elems[id] = n.order.PushBack(id)
	}
}

func (n *NetworkState) evictIfFullLocked() {
	if n.capacity <= 0 {
		return
	}
	for len(n.byID) >= n.capacity {
		oldest := n.order.Front()
		if oldest == nil {
			return
		}
		id := oldest.Value.(RequestID)
		n.order.Remove(oldest)
		delete(n.elems, id)
		delete(n.byID, id)
	}
}

// OnResponseReceived patches statusCode/mimeType/responseHeaders, handling
// Network.responseReceived. A response for an unknown (already-evicted)
// request is silently dropped.
func (n *NetworkState) OnResponseReceived(id RequestID, statusCode int, mimeType string, headers map[string]string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	req, ok := n.byID[id]
	if !ok {
		return
	}
	req.StatusCode = statusCode
	req.MimeType = mimeType
	req.ResponseHeaders = headers
}

// OnLoadingFinished marks a request Finished, handling
// Network.loadingFinished.
func (n *NetworkState) OnLoadingFinished(id RequestID, timestamp, encodedDataLength float64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	req, ok := n.byID[id]
	if !ok {
		return
	}
	req.Status = NetworkFinished
	req.EncodedDataLength = encodedDataLength
	req.EndTimestamp = timestamp
}

// OnLoadingFailed marks a request Failed, handling Network.loadingFailed.
func (n *NetworkState) OnLoadingFailed(id RequestID, timestamp float64, errorText string, canceled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	req, ok := n.byID[id]
	if !ok {
		return
	}
	req.Status = NetworkFailed
	req.ErrorText = errorText
	req.Canceled = canceled
	req.EndTimestamp = timestamp
}

// DurationMS returns the elapsed time in milliseconds between the request's
// start and end timestamps, and false if the request is still pending. CDP
// timestamps are monotonic seconds, not wall-clock time.
func (r NetworkRequest) DurationMS() (float64, bool) {
	if r.Status == NetworkPending || r.EndTimestamp == 0 {
		return 0, false
	}
	return (r.EndTimestamp - r.Timestamp) * 1000, true
}

// GetAll returns a defensive copy of every tracked request, oldest first.
func (n *NetworkState) GetAll() []NetworkRequest {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]NetworkRequest, 0, n.order.Len())
	for el := n.order.Front(); el != nil; el = el.Next() {
		id := el.Value.(RequestID)
		out = append(out, *n.byID[id])
	}
	return out
}

// GetByURL returns tracked requests whose url matches pattern using the
// unanchored substring-style matcher (this contract).
func (n *NetworkState) GetByURL(pattern string) []NetworkRequest {
	m := match.Compile(pattern, false)
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []NetworkRequest
	for el := n.order.Front(); el != nil; el = el.Next() {
		id := el.Value.(RequestID)
		req := n.byID[id]
		if m.MatchString(req.URL) {
			out = append(out, *req)
		}
	}
	return out
}

// GetByType returns tracked requests of the given resourceType.
func (n *NetworkState) GetByType(resourceType string) []NetworkRequest {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []NetworkRequest
	for el := n.order.Front(); el != nil; el = el.Next() {
		id := el.Value.(RequestID)
		req := n.byID[id]
		if req.ResourceType == resourceType {
			out = append(out, *req)
		}
	}
	return out
}

// GetFailed returns every request currently in Failed status.
func (n *NetworkState) GetFailed() []NetworkRequest {
	return n.getByStatus(NetworkFailed)
}

// GetPending returns every request currently in Pending status.
func (n *NetworkState) GetPending() []NetworkRequest {
	return n.getByStatus(NetworkPending)
}

func (n *NetworkState) getByStatus(status NetworkRequestStatus) []NetworkRequest {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []NetworkRequest
	for el := n.order.Front(); el != nil; el = el.Next() {
		id := el.Value.(RequestID)
		req := n.byID[id]
		if req.Status == status {
			out = append(out, *req)
		}
	}
	return out
}

// GetSummary returns aggregate counts by status.
func (n *NetworkState) GetSummary() NetworkSummary {
	n.mu.Lock()
	defer n.mu.Unlock()
	var s NetworkSummary
	s.Total = len(n.byID)
	for _, req := range n.byID {
		switch req.Status {
		case NetworkPending:
			s.Pending++
		case NetworkFinished:
			s.Finished++
		case NetworkFailed:
			s.Failed++
		}
	}
	return s
}

// Reset clears all tracked requests (session reset).
func (n *NetworkState) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.order = list.New()
	n.elems = make(map[RequestID]*list.Element)
	n.byID = make(map[RequestID]*NetworkRequest)
}
