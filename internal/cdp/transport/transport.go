// Package transport implements a minimal, correlated JSON-RPC-over-WebSocket
// client for the Chrome DevTools Protocol. It owns exactly one WebSocket
// connection, assigns request ids, matches responses back to callers, and
// fans inbound events out to a single subscriber channel.
//
// This intentionally does not use chromedp's allocator/executor: the engine
// needs direct control over per-request timeouts, bulk cancellation on
// disconnect, and the ability to drain a late response after a caller has
// stopped waiting on it (see internal/cdp/session's evaluate race) — all of
// which chromedp hides inside its own session machinery.
package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
)

// DefaultTimeout is used for Send calls that don't specify their own
// deadline via ctx, per this contract ("Each call has a timeout (default
// 30s)").
const DefaultTimeout = 30 * time.Second

// Event is a single inbound CDP frame that carries a "method" and no "id" —
// i.e. a protocol event rather than a response.
type Event struct {
	Method    string
	SessionID string
	Params    json.RawMessage
}

type pendingRequest struct {
	id     int64
	method string
	ch     chan pendingResult
	timer  *time.Timer
}

type pendingResult struct {
	result json.RawMessage
	err    error
}

// Client is a single CDP WebSocket connection with request/response
// correlation and event fan-out.
type Client struct {
	httpBase string
	timeout  time.Duration

	mu   sync.Mutex
	conn net.Conn
	seq  atomic.Int64

	pendingMu sync.Mutex
	pending   map[int64]*pendingRequest

	events chan Event
	closed chan struct{}
	once   sync.Once
}

// New builds a Client bound to httpBase (e.g. "http://127.0.0.1:9222"),
// which is used for endpoint discovery via /json/list and /json/version.
func New(httpBase string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		httpBase: strings.TrimRight(httpBase, "/"),
		timeout: timeout,
		pending: make(map[int64]*pendingRequest),
		events: make(chan Event, 4096),
		closed: make(chan struct{}),
	}
}

// Connect dials the browser-level WebSocket debugger endpoint discovered via
// /json/version and starts the read loop. Reconnecting after Close requires
// a new Client (projections survive reconnect at the session layer, not
// here — see this contract "Recovery").
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return nil
	}

	wsURL, err := c.BrowserWebSocketURL(ctx)
	if err != nil {
		return fmt.Errorf("transport: resolve ws endpoint: %w", err)
	}

	conn, _, _, err := ws.Dial(ctx, wsURL)
	if err != nil {
		return fmt.Errorf("transport: dial: %w", err)
	}

	c.conn = conn
	go c.readLoop()
	return nil
}

// ConnectURL dials a specific WebSocket debugger URL directly (used when
// attaching to a target-scoped endpoint rather than the browser endpoint).
func (c *Client) ConnectURL(ctx context.Context, wsURL string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return nil
	}

	conn, _, _, err := ws.Dial(ctx, wsURL)
	if err != nil {
		return fmt.Errorf("transport: dial: %w", err)
	}

	c.conn = conn
	go c.readLoop()
	return nil
}

// Events returns the channel of inbound protocol events (frames with a
// "method" and no "id"). There is exactly one subscriber in this engine:
// internal/cdp/router.Router. The channel is closed when the connection
// closes.
func (c *Client) Events() <-chan Event { return c.events }

// Closed returns a channel that is closed once Disconnect has fully torn
// down the connection and failed every pending request.
func (c *Client) Closed() <-chan struct{} { return c.closed }

// Send issues a browser-level (session-less) CDP command and blocks until a
// response arrives, ctx is canceled, or the per-call timeout elapses.
func (c *Client) Send(ctx context.Context, method string, params any) (json.RawMessage, error) {
	return c.send(ctx, "", method, params)
}

// SendSession issues a CDP command on a flattened target session (sessionId
// carried in the envelope, per this contract wire protocol).
func (c *Client) SendSession(ctx context.Context, sessionID, method string, params any) (json.RawMessage, error) {
	return c.send(ctx, sessionID, method, params)
}

func (c *Client) send(ctx context.Context, sessionID, method string, params any) (json.RawMessage, error) {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return nil, &NotConnectedError{}
	}

	id := c.seq.Add(1)
	envelope := struct {
		ID        int64  `json:"id"`
		Method    string `json:"method"`
		SessionID string `json:"sessionId,omitempty"`
		Params    any    `json:"params,omitempty"`
	}{ID: id, Method: method, SessionID: sessionID, Params: params}

	data, err := json.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("transport: marshal %s: %w", method, err)
	}

	req := &pendingRequest{id: id, method: method, ch: make(chan pendingResult, 1)}
	c.registerPending(req)

	deadline := c.timeout
	req.timer = time.AfterFunc(deadline, func() {
		if removed := c.takePending(id); removed != nil {
			removed.ch <- pendingResult{err: &TimeoutError{Method: method, ID: id, MS: deadline.Milliseconds()}}
		}
	})

	c.mu.Lock()
	writeErr := wsutil.WriteClientText(conn, data)
	c.mu.Unlock()
	if writeErr != nil {
		if removed := c.takePending(id); removed != nil {
			removed.timer.Stop()
		}
		return nil, fmt.Errorf("transport: write %s: %w", method, writeErr)
	}

	select {
	case res := <-req.ch:
		req.timer.Stop()
		return res.result, res.err
	case <-ctx.Done():
		// The caller gave up; the Transport slot is NOT released here — a
		// slot is freed exactly once, by response/error/timeout/disconnect
		// (this contract PendingRequest invariant). We leave the pending entry
		// in place so a late response still drains it, matching the
		// evaluate-race contract in this contract point 4.
		return nil, ctx.Err()
	}
}

func (c *Client) registerPending(req *pendingRequest) {
	c.pendingMu.Lock()
	c.pending[req.id] = req
	c.pendingMu.Unlock()
}

func (c *Client) takePending(id int64) *pendingRequest {
	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()
	req, ok := c.pending[id]
	if !ok {
		return nil
	}
	delete(c.pending, id)
	return req
}

// readLoop parses inbound frames and either resolves a pending request or
// emits an Event. It never crashes on malformed input: an unparsable frame
// is a DecodeError, logged and dropped (this contract Errors).
func (c *Client) readLoop() {
	defer c.teardown()

	for {
		c.mu.Lock()
		conn := c.conn
		c.mu.Unlock()
		if conn == nil {
			return
		}

		data, err := wsutil.ReadServerText(conn)
		if err != nil {
			slog.Debug("transport read loop exit", "error", err)
			return
		}

		var frame struct {
			ID        int64           `json:"id"`
			Method    string          `json:"method"`
			SessionID string          `json:"sessionId"`
			Params    json.RawMessage `json:"params"`
			Result    json.RawMessage `json:"result"`
			Error     *struct {
				Code    int64  `json:"code"`
				Message string `json:"message"`
				Data    string `json:"data"`
			} `json:"error"`
		}
		if err := json.Unmarshal(data, &frame); err != nil {
			slog.Warn("transport decode error, dropping frame", "error", &DecodeError{Cause: err})
			continue
		}

		switch {
		case frame.ID != 0:
			req := c.takePending(frame.ID)
			if req == nil {
				continue
			}
			req.timer.Stop()
			if frame.Error != nil {
				req.ch <- pendingResult{err: &ProtocolError{Code: frame.Error.Code, Message: frame.Error.Message, Data: frame.Error.Data}}
			} else {
				req.ch <- pendingResult{result: frame.Result}
			}
		case frame.Method != "":
			select {
			case c.events <- Event{Method: frame.Method, SessionID: frame.SessionID, Params: frame.Params}:
			default:
				slog.Warn("transport event channel full, dropping event", "method", frame.Method)
			}
		}
	}
}

func (c *Client) teardown() {
	c.mu.Lock()
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
	c.mu.Unlock()

	c.pendingMu.Lock()
	pending := c.pending
	c.pending = make(map[int64]*pendingRequest)
	c.pendingMu.Unlock()

	for _, req := range pending {
		req.timer.Stop()
		req.ch <- pendingResult{err: ErrConnectionClosed}
	}

	c.once.Do(func() {
		close(c.events)
		close(c.closed)
	})
}

// Disconnect closes the socket and fails every in-flight call with
// ErrConnectionClosed, per this contract point 4.
func (c *Client) Disconnect() error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		// Still run teardown once to release the closed/events channels for
		// callers that never connected.
		c.once.Do(func() {
			close(c.events)
			close(c.closed)
		})
		return nil
	}
	return conn.Close()
}

// BrowserWebSocketURL fetches the browser-level WebSocket debugger URL from
// GET {httpBase}/json/version, per this contract
func (c *Client) BrowserWebSocketURL(ctx context.Context) (string, error) {
	var info struct {
		WebSocketDebuggerURL string `json:"webSocketDebuggerUrl"`
		Browser              string `json:"Browser"`
		ProtocolVersion      string `json:"Protocol-Version"`
	}
	if err := c.getJSON(ctx, "/json/version", &info); err != nil {
		return "", err
	}
	if info.WebSocketDebuggerURL == "" {
		return "", fmt.Errorf("transport: empty webSocketDebuggerUrl")
	}
	return info.WebSocketDebuggerURL, nil
}

// TargetEntry is a single row from GET {httpBase}/json/list.
type TargetEntry struct {
	ID                   string `json:"id"`
	Type                 string `json:"type"`
	Title                string `json:"title"`
	URL                  string `json:"url"`
	WebSocketDebuggerURL string `json:"webSocketDebuggerUrl"`
}

// ListTargets fetches the target list from GET {httpBase}/json/list.
func (c *Client) ListTargets(ctx context.Context) ([]TargetEntry, error) {
	var entries []TargetEntry
	if err := c.getJSON(ctx, "/json/list", &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	reqCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, c.httpBase+path, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("transport: %s: HTTP %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
