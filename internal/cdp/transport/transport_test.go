package transport

import (
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/gobwas/ws/wsutil"
)

// newPipedClient wires a Client directly to one end of an in-memory
// net.Pipe, standing in for a dialed WebSocket connection so the
// request/response correlation logic can be exercised without a real
// Chrome instance or HTTP server.
func newPipedClient(t *testing.T, timeout time.Duration) (*Client, net.Conn) {
	t.Helper()
	c := New("http://unused", timeout)
	clientSide, serverSide := net.Pipe()
	c.conn = clientSide
	go c.readLoop()
	t.Cleanup(func() { _ = serverSide.Close() })
	return c, serverSide
}

func readClientFrame(t *testing.T, serverSide net.Conn) map[string]any {
	t.Helper()
	data, err := wsutil.ReadClientText(serverSide)
	if err != nil {
		t.Fatalf("read client frame: %v", err)
	}
	var frame map[string]any
	if err := json.Unmarshal(data, &frame); err != nil {
		t.Fatalf("decode client frame: %v", err)
	}
	return frame
}

func writeServerFrame(t *testing.T, serverSide net.Conn, frame map[string]any) {
	t.Helper()
	data, err := json.Marshal(frame)
	if err != nil {
		t.Fatalf("marshal server frame: %v", err)
	}
	if err := wsutil.WriteServerText(serverSide, data); err != nil {
		t.Fatalf("write server frame: %v", err)
	}
}

func TestSendResolvesOnResponse(t *testing.T) {
	c, serverSide := newPipedClient(t, time.Second)

	done := make(chan struct{})
	var result json.RawMessage
	var sendErr error
	go func() {
		result, sendErr = c.Send(context.Background(), "Debugger.enable", nil)
		close(done)
	}()

	frame := readClientFrame(t, serverSide)
	if frame["method"] != "Debugger.enable" {
		t.Fatalf("unexpected method on wire: %v", frame["method"])
	}
	id := frame["id"].(float64)

	writeServerFrame(t, serverSide, map[string]any{"id": id, "result": map[string]any{"ok": true}})

	<-done
	if sendErr != nil {
		t.Fatalf("unexpected error: %v", sendErr)
	}
	var decoded map[string]any
	if err := json.Unmarshal(result, &decoded); err != nil || decoded["ok"] != true {
		t.Fatalf("unexpected result: %s (err=%v)", result, err)
	}
}

func TestSendMapsProtocolError(t *testing.T) {
	c, serverSide := newPipedClient(t, time.Second)

	done := make(chan struct{})
	var sendErr error
	go func() {
		_, sendErr = c.Send(context.Background(), "Debugger.badMethod", nil)
		close(done)
	}()

	frame := readClientFrame(t, serverSide)
	id := frame["id"].(float64)
	writeServerFrame(t, serverSide, map[string]any{
		"id":    id,
		"error": map[string]any{"code": -32601, "message": "Method not found"},
	})

	<-done
	protoErr, ok := sendErr.(*ProtocolError)
	if !ok {
		t.Fatalf("expected *ProtocolError, got %T (%v)", sendErr, sendErr)
	}
	if protoErr.Code != -32601 {
		t.Fatalf("expected code -32601, got %d", protoErr.Code)
	}
}

func TestSendTimesOutAndFreesSlot(t *testing.T) {
	c, _ := newPipedClient(t, 20*time.Millisecond)

	_, err := c.Send(context.Background(), "Debugger.pause", nil)
	if _, ok := err.(*TimeoutError); !ok {
		t.Fatalf("expected *TimeoutError, got %T (%v)", err, err)
	}

	c.pendingMu.Lock()
	n := len(c.pending)
	c.pendingMu.Unlock()
	if n != 0 {
		t.Fatalf("expected pending slot freed after timeout, got %d entries", n)
	}
}

func TestDisconnectDuringOutstandingSendFailsWithConnectionClosed(t *testing.T) {
	c, serverSide := newPipedClient(t, time.Second)

	done := make(chan struct{})
	var sendErr error
	go func() {
		_, sendErr = c.Send(context.Background(), "Debugger.pause", nil)
		close(done)
	}()

	readClientFrame(t, serverSide) // wait until the request is actually on the wire

	if err := c.Disconnect(); err != nil {
		t.Fatalf("disconnect: %v", err)
	}
	<-done

	if sendErr != ErrConnectionClosed {
		t.Fatalf("expected ErrConnectionClosed, got %v", sendErr)
	}

	select {
	case _, open := <-c.Closed():
		if open {
			t.Fatal("expected closed channel to be closed")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for closed signal")
	}
}

func TestMalformedFrameIsDroppedNotFatal(t *testing.T) {
	c, serverSide := newPipedClient(t, time.Second)

	if err := wsutil.WriteServerText(serverSide, []byte("not json")); err != nil {
		t.Fatalf("write malformed frame: %v", err)
	}

	done := make(chan struct{})
	var result json.RawMessage
	var sendErr error
	go func() {
		result, sendErr = c.Send(context.Background(), "Debugger.enable", nil)
		close(done)
	}()

	frame := readClientFrame(t, serverSide)
	id := frame["id"].(float64)
	writeServerFrame(t, serverSide, map[string]any{"id": id, "result": map[string]any{"ok": true}})

	<-done
	if sendErr != nil {
		t.Fatalf("expected the client to recover after a malformed frame, got %v", sendErr)
	}
	if len(result) == 0 {
		t.Fatal("expected a decoded result after the malformed frame was dropped")
	}
}

func TestEventFrameEmittedOnEventsChannel(t *testing.T) {
	c, serverSide := newPipedClient(t, time.Second)

	writeServerFrame(t, serverSide, map[string]any{
		"method": "Debugger.paused",
		"params": map[string]any{"reason": "breakpoint"},
	})

	select {
	case ev := <-c.Events():
		if ev.Method != "Debugger.paused" {
			t.Fatalf("unexpected event method: %s", ev.Method)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}
