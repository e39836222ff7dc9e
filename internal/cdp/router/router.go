// Package router demultiplexes decoded CDP events by method name to
// registered domain handlers. It is deliberately a thin, synchronous
// dispatcher — a node-style emitter reimplemented as typed Go handlers
// instead of an untyped event-name string API.
package router

import (
	"encoding/json"
	"sync"

	"github.com/dgnsrekt/cdpagent/internal/cdp/transport"
)

// Handler processes a single decoded event for one method.
type Handler func(sessionID string, params json.RawMessage)

// Router owns a method -> handlers registry and pumps transport.Events into
// it until the transport closes.
type Router struct {
	mu sync.RWMutex
	handlers map[string][]registration
	nextID int64

	onceMu sync.Mutex
	onceSubs map[string][]onceRegistration
}

type registration struct {
	id int64
	fn Handler
}

type onceRegistration struct {
	id int64
	fn Handler
}

// New creates an empty Router.
func New() *Router {
	return &Router{
		handlers: make(map[string][]registration),
		onceSubs: make(map[string][]onceRegistration),
	}
}

// On registers a persistent handler for a CDP event method (e.g.
// "Debugger.paused"). Returns an unregister function.
func (r *Router) On(method string, fn Handler) func() {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.handlers[method] = append(r.handlers[method], registration{id: id, fn: fn})
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		regs := r.handlers[method]
		for i, reg := range regs {
			if reg.id == id {
				r.handlers[method] = append(regs[:i], regs[i+1:]...)
				return
			}
		}
	}
}

// Once registers a handler that fires at most once for the given method,
// then deregisters itself. This is the primitive the evaluate race in
// internal/cdp/session builds on: "once('paused', handler) must see exactly
// one paused event and be deregistered if a timeout wins the race" (the contract
// §9). The returned cancel function is safe to call even after the handler
// has already fired.
func (r *Router) Once(method string, fn Handler) (cancel func()) {
	r.onceMu.Lock()
	id := r.nextID
	r.nextID++
	r.onceSubs[method] = append(r.onceSubs[method], onceRegistration{id: id, fn: fn})
	r.onceMu.Unlock()

	return func() {
		r.onceMu.Lock()
		defer r.onceMu.Unlock()
		subs := r.onceSubs[method]
		for i, sub := range subs {
			if sub.id == id {
				r.onceSubs[method] = append(subs[:i], subs[i+1:]...)
				return
			}
		}
	}
}

// HasOnceSubscriber reports whether a one-shot handler is currently
// registered for method. Tests use this to wait for a Once subscription to
// land before dispatching the event it's waiting for, instead of sleeping.
func (r *Router) HasOnceSubscriber(method string) bool {
	r.onceMu.Lock()
	defer r.onceMu.Unlock()
	return len(r.onceSubs[method]) > 0
}

// Dispatch invokes every registered handler (persistent and one-shot) for
// method, in registration order, then clears the fired one-shot handlers.
func (r *Router) Dispatch(method, sessionID string, params json.RawMessage) {
	r.mu.RLock()
	handlers := append([]registration(nil), r.handlers[method]...)
	r.mu.RUnlock()
	for _, reg := range handlers {
		reg.fn(sessionID, params)
	}

	r.onceMu.Lock()
	fired := r.onceSubs[method]
	delete(r.onceSubs, method)
	r.onceMu.Unlock()
	for _, sub := range fired {
		sub.fn(sessionID, params)
	}
}

// Run reads events from the transport until it closes, dispatching each by
// method. It returns once the transport's event channel is closed
// (this contract point 4, "emit a closed signal").
func (r *Router) Run(events <-chan transport.Event) {
	for ev := range events {
		r.Dispatch(ev.Method, ev.SessionID, ev.Params)
	}
}
