package state

import (
	"container/list"
	"sync"
)

// LogEntry is a field-minimal projection of Log.entryAdded (this contract
// table). The buffer is bounded at 1000 entries regardless of session
// options, oldest evicted first.
type LogEntry struct {
	Source string `json:"source"`
	Level string `json:"level"`
	Text string `json:"text"`
	URL string `json:"url,omitempty"`
	Timestamp float64 `json:"timestamp"`
}

const logBufferCapacity = 1000

// LogBuffer is the bounded Log.entryAdded projection.
type LogBuffer struct {
	mu sync.Mutex
	entries *list.List
}

// NewLogBuffer returns an empty, 1000-entry-capacity log buffer.
func NewLogBuffer() *LogBuffer {
	return &LogBuffer{entries: list.New()}
}

// Add appends a log entry, evicting the oldest if the buffer is full.
func (l *LogBuffer) Add(e LogEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.entries.Len() >= logBufferCapacity {
		l.entries.Remove(l.entries.Front())
	}
	l.entries.PushBack(e)
}

// All returns a defensive copy of every buffered entry, oldest first.
func (l *LogBuffer) All() []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]LogEntry, 0, l.entries.Len())
	for el := l.entries.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value.(LogEntry))
	}
	return out
}

// Reset clears the buffer.
func (l *LogBuffer) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = list.New()
}

// WorkerInfo is the contract's ServiceWorker.worker{Registration,Version}Updated
// projection entity, a domain-expansion addition.
type WorkerInfo struct {
	ID string `json:"id"`
	ScopeURL string `json:"scopeUrl"`
	IsDeleted bool `json:"isDeleted"`
}

// WorkerRegistry upserts WorkerInfo by id, honoring the isDeleted flag
// rather than physically removing entries (this contract table: "Upsert by
// id; honor isDeleted").
type WorkerRegistry struct {
	mu sync.Mutex
	workers map[string]*WorkerInfo
}

// NewWorkerRegistry returns an empty registry.
func NewWorkerRegistry() *WorkerRegistry {
	return &WorkerRegistry{workers: make(map[string]*WorkerInfo)}
}

// Upsert records a worker registration/version update.
func (w *WorkerRegistry) Upsert(info WorkerInfo) {
	w.mu.Lock()
	defer w.mu.Unlock()
	cp := info
	w.workers[info.ID] = &cp
}

// All returns a defensive copy of every known worker, including ones
// marked isDeleted.
func (w *WorkerRegistry) All() []WorkerInfo {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]WorkerInfo, 0, len(w.workers))
	for _, info := range w.workers {
		out = append(out, *info)
	}
	return out
}

// Active returns workers not marked isDeleted.
func (w *WorkerRegistry) Active() []WorkerInfo {
	w.mu.Lock()
	defer w.mu.Unlock()
	var out []WorkerInfo
	for _, info := range w.workers {
		if !info.IsDeleted {
			out = append(out, *info)
		}
	}
	return out
}

// Reset clears all tracked workers.
func (w *WorkerRegistry) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.workers = make(map[string]*WorkerInfo)
}

// TargetInfo is a cached row from Target.getTargets / /json/list, used by
// the session facade to preserve the HTTP endpoint across target switches.
// A domain-expansion addition (this contract "Other façade duties").
type TargetInfo struct {
	TargetID string `json:"targetId"`
	Type string `json:"type"`
	Title string `json:"title"`
	URL string `json:"url"`
	Attached bool `json:"attached"`
}

// TargetCache is a simple replace-on-refresh cache of the last known
// target list.
type TargetCache struct {
	mu sync.Mutex
	targets []TargetInfo
}

// NewTargetCache returns an empty cache.
func NewTargetCache() *TargetCache {
	return &TargetCache{}
}

// Refresh replaces the cached target list wholesale.
func (t *TargetCache) Refresh(targets []TargetInfo) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.targets = append([]TargetInfo(nil), targets...)
}

// All returns a defensive copy of the cached target list.
func (t *TargetCache) All() []TargetInfo {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]TargetInfo, len(t.targets))
	copy(out, t.targets)
	return out
}

// Get returns a cached target by id.
func (t *TargetCache) Get(id string) (TargetInfo, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, ti := range t.targets {
		if ti.TargetID == id {
			return ti, true
		}
	}
	return TargetInfo{}, false
}
