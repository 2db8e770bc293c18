package track

import (
	"cmp"
	"slices"
	"sync"
	"time"

	"github.com/mgelde/cwrap/guard"
)

// Entry describes one live guard: its identity, its label, and where
// and when it was armed.
type Entry struct {
	ArmedAt time.Time
	Label   string
	PCs     []uintptr
	ID      uint64
}

// Origin resolves the arming site to a file:line string.
func (e Entry) Origin() string {
	return guard.Origin(e.PCs)
}

// Stats are the registry's cumulative counters. Live is the number of
// guards currently armed; the rest only ever grow.
type Stats struct {
	Armed    uint64
	Released uint64
	Failed   uint64
	Leaked   uint64
	Live     int
}

// Registry tracks every live guard in the process. It implements
// guard.Monitor: install it with guard.SetMonitor, and fan further
// consumers out with Subscribe. All methods are safe for concurrent
// use; leak events arrive on the runtime's cleanup goroutine.
type Registry struct {
	live      map[uint64]Entry
	mu        sync.RWMutex
	armed     uint64
	released  uint64
	failed    uint64
	leaked    uint64
	observers []guard.Monitor
	obsMu     sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		live: make(map[uint64]Entry),
	}
}

// OnGuardEvent implements guard.Monitor. Events update the live set
// and the counters, then fan out to subscribed monitors.
func (r *Registry) OnGuardEvent(e guard.Event) {
	r.mu.Lock()
	switch e.Type {
	case guard.EventArmed:
		r.armed++
		r.live[e.ID] = Entry{
			ArmedAt: time.Now(),
			Label:   e.Label,
			PCs:     e.PCs,
			ID:      e.ID,
		}
	case guard.EventReleased:
		r.released++
		if e.Err != nil {
			r.failed++
		}
		delete(r.live, e.ID)
	case guard.EventLeaked:
		r.leaked++
		delete(r.live, e.ID)
	}
	r.mu.Unlock()

	r.notify(e)
}

// Subscribe adds a downstream monitor for guard events.
func (r *Registry) Subscribe(o guard.Monitor) {
	r.obsMu.Lock()
	defer r.obsMu.Unlock()
	r.observers = append(r.observers, o)
}

// Unsubscribe removes a monitor added with Subscribe. Monitors are
// matched by identity, so subscribe comparable values such as
// pointers.
func (r *Registry) Unsubscribe(o guard.Monitor) {
	r.obsMu.Lock()
	defer r.obsMu.Unlock()
	for i, obs := range r.observers {
		if obs == o {
			r.observers = append(r.observers[:i], r.observers[i+1:]...)
			return
		}
	}
}

func (r *Registry) notify(e guard.Event) {
	r.obsMu.RLock()
	defer r.obsMu.RUnlock()
	for _, o := range r.observers {
		o.OnGuardEvent(e)
	}
}

// Len returns the number of live guards.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.live)
}

// Snapshot returns the live guards ordered by arming sequence.
func (r *Registry) Snapshot() []Entry {
	r.mu.RLock()
	entries := make([]Entry, 0, len(r.live))
	for _, e := range r.live {
		entries = append(entries, e)
	}
	r.mu.RUnlock()

	slices.SortFunc(entries, func(a, b Entry) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return entries
}

// Stats returns the cumulative counters.
func (r *Registry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Stats{
		Armed:    r.armed,
		Released: r.released,
		Failed:   r.failed,
		Leaked:   r.leaked,
		Live:     len(r.live),
	}
}
