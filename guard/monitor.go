package guard

import (
	"fmt"
	"runtime"
	"sync/atomic"
)

// EventType identifies a guard lifecycle transition.
type EventType int

const (
	// EventArmed fires when a guard takes ownership of a resource.
	EventArmed EventType = iota
	// EventReleased fires after a guard's release policy ran.
	EventReleased
	// EventLeaked fires when an armed guard became unreachable without
	// being released or moved.
	EventLeaked
)

// String returns the event type name.
func (t EventType) String() string {
	switch t {
	case EventArmed:
		return "armed"
	case EventReleased:
		return "released"
	case EventLeaked:
		return "leaked"
	default:
		return fmt.Sprintf("eventtype(%d)", int(t))
	}
}

// Event describes one guard lifecycle transition. Events for the same
// guard carry the same ID, which survives moves: the obligation to
// release travels with it.
type Event struct {
	// Err is the release policy's error for EventReleased, or the leak
	// diagnostic for EventLeaked. Nil for EventArmed and for clean
	// releases.
	Err error
	// Label is the caller-supplied guard label, empty if none was set.
	Label string
	// PCs records the call stack at arming time.
	PCs []uintptr
	// ID is the guard's process-unique identity.
	ID uint64
	// Type is the lifecycle transition.
	Type EventType
}

// Origin resolves the arming site to a file:line string.
func (e Event) Origin() string {
	return Origin(e.PCs)
}

// Monitor receives guard lifecycle events. Implementations must be
// safe for concurrent use: leak events arrive on the runtime's cleanup
// goroutine, not the goroutine that armed the guard.
type Monitor interface {
	OnGuardEvent(Event)
}

// MonitorFunc adapts an ordinary function to the Monitor interface.
type MonitorFunc func(Event)

// OnGuardEvent implements Monitor.
func (f MonitorFunc) OnGuardEvent(e Event) {
	f(e)
}

type monitorBox struct {
	m Monitor
}

var mon atomic.Pointer[monitorBox]

// SetMonitor installs the process-wide monitor that receives guard
// lifecycle events. Passing nil uninstalls it. Events that fire while
// no monitor is installed are dropped.
func SetMonitor(m Monitor) {
	if m == nil {
		mon.Store(nil)
		return
	}
	mon.Store(&monitorBox{m: m})
}

func emit(e Event) {
	if box := mon.Load(); box != nil {
		box.m.OnGuardEvent(e)
	}
}

var nextID atomic.Uint64

// Origin resolves the first recorded frame of an arming stack to
// file:line. The resolution is deliberately lazy: arming a guard only
// captures program counters, and the symbolization cost is paid when an
// event is actually rendered.
func Origin(pcs []uintptr) string {
	if len(pcs) == 0 {
		return "unknown"
	}
	frames := runtime.CallersFrames(pcs)
	f, _ := frames.Next()
	if f.File == "" {
		return "unknown"
	}
	return fmt.Sprintf("%s:%d", f.File, f.Line)
}
