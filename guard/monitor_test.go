package guard

import (
	"fmt"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mgelde/cwrap/errors"
)

// recordEvents installs a monitor collecting events for one label, so
// stragglers from other tests' guards cannot interfere.
func recordEvents(t *testing.T, label string) func() []Event {
	t.Helper()
	var mu sync.Mutex
	var got []Event
	SetMonitor(MonitorFunc(func(e Event) {
		if e.Label != label {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		got = append(got, e)
	}))
	t.Cleanup(func() { SetMonitor(nil) })
	return func() []Event {
		mu.Lock()
		defer mu.Unlock()
		return append([]Event(nil), got...)
	}
}

func TestMonitor_Lifecycle(t *testing.T) {
	events := recordEvents(t, "session")

	g := Of(1, func(int) error { return nil }, WithLabel("session"))
	g.MustRelease()

	got := events()
	if len(got) != 2 {
		t.Fatalf("saw %d events, want 2", len(got))
	}
	if got[0].Type != EventArmed || got[1].Type != EventReleased {
		t.Errorf("event order = %v, %v; want armed, released", got[0].Type, got[1].Type)
	}
	if got[0].ID == 0 || got[0].ID != got[1].ID {
		t.Errorf("ids = %d, %d; want equal and non-zero", got[0].ID, got[1].ID)
	}
	if got[1].Err != nil {
		t.Errorf("clean release carried err %v", got[1].Err)
	}
	if !strings.Contains(got[0].Origin(), "monitor_test.go") {
		t.Errorf("Origin() = %q, should point at the arming site", got[0].Origin())
	}
}

func TestMonitor_MovePreservesID(t *testing.T) {
	events := recordEvents(t, "mover")

	g := Of(1, func(int) error { return nil }, WithLabel("mover"))
	d := g.Move()
	d.MustRelease()

	got := events()
	if len(got) != 2 {
		t.Fatalf("saw %d events, want 2; a move is not a lifecycle transition", len(got))
	}
	if got[0].ID != got[1].ID {
		t.Errorf("ids = %d, %d; the release obligation should keep its identity", got[0].ID, got[1].ID)
	}
}

func TestMonitor_ReleaseFailure(t *testing.T) {
	events := recordEvents(t, "failing")

	g := Of(1, func(int) error { return fmt.Errorf("device busy") }, WithLabel("failing"))
	if err := g.Release(); err == nil {
		t.Fatal("Release should surface the policy failure")
	}

	got := events()
	if len(got) != 2 {
		t.Fatalf("saw %d events, want 2", len(got))
	}
	if got[1].Type != EventReleased || got[1].Err == nil {
		t.Error("failed release should emit EventReleased carrying the error")
	}
}

func TestGuard_LeakDetection(t *testing.T) {
	leaks := make(chan Event, 4)
	SetMonitor(MonitorFunc(func(e Event) {
		if e.Type == EventLeaked && e.Label == "leaky" {
			select {
			case leaks <- e:
			default:
			}
		}
	}))
	t.Cleanup(func() { SetMonitor(nil) })

	armAndAbandon()

	deadline := time.Now().Add(5 * time.Second)
	for {
		runtime.GC()
		select {
		case e := <-leaks:
			ce, ok := e.Err.(*errors.Error)
			if !ok {
				t.Fatalf("leak Err is %T, want *errors.Error", e.Err)
			}
			if ce.Kind != errors.KindLeak {
				t.Errorf("Kind = %v, want %v", ce.Kind, errors.KindLeak)
			}
			if !strings.Contains(e.Origin(), "monitor_test.go") {
				t.Errorf("Origin() = %q, should point at the arming site", e.Origin())
			}
			return
		case <-time.After(10 * time.Millisecond):
			if time.Now().After(deadline) {
				t.Fatal("no leak event; the guard cleanup never ran")
			}
		}
	}
}

// armAndAbandon arms a guard and drops it. Kept out of line so the
// test frame holds no live reference that would keep the guard
// reachable.
//
//go:noinline
func armAndAbandon() {
	_ = Of(99, func(int) error { return nil }, WithLabel("leaky"))
}

func TestSetMonitor_Nil(t *testing.T) {
	SetMonitor(nil)

	g := Of(0, func(int) error { return nil })
	g.MustRelease()
}

func TestEventType_String(t *testing.T) {
	tests := []struct {
		typ  EventType
		want string
	}{
		{EventArmed, "armed"},
		{EventReleased, "released"},
		{EventLeaked, "leaked"},
		{EventType(42), "eventtype(42)"},
	}

	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("String(%d) = %q, want %q", int(tt.typ), got, tt.want)
		}
	}
}

func TestEvent_OriginUnknown(t *testing.T) {
	if got := (Event{}).Origin(); got != "unknown" {
		t.Errorf("Origin() = %q, want %q", got, "unknown")
	}
}
