package guard

import (
	"runtime"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/mgelde/cwrap/errors"
)

// originDepth bounds the stack captured at arming time. Deep stacks add
// nothing to a leak report beyond the first few caller frames.
const originDepth = 8

// state carries the identity a guard shares with the runtime cleanup
// that watches it. It lives apart from the guard because a cleanup
// argument must not reference the object it watches, or the object can
// never become unreachable.
type state struct {
	label string
	pcs   []uintptr
	id    uint64
	done  atomic.Bool
}

// callerSkip is the fixed call depth from runtime.Callers to the user
// frame: Callers, newState, arm, and the constructor.
const callerSkip = 4

func newState(label string) *state {
	pcs := make([]uintptr, originDepth)
	n := runtime.Callers(callerSkip, pcs)
	return &state{
		label: label,
		pcs:   pcs[:n],
		id:    nextID.Add(1),
	}
}

// leakCleanup runs when an armed guard becomes unreachable. It only
// reports: releasing the resource here would run the policy at an
// arbitrary point on the runtime's cleanup goroutine, trading a
// diagnosable bug for an undebuggable one.
func leakCleanup(st *state) {
	if !st.done.CompareAndSwap(false, true) {
		return
	}
	origin := Origin(st.pcs)
	Logger().Warn("guard leaked: unreachable without release",
		zap.Uint64("guard_id", st.id),
		zap.String("label", st.label),
		zap.String("origin", origin),
	)
	emit(Event{
		Err:   errors.Leak(origin),
		Label: st.label,
		PCs:   st.pcs,
		ID:    st.id,
		Type:  EventLeaked,
	})
}
