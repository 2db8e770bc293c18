// Package guard binds a resource to a release policy and fires the
// policy exactly once.
//
// C APIs pair every acquisition with a release function, and every
// early return is a chance to miss the pairing. A guard makes the
// pairing structural: construct it with the resource and the release
// action, defer the release, and every exit path frees exactly once.
//
//	key := lib.NewKey()
//	g := guard.Of(key, func(k *lib.Key) error {
//	    lib.FreeKey(k)
//	    return nil
//	})
//	defer g.MustRelease()
//
// # Ownership
//
// A guard is the sole owner of its resource. Copying a guard is a
// programming error caught at two levels: go vet flags the copy
// statically, and a copied guard panics on first use. Ownership moves
// with Move, which returns a fresh guard, or MoveTo, which releases
// the destination's previous resource first and then re-arms it. A
// moved-from guard releases nothing and panics if its resource is
// touched again.
//
// Release is idempotent: the first call runs the policy, later calls
// return nil. That lets a deferred Release coexist with an explicit
// one on the happy path.
//
// # Storage
//
// Guard stores the resource inline; Ptr hands out the address of the
// guard's own field, which goes stale on move. Boxed stores the
// resource behind an exclusively owned cell whose address is stable
// across moves, for C code that retains the pointer.
//
// # Empty Policies
//
// A guard whose release policy is empty, a nil cwrap.ReleaseFunc being
// the canonical case, panics at release time with a structured
// *errors.Error instead of silently leaking. Code that genuinely wants
// no release action says so with cwrap.Nop.
//
// # Leak Detection
//
// Every constructed guard registers a runtime cleanup. If the guard
// becomes unreachable while still armed, the cleanup logs a warning
// through this package's logger and emits an EventLeaked to the
// installed Monitor. Detection is all it does: the resource is not
// freed behind the program's back, because running release policies at
// arbitrary points on the runtime's cleanup goroutine would turn a
// diagnosable leak into an undebuggable crash. Zero-value guards are
// not watched; only constructed ones are.
//
// # Monitoring
//
// SetMonitor installs a process-wide Monitor that receives an
// EventArmed per construction, an EventReleased per release, and an
// EventLeaked per detected leak. The track package provides a registry
// built on this hook, with Prometheus metrics and pprof-style leak
// profiles on top.
package guard
