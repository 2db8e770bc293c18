package mockapi

import (
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/mgelde/cwrap/cerrno"
)

// Resource is the object handed out by the fake library. It plays the
// role of an opaque C handle: callers receive it from CreateAndInitialize
// and give it back to FreeResources or ReleaseResources.
//
// A Resource must not be shared between goroutines. The API counters are
// safe for concurrent use; individual resources are not.
type Resource struct {
	initialized bool
	freed       bool
	work        int
}

// Initialized reports whether the resource has been set up by
// CreateAndInitialize or DoInitWork and not yet released.
func (r *Resource) Initialized() bool { return r.initialized }

// Freed reports whether the resource has been handed to FreeResources.
func (r *Resource) Freed() bool { return r.freed }

// Work returns the number of DoInitWork calls that touched the resource.
func (r *Resource) Work() int { return r.work }

// Counts is a snapshot of how many times each library entry point was
// invoked. Every call is counted, including ones that failed.
type Counts struct {
	Create  int64
	Work    int64
	Release int64
	Free    int64
}

// API is an instrumented stand-in for a C library binding. Entry points
// mirror the shape of a typical C API: a constructor returning a handle,
// a worker that reports status through its return value and the errno
// indicator, and two teardown calls with free and deinitialize flavors.
//
// FailNext primes the next fallible call to fail, which makes error
// paths reproducible without touching a real library.
type API struct {
	ind *cerrno.Indicator

	mu   sync.Mutex
	next syscall.Errno

	create  atomic.Int64
	work    atomic.Int64
	release atomic.Int64
	free    atomic.Int64
	live    atomic.Int64
}

// New returns an API wired to the process-wide errno indicator, which is
// the one the check policies consult.
func New() *API {
	return NewWith(cerrno.Default())
}

// NewWith returns an API that records failures on ind instead of the
// process-wide indicator. Useful for tests that must not disturb global
// state.
func NewWith(ind *cerrno.Indicator) *API {
	return &API{ind: ind}
}

// CreateAndInitialize allocates a resource and marks it initialized. When
// a failure is primed it sets the errno indicator and returns nil, like a
// C constructor that failed to allocate.
func (a *API) CreateAndInitialize() *Resource {
	a.create.Add(1)
	if e := a.takeFailure(); e != 0 {
		a.ind.Set(e)
		return nil
	}
	a.live.Add(1)
	return &Resource{initialized: true}
}

// DoInitWork performs a unit of work on a resource, initializing it in
// place if needed. It returns 0 on success and the negated errno on a
// primed failure, also setting the errno indicator. Both conventions are
// common in C libraries and the double signal lets either be checked.
//
// Calling DoInitWork on a freed resource panics. The real library would
// touch freed memory at this point.
func (a *API) DoInitWork(r *Resource) int {
	a.work.Add(1)
	if e := a.takeFailure(); e != 0 {
		a.ind.Set(e)
		return -int(e)
	}
	if r == nil {
		panic("mockapi: DoInitWork on nil resource")
	}
	if r.freed {
		panic("mockapi: DoInitWork on freed resource")
	}
	r.initialized = true
	r.work++
	return 0
}

// ReleaseResources deinitializes a resource in place without deallocating
// it. This is the teardown for resources held by value. A nil resource is
// ignored.
func (a *API) ReleaseResources(r *Resource) {
	a.release.Add(1)
	if r == nil {
		return
	}
	r.initialized = false
}

// FreeResources deallocates a resource. Freeing nil is a no-op, matching
// free(NULL). Freeing the same resource twice panics so that a guard that
// double-releases is caught immediately.
func (a *API) FreeResources(r *Resource) {
	a.free.Add(1)
	if r == nil {
		return
	}
	if r.freed {
		panic("mockapi: double free")
	}
	r.freed = true
	r.initialized = false
	a.live.Add(-1)
}

// FailNext primes the next CreateAndInitialize or DoInitWork call to fail
// with e. Only one failure is held at a time; priming again overwrites
// the previous one.
func (a *API) FailNext(e syscall.Errno) {
	a.mu.Lock()
	a.next = e
	a.mu.Unlock()
}

func (a *API) takeFailure() syscall.Errno {
	a.mu.Lock()
	e := a.next
	a.next = 0
	a.mu.Unlock()
	return e
}

// Counts returns a snapshot of the per-entry-point call counters.
func (a *API) Counts() Counts {
	return Counts{
		Create:  a.create.Load(),
		Work:    a.work.Load(),
		Release: a.release.Load(),
		Free:    a.free.Load(),
	}
}

// Live returns the number of resources created and not yet freed.
func (a *API) Live() int64 {
	return a.live.Load()
}

// Reset clears all counters and any primed failure. Call it between test
// cases that share an API.
func (a *API) Reset() {
	a.mu.Lock()
	a.next = 0
	a.mu.Unlock()
	a.create.Store(0)
	a.work.Store(0)
	a.release.Store(0)
	a.free.Store(0)
	a.live.Store(0)
}
