// Package cwrap provides scope-bound ownership and checked calls for C
// and other foreign APIs.
//
// C libraries hand out resources that must be given back through a paired
// release function, and they report failure through return-value
// conventions that are easy to check inconsistently. This library splits
// the two problems into small composable pieces: release policies describe
// how a resource is freed, guards bind one resource to one release policy
// and fire it exactly once, and check policies classify return values and
// turn failures into structured errors.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	cwrap/               Root package with the release policy contracts
//	├── guard/           Scope-bound single-owner resource guards
//	├── check/           Call wrappers with return-check and error policies
//	├── cerrno/          Explicit model of the C errno side channel
//	├── errors/          Structured error types shared by all packages
//	└── track/           Live guard registry, metrics and leak profiles
//
// # Quick Start
//
// Guard a resource so it is released exactly once when the scope ends:
//
//	conn := lib.Open(target)
//	g := guard.Of(conn, func(c *lib.Conn) error {
//	    return lib.Close(c)
//	})
//	defer g.MustRelease()
//
//	use(g.Get())
//
// Check a call against the convention its API documents:
//
//	n, err := check.Call[int32, check.NotNegative[int32], check.FromErrno[int32]](
//	    func() int32 {
//	        n, err := unix.Write(fd, buf)
//	        cerrno.Capture(err)
//	        return int32(n)
//	    })
//
// # Release Policies
//
// A release policy is any implementation of Releaser. ReleaseFunc adapts
// an ordinary func(T) error, and NoFail adapts a func(T) that cannot
// fail, such as a C free routine. Nop borrows without owning, Chain runs
// several policies in order, and Counted counts invocations for tests.
//
// An empty policy is a programming error: invoking a nil ReleaseFunc or
// NoFail panics with a structured *errors.Error rather than leaking the
// resource silently.
//
// # Ownership Model
//
// Guards are single owners. They must not be copied; ownership transfers
// through Move and MoveTo, after which the source guard is inert. Using
// a copied or moved-from guard panics. See package guard for details.
//
// # Thread Safety
//
// Release policies and check policies are stateless or internally
// synchronized and safe for concurrent use. A Guard confines its
// resource to one goroutine at a time; synchronize externally if a
// guard must cross goroutines.
package cwrap
