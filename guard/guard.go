package guard

import (
	"runtime"

	"github.com/mgelde/cwrap"
	"github.com/mgelde/cwrap/errors"
)

// noCopy triggers go vet's copylocks check when a guard is copied by
// value.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Option configures a guard at construction time.
type Option func(*options)

type options struct {
	label string
}

// WithLabel attaches a label to the guard's lifecycle events, useful
// when many guards share one arming site.
func WithLabel(label string) Option {
	return func(o *options) {
		o.label = label
	}
}

// Guard owns one resource and releases it exactly once through its
// release policy R. Ownership is exclusive: guards must not be copied,
// and transfer happens only through Move and MoveTo.
//
// The zero value is a guard over a zero resource with a zero release
// policy. With a function policy such as cwrap.ReleaseFunc the zero
// policy is empty, and releasing panics: a guard that does not know
// how to free its resource fails loudly instead of leaking. Zero-value
// guards take part in no lifecycle events and no leak detection, which
// only constructed guards receive.
type Guard[T any, R cwrap.Releaser[T]] struct {
	_        noCopy
	addr     *Guard[T, R]
	rel      R
	res      T
	st       *state
	cleanup  runtime.Cleanup
	released bool
}

// New creates a guard owning res, released through rel.
func New[T any, R cwrap.Releaser[T]](rel R, res T, opts ...Option) *Guard[T, R] {
	g := &Guard[T, R]{rel: rel, res: res}
	g.arm(opts)
	return g
}

// Var creates a guard over a zero-valued resource, released through
// rel. The resource is filled in through Ptr, the pattern for C APIs
// that initialize an out parameter. The resource type cannot be
// inferred from the arguments, so call sites name it:
//
//	g := guard.Var[lib.Session](closeSession)
func Var[T any, R cwrap.Releaser[T]](rel R, opts ...Option) *Guard[T, R] {
	g := &Guard[T, R]{rel: rel}
	g.arm(opts)
	return g
}

// Own creates a guard owning res under the zero value of the release
// policy type. Struct policies carry their whole behavior in the type,
// so the zero value is complete; a zero function policy is empty and
// releasing through it panics.
func Own[T any, R cwrap.Releaser[T]](res T, opts ...Option) *Guard[T, R] {
	g := &Guard[T, R]{res: res}
	g.arm(opts)
	return g
}

// Of creates a guard owning res, released through the given function.
// It is the common constructor for ad-hoc release actions:
//
//	g := guard.Of(conn, func(c *lib.Conn) error { return lib.Close(c) })
func Of[T any](res T, release func(T) error, opts ...Option) *Guard[T, cwrap.ReleaseFunc[T]] {
	g := &Guard[T, cwrap.ReleaseFunc[T]]{rel: cwrap.ReleaseFunc[T](release), res: res}
	g.arm(opts)
	return g
}

// arm gives a constructed guard its identity and its leak watch. Every
// constructor calls arm directly so the captured stack has a fixed
// shape.
func (g *Guard[T, R]) arm(opts []Option) {
	g.addr = g
	var cfg options
	for _, o := range opts {
		o(&cfg)
	}
	g.st = newState(cfg.label)
	g.cleanup = runtime.AddCleanup(g, leakCleanup, g.st)
	emit(Event{Label: g.st.label, PCs: g.st.pcs, ID: g.st.id, Type: EventArmed})
}

// copyCheck pins the guard to its first observed address, the
// strings.Builder technique. A guard that was copied by value fails
// here on first use.
func (g *Guard[T, R]) copyCheck() {
	if g.addr == nil {
		g.addr = g
	} else if g.addr != g {
		panic(errors.Copied("Guard"))
	}
}

// Armed reports whether the guard still holds its release obligation.
func (g *Guard[T, R]) Armed() bool {
	g.copyCheck()
	return !g.released
}

// Get returns the owned resource. The returned value is a view:
// mutating it does not write back into the guard. Get panics if the
// guard no longer owns its resource.
func (g *Guard[T, R]) Get() T {
	g.copyCheck()
	if g.released {
		panic(errors.Moved("Guard"))
	}
	return g.res
}

// Ptr returns a mutable pointer to the owned resource, for C APIs that
// initialize an out parameter in place. The pointer goes stale on Move
// and MoveTo; Boxed keeps a stable address instead. Ptr panics if the
// guard no longer owns its resource.
func (g *Guard[T, R]) Ptr() *T {
	g.copyCheck()
	if g.released {
		panic(errors.Moved("Guard"))
	}
	return &g.res
}

// Release frees the owned resource through the release policy. The
// policy runs at most once per guard: later calls are no-ops, so a
// deferred Release composes with an explicit one. A failure comes back
// wrapped with kind KindRelease. Release panics if the policy is
// empty.
func (g *Guard[T, R]) Release() error {
	g.copyCheck()
	if g.released {
		return nil
	}
	// The obligation ends now, even if the policy panics below.
	g.released = true
	res := g.res
	var zero T
	g.res = zero
	if g.st != nil {
		g.st.done.Store(true)
		g.cleanup.Stop()
	}
	err := g.rel.Release(res)
	if err != nil {
		err = errors.ReleaseFailed(err)
	}
	if g.st != nil {
		emit(Event{Err: err, Label: g.st.label, PCs: g.st.pcs, ID: g.st.id, Type: EventReleased})
	}
	return err
}

// Close releases the resource, implementing io.Closer.
func (g *Guard[T, R]) Close() error {
	return g.Release()
}

// MustRelease releases the resource and panics if the policy fails. It
// suits deferred release of resources whose free cannot fail in a way
// the caller could handle.
func (g *Guard[T, R]) MustRelease() {
	if err := g.Release(); err != nil {
		panic(err)
	}
}

// Move transfers ownership to a new guard and leaves g inert: g
// releases nothing at scope exit and its accessors panic. The new
// guard adopts g's identity, so lifecycle events continue under the
// same ID. Moving from a guard that no longer owns its resource
// panics.
func (g *Guard[T, R]) Move() *Guard[T, R] {
	g.copyCheck()
	if g.released {
		panic(errors.Moved("Guard"))
	}
	dst := &Guard[T, R]{rel: g.rel, res: g.res}
	dst.addr = dst
	dst.st = g.st
	g.released = true
	var zero T
	g.res = zero
	if g.st != nil {
		g.cleanup.Stop()
		dst.cleanup = runtime.AddCleanup(dst, leakCleanup, dst.st)
	}
	return dst
}

// MoveTo transfers ownership into dst, an existing guard. Whatever dst
// owned is released first, and MoveTo returns that release's error;
// the transfer completes either way. Moving a guard onto itself is a
// no-op. Moving from a guard that no longer owns its resource panics,
// while a released or moved-from dst is re-armed by the transfer.
func (g *Guard[T, R]) MoveTo(dst *Guard[T, R]) error {
	g.copyCheck()
	dst.copyCheck()
	if g == dst {
		return nil
	}
	if g.released {
		panic(errors.Moved("Guard"))
	}
	err := dst.Release()
	dst.rel = g.rel
	dst.res = g.res
	dst.st = g.st
	dst.released = false
	g.released = true
	var zero T
	g.res = zero
	if g.st != nil {
		g.cleanup.Stop()
		dst.cleanup = runtime.AddCleanup(dst, leakCleanup, dst.st)
	}
	return err
}
