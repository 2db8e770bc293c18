package guard

import (
	"runtime"

	"github.com/mgelde/cwrap"
	"github.com/mgelde/cwrap/errors"
)

// Boxed is a guard that stores its resource behind an exclusively
// owned cell rather than inline. The observable difference from Guard
// is address stability: Ptr returns the same pointer for the whole
// ownership, across moves, so it can be handed to C code that retains
// it. The cell transfers with ownership and is never shared between
// two live guards.
type Boxed[T any, R cwrap.Releaser[T]] struct {
	_        noCopy
	addr     *Boxed[T, R]
	rel      R
	cell     *T
	st       *state
	cleanup  runtime.Cleanup
	released bool
}

// NewBoxed creates a boxed guard owning res, released through rel.
func NewBoxed[T any, R cwrap.Releaser[T]](rel R, res T, opts ...Option) *Boxed[T, R] {
	cell := new(T)
	*cell = res
	b := &Boxed[T, R]{rel: rel, cell: cell}
	b.arm(opts)
	return b
}

// VarBoxed creates a boxed guard over a zero-valued resource, to be
// filled in through Ptr. Call sites name the resource type:
//
//	b := guard.VarBoxed[lib.Session](closeSession)
func VarBoxed[T any, R cwrap.Releaser[T]](rel R, opts ...Option) *Boxed[T, R] {
	b := &Boxed[T, R]{rel: rel, cell: new(T)}
	b.arm(opts)
	return b
}

func (b *Boxed[T, R]) arm(opts []Option) {
	b.addr = b
	var cfg options
	for _, o := range opts {
		o(&cfg)
	}
	b.st = newState(cfg.label)
	b.cleanup = runtime.AddCleanup(b, leakCleanup, b.st)
	emit(Event{Label: b.st.label, PCs: b.st.pcs, ID: b.st.id, Type: EventArmed})
}

func (b *Boxed[T, R]) copyCheck() {
	if b.addr == nil {
		b.addr = b
	} else if b.addr != b {
		panic(errors.Copied("Boxed"))
	}
}

// Armed reports whether the guard still holds its release obligation.
func (b *Boxed[T, R]) Armed() bool {
	b.copyCheck()
	return !b.released
}

// Get returns the owned resource as a view. Get panics if the guard no
// longer owns its resource.
func (b *Boxed[T, R]) Get() T {
	b.copyCheck()
	if b.released {
		panic(errors.Moved("Boxed"))
	}
	if b.cell == nil {
		b.cell = new(T)
	}
	return *b.cell
}

// Ptr returns the stable address of the owned resource. Unlike
// Guard.Ptr, the pointer survives Move and MoveTo. Ptr panics if the
// guard no longer owns its resource.
func (b *Boxed[T, R]) Ptr() *T {
	b.copyCheck()
	if b.released {
		panic(errors.Moved("Boxed"))
	}
	if b.cell == nil {
		b.cell = new(T)
	}
	return b.cell
}

// Release frees the owned resource through the release policy, at most
// once. A failure comes back wrapped with kind KindRelease. Release
// panics if the policy is empty.
func (b *Boxed[T, R]) Release() error {
	b.copyCheck()
	if b.released {
		return nil
	}
	b.released = true
	var res T
	if b.cell != nil {
		res = *b.cell
	}
	b.cell = nil
	if b.st != nil {
		b.st.done.Store(true)
		b.cleanup.Stop()
	}
	err := b.rel.Release(res)
	if err != nil {
		err = errors.ReleaseFailed(err)
	}
	if b.st != nil {
		emit(Event{Err: err, Label: b.st.label, PCs: b.st.pcs, ID: b.st.id, Type: EventReleased})
	}
	return err
}

// Close releases the resource, implementing io.Closer.
func (b *Boxed[T, R]) Close() error {
	return b.Release()
}

// MustRelease releases the resource and panics if the policy fails.
func (b *Boxed[T, R]) MustRelease() {
	if err := b.Release(); err != nil {
		panic(err)
	}
}

// Move transfers ownership, cell included, to a new guard and leaves b
// inert. Pointers obtained from Ptr remain valid under the new owner.
// Moving from a guard that no longer owns its resource panics.
func (b *Boxed[T, R]) Move() *Boxed[T, R] {
	b.copyCheck()
	if b.released {
		panic(errors.Moved("Boxed"))
	}
	dst := &Boxed[T, R]{rel: b.rel, cell: b.cell}
	dst.addr = dst
	dst.st = b.st
	b.released = true
	b.cell = nil
	if b.st != nil {
		b.cleanup.Stop()
		dst.cleanup = runtime.AddCleanup(dst, leakCleanup, dst.st)
	}
	return dst
}

// MoveTo transfers ownership into dst, releasing whatever dst owned
// first, and returns that release's error. The transfer completes
// either way. Moving a guard onto itself is a no-op.
func (b *Boxed[T, R]) MoveTo(dst *Boxed[T, R]) error {
	b.copyCheck()
	dst.copyCheck()
	if b == dst {
		return nil
	}
	if b.released {
		panic(errors.Moved("Boxed"))
	}
	err := dst.Release()
	dst.rel = b.rel
	dst.cell = b.cell
	dst.st = b.st
	dst.released = false
	b.released = true
	b.cell = nil
	if b.st != nil {
		b.cleanup.Stop()
		dst.cleanup = runtime.AddCleanup(dst, leakCleanup, dst.st)
	}
	return err
}
