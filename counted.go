package cwrap

import (
	"sync/atomic"

	"github.com/mgelde/cwrap/errors"
)

// Counted wraps a release policy and counts invocations. Tests use it
// to assert that a guard fired its policy exactly once.
type Counted[T any] struct {
	inner Releaser[T]
	n     atomic.Int64
}

// Count wraps inner in a Counted policy.
func Count[T any](inner Releaser[T]) *Counted[T] {
	return &Counted[T]{inner: inner}
}

// Release invokes the wrapped policy. It panics if Counted was built
// around a nil policy.
func (c *Counted[T]) Release(res T) error {
	if c.inner == nil {
		panic(errors.EmptyPolicy("release"))
	}
	c.n.Add(1)
	return c.inner.Release(res)
}

// Calls returns how many times Release has run.
func (c *Counted[T]) Calls() int64 {
	return c.n.Load()
}
