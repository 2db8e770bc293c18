package cwrap

import (
	"errors"
)

// Nop is a release policy that does nothing. It is useful for guards
// over borrowed resources whose lifetime is managed elsewhere.
type Nop[T any] struct{}

// Release does nothing.
func (Nop[T]) Release(T) error {
	return nil
}

// Chain releases through multiple policies in order. Every policy runs
// even when an earlier one fails, and the collected errors are joined.
//
// An empty Chain is not an empty policy: it holds zero actions rather
// than an unbound one, so releasing through it is a no-op.
type Chain[T any] []Releaser[T]

// Release invokes each policy in order and joins their errors.
func (c Chain[T]) Release(res T) error {
	var errs []error
	for _, r := range c {
		if err := r.Release(res); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
