package cwrap

import (
	"github.com/mgelde/cwrap/errors"
)

// Releaser frees one resource of type T. Implementations are release
// policies: they describe how a resource is given back, not which
// resource. A guard binds the two together and fires the policy exactly
// once.
type Releaser[T any] interface {
	Release(T) error
}

// ReleaseFunc adapts an ordinary function to the Releaser interface.
//
// A nil ReleaseFunc is an empty policy. Invoking it panics with a
// *errors.Error of kind KindEmptyPolicy: a guard that does not know how
// to free its resource must fail loudly rather than leak silently.
type ReleaseFunc[T any] func(T) error

// Release invokes the bound function. It panics if the function is nil.
func (f ReleaseFunc[T]) Release(res T) error {
	if f == nil {
		panic(errors.EmptyPolicy("release"))
	}
	return f(res)
}

// NoFail adapts a function that cannot fail, such as a C free routine
// with a void return, to the Releaser interface.
//
// Like ReleaseFunc, a nil NoFail panics when invoked.
type NoFail[T any] func(T)

// Release invokes the bound function and reports no error. It panics if
// the function is nil.
func (f NoFail[T]) Release(res T) error {
	if f == nil {
		panic(errors.EmptyPolicy("release"))
	}
	f(res)
	return nil
}
