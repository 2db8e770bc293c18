package check

import (
	"github.com/mgelde/cwrap/errors"
)

// Call invokes fn and checks its return value against the return policy
// R. On failure the error policy E converts the value into an error.
// The policies are type parameters, so the convention is fixed at the
// call site:
//
//	n, err := check.Call[int32, check.NotNegative[int32], check.FromErrno[int32]](
//	    func() int32 { return readSome(fd, buf) })
//
// If R implements PreCaller, its hook runs before fn. fn is invoked
// exactly once, and its value is returned whether or not the check
// passes; arguments to the wrapped call travel in the closure.
func Call[V any, R ReturnPolicy[V], E ErrorPolicy[V]](fn func() V) (V, error) {
	var (
		rp R
		ep E
	)
	if pc, ok := any(rp).(PreCaller); ok {
		pc.PreCall()
	}
	v := fn()
	if rp.Ok(v) {
		return v, nil
	}
	err := ep.Fail(v)
	if err == nil {
		// An error policy that produces nothing for a failed call would
		// silently mask failures.
		panic(errors.New(errors.OpCheck, errors.KindEmptyPolicy).
			Value(v).
			Detail("error policy produced no error for a failed call").
			Build())
	}
	return v, err
}

// Must is Call for call sites that treat failure as fatal, program
// initialization being the usual case. It panics with the error the
// policy produced.
func Must[V any, R ReturnPolicy[V], E ErrorPolicy[V]](fn func() V) V {
	v, err := Call[V, R, E](fn)
	if err != nil {
		panic(err)
	}
	return v
}

// Context fixes a return policy and an error policy so call sites can
// name the pair once:
//
//	var posix check.Context[int32, check.NotNegative[int32], check.FromErrno[int32]]
//	n, err := posix.Call(func() int32 { ... })
type Context[V any, R ReturnPolicy[V], E ErrorPolicy[V]] struct{}

// Call invokes fn under the context's policies.
func (Context[V, R, E]) Call(fn func() V) (V, error) {
	return Call[V, R, E](fn)
}

// Must invokes fn under the context's policies and panics on failure.
func (Context[V, R, E]) Must(fn func() V) V {
	return Must[V, R, E](fn)
}

// Func binds one callable to a policy pair for repeated checked
// invocation. Where Context checks many different calls under one
// convention, a Func wraps a single call.
type Func[V any, R ReturnPolicy[V], E ErrorPolicy[V]] struct {
	fn func() V
}

// Bind wraps fn for repeated checked invocation.
func Bind[V any, R ReturnPolicy[V], E ErrorPolicy[V]](fn func() V) Func[V, R, E] {
	return Func[V, R, E]{fn: fn}
}

// Invoke runs the bound callable under the policies. It panics if the
// Func holds no callable.
func (f Func[V, R, E]) Invoke() (V, error) {
	if f.fn == nil {
		panic(emptyCallable())
	}
	return Call[V, R, E](f.fn)
}

// MustInvoke runs the bound callable and panics on failure.
func (f Func[V, R, E]) MustInvoke() V {
	if f.fn == nil {
		panic(emptyCallable())
	}
	return Must[V, R, E](f.fn)
}

func emptyCallable() *errors.Error {
	return errors.New(errors.OpCheck, errors.KindEmptyPolicy).
		Detail("invoked with no bound callable").
		Build()
}
