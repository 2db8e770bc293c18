package check

import (
	"github.com/mgelde/cwrap/cerrno"
)

// IsZero accepts calls whose return value is exactly zero, the dominant
// success convention for C functions that return status codes.
type IsZero[V Integer] struct{}

// Ok reports whether v is zero.
func (IsZero[V]) Ok(v V) bool {
	return v == 0
}

// NotNegative accepts calls whose return value is zero or positive, the
// convention of APIs that return a count on success and -1 on failure.
type NotNegative[V Signed] struct{}

// Ok reports whether v is non-negative.
func (NotNegative[V]) Ok(v V) bool {
	return v >= 0
}

// NotZero accepts calls whose return value is anything but zero, the
// convention of predicate-style APIs that return a truthy value on
// success.
type NotZero[V Integer] struct{}

// Ok reports whether v is non-zero.
func (NotZero[V]) Ok(v V) bool {
	return v != 0
}

// NotNil accepts calls that return a usable pointer, the convention of
// allocation-style APIs that return NULL on failure.
type NotNil[E any] struct{}

// Ok reports whether p is non-nil.
func (NotNil[E]) Ok(p *E) bool {
	return p != nil
}

// ErrnoClear accepts calls that leave the error indicator untouched.
// Some APIs, strtol among them, have no failure value of their own; the
// only test is whether the call set errno. PreCall clears the default
// indicator so that the post-call reading is attributable to the
// wrapped call.
type ErrnoClear[V any] struct{}

// PreCall clears the default error indicator.
func (ErrnoClear[V]) PreCall() {
	cerrno.Clear()
}

// Ok reports whether the default error indicator is still clear.
func (ErrnoClear[V]) Ok(V) bool {
	return cerrno.Current() == 0
}
