package check

// ReturnPolicy classifies a call's return value as success or failure.
// Policies are stateless value types instantiated by Call as type
// parameters, so the convention an API documents becomes part of the
// call site's type.
type ReturnPolicy[V any] interface {
	Ok(V) bool
}

// PreCaller is implemented by return policies that need to run before
// the call they will judge. ErrnoClear uses it to reset the error
// indicator so that the post-call reading is attributable to the call.
type PreCaller interface {
	PreCall()
}

// ErrorPolicy turns a failed return value into an error. The policy
// decides which side channel to consult: the value itself, the errno
// indicator, or a library's last-error facility.
type ErrorPolicy[V any] interface {
	Fail(V) error
}

// Integer covers the integral return types C conventions are written in
// terms of.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Signed covers integral return types that can carry negative failure
// codes.
type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// DefaultReturn is the return policy assumed by C status conventions:
// zero is success.
type DefaultReturn[V Integer] = IsZero[V]

// DefaultError is the error policy used when an API has no side
// channel: report the offending value itself.
type DefaultError[V any] = ReportValue[V]
