package errors

import (
	"fmt"
	"strings"
	"syscall"
)

// Op indicates which operation produced the error
type Op string

const (
	OpCheck   Op = "check"   // checked invocation
	OpRelease Op = "release" // resource release
	OpMove    Op = "move"    // ownership transfer
	OpTrack   Op = "track"   // lifecycle registry
)

// Kind categorizes the error
type Kind string

const (
	KindReturnValue Kind = "return_value" // the return value failed the success predicate
	KindErrno       Kind = "errno"        // the ambient error indicator carried the failure
	KindLastError   Kind = "last_error"   // a side-channel last-error facility carried the failure
	KindRelease     Kind = "release"      // a release policy reported failure
	KindEmptyPolicy Kind = "empty_policy" // a policy was invoked without a bound action
	KindCopied      Kind = "copied"       // a single-owner value was used after an illegal copy
	KindMoved       Kind = "moved"        // a moved-from value was used as if it still owned its resource
	KindLeak        Kind = "leak"         // an armed guard became unreachable without release
)

// Error is the structured error type used throughout the library
type Error struct {
	Value  any
	Cause  error
	Op     Op
	Kind   Kind
	Errno  syscall.Errno
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Op))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Errno != 0 {
		fmt.Fprintf(&b, " (errno %d)", uintptr(e.Errno))
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error. When no explicit cause is set but
// an error number was recorded, the syscall.Errno is exposed so that
// errors.Is(err, syscall.ENOENT) style matching works.
func (e *Error) Unwrap() error {
	if e.Cause != nil {
		return e.Cause
	}
	if e.Errno != 0 {
		return e.Errno
	}
	return nil
}

// Is reports whether target matches this error. Empty Op or Kind fields
// on the target act as wildcards, so callers can match on kind alone:
//
//	errors.Is(err, &Error{Kind: KindErrno})
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Op != "" && t.Op != e.Op {
		return false
	}
	return t.Kind == "" || t.Kind == e.Kind
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(op Op, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Op:   op,
			Kind: kind,
		},
	}
}

// Value sets the offending return value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Errno sets the recorded error number
func (b *Builder) Errno(e syscall.Errno) *Builder {
	b.err.Errno = e
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// ReturnValue creates an error for a return value that failed its check
func ReturnValue(op Op, v any) *Error {
	return &Error{
		Op:     op,
		Kind:   KindReturnValue,
		Value:  v,
		Detail: fmt.Sprintf("return value indicated error: %v", v),
	}
}

// FromErrno creates an error carrying the system message for an error number
func FromErrno(op Op, errno syscall.Errno) *Error {
	if errno == 0 {
		return &Error{
			Op:     op,
			Kind:   KindErrno,
			Detail: "call failed but the error indicator is not set",
		}
	}
	return &Error{
		Op:     op,
		Kind:   KindErrno,
		Errno:  errno,
		Detail: errno.Error(),
	}
}

// LastError creates an error from a side-channel last-error facility
func LastError(op Op, code uint64, message string) *Error {
	return &Error{
		Op:     op,
		Kind:   KindLastError,
		Value:  code,
		Detail: fmt.Sprintf("%s: %d", message, code),
	}
}

// ReleaseFailed wraps a failure reported by a release policy
func ReleaseFailed(cause error) *Error {
	return &Error{
		Op:     OpRelease,
		Kind:   KindRelease,
		Detail: "release policy reported failure",
		Cause:  cause,
	}
}

// EmptyPolicy creates the fatal diagnostic for invoking an unbound policy.
// It is used as a panic value: a guard that does not know how to free its
// resource must fail loudly rather than leak silently.
func EmptyPolicy(what string) *Error {
	return &Error{
		Op:     OpRelease,
		Kind:   KindEmptyPolicy,
		Detail: fmt.Sprintf("%s policy invoked with no bound action", what),
	}
}

// Copied creates the fatal diagnostic for using an illegally copied value
func Copied(what string) *Error {
	return &Error{
		Op:     OpMove,
		Kind:   KindCopied,
		Detail: fmt.Sprintf("illegal use of copied %s", what),
	}
}

// Moved creates the fatal diagnostic for using a value whose ownership
// already ended, by move or by release
func Moved(what string) *Error {
	return &Error{
		Op:     OpMove,
		Kind:   KindMoved,
		Detail: fmt.Sprintf("%s used after its resource was released or moved", what),
	}
}

// Leak creates the diagnostic for a guard that was never released
func Leak(origin string) *Error {
	return &Error{
		Op:     OpTrack,
		Kind:   KindLeak,
		Detail: fmt.Sprintf("guard armed at %s became unreachable without release", origin),
	}
}
