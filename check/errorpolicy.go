package check

import (
	"sync/atomic"
	"syscall"

	"github.com/mgelde/cwrap/cerrno"
	"github.com/mgelde/cwrap/errors"
)

// ReportValue reports the failed return value itself. No side channel
// is consulted.
type ReportValue[V any] struct{}

// Fail builds an error carrying v.
func (ReportValue[V]) Fail(v V) error {
	return errors.ReturnValue(errors.OpCheck, v)
}

// FromErrno reads the default error indicator and reports the recorded
// error number alongside its system message.
type FromErrno[V any] struct{}

// Fail builds an error from the current errno reading.
func (FromErrno[V]) Fail(V) error {
	e := cerrno.Current()
	if e == 0 {
		return errors.FromErrno(errors.OpCheck, 0)
	}
	return errors.New(errors.OpCheck, errors.KindErrno).
		Errno(e).
		Detail("%s", cerrno.Message(e)).
		Build()
}

// NegErrno decodes failure values of APIs that return a negated error
// number directly, a convention common in kernel-adjacent interfaces.
type NegErrno[V Signed] struct{}

// Fail builds an error from the negated return value.
func (NegErrno[V]) Fail(v V) error {
	if v >= 0 {
		return errors.ReturnValue(errors.OpCheck, v)
	}
	e := syscall.Errno(-int64(v))
	return errors.New(errors.OpCheck, errors.KindErrno).
		Value(v).
		Errno(e).
		Detail("%s", cerrno.Message(e)).
		Build()
}

// LastErrorSource yields the most recent error of a library that keeps
// its own last-error facility, OpenSSL's error queue being the model.
// The code disambiguates programmatically; the message is for humans.
type LastErrorSource interface {
	LastError() (code uint64, message string)
}

// LastErrorFunc adapts an ordinary function to LastErrorSource.
type LastErrorFunc func() (uint64, string)

// LastError implements LastErrorSource.
func (f LastErrorFunc) LastError() (uint64, string) {
	return f()
}

type sourceBox struct {
	src LastErrorSource
}

var lastSource atomic.Pointer[sourceBox]

// SetLastErrorSource installs the process-wide source consulted by the
// LastError policy. Passing nil uninstalls it.
func SetLastErrorSource(src LastErrorSource) {
	if src == nil {
		lastSource.Store(nil)
		return
	}
	lastSource.Store(&sourceBox{src: src})
}

// LastError drains the installed LastErrorSource and reports its code
// and message. With no source installed it falls back to reporting the
// return value.
type LastError[V any] struct{}

// Fail builds an error from the installed source.
func (LastError[V]) Fail(v V) error {
	box := lastSource.Load()
	if box == nil {
		return errors.ReturnValue(errors.OpCheck, v)
	}
	code, msg := box.src.LastError()
	return errors.LastError(errors.OpCheck, code, msg)
}
