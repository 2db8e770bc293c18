package cerrno

import (
	"errors"
	"sync/atomic"
	"syscall"
)

// Indicator is a process-wide rendition of the C error indicator. C
// libraries report failure detail through a thread-local errno cell that a
// call may set but never clears on success; cgo surfaces that cell as an
// error value returned alongside the call result. An Indicator gives the
// side channel an explicit home so return-check and error policies can
// consult it without reaching into C.
type Indicator struct {
	v atomic.Uintptr
}

// Clear resets the indicator to zero. Callers that want to distinguish
// "call failed and set an error" from "call failed silently" clear the
// indicator before the call, mirroring how portable C code uses errno.
func (i *Indicator) Clear() {
	i.v.Store(0)
}

// Set records an error number.
func (i *Indicator) Set(e syscall.Errno) {
	i.v.Store(uintptr(e))
}

// Current returns the recorded error number, zero when none is set.
func (i *Indicator) Current() syscall.Errno {
	return syscall.Errno(i.v.Load())
}

// Capture records the errno carried by err, typically the error value a
// cgo call returns alongside its result. A nil err leaves the indicator
// untouched: a successful call does not clear errno.
func (i *Indicator) Capture(err error) {
	if err == nil {
		return
	}
	var e syscall.Errno
	if errors.As(err, &e) {
		i.v.Store(uintptr(e))
	}
}

// std backs the package-level functions and the errno policies in
// package check.
var std Indicator

// Default returns the indicator shared by the package-level functions.
func Default() *Indicator {
	return &std
}

// Clear resets the default indicator.
func Clear() {
	std.Clear()
}

// Set records an error number on the default indicator.
func Set(e syscall.Errno) {
	std.Set(e)
}

// Current returns the error number recorded on the default indicator.
func Current() syscall.Errno {
	return std.Current()
}

// Capture records the errno carried by err on the default indicator.
func Capture(err error) {
	std.Capture(err)
}
