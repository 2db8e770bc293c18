// Package cerrno models the C error indicator for Go callers.
//
// C APIs frequently split failure reporting across two channels: the
// return value says that a call failed, and the thread-local errno cell
// says why. Portable use follows a strict order: inspect the return
// value first, and consult errno only after the return value signalled
// failure, because successful calls are free to clobber errno with
// leftover values.
//
// cgo surfaces errno as an error value returned alongside a call's
// result, so there is no ambient cell to read after the fact. The
// Indicator type gives that side channel an explicit home: call sites
// record the errno a call produced with Capture, and the errno policies
// in package check read it back with Current.
//
// # Default indicator
//
// Most programs use the package-level functions, which share one
// process-wide Indicator. Tests that need isolation can allocate their
// own Indicator value.
//
// # Ordering doctrine
//
// Clear before the call, check the return value, then read the
// indicator. Capture ignores nil errors, so a successful call leaves
// the indicator untouched, exactly like C.
package cerrno
