// Package check wraps foreign calls in a return-value check.
//
// Every C API documents a success convention: zero on success, -1 with
// errno on failure, a non-NULL pointer, a truthy flag. Checking those
// conventions by hand is repetitive and easy to get subtly wrong, with
// errno read at the wrong moment or a negative count compared against
// the wrong bound. Call names the convention once, as type parameters,
// and applies it mechanically:
//
//	n, err := check.Call[int32, check.NotNegative[int32], check.FromErrno[int32]](
//	    func() int32 {
//	        n, err := unix.Write(fd, buf)
//	        cerrno.Capture(err)
//	        return int32(n)
//	    })
//
// # Return Policies
//
// IsZero, NotNegative, NotZero, NotNil and ErrnoClear cover the common
// conventions. DefaultReturn is IsZero. A policy that implements
// PreCaller runs before the wrapped call; ErrnoClear uses the hook to
// reset the errno indicator so a post-call reading belongs to the call
// being judged.
//
// # Error Policies
//
// ReportValue carries the offending value. FromErrno and NegErrno
// consult the errno model in package cerrno. LastError drains a
// library-specific facility installed with SetLastErrorSource.
// DefaultError is ReportValue. All policies produce *errors.Error
// values, so callers can branch on Kind and Errno without parsing
// messages.
//
// # Failure Is an Error, Fatal Failure Is a Panic
//
// Call returns the failure as an error alongside the original value.
// Must and MustInvoke panic with the same error for call sites where
// failure is unrecoverable. Context fixes a policy pair under a name;
// Bind fixes the policies and the callable together.
package check
