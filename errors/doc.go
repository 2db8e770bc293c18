// Package errors provides structured error types for the cwrap library.
//
// Errors are categorized by Op (which operation failed) and Kind (failure
// category). The Error type carries whatever context the failing policy
// could collect: the raw return value, the ambient error number, or a
// side-channel diagnostic string.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.OpCheck, errors.KindReturnValue).
//		Value(rv).
//		Detail("handshake returned %d", rv).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.ReturnValue(errors.OpCheck, -1)
//	err := errors.FromErrno(errors.OpCheck, syscall.ENOENT)
//
// All errors implement the standard error interface and support
// errors.Is/As, with empty Op or Kind fields on the target acting as
// wildcards. When an error number was recorded, Unwrap exposes the
// syscall.Errno so callers can match the concrete number:
//
//	if errors.Is(err, syscall.ENOENT) { ... }
//
// # Fatal kinds
//
// KindEmptyPolicy, KindCopied and KindMoved describe programmer errors.
// They are delivered as panic values, not returned, because the misuse
// they report (releasing with no bound action, using a copied or
// moved-from guard) would otherwise silently leak or double-free the
// guarded resource.
package errors
