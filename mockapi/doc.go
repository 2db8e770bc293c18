// Package mockapi provides an instrumented in-memory stand-in for a C
// library binding.
//
// The package exists so that guards and call checks can be exercised
// against a realistic C-shaped API without cgo: a constructor that
// returns an opaque handle or nil, a worker that reports failure through
// its return value and the errno indicator, and separate free and
// deinitialize teardown calls. Every entry point counts its invocations,
// and FailNext primes deterministic failures.
//
// It is used by the integration tests under testbed and by the
// cwrap-trace demo command.
package mockapi
