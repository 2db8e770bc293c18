// Package track turns guard lifecycle events into operational insight.
//
// The guard package reports events to a single process-wide Monitor.
// Registry is the canonical implementation: it maintains the live set
// of armed guards with their labels and arming stacks, keeps cumulative
// counters, and fans events out to any number of subscribed monitors.
//
//	reg := track.NewRegistry()
//	guard.SetMonitor(reg)
//	track.NewMetrics(prometheus.DefaultRegisterer)
//
// # Consumers
//
// Metrics exports the counters to Prometheus: armed, released by
// outcome, leaked, and the live gauge. Registry.Profile writes the
// live set as a pprof profile, one count per guard attributed to its
// arming stack, so go tool pprof answers where long-lived or leaked
// guards come from.
//
// # Ordering
//
// Events arrive from whatever goroutine produced them; leak events in
// particular come from the runtime's cleanup goroutine. The registry
// serializes its own state, and subscribed monitors must tolerate the
// same concurrency.
package track
