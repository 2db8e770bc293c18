package track

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mgelde/cwrap/guard"
)

// Metrics exports guard lifecycle counters to Prometheus. It
// implements guard.Monitor: hang it off a Registry with Subscribe, or
// install it directly with guard.SetMonitor when no registry is
// wanted.
type Metrics struct {
	armed    prometheus.Counter
	released *prometheus.CounterVec
	leaked   prometheus.Counter
	live     prometheus.Gauge
}

// NewMetrics creates the guard metric set and registers it with reg.
// Registration failures panic, the usual Prometheus contract for
// duplicate registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		armed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cwrap",
			Subsystem: "guard",
			Name:      "armed_total",
			Help:      "Guards that took ownership of a resource.",
		}),
		released: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cwrap",
			Subsystem: "guard",
			Name:      "released_total",
			Help:      "Guards that ran their release policy, by outcome.",
		}, []string{"outcome"}),
		leaked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cwrap",
			Subsystem: "guard",
			Name:      "leaked_total",
			Help:      "Guards that became unreachable while still armed.",
		}),
		live: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "cwrap",
			Subsystem: "guard",
			Name:      "live",
			Help:      "Guards currently holding a resource.",
		}),
	}
	reg.MustRegister(m.armed, m.released, m.leaked, m.live)
	return m
}

// OnGuardEvent implements guard.Monitor.
func (m *Metrics) OnGuardEvent(e guard.Event) {
	switch e.Type {
	case guard.EventArmed:
		m.armed.Inc()
		m.live.Inc()
	case guard.EventReleased:
		outcome := "clean"
		if e.Err != nil {
			outcome = "failed"
		}
		m.released.WithLabelValues(outcome).Inc()
		m.live.Dec()
	case guard.EventLeaked:
		m.leaked.Inc()
		m.live.Dec()
	}
}
