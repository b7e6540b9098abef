package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the gesture and route counters exposed at /metrics
type Metrics struct {
	GesturesStarted    prometheus.Counter
	GesturesRejected   prometheus.Counter
	ConnectionsCreated prometheus.Counter
	ConnectionsLocked  prometheus.Counter
	RoutesLinearized   prometheus.Counter
	RoutesCleared      prometheus.Counter
	SessionsActive     prometheus.Gauge
}

// NewMetrics registers the counters on the given registerer. Passing nil
// uses the default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		GesturesStarted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "snarveg",
			Name:      "gestures_started_total",
			Help:      "Draw gestures that passed the start check",
		}),
		GesturesRejected: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "snarveg",
			Name:      "gestures_rejected_total",
			Help:      "Draw attempts refused with an advisory",
		}),
		ConnectionsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "snarveg",
			Name:      "connections_created_total",
			Help:      "Connections added to a wheel",
		}),
		ConnectionsLocked: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "snarveg",
			Name:      "connections_locked_total",
			Help:      "Connections confirmed as locked",
		}),
		RoutesLinearized: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "snarveg",
			Name:      "routes_linearized_total",
			Help:      "Route linearizations served",
		}),
		RoutesCleared: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "snarveg",
			Name:      "routes_cleared_total",
			Help:      "Whole-route clears",
		}),
		SessionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "snarveg",
			Name:      "sessions_active",
			Help:      "Wheel sessions currently held in memory",
		}),
	}
}
