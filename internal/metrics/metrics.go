package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every collector the signaling server exports.
type Metrics struct {
	ConnectionsOpen  prometheus.Gauge
	ConnectionsTotal prometheus.Counter
	RoomsOpen        prometheus.Gauge

	MessagesTotal *prometheus.CounterVec // by message type
	RelayedTotal  prometheus.Counter
	DroppedSends  prometheus.Counter
	ParseErrors   prometheus.Counter
	Evictions     prometheus.Counter
}

// New registers all collectors with reg and returns them.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ConnectionsOpen: factory.NewGauge(prometheus.GaugeOpts{
			Name: "signaling_connections_open",
			Help: "Number of currently-open client connections.",
		}),
		ConnectionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "signaling_connections_total",
			Help: "Total client connections accepted since start.",
		}),
		RoomsOpen: factory.NewGauge(prometheus.GaugeOpts{
			Name: "signaling_rooms_open",
			Help: "Number of rooms with at least one member.",
		}),
		MessagesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "signaling_messages_total",
			Help: "Inbound messages handled, by declared type.",
		}, []string{"type"}),
		RelayedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "signaling_relayed_total",
			Help: "Messages fanned out to room peers.",
		}),
		DroppedSends: factory.NewCounter(prometheus.CounterOpts{
			Name: "signaling_dropped_sends_total",
			Help: "Outbound deliveries dropped because the destination was closed or backlogged.",
		}),
		ParseErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "signaling_parse_errors_total",
			Help: "Inbound messages that failed to decode.",
		}),
		Evictions: factory.NewCounter(prometheus.CounterOpts{
			Name: "signaling_evictions_total",
			Help: "Connections evicted by the liveness sweep.",
		}),
	}
}
