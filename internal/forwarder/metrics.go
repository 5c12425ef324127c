package forwarder

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	eventsReceived = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "haadapter",
		Subsystem: "forwarder",
		Name:      "events_received_total",
		Help:      "Stream events received from the hub.",
	})

	eventsForwarded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "haadapter",
		Subsystem: "forwarder",
		Name:      "events_forwarded_total",
		Help:      "Notifications delivered to the monitor.",
	})

	eventsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "haadapter",
		Subsystem: "forwarder",
		Name:      "events_dropped_total",
		Help:      "Events dropped before delivery, by reason.",
	}, []string{"reason"})

	reconnectsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "haadapter",
		Subsystem: "forwarder",
		Name:      "reconnects_total",
		Help:      "Connection cycles torn down and restarted.",
	})
)
