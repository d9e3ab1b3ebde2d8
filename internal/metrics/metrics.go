// Package metrics holds the Prometheus registry and the collectors the
// server exports on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "hacknight"

// Registry is the Prometheus registry for all server metrics.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(collectors.NewGoCollector())
	Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
}

// AuthAttempts counts authentication outcomes by path taken and result.
var AuthAttempts = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Authentication attempts by result",
	},
	[]string{"result"},
)

// EventsEmitted counts domain events handed to the emitter, by event name.
var EventsEmitted = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_emitted_total",
		Help:      "Domain events enqueued for webhook delivery",
	},
	[]string{"event"},
)
