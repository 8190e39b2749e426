// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package netwatcher

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the Prometheus counters netwatcher updates as it
// processes OS notifications. It plays the same role the teacher's
// net/netmon.go fills with tailscale.com/util/clientmetric counters
// (metricChange, metricChangeEq, ...); that package isn't part of this
// module's dependency surface, so the same counters are recreated
// here directly on github.com/prometheus/client_golang, which is
// already a real dependency of the teacher.
type Metrics struct {
	Emitted   prometheus.Counter
	Coalesced prometheus.Counter
	Errors    *prometheus.CounterVec
}

func newMetrics() *Metrics {
	return &Metrics{
		Emitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "netwatcher",
			Name:      "updates_emitted_total",
			Help:      "Number of Update callbacks delivered to user code.",
		}),
		Coalesced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "netwatcher",
			Name:      "updates_coalesced_total",
			Help:      "Number of OS notifications that resulted in no callback because the resnapshot was unchanged.",
		}),
		Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "netwatcher",
			Name:      "errors_total",
			Help:      "Transient errors encountered while watching, by kind.",
		}, []string{"kind"}),
	}
}

// MustRegister registers every counter in m with reg.
func (m *Metrics) MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(m.Emitted, m.Coalesced, m.Errors)
}

func (m *Metrics) recordError(k Kind) {
	if m == nil {
		return
	}
	m.Errors.WithLabelValues(k.String()).Inc()
}
