// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package navcache

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the prometheus collectors of a [Filler].
// A nil *Metrics records nothing.
type Metrics struct {
	// fillTotal counts fills by result, "filled" or "bail"
	fillTotal *prometheus.CounterVec

	// fetchStarted counts fetches kicked off at a frontier
	fetchStarted prometheus.Counter

	// fillDepth tracks the length of the filled paths
	fillDepth prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		fillTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "navcache",
			Name:      "fill_total",
			Help:      "Total cache tree fills by result",
		}, []string{"result"}),

		fetchStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "navcache",
			Name:      "fetch_started_total",
			Help:      "Total fetches started at a cache tree frontier",
		}),

		fillDepth: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "navcache",
			Name:      "fill_depth",
			Help:      "Number of route levels per fill",
			Buckets:   []float64{1, 2, 3, 5, 8, 13},
		}),
	}

	if reg != nil {
		reg.MustRegister(m.fillTotal, m.fetchStarted, m.fillDepth)
	}
	return m
}

func (m *Metrics) observe(res Result, depth, fetches int) {
	if m == nil {
		return
	}

	result := "filled"
	if res.Bail {
		result = "bail"
	}
	m.fillTotal.WithLabelValues(result).Inc()
	m.fetchStarted.Add(float64(fetches))
	m.fillDepth.Observe(float64(depth))
}
