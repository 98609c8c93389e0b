package analysis

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	computeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "chatlens",
			Subsystem: "analysis",
			Name:      "duration_seconds",
			Help:      "Duration of a full report computation",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"scope_kind"},
	)

	skippedContacts = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "chatlens",
			Subsystem: "analysis",
			Name:      "skipped_contacts_total",
			Help:      "Contacts skipped because their statistics could not be computed",
		},
	)
)
