package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// result 标签取值
const (
	resultHit     = "hit"
	resultMiss    = "miss"
	resultStale   = "stale"
	resultCorrupt = "corrupt"
	resultError   = "error"
)

var requestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "chatlens",
		Subsystem: "cache",
		Name:      "requests_total",
		Help:      "Report cache lookups by result",
	},
	[]string{"result"},
)
