package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the auth core.
type Metrics struct {
	SignInsTotal       *prometheus.CounterVec
	SignUpsTotal       *prometheus.CounterVec
	ResolutionsTotal   *prometheus.CounterVec
	GateDecisionsTotal *prometheus.CounterVec
	ResolveDuration    prometheus.Histogram
}

// New creates the auth metrics registered against the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		SignInsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inkq",
			Name:      "signins_total",
			Help:      "Total number of sign-in attempts by result",
		}, []string{"result"}),

		SignUpsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inkq",
			Name:      "signups_total",
			Help:      "Total number of sign-up attempts by result",
		}, []string{"result"}),

		ResolutionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inkq",
			Name:      "session_resolutions_total",
			Help:      "Total number of session token resolutions by outcome",
		}, []string{"outcome"}),

		GateDecisionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inkq",
			Name:      "gate_decisions_total",
			Help:      "Total number of request gate decisions by path class and action",
		}, []string{"class", "action"}),

		ResolveDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "inkq",
			Name:      "session_resolve_duration_seconds",
			Help:      "Session resolution duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// NewDefault creates the auth metrics on the default registerer.
func NewDefault() *Metrics {
	return New(prometheus.DefaultRegisterer)
}
