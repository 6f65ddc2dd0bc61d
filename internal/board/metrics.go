package board

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	fetches     *prometheus.CounterVec
	cacheLookup *prometheus.CounterVec
	cacheSize   prometheus.GaugeFunc
}

// NewMetrics registers the board collectors on reg. A nil registerer
// leaves them unregistered, which is what tests use.
func NewMetrics(reg prometheus.Registerer, size func() int) *Metrics {
	m := &Metrics{
		fetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aocboard_upstream_fetches_total",
				Help: "Leaderboard fetches sent to adventofcode.com by outcome",
			},
			[]string{"outcome"},
		),
		cacheLookup: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aocboard_cache_lookups_total",
				Help: "Leaderboard cache lookups by result",
			},
			[]string{"result"},
		),
		cacheSize: prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "aocboard_cache_entries",
				Help: "Number of cached leaderboards",
			},
			func() float64 { return float64(size()) },
		),
	}

	if reg != nil {
		reg.MustRegister(m.fetches, m.cacheLookup, m.cacheSize)
	}
	return m
}

func (m *Metrics) fetched(outcome string) {
	m.fetches.WithLabelValues(outcome).Inc()
}

func (m *Metrics) lookup(result string) {
	m.cacheLookup.WithLabelValues(result).Inc()
}
