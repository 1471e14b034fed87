package main

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "crop"

// Metrics collects run counters. A nil *Metrics records nothing.
// Season gauges carry a replicate label so parallel replicates do not
// overwrite each other; a single run reports as replicate "0".
type Metrics struct {
	Registry      *prometheus.Registry
	OracleCalls   prometheus.Counter
	OracleErrors  prometheus.Counter
	Cycles        *prometheus.CounterVec
	BestScore     *prometheus.GaugeVec
	RetainedFloor *prometheus.GaugeVec

	replicate string
}

// NewMetrics creates the collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry:  prometheus.NewRegistry(),
		replicate: "0",
		OracleCalls: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "oracle_calls_total",
			Help:      "Experiments scored by the yield oracle.",
		}),
		OracleErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "oracle_errors_total",
			Help:      "Yield oracle calls that returned an error.",
		}),
		Cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "cycles_total",
			Help:      "Season cycles completed, by phase.",
		}, []string{"phase"}),
		BestScore: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "season_best_score",
			Help:      "Best score in the season's latest allocation.",
		}, []string{"replicate", "season"}),
		RetainedFloor: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "season_retained_floor",
			Help:      "Lowest score a pick needs to survive the season's next optimisation.",
		}, []string{"replicate", "season"}),
	}
	m.Registry.MustRegister(m.OracleCalls, m.OracleErrors, m.Cycles, m.BestScore, m.RetainedFloor)
	return m
}

// forReplicate returns a view of m that labels season gauges with replicate
// idx. Counters stay shared.
func (m *Metrics) forReplicate(idx int) *Metrics {
	if m == nil {
		return nil
	}
	v := *m
	v.replicate = strconv.Itoa(idx)
	return &v
}

// instrument wraps o so every call is counted.
func (m *Metrics) instrument(o YieldOracle) YieldOracle {
	if m == nil {
		return o
	}
	return OracleFunc(func(seed, acre int, c Cycle) (float64, error) {
		m.OracleCalls.Inc()
		v, err := o.Yield(seed, acre, c)
		if err != nil {
			m.OracleErrors.Inc()
		}
		return v, err
	})
}

func (m *Metrics) observeCycle(r CycleReport) {
	if m == nil {
		return
	}
	season := strconv.Itoa(r.Season)
	m.Cycles.WithLabelValues(string(r.Phase)).Inc()
	m.BestScore.WithLabelValues(m.replicate, season).Set(r.Best)
	m.RetainedFloor.WithLabelValues(m.replicate, season).Set(r.Floor)
}

// WriteFile writes the registry in the Prometheus text format, suitable for
// the node exporter textfile collector.
func (m *Metrics) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}
