// Package metrics owns the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "payshare"

// Summary sources reported by LedgerSummaries.
const (
	SourceCache    = "cache"
	SourceComputed = "computed"
)

// Metrics groups every collector on a private registry, so tests can build
// as many instances as they like.
type Metrics struct {
	registry *prometheus.Registry

	RPCRequests        *prometheus.CounterVec
	RPCDuration        *prometheus.HistogramVec
	LedgerSummaries    *prometheus.CounterVec
	SettlementsPlanned prometheus.Counter
	FairnessScore      prometheus.Histogram
}

// New creates and registers all collectors, plus the Go and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RPCRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "RPC calls by procedure and result code.",
		}, []string{"procedure", "code"}),
		RPCDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "RPC latency by procedure.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
		LedgerSummaries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_summaries_total",
			Help:      "Group summaries served, by cache or fresh computation.",
		}, []string{"source"}),
		SettlementsPlanned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settlements_planned_total",
			Help:      "Transfers produced by the settlement planner.",
		}),
		FairnessScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fairness_score",
			Help:      "Fairness scores of freshly computed summaries.",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RPCRequests,
		m.RPCDuration,
		m.LedgerSummaries,
		m.SettlementsPlanned,
		m.FairnessScore,
	)
	for _, source := range []string{SourceCache, SourceComputed} {
		m.LedgerSummaries.WithLabelValues(source)
	}

	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveSummary records one served summary. Fresh computations also feed
// the settlement counter and the fairness histogram.
func (m *Metrics) ObserveSummary(source string, settlements int, score float64) {
	if m == nil {
		return
	}
	m.LedgerSummaries.WithLabelValues(source).Inc()
	if source == SourceComputed {
		m.SettlementsPlanned.Add(float64(settlements))
		m.FairnessScore.Observe(score)
	}
}
