// Package metrics exposes the master's operational counters over
// prometheus/client_golang, mirroring the teacher's use of the same
// library for its own stats surface (gcsfuse serves a /metrics endpoint
// backed by a registered collector set). Gauges here are sampled on
// demand from live callbacks rather than pushed, since the underlying
// counts (worker count, lost files, uncheckpointed dependencies) already
// live in internal/worker and internal/lineage.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every collector registered on its own prometheus.Registry,
// kept separate from the global default registry so a test can build one
// without polluting process-wide state.
type Metrics struct {
	registry *prometheus.Registry

	workerCount            prometheus.GaugeFunc
	lostFileCount          prometheus.GaugeFunc
	uncheckpointedDepCount prometheus.GaugeFunc
	journalAppendSeconds   prometheus.Histogram
	recomputationLaunches  prometheus.Counter
}

// Sources supplies the live callbacks the gauges sample from. Each is
// expected to acquire whatever lock it needs internally (the same pattern
// internal/master's accessor methods already follow).
type Sources struct {
	WorkerCount            func() float64
	LostFileCount          func() float64
	UncheckpointedDepCount func() float64
}

// New builds a Metrics registered on a fresh registry.
func New(src Sources) *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		workerCount: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "tachyon",
			Subsystem: "master",
			Name:      "workers",
			Help:      "Number of workers currently registered.",
		}, src.WorkerCount),
		lostFileCount: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "tachyon",
			Subsystem: "master",
			Name:      "lost_files",
			Help:      "Number of files currently recorded as lost across all dependencies.",
		}, src.LostFileCount),
		uncheckpointedDepCount: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "tachyon",
			Subsystem: "master",
			Name:      "uncheckpointed_dependencies",
			Help:      "Number of dependencies with at least one unfinished child.",
		}, src.UncheckpointedDepCount),
		journalAppendSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tachyon",
			Subsystem: "master",
			Name:      "journal_append_seconds",
			Help:      "Latency of a single journal append-and-flush call.",
			Buckets:   prometheus.DefBuckets,
		}),
		recomputationLaunches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tachyon",
			Subsystem: "master",
			Name:      "recomputation_launches_total",
			Help:      "Number of recomputation commands launched by the scheduler.",
		}),
	}

	reg.MustRegister(m.workerCount, m.lostFileCount, m.uncheckpointedDepCount,
		m.journalAppendSeconds, m.recomputationLaunches,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector())

	return m
}

// ObserveJournalAppend records one append-and-flush call's latency.
func (m *Metrics) ObserveJournalAppend(d time.Duration) {
	m.journalAppendSeconds.Observe(d.Seconds())
}

// IncRecomputationLaunch records one scheduler-triggered command launch.
func (m *Metrics) IncRecomputationLaunch() {
	m.recomputationLaunches.Inc()
}

// Handler returns the /metrics HTTP handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
