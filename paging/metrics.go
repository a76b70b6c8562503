package paging

import (
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"go.uber.org/zap"
)

// Metrics tracks simulation counters per policy in a private Prometheus registry.
// The run, reference, fault, hit and eviction totals count computed passes
// only; results served by the result cache are counted in cacheHits.
type Metrics struct {
	registry *prometheus.Registry

	runs        *prometheus.CounterVec
	references  *prometheus.CounterVec
	faults      *prometheus.CounterVec
	hits        *prometheus.CounterVec
	evictions   *prometheus.CounterVec
	cacheHits   *prometheus.CounterVec
	runDuration *prometheus.HistogramVec
}

// NewMetrics creates a new metrics tracker
func NewMetrics() *Metrics {
	counter := func(name, help string) *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pagesim",
			Name:      name,
			Help:      help,
		}, []string{"policy"})
	}

	m := &Metrics{
		registry:   prometheus.NewRegistry(),
		runs:       counter("runs_total", "Simulation passes completed."),
		references: counter("references_total", "References processed."),
		faults:     counter("faults_total", "Page faults counted."),
		hits:       counter("hits_total", "References served by a resident page."),
		evictions:  counter("evictions_total", "Resident pages overwritten on a fault."),
		cacheHits:  counter("result_cache_hits_total", "Runs answered from the result cache."),
		runDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pagesim",
			Name:      "run_duration_seconds",
			Help:      "Wall time of one simulation pass.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
		}, []string{"policy"}),
	}

	m.registry.MustRegister(m.runs, m.references, m.faults, m.hits, m.evictions, m.cacheHits, m.runDuration)
	return m
}

// RecordRun adds one finished run
func (m *Metrics) RecordRun(r *Result, elapsed time.Duration) {
	policy := r.Policy.String()
	m.runs.WithLabelValues(policy).Inc()
	m.references.WithLabelValues(policy).Add(float64(r.References))
	m.faults.WithLabelValues(policy).Add(float64(r.Faults))
	m.hits.WithLabelValues(policy).Add(float64(r.Hits))
	m.evictions.WithLabelValues(policy).Add(float64(r.Evictions))
	m.runDuration.WithLabelValues(policy).Observe(elapsed.Seconds())
}

// RecordCacheHit counts one run answered from the result cache
func (m *Metrics) RecordCacheHit(kind PolicyKind) {
	m.cacheHits.WithLabelValues(kind.String()).Inc()
}

// Registry exposes the registry for exporters
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the current metrics in the Prometheus text format,
// for node_exporter's textfile collector or plain inspection.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return NewSimError(ErrCodeInternal, "WriteTextfile", "failed to write metrics", err)
	}
	return nil
}

// counterTotals folds every counter family into policy -> metric -> value
func (m *Metrics) counterTotals() (map[string]map[string]float64, error) {
	families, err := m.registry.Gather()
	if err != nil {
		return nil, err
	}

	totals := make(map[string]map[string]float64)
	for _, family := range families {
		if family.GetType() != dto.MetricType_COUNTER {
			continue
		}
		for _, metric := range family.GetMetric() {
			policy := labelValue(metric, "policy")
			if totals[policy] == nil {
				totals[policy] = make(map[string]float64)
			}
			totals[policy][family.GetName()] += metric.GetCounter().GetValue()
		}
	}
	return totals, nil
}

func labelValue(metric *dto.Metric, name string) string {
	for _, pair := range metric.GetLabel() {
		if pair.GetName() == name {
			return pair.GetValue()
		}
	}
	return ""
}

// LogMetrics logs one structured line per policy
func (m *Metrics) LogMetrics(logger *zap.Logger) {
	totals, err := m.counterTotals()
	if err != nil {
		logger.Warn("failed to gather metrics", zap.Error(err))
		return
	}

	policies := make([]string, 0, len(totals))
	for policy := range totals {
		policies = append(policies, policy)
	}
	sort.Strings(policies)

	for _, policy := range policies {
		t := totals[policy]
		refs := t["pagesim_references_total"]
		hitRate := 0.0
		if refs > 0 {
			hitRate = t["pagesim_hits_total"] / refs
		}
		logger.Info("Simulator Metrics",
			zap.String("policy", policy),
			zap.Float64("runs", t["pagesim_runs_total"]),
			zap.Float64("references", refs),
			zap.Float64("faults", t["pagesim_faults_total"]),
			zap.Float64("hits", t["pagesim_hits_total"]),
			zap.Float64("evictions", t["pagesim_evictions_total"]),
			zap.Float64("cache_hits", t["pagesim_result_cache_hits_total"]),
			zap.Float64("hit_rate", hitRate),
		)
	}
}
