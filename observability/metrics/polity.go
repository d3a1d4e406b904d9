package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// PolityMetrics is the Prometheus instrument set for a running Engine.
type PolityMetrics struct {
	actionsSubmitted      *prometheus.CounterVec
	actionErrors          *prometheus.CounterVec
	recalculationTicks    prometheus.Counter
	recalculationElections prometheus.Histogram
	cascadeTeardowns      prometheus.Counter
	cascadeDepth          prometheus.Histogram
}

var (
	polityOnce     sync.Once
	polityRegistry *PolityMetrics
)

// Polity returns the process-wide metrics singleton, registering it with the
// default Prometheus registry on first use.
func Polity() *PolityMetrics {
	polityOnce.Do(func() {
		polityRegistry = &PolityMetrics{
			actionsSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "polity_actions_submitted_total",
				Help: "Count of actions submitted to the engine by kind.",
			}, []string{"kind"}),
			actionErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "polity_action_errors_total",
				Help: "Count of action-validation errors by taxonomy entry.",
			}, []string{"error"}),
			recalculationTicks: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "polity_recalculation_ticks_total",
				Help: "Count of completed Recalculate ticks.",
			}),
			recalculationElections: prometheus.NewHistogram(prometheus.HistogramOpts{
				Name:    "polity_recalculation_elections_visited",
				Help:    "Number of elections visited per Recalculate tick.",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			}),
			cascadeTeardowns: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "polity_cascade_teardowns_total",
				Help: "Count of document-subtree teardowns triggered by a winner change.",
			}),
			cascadeDepth: prometheus.NewHistogram(prometheus.HistogramOpts{
				Name:    "polity_cascade_teardown_entities",
				Help:    "Number of candidacies and elections removed per document teardown.",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			}),
		}
		prometheus.MustRegister(
			polityRegistry.actionsSubmitted,
			polityRegistry.actionErrors,
			polityRegistry.recalculationTicks,
			polityRegistry.recalculationElections,
			polityRegistry.cascadeTeardowns,
			polityRegistry.cascadeDepth,
		)
	})
	return polityRegistry
}

func (m *PolityMetrics) ObserveActionSubmitted(kind string) {
	if m == nil {
		return
	}
	if kind == "" {
		kind = "unspecified"
	}
	m.actionsSubmitted.WithLabelValues(kind).Inc()
}

func (m *PolityMetrics) ObserveActionError(taxonomy string) {
	if m == nil {
		return
	}
	if taxonomy == "" {
		taxonomy = "unknown"
	}
	m.actionErrors.WithLabelValues(taxonomy).Inc()
}

func (m *PolityMetrics) ObserveRecalculationTick(electionsVisited int) {
	if m == nil {
		return
	}
	m.recalculationTicks.Inc()
	m.recalculationElections.Observe(float64(electionsVisited))
}

func (m *PolityMetrics) ObserveCascadeTeardown(entitiesRemoved int) {
	if m == nil {
		return
	}
	m.cascadeTeardowns.Inc()
	m.cascadeDepth.Observe(float64(entitiesRemoved))
}
