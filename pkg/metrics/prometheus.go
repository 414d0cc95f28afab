// Package metrics provides Prometheus metrics for the season assignment search.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for a scheduling run.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Search Metrics - How hard the engine had to work
	searchNodes         prometheus.Counter
	searchBacktracks    prometheus.Counter
	searchDayAdvances   prometheus.Counter
	searchForcedReturns prometheus.Counter
	searchDepth         prometheus.Gauge
	searchOutcomes      *prometheus.CounterVec
	solveDuration       prometheus.Histogram

	// Season Metrics - What the schedule costs
	seasonCost prometheus.Gauge

	// Input Metrics - What was loaded
	recordsLoaded *prometheus.GaugeVec
	loadDuration  prometheus.Histogram

	// Output Metrics - What was written
	reportsWritten *prometheus.CounterVec

	// Error Metrics
	errorsByComponent *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	Init()
}

// Init replaces the global manager with one built from opts on a fresh
// registry. Values recorded before the call are dropped.
func Init(opts ...Option) *Manager {
	customRegistry = prometheus.NewRegistry()
	globalManager = NewManager(append([]Option{WithPrometheusRegistry(customRegistry)}, opts...)...)
	return globalManager
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "refsched",
		subsystem:        "search",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	// Initialize metrics
	m.initializeMetrics()

	return m
}

// NewMetricsManager is an alias of NewManager.
func NewMetricsManager(opts ...Option) *Manager {
	return NewManager(opts...)
}

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.searchNodes = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("nodes_total"),
		Help:        "Total number of attempted official assignments",
		ConstLabels: m.customLabels,
	})

	m.searchBacktracks = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("backtracks_total"),
		Help:        "Total number of exhausted choice points",
		ConstLabels: m.customLabels,
	})

	m.searchDayAdvances = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("day_advances_total"),
		Help:        "Total number of day-boundary advances, including ones later reverted",
		ConstLabels: m.customLabels,
	})

	m.searchForcedReturns = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("forced_returns_total"),
		Help:        "Total number of officials flown home by a day advance",
		ConstLabels: m.customLabels,
	})

	m.searchDepth = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("stack_depth"),
		Help:        "Current depth of the choice-point stack",
		ConstLabels: m.customLabels,
	})

	m.searchOutcomes = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("outcomes_total"),
			Help:        "Search runs by outcome",
			ConstLabels: m.customLabels,
		},
		[]string{"outcome"},
	)

	m.solveDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("solve_duration_seconds"),
		Help:        "Wall-clock duration of search runs in seconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.customLabels,
	})

	m.seasonCost = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("season_cost"),
		Help:        "Total cost of the last feasible season assignment",
		ConstLabels: m.customLabels,
	})

	m.recordsLoaded = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("records_loaded"),
			Help:        "Number of input records loaded by kind",
			ConstLabels: m.customLabels,
		},
		[]string{"kind"},
	)

	m.loadDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("load_duration_seconds"),
		Help:        "Duration of input loading in seconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.customLabels,
	})

	m.reportsWritten = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("reports_written_total"),
			Help:        "Reports written by name",
			ConstLabels: m.customLabels,
		},
		[]string{"report"},
	)

	m.errorsByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("errors_total"),
			Help:        "Errors by component and type",
			ConstLabels: m.customLabels,
		},
		[]string{"component", "type"},
	)
}

// Search Metrics Functions.

// RecordSearchNode increments the attempted assignment counter.
func RecordSearchNode() {
	if !globalManager.enabled {
		return
	}
	globalManager.searchNodes.Inc()
}

// RecordBacktrack increments the exhausted choice point counter.
func RecordBacktrack() {
	if !globalManager.enabled {
		return
	}
	globalManager.searchBacktracks.Inc()
}

// RecordDayAdvance increments the day advance counter.
func RecordDayAdvance() {
	if !globalManager.enabled {
		return
	}
	globalManager.searchDayAdvances.Inc()
}

// RecordForcedReturns adds n forced returns home.
func RecordForcedReturns(n int) {
	if !globalManager.enabled || n <= 0 {
		return
	}
	globalManager.searchForcedReturns.Add(float64(n))
}

// UpdateSearchDepth sets the current choice-point stack depth.
func UpdateSearchDepth(depth int) {
	globalManager.searchDepth.Set(float64(depth))
}

// RecordSearchOutcome counts a finished run by outcome label.
func RecordSearchOutcome(outcome string) {
	globalManager.searchOutcomes.WithLabelValues(outcome).Inc()
}

// RecordSolveDuration records the duration of a search run in seconds.
func RecordSolveDuration(seconds float64) {
	globalManager.solveDuration.Observe(seconds)
}

// Season Metrics Functions.

// UpdateSeasonCost sets the total cost of the season assignment.
func UpdateSeasonCost(cost int) {
	globalManager.seasonCost.Set(float64(cost))
}

// Input and Output Metrics Functions.

// UpdateRecordsLoaded sets the number of loaded records of a kind.
func UpdateRecordsLoaded(kind string, count int) {
	globalManager.recordsLoaded.WithLabelValues(kind).Set(float64(count))
}

// RecordLoadDuration records input loading duration in seconds.
func RecordLoadDuration(seconds float64) {
	globalManager.loadDuration.Observe(seconds)
}

// RecordReportWritten counts a written report.
func RecordReportWritten(report string) {
	globalManager.reportsWritten.WithLabelValues(report).Inc()
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// WriteTextfile writes the current metrics in the Prometheus text format to path.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, customRegistry); err != nil {
		return fmt.Errorf("%w: %w", ErrExportFailed, err)
	}
	return nil
}
