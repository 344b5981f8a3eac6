package reconcile

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vango-dev/mirror/pkg/protocol"
)

// MetricsConfig configures the Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "mirror").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for pass duration.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "mirror",
		// Passes are expected to take microseconds to low milliseconds.
		Buckets:  []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05, .1},
		Registry: prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus collectors for reconcilers. One Metrics may
// be shared by many reconcilers; create it once per registry.
type Metrics struct {
	renders     prometheus.Counter
	passes      prometheus.Counter
	nodesDiffed prometheus.Counter
	dropped     prometheus.Counter
	rebuilt     prometheus.Counter
	commands    *prometheus.CounterVec
	duration    prometheus.Histogram
}

// NewMetrics registers the reconciler collectors.
//
// Metrics collected:
//   - mirror_initial_renders_total: full renders performed by New
//   - mirror_diff_passes_total: diff passes run
//   - mirror_nodes_diffed_total: per-node diffs across all passes
//   - mirror_dirty_dropped_total: marked ids discarded because no node matched
//   - mirror_subtrees_rebuilt_total: subtrees replaced after an identity change
//   - mirror_commands_total{op}: commands emitted by op
//   - mirror_diff_duration_seconds: pass duration
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	counter := func(name, help string) prometheus.Counter {
		return factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		})
	}

	m := &Metrics{
		renders:     counter("initial_renders_total", "Total number of full initial renders"),
		passes:      counter("diff_passes_total", "Total number of diff passes"),
		nodesDiffed: counter("nodes_diffed_total", "Total number of per-node diffs"),
		dropped:     counter("dirty_dropped_total", "Total number of marked ids dropped without a matching node"),
		rebuilt:     counter("subtrees_rebuilt_total", "Total number of subtrees rebuilt after an identity change"),

		commands: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "commands_total",
			Help:        "Total number of rendering surface commands emitted",
			ConstLabels: config.ConstLabels,
		}, []string{"op"}),

		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "diff_duration_seconds",
			Help:        "Diff pass duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),
	}
	return m
}

func (m *Metrics) observeRender() {
	if m == nil {
		return
	}
	m.renders.Inc()
	m.commands.WithLabelValues(protocol.OpAppendChild.String()).Inc()
}

func (m *Metrics) observePass(res Result) {
	if m == nil {
		return
	}
	m.passes.Inc()
	m.nodesDiffed.Add(float64(res.Diffed))
	m.dropped.Add(float64(res.Dropped))
	m.rebuilt.Add(float64(res.Rebuilt))
	for op, n := range res.Commands {
		m.commands.WithLabelValues(op.String()).Add(float64(n))
	}
	m.duration.Observe(res.Duration.Seconds())
}
