package instrument

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/reactor/pkg/reactor"
)

// MetricsConfig configures the Prometheus observer.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "reactor").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus observer.
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

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "reactor",
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics is a reactor.Observer that records engine events as Prometheus
// metrics:
//   - reactor_materializations_total{type,kind}: cells created
//   - reactor_array_detaches_total{type}: exposed arrays replaced
//   - reactor_subscriptions_total{mode}: subscriptions created
//   - reactor_active_subscriptions{mode}: subscriptions not yet disposed
//   - reactor_errors_total{code}: engine errors by code
//
// Example:
//
//	reactor.SetObserver(instrument.NewMetrics(
//	    instrument.WithNamespace("myapp"),
//	))
//	http.Handle("/metrics", promhttp.Handler())
type Metrics struct {
	materializations    *prometheus.CounterVec
	detaches            *prometheus.CounterVec
	subscriptions       *prometheus.CounterVec
	activeSubscriptions *prometheus.GaugeVec
	errors              *prometheus.CounterVec
}

// NewMetrics registers the metrics and returns the observer. Registering
// twice on the same registry panics, as with promauto.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		materializations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "materializations_total",
			Help:        "Total number of reactive cells created on first write or read",
			ConstLabels: config.ConstLabels,
		}, []string{"type", "kind"}),

		detaches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "array_detaches_total",
			Help:        "Total number of exposed arrays detached by reassignment",
			ConstLabels: config.ConstLabels,
		}, []string{"type"}),

		subscriptions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "subscriptions_total",
			Help:        "Total number of subscriptions created",
			ConstLabels: config.ConstLabels,
		}, []string{"mode"}),

		activeSubscriptions: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "active_subscriptions",
			Help:        "Number of subscriptions not yet disposed",
			ConstLabels: config.ConstLabels,
		}, []string{"mode"}),

		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "errors_total",
			Help:        "Total engine errors by code",
			ConstLabels: config.ConstLabels,
		}, []string{"code"}),
	}
}

func (m *Metrics) Materialized(typ, _ string, kind reactor.Kind) {
	m.materializations.WithLabelValues(typ, kind.String()).Inc()
}

func (m *Metrics) Detached(typ, _ string) {
	m.detaches.WithLabelValues(typ).Inc()
}

func (m *Metrics) Subscribed(mode string) {
	m.subscriptions.WithLabelValues(mode).Inc()
	m.activeSubscriptions.WithLabelValues(mode).Inc()
}

func (m *Metrics) Unsubscribed(mode string) {
	m.activeSubscriptions.WithLabelValues(mode).Dec()
}

func (m *Metrics) Failed(err *reactor.Error) {
	m.errors.WithLabelValues(err.Code).Inc()
}

var _ reactor.Observer = (*Metrics)(nil)
