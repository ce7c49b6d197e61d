package observe

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/navkit-dev/navkit/pkg/location"
	"github.com/navkit-dev/navkit/pkg/nav"
)

// MetricsConfig configures the Prometheus metrics observer.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "navkit").
	Namespace string

	// Subsystem is the metrics subsystem (default: "nav").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for cycle duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics observer.
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

// defaultMetricsConfig returns the default metrics configuration.
func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace:   "navkit",
		Subsystem:   "nav",
		ConstLabels: nil,
		Buckets:     prometheus.DefBuckets,
		Registry:    prometheus.DefaultRegisterer,
	}
}

// Metrics is a nav.Observer that records cycle metrics in Prometheus.
type Metrics struct {
	cycles    *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	redirects prometheus.Counter
	discards  prometheus.Counter
}

var _ nav.Observer = (*Metrics)(nil)

// NewMetrics creates a metrics observer and registers its collectors.
func NewMetrics(opts ...MetricsOption) *Metrics {
	cfg := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	factory := promauto.With(cfg.Registry)
	return &Metrics{
		cycles: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "cycles_total",
			Help:        "Completed navigation and submission cycles by kind and outcome.",
			ConstLabels: cfg.ConstLabels,
		}, []string{"kind", "outcome"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "cycle_duration_seconds",
			Help:        "Duration of navigation and submission cycles.",
			ConstLabels: cfg.ConstLabels,
			Buckets:     cfg.Buckets,
		}, []string{"kind"}),
		redirects: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "redirects_total",
			Help:        "Redirect hops followed within cycles.",
			ConstLabels: cfg.ConstLabels,
		}),
		discards: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "stale_results_discarded_total",
			Help:        "Results of superseded cycles thrown away on arrival.",
			ConstLabels: cfg.ConstLabels,
		}),
	}
}

// CycleStarted implements nav.Observer.
func (m *Metrics) CycleStarted(ctx context.Context, kind nav.CycleKind, target location.Location) context.Context {
	return ctx
}

// CycleSettled implements nav.Observer.
func (m *Metrics) CycleSettled(ctx context.Context, kind nav.CycleKind, target location.Location, elapsed time.Duration, err error) {
	m.cycles.WithLabelValues(kind.String(), outcome(err)).Inc()
	m.duration.WithLabelValues(kind.String()).Observe(elapsed.Seconds())
}

// RedirectFollowed implements nav.Observer.
func (m *Metrics) RedirectFollowed(ctx context.Context, from, to location.Location) {
	m.redirects.Inc()
}

// ResultDiscarded implements nav.Observer.
func (m *Metrics) ResultDiscarded(ctx context.Context, target location.Location) {
	m.discards.Inc()
}

// outcome maps a settle error to a metric label.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, nav.ErrSuperseded):
		return "superseded"
	default:
		return "error"
	}
}
