// Package metrics exposes Prometheus metrics for manifest builds.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/featureroutes/internal/errors"
	"github.com/vango-dev/featureroutes/pkg/routes"
)

// Config configures the build metrics.
type Config struct {
	// Namespace is the metrics namespace (default: "featureroutes").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for build duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the build metrics.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "featureroutes",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Recorder records build metrics. It implements routes.Recorder.
type Recorder struct {
	buildsTotal   *prometheus.CounterVec
	buildDuration prometheus.Histogram
	routes        prometheus.Gauge
	domains       prometheus.Gauge
	configErrors  *prometheus.CounterVec
	lastSuccess   prometheus.Gauge
}

var _ routes.Recorder = (*Recorder)(nil)

// New registers the build metrics and returns their Recorder. Registering
// twice on the same registry panics, as with promauto.
func New(opts ...Option) *Recorder {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Recorder{
		buildsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "builds_total",
			Help:        "Total number of manifest builds",
			ConstLabels: config.ConstLabels,
		}, []string{"status", "code"}),

		buildDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "build_duration_seconds",
			Help:        "Manifest build duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		routes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "routes",
			Help:        "Number of routes in the last successful manifest",
			ConstLabels: config.ConstLabels,
		}),

		domains: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "domains",
			Help:        "Number of domains in the last successful manifest",
			ConstLabels: config.ConstLabels,
		}),

		configErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "config_errors_total",
			Help:        "Total number of domain config load failures",
			ConstLabels: config.ConstLabels,
		}, []string{"domain"}),

		lastSuccess: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "last_success_timestamp_seconds",
			Help:        "Unix time of the last successful build",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// RecordBuild implements routes.Recorder.
func (r *Recorder) RecordBuild(duration time.Duration, stats routes.BuildStats, err error) {
	r.buildDuration.Observe(duration.Seconds())

	if err != nil {
		code := errors.CodeOf(err)
		if code == "" {
			code = "unknown"
		}
		r.buildsTotal.WithLabelValues("error", code).Inc()
		return
	}

	r.buildsTotal.WithLabelValues("ok", "").Inc()
	r.routes.Set(float64(stats.Routes))
	r.domains.Set(float64(stats.Domains))
	r.lastSuccess.SetToCurrentTime()
}

// RecordConfigError implements routes.Recorder.
func (r *Recorder) RecordConfigError(domain string) {
	r.configErrors.WithLabelValues(domain).Inc()
}
