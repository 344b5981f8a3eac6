package reconcile

import (
	"log/slog"

	"github.com/vango-dev/mirror/pkg/vdom"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// tracerName is the instrumentation name used when no tracer is configured.
const tracerName = "mirror"

// Config configures a Reconciler.
type Config struct {
	// Logger is the structured logger for pass summaries.
	// If nil, slog.Default() is used.
	Logger *slog.Logger

	// Metrics records pass counters and durations. Nil disables metrics.
	Metrics *Metrics

	// Tracer starts one span per diff pass.
	// Default: otel.Tracer("mirror") from the global provider.
	Tracer trace.Tracer

	// AttributePatches emits SetAttr/RemoveAttr commands when a node's
	// attributes change. Default: true.
	AttributePatches bool

	// BufferSize is the initial capacity of markup buffers.
	// Default: 1 KiB.
	BufferSize int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Logger:           slog.Default(),
		Tracer:           otel.Tracer(tracerName),
		AttributePatches: true,
		BufferSize:       vdom.DefaultBufferSize,
	}
}

// Option configures a Reconciler.
type Option func(*Config)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *Metrics) Option {
	return func(c *Config) {
		c.Metrics = m
	}
}

// WithTracer sets the tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Config) {
		c.Tracer = tracer
	}
}

// WithAttributePatches enables or disables attribute commands.
func WithAttributePatches(enabled bool) Option {
	return func(c *Config) {
		c.AttributePatches = enabled
	}
}

// WithBufferSize sets the initial markup buffer capacity.
func WithBufferSize(size int) Option {
	return func(c *Config) {
		c.BufferSize = size
	}
}

func (c *Config) normalize() {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Tracer == nil {
		c.Tracer = otel.Tracer(tracerName)
	}
	if c.BufferSize < 0 {
		c.BufferSize = 0
	}
}
