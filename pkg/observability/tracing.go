// Package observability wires OpenTelemetry tracing for the column tools.
//
// Library packages always trace through Tracer, which resolves to the
// global provider and is a no-op until Init installs an exporter. Only
// command line entry points call Init and Shutdown.
package observability

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const instrumentationName = "github.com/ajitpratap0/columnar"

// Config contains tracing configuration
type Config struct {
	ServiceName    string `yaml:"service_name" mapstructure:"service_name"`
	ServiceVersion string `yaml:"service_version" mapstructure:"service_version"`
	// Exporter is "none" or "stdout".
	Exporter     string  `yaml:"exporter" mapstructure:"exporter"`
	SamplingRate float64 `yaml:"sampling_rate" mapstructure:"sampling_rate"`
	PrettyPrint  bool    `yaml:"pretty_print" mapstructure:"pretty_print"`
}

// DefaultConfig disables export and samples every span once enabled.
func DefaultConfig() Config {
	return Config{
		ServiceName:    "columnar",
		ServiceVersion: "dev",
		Exporter:       "none",
		SamplingRate:   1.0,
	}
}

var (
	mu       sync.Mutex
	provider *sdktrace.TracerProvider
)

// Init installs a global tracer provider for cfg. Spans are written to w,
// or to stdout when w is nil. Exporter "none" leaves the no-op provider in
// place.
func Init(cfg Config, w io.Writer) error {
	if cfg.Exporter == "" || cfg.Exporter == "none" {
		return nil
	}
	if cfg.Exporter != "stdout" {
		return fmt.Errorf("unsupported trace exporter %q", cfg.Exporter)
	}
	if w == nil {
		w = os.Stdout
	}

	opts := []stdouttrace.Option{stdouttrace.WithWriter(w)}
	if cfg.PrettyPrint {
		opts = append(opts, stdouttrace.WithPrettyPrint())
	}
	exporter, err := stdouttrace.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create stdout exporter: %w", err)
	}

	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(cfg.ServiceName),
			semconv.ServiceVersionKey.String(cfg.ServiceVersion),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	var sampler sdktrace.Sampler
	switch {
	case cfg.SamplingRate <= 0:
		sampler = sdktrace.NeverSample()
	case cfg.SamplingRate >= 1.0:
		sampler = sdktrace.AlwaysSample()
	default:
		sampler = sdktrace.TraceIDRatioBased(cfg.SamplingRate)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
		sdktrace.WithBatcher(exporter),
	)

	mu.Lock()
	defer mu.Unlock()
	if provider != nil {
		_ = provider.Shutdown(context.Background())
	}
	provider = tp
	otel.SetTracerProvider(tp)
	return nil
}

// Shutdown flushes pending spans and removes the provider installed by Init.
func Shutdown(ctx context.Context) error {
	mu.Lock()
	tp := provider
	provider = nil
	mu.Unlock()

	if tp == nil {
		return nil
	}
	otel.SetTracerProvider(noop.NewTracerProvider())
	if err := tp.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown tracer: %w", err)
	}
	return nil
}

// Tracer returns the package tracer from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

// StartSpan starts a span named name with attrs.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return Tracer().Start(ctx, name, trace.WithAttributes(attrs...))
}

// EndSpan records err on span, if any, and ends it.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
