// Package telemetry configures OpenTelemetry tracing for folio.
package telemetry

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// ShutdownFunc flushes and stops the tracer provider.
type ShutdownFunc func(ctx context.Context) error

type options struct {
	serviceName    string
	serviceVersion string
	sampleRatio    float64
	insecure       bool
}

// Opt configures [Setup].
type Opt func(*options)

func WithServiceName(name string) Opt {
	return func(o *options) {
		o.serviceName = name
	}
}

func WithServiceVersion(version string) Opt {
	return func(o *options) {
		o.serviceVersion = version
	}
}

// WithSampleRatio sets the fraction of root spans that are sampled.
func WithSampleRatio(ratio float64) Opt {
	return func(o *options) {
		o.sampleRatio = ratio
	}
}

// WithInsecure disables TLS for the OTLP connection.
func WithInsecure(insecure bool) Opt {
	return func(o *options) {
		o.insecure = insecure
	}
}

// Setup installs a global tracer provider exporting spans to the OTLP/gRPC
// collector at endpoint. When endpoint is empty, tracing stays disabled and
// the returned [ShutdownFunc] does nothing.
func Setup(ctx context.Context, endpoint string, opts ...Opt) (ShutdownFunc, error) {
	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}

	o := &options{
		serviceName: "folio",
		sampleRatio: 1,
	}
	for _, opt := range opts {
		opt(o)
	}

	exporterOpts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(endpoint)}
	if o.insecure {
		exporterOpts = append(exporterOpts, otlptracegrpc.WithInsecure())
	}

	exp, err := otlptracegrpc.New(ctx, exporterOpts...)
	if err != nil {
		return nil, fmt.Errorf("create exporter: %w", err)
	}

	tp := NewTracerProvider(exp, o.serviceName, o.serviceVersion,
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(o.sampleRatio))),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	slog.DebugContext(ctx, "tracing enabled", slog.String("endpoint", endpoint))

	return tp.Shutdown, nil
}

// NewTracerProvider creates a tracer provider that batches spans to exp.
func NewTracerProvider(
	exp sdktrace.SpanExporter,
	serviceName, serviceVersion string,
	opts ...sdktrace.TracerProviderOption,
) *sdktrace.TracerProvider {
	res := resource.NewSchemaless(
		attribute.String("service.name", serviceName),
		attribute.String("service.version", serviceVersion),
	)

	opts = append([]sdktrace.TracerProviderOption{
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
	}, opts...)

	return sdktrace.NewTracerProvider(opts...)
}
