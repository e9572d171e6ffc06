// Package tracing wires the optional OpenTelemetry pipeline. Tracing is
// enabled only when both the tracing API key and project are configured;
// otherwise the global no-op tracer stays in place and spans cost nothing.
package tracing

import (
	"context"
	"fmt"
	"log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/skycast-ai/skycast/pkg/config"
)

// Setup installs the global tracer provider and returns a shutdown
// function. When tracing is not configured it returns a no-op shutdown.
func Setup(ctx context.Context, cfg *config.Config) (func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }

	if !cfg.TracingEnabled() {
		if cfg.Tracing.APIKey != "" && cfg.Tracing.Project == "" {
			log.Printf("[WARN] Tracing key found, but the tracing project is missing; tracing stays disabled")
		}
		return noop, nil
	}

	opts := []otlptracehttp.Option{
		otlptracehttp.WithHeaders(map[string]string{
			"x-api-key": cfg.Tracing.APIKey,
		}),
	}
	if cfg.Tracing.Endpoint != "" {
		opts = append(opts, otlptracehttp.WithEndpointURL(cfg.Tracing.Endpoint))
	}

	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return noop, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	res, err := sdkresource.Merge(sdkresource.Default(), sdkresource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName("skycast"),
		attribute.String("project", cfg.Tracing.Project),
	))
	if err != nil {
		return noop, fmt.Errorf("failed to build trace resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	log.Printf("[INFO] Tracing enabled for project %s", cfg.Tracing.Project)

	return tp.Shutdown, nil
}
