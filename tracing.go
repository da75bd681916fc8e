package main

import (
	"context"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// initTracing wires the global OpenTelemetry TracerProvider that
// flightsql.Server obtains its tracer from via otel.Tracer(...); the
// client package creates no spans. Tracing is a no-op (the default noop provider)
// unless FLIGHTSQL_OTLP_TRACES_ENDPOINT is set, matching initLogging's
// opt-in-via-endpoint pattern.
func initTracing() func() {
	endpoint := os.Getenv("FLIGHTSQL_OTLP_TRACES_ENDPOINT")
	if endpoint == "" {
		return func() {}
	}

	ctx := context.Background()

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpoint(endpoint))
	if err != nil {
		slog.Error("Failed to create OTLP trace exporter, tracing disabled.", "error", err)
		return func() {}
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
	)
	otel.SetTracerProvider(provider)

	slog.Info("OTLP tracing enabled.", "endpoint", endpoint)

	return func() {
		_ = provider.Shutdown(context.Background())
	}
}
