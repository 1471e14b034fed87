package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const tracerName = "crop-optimizer"

// initTracing installs a global tracer provider that writes spans as JSON to
// path. The returned function flushes the spans and closes the file.
func initTracing(path string) (func(context.Context) error, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("tracing: create %s: %w", path, err)
	}
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(f))
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("tracing: exporter: %w", err)
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", tracerName),
		)),
	)
	otel.SetTracerProvider(tp)
	return func(ctx context.Context) error {
		return errors.Join(tp.Shutdown(ctx), f.Close())
	}, nil
}
