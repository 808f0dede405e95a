// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package telemetry configures OpenTelemetry tracing for a CLI run.
package telemetry

import (
	"context"
	"fmt"

	"github.com/noldarim/hive/internal/config"
	"github.com/noldarim/hive/internal/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/noldarim/hive"

// ShutdownFunc flushes and stops the tracer provider.
type ShutdownFunc func(ctx context.Context) error

// Init installs a global tracer provider. When telemetry is disabled the
// global no-op provider is left in place and the returned shutdown is a no-op.
func Init(ctx context.Context, cfg config.TelemetryConfig, version string) (ShutdownFunc, error) {
	log := logger.GetTelemetryLogger()

	if !cfg.Enabled {
		log.Debug().Msg("Telemetry disabled")
		return func(context.Context) error { return nil }, nil
	}

	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}

	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	tp := NewProvider(sdktrace.WithBatcher(exporter), sdktrace.WithResource(newResource(cfg.ServiceName, version)))
	otel.SetTracerProvider(tp)

	log.Info().Str("endpoint", cfg.Endpoint).Msg("Telemetry enabled")

	return tp.Shutdown, nil
}

// NewProvider builds an SDK tracer provider. Tests pass an in-memory
// span processor through opts.
func NewProvider(opts ...sdktrace.TracerProviderOption) *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider(opts...)
}

func newResource(serviceName, version string) *resource.Resource {
	return resource.NewSchemaless(
		attribute.String("service.name", serviceName),
		attribute.String("service.version", version),
	)
}

// Tracer returns the tracer used across hive packages.
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}
