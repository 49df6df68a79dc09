package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const (
	DefaultServiceName     = "cogniflash-cli"
	DefaultMetricsInterval = 60 * time.Second
)

// ShutdownFunc flushes and stops a meter provider.
type ShutdownFunc func(context.Context) error

// MeterConfig selects where metrics go. An empty Endpoint disables export.
type MeterConfig struct {
	ServiceName string
	Version     string
	Endpoint    string
	Insecure    bool
	Interval    time.Duration
}

// NewMeterProvider returns a no-op provider when export is disabled, and an
// OTLP/HTTP periodic exporter otherwise. The returned ShutdownFunc is never nil.
func NewMeterProvider(ctx context.Context, cfg MeterConfig) (metric.MeterProvider, ShutdownFunc, error) {
	noopShutdown := func(context.Context) error { return nil }

	if cfg.Endpoint == "" {
		return noop.NewMeterProvider(), noopShutdown, nil
	}

	if cfg.ServiceName == "" {
		cfg.ServiceName = DefaultServiceName
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultMetricsInterval
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.Version),
		),
		resource.WithTelemetrySDK(),
	)
	if err != nil {
		return nil, noopShutdown, fmt.Errorf("failed to create resource: %w", err)
	}

	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, noopShutdown, fmt.Errorf("failed to create OTLP metric exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.Interval))),
	)

	return mp, mp.Shutdown, nil
}
