// Package telemetry installs the global OpenTelemetry tracer provider.
package telemetry

import (
	"context"

	"github.com/tech-arch1tect/verifycode/config"
	"github.com/tech-arch1tect/verifycode/services/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type ShutdownFunc func(context.Context) error

func noop(context.Context) error { return nil }

// Setup exports spans over OTLP/HTTP when tracing is enabled and an endpoint
// is set. Otherwise it leaves the global no-op provider in place.
func Setup(ctx context.Context, cfg config.TelemetryConfig, serviceName, version string) (ShutdownFunc, error) {
	if !cfg.Enabled || cfg.Endpoint == "" {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(cfg.Endpoint))
	if err != nil {
		return noop, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(version),
		),
	)
	if err != nil {
		return noop, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tp.Shutdown, nil
}

func register(lc fx.Lifecycle, cfg *config.Config, logger *logging.Service) {
	shutdown := ShutdownFunc(noop)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			fn, err := Setup(ctx, cfg.Telemetry, cfg.App.Name, cfg.App.Version)
			if err != nil {
				logger.Error("failed to set up tracing", zap.Error(err))
				return err
			}
			shutdown = fn
			if cfg.Telemetry.Enabled && cfg.Telemetry.Endpoint != "" {
				logger.Info("tracing enabled", zap.String("endpoint", cfg.Telemetry.Endpoint))
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return shutdown(ctx)
		},
	})
}

var Module = fx.Options(
	fx.Invoke(register),
)
