package telemetry

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"

	"github.com/seu-repo/evstation/pkg/config"
)

// InitTracer installs the global tracer provider. When tracing is disabled the
// provider has no exporter and spans are dropped.
func InitTracer(cfg config.OpenTelemetryConfig, serviceName, version string) (*sdktrace.TracerProvider, error) {
	if cfg.ServiceName != "" {
		serviceName = cfg.ServiceName
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceVersionKey.String(version),
		)),
	}

	if cfg.Enabled {
		exporter, err := jaeger.New(jaeger.WithCollectorEndpoint(
			jaeger.WithEndpoint(cfg.Jaeger.Endpoint),
		))
		if err != nil {
			return nil, err
		}
		ratio := cfg.Jaeger.SamplerParam
		if ratio <= 0 {
			ratio = 1
		}
		opts = append(opts,
			sdktrace.WithBatcher(exporter),
			sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))),
		)
	} else {
		opts = append(opts, sdktrace.WithSampler(sdktrace.NeverSample()))
	}

	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)

	return tp, nil
}
