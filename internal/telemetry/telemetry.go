// Package telemetry wires OpenTelemetry tracing for the colorcore
// pipeline phases, following the same bootstrap shape used across the
// rest of this codebase's services.
package telemetry

import (
	"context"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.7.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"k8s.io/klog/v2"
)

const tracerName = "ggcat-colorcore"

// Init sets up OpenTelemetry tracing for the given phase/service name,
// returning a shutdown function. Disabled entirely when
// DISABLE_TELEMETRY=true.
func Init(ctx context.Context, serviceName string) (func(), error) {
	if os.Getenv("DISABLE_TELEMETRY") == "true" {
		klog.Info("telemetry disabled via DISABLE_TELEMETRY")
		return func() {}, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
			attribute.String("environment", os.Getenv("ENVIRONMENT")),
		),
	)
	if err != nil {
		return nil, err
	}

	var exporter sdktrace.SpanExporter
	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")

	if otlpEndpoint != "" {
		dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		conn, err := grpc.DialContext(dialCtx, otlpEndpoint, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			return nil, err
		}
		exporter, err = otlptrace.New(ctx, otlptracegrpc.NewClient(otlptracegrpc.WithGRPCConn(conn)))
		if err != nil {
			return nil, err
		}
		klog.Infof("telemetry exporting to OTLP endpoint: %s", otlpEndpoint)
	} else {
		exporter, err = stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, err
		}
		klog.Info("telemetry exporting to stdout (no OTEL_EXPORTER_OTLP_ENDPOINT set)")
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return func() {
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			klog.Errorf("error shutting down telemetry provider: %v", err)
		}
	}, nil
}

// StartSpan starts a span under this package's tracer.
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, name, opts...)
}

// StartPhase starts a span for one named pipeline phase (e.g. "resolve
// bucket 3"), replacing the ad-hoc phase timers of the system this
// codebase was adapted from.
func StartPhase(ctx context.Context, phase string) (context.Context, trace.Span) {
	return StartSpan(ctx, "phase."+phase, trace.WithAttributes(attribute.String("phase.name", phase)))
}
