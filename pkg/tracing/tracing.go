// Package tracing sets up OpenTelemetry tracing of nauta-gui.
//
// Until Init is called with an exporter, spans are not recorded.
package tracing

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const instrumentation = "github.com/nauta/nauta-gui"

// Config of tracing.
type Config struct {
	// Exporter is one of "none" (or empty), "stdout" or "otlphttp".
	Exporter string

	// Endpoint is the URL of OTLP/HTTP collector. Used only with "otlphttp".
	Endpoint string

	// Output is where "stdout" exporter writes. Defaults to os.Stdout.
	Output io.Writer
}

// Init installs the global tracer provider.
//
// The returned function flushes and stops exporting.
func Init(ctx context.Context, service string, version string, conf Config) (func(context.Context) error, error) {
	exp, err := newExporter(ctx, conf)
	if err != nil {
		return nil, err
	}
	if exp == nil {
		otel.SetTracerProvider(noop.NewTracerProvider())
		return func(context.Context) error { return nil }, nil
	}

	res, err := resource.New(
		ctx,
		resource.WithAttributes(
			semconv.ServiceName(service),
			semconv.ServiceVersion(version),
		),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return tp.Shutdown, nil
}

func newExporter(ctx context.Context, conf Config) (sdktrace.SpanExporter, error) {
	switch strings.ToLower(strings.TrimSpace(conf.Exporter)) {
	case "", "none":
		return nil, nil
	case "stdout":
		opts := []stdouttrace.Option{stdouttrace.WithPrettyPrint()}
		if conf.Output != nil {
			opts = append(opts, stdouttrace.WithWriter(conf.Output))
		}
		return stdouttrace.New(opts...)
	case "otlphttp":
		opts := []otlptracehttp.Option{}
		if conf.Endpoint != "" {
			opts = append(opts, otlptracehttp.WithEndpointURL(conf.Endpoint))
		}
		return otlptracehttp.New(ctx, opts...)
	default:
		return nil, fmt.Errorf("unknown trace exporter: %s", conf.Exporter)
	}
}

// StartSpan starts a span with the global tracer provider.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(instrumentation).Start(ctx, name, trace.WithAttributes(attrs...))
}

// End ends span, recording err if any.
func End(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// Middleware traces each request as a span named by its route.
func Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		ctx := otel.GetTextMapPropagator().Extract(req.Context(), propagation.HeaderCarrier(req.Header))
		ctx, span := StartSpan(
			ctx, req.Method+" "+c.Path(),
			semconv.HTTPRequestMethodKey.String(req.Method),
			semconv.HTTPRoute(c.Path()),
		)
		c.SetRequest(req.WithContext(ctx))

		err := next(c)
		span.SetAttributes(semconv.HTTPResponseStatusCode(c.Response().Status))
		End(span, err)
		return err
	}
}
