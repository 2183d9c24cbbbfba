package middleware

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/felixgeelhaar/conduit/service"
)

const (
	instrumentationName = "github.com/felixgeelhaar/conduit"
)

// OTelOption configures the OpenTelemetry layer.
type OTelOption[Req any] func(*otelConfig[Req])

type otelConfig[Req any] struct {
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
	serviceName    string
	operation      string
	requestAttrs   func(Req) []attribute.KeyValue
}

// WithTracerProvider sets a custom tracer provider.
func WithTracerProvider[Req any](tp trace.TracerProvider) OTelOption[Req] {
	return func(c *otelConfig[Req]) {
		c.tracerProvider = tp
	}
}

// WithMeterProvider sets a custom meter provider.
func WithMeterProvider[Req any](mp metric.MeterProvider) OTelOption[Req] {
	return func(c *otelConfig[Req]) {
		c.meterProvider = mp
	}
}

// WithOTelServiceName sets the service name for telemetry.
func WithOTelServiceName[Req any](name string) OTelOption[Req] {
	return func(c *otelConfig[Req]) {
		c.serviceName = name
	}
}

// WithOperationName sets the span name used for each call.
// Defaults to "conduit.call".
func WithOperationName[Req any](name string) OTelOption[Req] {
	return func(c *otelConfig[Req]) {
		c.operation = name
	}
}

// WithRequestAttributes sets a function that derives span attributes from
// each request.
func WithRequestAttributes[Req any](fn func(Req) []attribute.KeyValue) OTelOption[Req] {
	return func(c *otelConfig[Req]) {
		c.requestAttrs = fn
	}
}

// OTel returns a layer that adds OpenTelemetry tracing and metrics.
// A span is opened when a request is submitted and ended when its future
// resolves; request counts, error counts, and call latency are recorded.
func OTel[Req, Resp any](opts ...OTelOption[Req]) Layer[Req, Resp] {
	cfg := &otelConfig[Req]{
		tracerProvider: otel.GetTracerProvider(),
		meterProvider:  otel.GetMeterProvider(),
		serviceName:    "conduit-service",
		operation:      "conduit.call",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	tracer := cfg.tracerProvider.Tracer(
		instrumentationName,
		trace.WithInstrumentationVersion("1.0.0"),
	)

	meter := cfg.meterProvider.Meter(
		instrumentationName,
		metric.WithInstrumentationVersion("1.0.0"),
	)

	// Create metrics instruments
	requestCounter, _ := meter.Int64Counter(
		"conduit.service.requests",
		metric.WithDescription("Total number of submitted requests"),
		metric.WithUnit("{request}"),
	)

	requestDuration, _ := meter.Float64Histogram(
		"conduit.service.request.duration",
		metric.WithDescription("Duration of in-flight calls"),
		metric.WithUnit("ms"),
	)

	errorCounter, _ := meter.Int64Counter(
		"conduit.service.errors",
		metric.WithDescription("Total number of failed calls"),
		metric.WithUnit("{error}"),
	)

	return func(inner service.Service[Req, Resp]) service.Service[Req, Resp] {
		return &otelService[Req, Resp]{
			inner:           inner,
			cfg:             cfg,
			tracer:          tracer,
			requestCounter:  requestCounter,
			requestDuration: requestDuration,
			errorCounter:    errorCounter,
		}
	}
}

type otelService[Req, Resp any] struct {
	inner           service.Service[Req, Resp]
	cfg             *otelConfig[Req]
	tracer          trace.Tracer
	requestCounter  metric.Int64Counter
	requestDuration metric.Float64Histogram
	errorCounter    metric.Int64Counter
}

func (s *otelService[Req, Resp]) Ready(ctx context.Context) error {
	return s.inner.Ready(ctx)
}

func (s *otelService[Req, Resp]) Call(ctx context.Context, req Req) *service.Future[Resp] {
	attrs := []attribute.KeyValue{
		attribute.String("service.name", s.cfg.serviceName),
	}
	if s.cfg.requestAttrs != nil {
		attrs = append(attrs, s.cfg.requestAttrs(req)...)
	}

	ctx, span := s.tracer.Start(ctx, s.cfg.operation,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(attrs...),
	)

	if reqID := RequestIDFromContext(ctx); reqID != "" {
		span.SetAttributes(attribute.String("conduit.request_id", reqID))
	}

	startTime := time.Now()
	s.requestCounter.Add(ctx, 1, metric.WithAttributes(attrs...))

	fut := s.inner.Call(ctx, req)
	fut.OnDone(func(_ Resp, err error) {
		duration := float64(time.Since(startTime).Milliseconds())
		s.requestDuration.Record(ctx, duration, metric.WithAttributes(attrs...))

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())

			var svcErr *service.Error
			if errors.As(err, &svcErr) {
				span.SetAttributes(attribute.Int("conduit.error_code", svcErr.Code))
				s.errorCounter.Add(ctx, 1, metric.WithAttributes(
					append(attrs, attribute.Int("conduit.error_code", svcErr.Code))...,
				))
			} else {
				s.errorCounter.Add(ctx, 1, metric.WithAttributes(attrs...))
			}
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	})
	return fut
}

// SpanFromContext returns the current span from context.
// Returns a no-op span if no span is present.
func SpanFromContext(ctx context.Context) trace.Span {
	return trace.SpanFromContext(ctx)
}

// AddSpanEvent adds an event to the current span.
func AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
