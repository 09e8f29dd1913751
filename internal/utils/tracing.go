package utils

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// NewTracerProvider installs a global tracer provider sampling ratio of
// traces. Finished spans are written to the logger at debug level.
func NewTracerProvider(ratio float64, logger *logrus.Logger) *sdktrace.TracerProvider {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))),
		sdktrace.WithBatcher(&logExporter{logger: logger}),
	)
	otel.SetTracerProvider(tp)
	return tp
}

// logExporter writes spans as log entries
type logExporter struct {
	logger *logrus.Logger
}

func (e *logExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, span := range spans {
		fields := logrus.Fields{
			"span":     span.Name(),
			"trace_id": span.SpanContext().TraceID().String(),
			"duration": span.EndTime().Sub(span.StartTime()).String(),
		}
		for _, attr := range span.Attributes() {
			fields[string(attr.Key)] = attr.Value.Emit()
		}
		if status := span.Status(); status.Description != "" {
			fields["status"] = status.Description
		}
		e.logger.WithFields(fields).Debug("Span finished")
	}
	return nil
}

func (e *logExporter) Shutdown(ctx context.Context) error {
	return nil
}
