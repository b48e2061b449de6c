// Copyright © 2026 The Tilelisp authors

package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/tliron/commonlog"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	octrace "go.opencensus.io/trace"
)

// logSpanExporter writes finished spans to the log.  It serves as both an
// OpenTelemetry SpanExporter and an OpenCensus Exporter.
type logSpanExporter struct {
	log commonlog.Logger
}

var (
	_ sdktrace.SpanExporter = (*logSpanExporter)(nil)
	_ octrace.Exporter      = (*logSpanExporter)(nil)
)

func newLogSpanExporter() *logSpanExporter {
	return &logSpanExporter{log: commonlog.GetLogger("tilelisp.profile")}
}

func (e *logSpanExporter) ExportSpans(_ context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, span := range spans {
		attrs := make([]string, 0, len(span.Attributes()))
		for _, kv := range span.Attributes() {
			attrs = append(attrs, fmt.Sprintf("%s=%s", kv.Key, kv.Value.Emit()))
		}
		e.log.Infof("span %s %s parent=%s %s [%s]",
			span.SpanContext().SpanID(),
			span.Name(),
			span.Parent().SpanID(),
			span.EndTime().Sub(span.StartTime()),
			strings.Join(attrs, " "))
	}
	return nil
}

func (e *logSpanExporter) Shutdown(context.Context) error {
	return nil
}

func (e *logSpanExporter) ExportSpan(sd *octrace.SpanData) {
	e.log.Infof("span %s %s parent=%s %s",
		sd.SpanID, sd.Name, sd.ParentSpanID, sd.EndTime.Sub(sd.StartTime))
}
