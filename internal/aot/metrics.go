package aot

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	tracer = otel.Tracer("loom.aot")
	meter  = otel.Meter("loom.aot")

	prepareLatency metric.Float64Histogram
	prepareTotal   metric.Int64Counter
	nodesPruned    metric.Int64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

func initMetrics() error {
	metricsOnce.Do(func() {
		prepareLatency, metricsErr = meter.Float64Histogram(
			"aot_prepare_duration_seconds",
			metric.WithDescription("Duration of graph preparation"),
			metric.WithUnit("s"),
		)
		if metricsErr != nil {
			return
		}
		prepareTotal, metricsErr = meter.Int64Counter(
			"aot_prepare_total",
			metric.WithDescription("Number of graph preparations"),
		)
		if metricsErr != nil {
			return
		}
		nodesPruned, metricsErr = meter.Int64Histogram(
			"aot_nodes_pruned",
			metric.WithDescription("Nodes removed from each prepared graph"),
		)
	})
	return metricsErr
}

func recordPrepareMetrics(ctx context.Context, duration time.Duration, pruned int, success bool) {
	if err := initMetrics(); err != nil {
		return
	}
	attrs := metric.WithAttributes(attribute.Bool("success", success))
	prepareLatency.Record(ctx, duration.Seconds(), attrs)
	prepareTotal.Add(ctx, 1, attrs)
	if success {
		nodesPruned.Record(ctx, int64(pruned), attrs)
	}
}

func startPrepareSpan(ctx context.Context, feeds, fetches int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "aot.Prepare", trace.WithAttributes(
		attribute.Int("aot.feed_count", feeds),
		attribute.Int("aot.fetch_count", fetches),
	))
}
