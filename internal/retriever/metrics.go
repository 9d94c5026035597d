package retriever

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

const instrumentationName = "github.com/matheus-rech/docling-rag/internal/retriever"

// Metrics holds retrieval-path metrics. Instruments come from the global
// otel meter provider; without an SDK configured they are no-ops.
type Metrics struct {
	meter    metric.Meter
	logger   *zap.Logger
	duration metric.Float64Histogram
	errors   metric.Int64Counter
}

// NewMetrics creates a Metrics instance for the retriever.
func NewMetrics(logger *zap.Logger) *Metrics {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Metrics{
		meter:  otel.Meter(instrumentationName),
		logger: logger,
	}
	m.init()
	return m
}

func (m *Metrics) init() {
	var err error

	m.duration, err = m.meter.Float64Histogram(
		"docrag.retriever.duration_seconds",
		metric.WithDescription("End-to-end retrieve duration in seconds, including query embedding and index search."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0),
	)
	if err != nil {
		m.logger.Warn("failed to create duration histogram", zap.Error(err))
	}

	m.errors, err = m.meter.Int64Counter(
		"docrag.retriever.errors_total",
		metric.WithDescription("Total retrieve errors, labeled by outcome. Includes embedding failures, search failures and index/store desync."),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		m.logger.Warn("failed to create errors counter", zap.Error(err))
	}
}

// RecordRetrieve records one retrieve call.
func (m *Metrics) RecordRetrieve(ctx context.Context, elapsed time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
		if m.errors != nil {
			m.errors.Add(ctx, 1)
		}
	}
	if m.duration != nil {
		m.duration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(attribute.String("outcome", outcome)))
	}
}
