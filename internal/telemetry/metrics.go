// Package telemetry provides OpenTelemetry instruments for the sync engine.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// SyncMeterName is the instrumentation scope of the sync metrics.
const SyncMeterName = "github.com/Nkosana1/Cogni-Flash-Card-site-app/sync"

// Mutation outcomes recorded by RecordMutation.
const (
	OutcomeApplied = "applied"
	OutcomeFailed  = "failed"
	OutcomeEvicted = "evicted"
	OutcomeSkipped = "skipped"
)

// SyncMetrics holds the instruments for flush passes. A nil *SyncMetrics is
// a valid no-op.
type SyncMetrics struct {
	passes       metric.Int64Counter
	mutations    metric.Int64Counter
	passDuration metric.Float64Histogram
	pending      metric.Int64Gauge
}

// NewSyncMetrics returns nil (no-op metrics) when provider is nil.
func NewSyncMetrics(provider metric.MeterProvider) (*SyncMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(SyncMeterName)

	passes, err := meter.Int64Counter(
		"cogniflash_sync_passes_total",
		metric.WithDescription("Number of flush passes run"),
		metric.WithUnit("{pass}"),
	)
	if err != nil {
		return nil, err
	}

	mutations, err := meter.Int64Counter(
		"cogniflash_sync_mutations_total",
		metric.WithDescription("Queued mutations processed by flush passes, by outcome"),
		metric.WithUnit("{mutation}"),
	)
	if err != nil {
		return nil, err
	}

	passDuration, err := meter.Float64Histogram(
		"cogniflash_sync_pass_duration_seconds",
		metric.WithDescription("Duration of flush passes in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60),
	)
	if err != nil {
		return nil, err
	}

	pending, err := meter.Int64Gauge(
		"cogniflash_sync_pending_mutations",
		metric.WithDescription("Mutations waiting in the queue after a pass"),
		metric.WithUnit("{mutation}"),
	)
	if err != nil {
		return nil, err
	}

	return &SyncMetrics{
		passes:       passes,
		mutations:    mutations,
		passDuration: passDuration,
		pending:      pending,
	}, nil
}

// RecordPass records one finished flush pass.
func (m *SyncMetrics) RecordPass(ctx context.Context, trigger string, duration time.Duration, pending int) {
	if m == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String("trigger", trigger))
	m.passes.Add(ctx, 1, attrs)
	m.passDuration.Record(ctx, duration.Seconds(), attrs)
	m.pending.Record(ctx, int64(pending))
}

// RecordMutation counts one mutation outcome for the given action.
func (m *SyncMetrics) RecordMutation(ctx context.Context, action, outcome string) {
	if m == nil {
		return
	}

	m.mutations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("action", action),
		attribute.String("outcome", outcome),
	))
}
