// Package telemetry provides the orchestrator's OpenTelemetry metric
// instruments: request latency, source count, confidence, and cache hits.
// One Metrics struct of pre-created instruments, a Prometheus exporter
// bridge, and small Record* convenience methods.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/albapepper/scoracle-persona"

// latencyBuckets are bucket boundaries in milliseconds, shaped for a
// sub-second chat round trip with an LLM call in the critical path.
var latencyBuckets = []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000}

// Metrics holds every OTel instrument the orchestrator records against.
// All fields are safe for concurrent use.
type Metrics struct {
	RequestDuration metric.Float64Histogram
	SourceCount     metric.Int64Histogram
	Confidence      metric.Float64Histogram
	CacheHits       metric.Int64Counter
	CacheMisses     metric.Int64Counter
	TrustPromotions metric.Int64Counter
	Deflections     metric.Int64Counter
}

// New creates a fully initialised Metrics using the given MeterProvider.
func New(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	met := &Metrics{}
	var err error

	if met.RequestDuration, err = m.Float64Histogram("scoracle.request.duration",
		metric.WithDescription("End-to-end chat request latency."),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.SourceCount, err = m.Int64Histogram("scoracle.request.source_count",
		metric.WithDescription("Number of attributable sources per response."),
	); err != nil {
		return nil, err
	}
	if met.Confidence, err = m.Float64Histogram("scoracle.request.confidence",
		metric.WithDescription("Final confidence value per response, in [0,1]."),
	); err != nil {
		return nil, err
	}
	if met.CacheHits, err = m.Int64Counter("scoracle.persona_cache.hits",
		metric.WithDescription("Persona bundle cache hits (reused conversation snapshot)."),
	); err != nil {
		return nil, err
	}
	if met.CacheMisses, err = m.Int64Counter("scoracle.persona_cache.misses",
		metric.WithDescription("Persona bundle cache misses (first turn, loaded from Store)."),
	); err != nil {
		return nil, err
	}
	if met.TrustPromotions, err = m.Int64Counter("scoracle.security.trust_promotions",
		metric.WithDescription("Session trust-level promotions by matched pattern id."),
	); err != nil {
		return nil, err
	}
	if met.Deflections, err = m.Int64Counter("scoracle.security.deflections",
		metric.WithDescription("Deflection responses returned instead of an LLM call."),
	); err != nil {
		return nil, err
	}
	return met, nil
}

// RecordRequest records one completed request's latency, source count, and
// confidence, tagged by resolved intent.
func (m *Metrics) RecordRequest(ctx context.Context, intent string, latencyMS float64, sourceCount int, confidence float64) {
	attrs := metric.WithAttributes(attribute.String("intent", intent))
	m.RequestDuration.Record(ctx, latencyMS, attrs)
	m.SourceCount.Record(ctx, int64(sourceCount), attrs)
	m.Confidence.Record(ctx, confidence, attrs)
}

// RecordCache records a persona-bundle cache hit or miss.
func (m *Metrics) RecordCache(ctx context.Context, hit bool) {
	if hit {
		m.CacheHits.Add(ctx, 1)
		return
	}
	m.CacheMisses.Add(ctx, 1)
}

// RecordTrustPromotion records one session trust-level promotion.
func (m *Metrics) RecordTrustPromotion(ctx context.Context, patternID string) {
	m.TrustPromotions.Add(ctx, 1, metric.WithAttributes(attribute.String("pattern", patternID)))
}

// RecordDeflection records one deflection response.
func (m *Metrics) RecordDeflection(ctx context.Context, level string) {
	m.Deflections.Add(ctx, 1, metric.WithAttributes(attribute.String("level", level)))
}
