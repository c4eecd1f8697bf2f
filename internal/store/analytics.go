package store

import "context"

// AppendAnalytics records one per-request observability row. Cancelled
// marks a request that unwound mid-flight; the analytics row is still
// appended, just flagged.
func (s *Store) AppendAnalytics(ctx context.Context, r AnalyticsRecord) error {
	_, err := s.pool.Exec(ctx, "append_analytics",
		r.ConversationID, r.PersonaID, r.Intent, r.SourceCount, r.Confidence,
		r.LatencyMS, r.CacheHit, r.Cancelled, r.OccurredAt)
	return wrapErr(err)
}
