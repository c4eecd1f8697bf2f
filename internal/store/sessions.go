package store

import "context"

// AppendSecurityLog records one immutable security event. It never carries
// raw query content.
func (s *Store) AppendSecurityLog(ctx context.Context, e SecurityLogEntry) error {
	_, err := s.pool.Exec(ctx, "append_security_log", e.SessionID, e.OccurredAt, e.PatternID, e.RawLength, e.ResponseClass)
	return wrapErr(err)
}

// UpsertSessionState persists the current trust posture for a session.
func (s *Store) UpsertSessionState(ctx context.Context, r SessionTrustRecord) error {
	_, err := s.pool.Exec(ctx, "upsert_session_state", r.SessionID, int(r.Level), r.CleanCount, r.EscalationCount, r.LastAttempt)
	return wrapErr(err)
}
