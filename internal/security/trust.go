package security

import (
	"sync"
	"time"

	"github.com/albapepper/scoracle-persona/internal/store"
)

// DemoteThresholds holds the consecutive-clean-query counts required to
// demote one level, keyed by the level being demoted FROM.
type DemoteThresholds struct {
	WarnedToNormal    int // default 5
	CautiousToNormal  int // default 10
	ProbationToNormal int // default 5 — straight to normal, see Attempt
}

// Session is one session's mutable trust posture.
type Session struct {
	mu sync.Mutex

	SessionID       string
	Level           store.TrustLevel
	CleanCount      int
	EscalationCount int
	LastAttempt     time.Time
}

// Outcome is the result of processing one attempt against a session.
type Outcome struct {
	Level       store.TrustLevel
	Promoted    bool
	Demoted     bool
	MatchedID   PatternID
	IsInjection bool
}

// Attempt processes one query against the session's trust state:
//   - clean query in {normal,warned,cautious}: increment clean counter,
//     demote one level at the level-specific threshold, reset counter;
//   - injection: promote one level (capped at escalated), reset clean
//     counter to 0;
//   - genuine query in escalated: moves to probation;
//   - injection in probation: moves back to escalated.
func (s *Session) Attempt(isInjection bool, matchedID PatternID, thresholds DemoteThresholds, now time.Time) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.LastAttempt = now
	out := Outcome{MatchedID: matchedID, IsInjection: isInjection}

	if isInjection {
		s.EscalationCount++
		s.CleanCount = 0
		switch s.Level {
		case store.TrustProbation:
			s.Level = store.TrustEscalated
		default:
			if s.Level < store.TrustEscalated {
				s.Level++
			}
		}
		out.Promoted = true
		out.Level = s.Level
		return out
	}

	// Clean query.
	if s.Level == store.TrustEscalated {
		s.Level = store.TrustProbation
		s.CleanCount = 0
		out.Level = s.Level
		return out
	}

	s.CleanCount++
	threshold := 0
	switch s.Level {
	case store.TrustWarned:
		threshold = thresholds.WarnedToNormal
	case store.TrustCautious:
		threshold = thresholds.CautiousToNormal
	case store.TrustProbation:
		threshold = thresholds.ProbationToNormal
	}
	if threshold > 0 && s.CleanCount >= threshold {
		switch s.Level {
		case store.TrustProbation:
			// probation recovers straight to normal, never re-passing
			// through escalated.
			s.Level = store.TrustNormal
		case store.TrustWarned, store.TrustCautious:
			s.Level--
		}
		s.CleanCount = 0
		out.Demoted = true
	}
	out.Level = s.Level
	return out
}

// Snapshot returns the session's current posture as a store record, the
// shape Store.UpsertSessionState persists after each attempt.
func (s *Session) Snapshot() store.SessionTrustRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return store.SessionTrustRecord{
		SessionID:       s.SessionID,
		Level:           s.Level,
		CleanCount:      s.CleanCount,
		EscalationCount: s.EscalationCount,
		LastAttempt:     s.LastAttempt,
	}
}

// Manager owns the process-wide session-trust map, durable across the
// process lifetime. Shape mirrors conversation.Manager.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates an empty session-trust map.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Resolve returns the session for sessionID, creating it at TrustNormal if
// unseen.
func (m *Manager) Resolve(sessionID string) *Session {
	m.mu.RLock()
	s, ok := m.sessions[sessionID]
	m.mu.RUnlock()
	if ok {
		return s
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[sessionID]; ok {
		return s
	}
	s = &Session{SessionID: sessionID, Level: store.TrustNormal}
	m.sessions[sessionID] = s
	return s
}

// EvictIdle removes sessions whose LastAttempt is older than idleTimeout.
func (m *Manager) EvictIdle(idleTimeout time.Duration, now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, s := range m.sessions {
		s.mu.Lock()
		idle := now.Sub(s.LastAttempt)
		s.mu.Unlock()
		if idle > idleTimeout {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}
