// Package conversation tracks multi-turn session state: last entities,
// last intent, the discussed-fact set, and the turn counter. It is an
// in-memory map keyed by conversation identifier; it never persists across
// process restarts. Eviction policy is the caller's choice — an idle
// timeout ticker is provided (see eviction.go).
package conversation

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/albapepper/scoracle-persona/internal/store"
)

const maxEntitiesPerType = 5

// State is one conversation's tracked context. Turns within one
// conversation are strictly serialized by Mu; callers must hold it across
// a full resolve→retrieve→enrich→update sequence.
type State struct {
	Mu sync.Mutex

	ConversationID string
	PersonaID      string

	LastEntitiesByType map[string][]string // FIFO, capped at 5 per type
	LastIntent         string
	TurnCount          int
	DiscussedFacts     map[string]bool

	PersonaCache *store.PersonaIdentity // loaded once, retained for the conversation

	LastUpdated time.Time
}

// newState constructs a fresh conversation state bound to conversationID.
func newState(conversationID, personaID string) *State {
	return &State{
		ConversationID:     conversationID,
		PersonaID:          personaID,
		LastEntitiesByType: make(map[string][]string),
		DiscussedFacts:     make(map[string]bool),
		LastUpdated:        time.Now(),
	}
}

// Manager owns the process-wide conversation map. Readers and writers take
// the map's own lock to find/create an entry; the per-conversation mutex
// then serializes turns within that conversation.
type Manager struct {
	mu    sync.RWMutex
	conns map[string]*State
}

// NewManager creates an empty conversation map.
func NewManager() *Manager {
	return &Manager{conns: make(map[string]*State)}
}

// Resolve returns the state for conversationID, creating one (with a new
// id via uuid.NewString when conversationID is "") if it doesn't exist yet.
func (m *Manager) Resolve(conversationID, personaID string) *State {
	if conversationID == "" {
		conversationID = uuid.NewString()
	}

	m.mu.RLock()
	s, ok := m.conns[conversationID]
	m.mu.RUnlock()
	if ok {
		return s
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.conns[conversationID]; ok {
		return s
	}
	s = newState(conversationID, personaID)
	m.conns[conversationID] = s
	return s
}

// Evict removes conversations idle longer than idleTimeout. Returns the
// number of conversations removed.
func (m *Manager) Evict(idleTimeout time.Duration, now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.conns {
		s.Mu.Lock()
		idle := now.Sub(s.LastUpdated)
		s.Mu.Unlock()
		if idle > idleTimeout {
			delete(m.conns, id)
			removed++
		}
	}
	return removed
}

// Count reports the number of live conversations, for observability.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.conns)
}
