package gcal

import (
	"sync"
	"time"

	"calrelay/internal/idgen"
)

// StateStore issues and verifies single-use OAuth state nonces, guarding
// the authorization callback against CSRF. Entries expire after the TTL.
type StateStore struct {
	mu     sync.Mutex
	ttl    time.Duration
	states map[string]time.Time
}

// NewStateStore creates a state store with the given nonce lifetime
func NewStateStore(ttl time.Duration) *StateStore {
	return &StateStore{
		ttl:    ttl,
		states: make(map[string]time.Time),
	}
}

// Issue generates a new state nonce and remembers it until consumed or
// expired
func (s *StateStore) Issue() string {
	state := idgen.NewState()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.prune()
	s.states[state] = time.Now().Add(s.ttl)
	return state
}

// Consume reports whether the state is known and unexpired, and removes it
// so it cannot be replayed
func (s *StateStore) Consume(state string) bool {
	if state == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	deadline, ok := s.states[state]
	if !ok {
		return false
	}
	delete(s.states, state)
	return time.Now().Before(deadline)
}

// prune removes expired entries; caller must hold the lock
func (s *StateStore) prune() {
	now := time.Now()
	for state, deadline := range s.states {
		if now.After(deadline) {
			delete(s.states, state)
		}
	}
}
