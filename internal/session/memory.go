package session

import (
	"context"
	"sync"

	"bloodhelp-bot/pkg"
)

// MemoryStore keeps conversation state in a process-local map. Entries
// live until a terminal action deletes them.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string]pkg.ConversationState
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string]pkg.ConversationState)}
}

func (s *MemoryStore) Get(_ context.Context, conversantID string) (*pkg.ConversationState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.states[conversantID]
	if !ok {
		return nil, ErrNotFound
	}
	// Hand out a copy so callers never mutate the map's value directly.
	out := state
	return &out, nil
}

func (s *MemoryStore) Put(_ context.Context, state *pkg.ConversationState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[state.ConversantID] = *state
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, conversantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, conversantID)
	return nil
}
