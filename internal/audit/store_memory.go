package audit

import (
	"context"
	"sync"
	"time"
)

// InMemoryStore keeps a bounded trail per session.
type InMemoryStore struct {
	mu         sync.RWMutex
	events     map[string][]Event
	maxPerSess int
}

const defaultMaxPerSession = 200

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[string][]Event), maxPerSess: defaultMaxPerSession}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	trail := append(s.events[event.SessionID], event)
	if len(trail) > s.maxPerSess {
		trail = trail[len(trail)-s.maxPerSess:]
	}
	s.events[event.SessionID] = trail
	return nil
}

func (s *InMemoryStore) ListBySession(_ context.Context, sessionID string) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Event{}, s.events[sessionID]...), nil
}

// Forget drops the trail of an expired session.
func (s *InMemoryStore) Forget(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.events, sessionID)
}

// Prune drops every trail whose latest event happened before cutoff.
func (s *InMemoryStore) Prune(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, trail := range s.events {
		if len(trail) == 0 || trail[len(trail)-1].Timestamp.Before(cutoff) {
			delete(s.events, id)
			removed++
		}
	}
	return removed
}
