package session

import (
	"context"
	"sync"
	"time"
)

const purgeInterval = 5 * time.Minute

type memEntry struct {
	data      Data
	expiresAt time.Time
}

// MemStore is the in-process Store used by the desktop build. A background
// goroutine purges expired sessions so the map cannot grow without bound.
type MemStore struct {
	mu       sync.Mutex
	sessions map[string]memEntry
}

func NewMemStore() *MemStore {
	s := &MemStore{sessions: make(map[string]memEntry)}
	go s.purgeLoop()
	return s
}

func (s *MemStore) Put(_ context.Context, token string, data Data, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = memEntry{data: data, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *MemStore) Get(_ context.Context, token string) (*Data, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[token]
	if !ok || time.Now().After(e.expiresAt) {
		delete(s.sessions, token)
		return nil, ErrNotFound
	}
	d := e.data
	return &d, nil
}

func (s *MemStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

func (s *MemStore) purgeLoop() {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		s.mu.Lock()
		for token, e := range s.sessions {
			if now.After(e.expiresAt) {
				delete(s.sessions, token)
			}
		}
		s.mu.Unlock()
	}
}
