package repository

import (
	"context"
	"sync"
)

// SessionStore persists the small keyed blobs a storefront session keeps:
// cart, auth, filters and last coupon. Get returns nil, nil for a missing key.
type SessionStore interface {
	Get(ctx context.Context, sessionID, key string) ([]byte, error)
	Set(ctx context.Context, sessionID, key string, value []byte) error
	Delete(ctx context.Context, sessionID, key string) error
	Close() error
}

// MemoryStore keeps sessions in process memory. State is lost on restart.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]map[string][]byte)}
}

func (s *MemoryStore) Get(ctx context.Context, sessionID, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.sessions[sessionID][key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (s *MemoryStore) Set(ctx context.Context, sessionID, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		session = make(map[string][]byte)
		s.sessions[sessionID] = session
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	session[key] = stored
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, sessionID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session, ok := s.sessions[sessionID]; ok {
		delete(session, key)
		if len(session) == 0 {
			delete(s.sessions, sessionID)
		}
	}
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
