package session

import (
	"context"
	"errors"
	"sync"
)

// ErrSessionNotFound indicates caller misuse (an unknown or expired session
// id) and is the one store fault allowed to surface to API clients.
var ErrSessionNotFound = errors.New("session not found")

// ErrFormLocked rejects any form mutation attempted after the form was
// frozen for planning.
var ErrFormLocked = errors.New("form is locked and cannot be modified")

// Store is the persistence contract the core consumes. Implementations are
// external resources; the core never deletes sessions on its own.
type Store interface {
	Create(ctx context.Context) (*Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	Update(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

// MemoryStore keeps sessions in a process-local map. Suitable for tests and
// single-instance deployments.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session)}
}

func (m *MemoryStore) Create(ctx context.Context) (*Session, error) {
	s := New()
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s, nil
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (m *MemoryStore) Update(ctx context.Context, s *Session) error {
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}

var _ Store = (*MemoryStore)(nil)
