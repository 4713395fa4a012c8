package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/usecase"
)

// ErrSessionExists is returned when creating a session whose ID is taken.
var ErrSessionExists = errors.New("session already exists")

// SessionStore implements usecase.SessionStore in process memory. Sessions
// idle for longer than the TTL are treated as gone.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionStore creates a new SessionStore. A ttl of zero keeps sessions
// until they are deleted.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*domain.Session),
		ttl:      ttl,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create stores a new session.
func (s *SessionStore) Create(ctx context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.lookup(session.ID); ok {
		return ErrSessionExists
	}

	stored := *session
	s.sessions[session.ID] = &stored
	return nil
}

// Get retrieves a session by ID.
func (s *SessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.lookup(id)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	out := *session
	return &out, nil
}

// Update applies fn to the session's ledger while holding the store lock.
func (s *SessionStore) Update(ctx context.Context, id string, fn usecase.LedgerMutation) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.lookup(id)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	ledger, err := fn(session.Ledger)
	if err != nil {
		return nil, err
	}

	updated := *session
	updated.Ledger = ledger
	updated.UpdatedAt = s.now()
	s.sessions[id] = &updated

	out := updated
	return &out, nil
}

// Delete removes a session. Deleting a missing session is not an error.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

// Ping always succeeds.
func (s *SessionStore) Ping(ctx context.Context) error {
	return nil
}

// PurgeExpired drops every expired session and returns how many were removed.
func (s *SessionStore) PurgeExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, session := range s.sessions {
		if s.expired(session) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// lookup must be called with mu held.
func (s *SessionStore) lookup(id string) (*domain.Session, bool) {
	session, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	if s.expired(session) {
		delete(s.sessions, id)
		return nil, false
	}
	return session, true
}

func (s *SessionStore) expired(session *domain.Session) bool {
	return s.ttl > 0 && s.now().Sub(session.UpdatedAt) > s.ttl
}
