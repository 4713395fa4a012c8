package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/usecase"
)

// ErrSessionExists is returned when creating a session whose ID is taken.
var ErrSessionExists = errors.New("session already exists")

// SessionStore implements usecase.SessionStore using Redis. Each session is
// one JSON value whose TTL is refreshed on every update.
type SessionStore struct {
	client  *redis.Client
	retrier usecase.Retrier
	prefix  string
	ttl     time.Duration
	now     func() time.Time
}

// NewSessionStore creates a new SessionStore.
func NewSessionStore(client *redis.Client, retrier usecase.Retrier, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:  client,
		retrier: retrier,
		prefix:  "session:",
		ttl:     ttl,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

type sessionRecord struct {
	ID        string        `json:"id"`
	Ledger    domain.Ledger `json:"ledger"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Create stores a new session.
func (s *SessionStore) Create(ctx context.Context, session *domain.Session) error {
	payload, err := encodeSession(session)
	if err != nil {
		return err
	}

	set, err := s.client.SetNX(ctx, s.key(session.ID), payload, s.ttl).Result()
	if err != nil {
		return err
	}
	if !set {
		return ErrSessionExists
	}

	return nil
}

// Get retrieves a session by ID.
func (s *SessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	return decodeSession(data)
}

// Update applies fn inside a WATCH transaction on the session key. A
// concurrent writer makes the transaction fail, and the retrier runs fn
// again against the fresh ledger.
func (s *SessionStore) Update(ctx context.Context, id string, fn usecase.LedgerMutation) (*domain.Session, error) {
	key := s.key(id)

	var updated *domain.Session
	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return domain.ErrSessionNotFound
		}
		if err != nil {
			return err
		}

		session, err := decodeSession(data)
		if err != nil {
			return err
		}

		ledger, err := fn(session.Ledger)
		if err != nil {
			return err
		}
		session.Ledger = ledger
		session.UpdatedAt = s.now()

		payload, err := encodeSession(session)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, s.ttl)
			return nil
		})
		if err != nil {
			return err
		}

		updated = session
		return nil
	}

	err := s.retrier.Retry(ctx, func() error {
		return s.client.Watch(ctx, txf, key)
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete removes a session.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, s.key(id)).Err()
}

// Ping checks the Redis connection.
func (s *SessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *SessionStore) key(id string) string {
	return s.prefix + id
}

func encodeSession(session *domain.Session) ([]byte, error) {
	payload, err := json.Marshal(sessionRecord{
		ID:        session.ID,
		Ledger:    session.Ledger,
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode session %s: %w", session.ID, err)
	}
	return payload, nil
}

func decodeSession(data []byte) (*domain.Session, error) {
	var rec sessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}

	return &domain.Session{
		ID:        rec.ID,
		Ledger:    rec.Ledger,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}, nil
}
