package usecase

import (
	"context"
	"time"

	"github.com/iho/splitledger/internal/domain"
)

// LedgerMutation transforms a session's ledger. Returning an error aborts the
// update and nothing is stored.
type LedgerMutation func(ledger domain.Ledger) (domain.Ledger, error)

// SessionStore holds one ledger per session.
type SessionStore interface {
	Create(ctx context.Context, session *domain.Session) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	// Update applies fn to the stored ledger atomically with respect to other
	// updates of the same session and returns the stored result.
	Update(ctx context.Context, id string, fn LedgerMutation) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier re-runs an operation while it fails with a retryable error.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key whose request failed so it can be retried.
	Release(ctx context.Context, key string) error
}
