package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/infrastructure/metrics"
)

// LedgerUseCase handles session-scoped ledger operations.
type LedgerUseCase struct {
	store   SessionStore
	idGen   IDGenerator
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewLedgerUseCase creates a new LedgerUseCase. metrics may be nil.
func NewLedgerUseCase(store SessionStore, idGen IDGenerator, metrics *metrics.Metrics) *LedgerUseCase {
	return &LedgerUseCase{
		store:   store,
		idGen:   idGen,
		metrics: metrics,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// CreateSessionInput represents input for creating a session.
type CreateSessionInput struct {
	// Seed starts the ledger with the default entries.
	Seed bool
}

// CreateSession starts a new session with its own ledger.
func (uc *LedgerUseCase) CreateSession(ctx context.Context, input CreateSessionInput) (*domain.Session, error) {
	ledger := domain.NewLedger()
	if input.Seed {
		ledger = domain.NewLedger(domain.DefaultSeed()...)
	}

	now := uc.now()
	session := &domain.Session{
		ID:        uc.idGen.Generate(),
		Ledger:    ledger,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.store.Create(ctx, session); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.SessionsCreated.Inc()
	}

	return session, nil
}

// GetSession retrieves a session by ID.
func (uc *LedgerUseCase) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	return uc.store.Get(ctx, id)
}

// DeleteSession discards a session and its ledger.
func (uc *LedgerUseCase) DeleteSession(ctx context.Context, id string) error {
	return uc.store.Delete(ctx, id)
}

// AddEntryInput represents input for adding an entry.
type AddEntryInput struct {
	SessionID string
	Candidate domain.EntryCandidate
}

// AddEntry validates the candidate and appends it to the session's ledger.
// A rejected candidate leaves the stored ledger unchanged.
func (uc *LedgerUseCase) AddEntry(ctx context.Context, input AddEntryInput) (*domain.Session, error) {
	session, err := uc.store.Update(ctx, input.SessionID, func(ledger domain.Ledger) (domain.Ledger, error) {
		return ledger.AddEntry(input.Candidate)
	})
	if err != nil {
		if verr, ok := domain.IsValidationError(err); ok && uc.metrics != nil {
			uc.metrics.ValidationFailures.WithLabelValues(verr.Field).Inc()
		}
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.EntriesAdded.Inc()
	}

	return session, nil
}

// Reset clears the session's entries. The stored split count is kept.
func (uc *LedgerUseCase) Reset(ctx context.Context, id string) (*domain.Session, error) {
	session, err := uc.store.Update(ctx, id, func(ledger domain.Ledger) (domain.Ledger, error) {
		return ledger.Reset(), nil
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.LedgerResets.Inc()
	}

	return session, nil
}

// SetSplitCount stores the headcount as typed by the user. Invalid input is
// stored as 0.
func (uc *LedgerUseCase) SetSplitCount(ctx context.Context, id, raw string) (*domain.Session, error) {
	count := domain.ParseSplitCount(raw)
	return uc.store.Update(ctx, id, func(ledger domain.Ledger) (domain.Ledger, error) {
		return ledger.WithSplitCount(count), nil
	})
}

// Summary is the computed view of a session's ledger.
type Summary struct {
	Session    *domain.Session
	Total      decimal.Decimal
	SplitCount int
	PerPerson  decimal.Decimal
}

// Summarize computes the total and per-person split. When rawSplitCount is
// non-nil it is used for this computation only; otherwise the stored count
// is used.
func (uc *LedgerUseCase) Summarize(ctx context.Context, id string, rawSplitCount *string) (*Summary, error) {
	session, err := uc.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	count := session.Ledger.SplitCount()
	if rawSplitCount != nil {
		count = domain.ParseSplitCount(*rawSplitCount)
	}

	if uc.metrics != nil {
		uc.metrics.SplitsComputed.WithLabelValues(splitOutcome(count)).Inc()
	}

	return &Summary{
		Session:    session,
		Total:      session.Ledger.TotalCost(),
		SplitCount: count,
		PerPerson:  session.Ledger.ComputeSplit(count),
	}, nil
}

func splitOutcome(count int) string {
	if count <= 0 {
		return "not_computable"
	}
	return "computed"
}
