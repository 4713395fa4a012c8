package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Session metrics
	SessionsCreated prometheus.Counter
	SessionConflict prometheus.Counter

	// Ledger metrics
	EntriesAdded       prometheus.Counter
	ValidationFailures *prometheus.CounterVec
	LedgerResets       prometheus.Counter
	SplitsComputed     *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits prometheus.Counter
}

// New creates all metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// Session metrics
		SessionsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "splitledger_sessions_created_total",
			Help: "Total number of sessions created",
		}),
		SessionConflict: factory.NewCounter(prometheus.CounterOpts{
			Name: "splitledger_session_update_conflicts_total",
			Help: "Total optimistic-lock conflicts while updating a session",
		}),

		// Ledger metrics
		EntriesAdded: factory.NewCounter(prometheus.CounterOpts{
			Name: "splitledger_entries_added_total",
			Help: "Total number of entries added to ledgers",
		}),
		ValidationFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "splitledger_entry_validation_failures_total",
				Help: "Total rejected entries by field",
			},
			[]string{"field"},
		),
		LedgerResets: factory.NewCounter(prometheus.CounterOpts{
			Name: "splitledger_ledger_resets_total",
			Help: "Total number of ledger resets",
		}),
		SplitsComputed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "splitledger_splits_computed_total",
				Help: "Total split computations by outcome",
			},
			[]string{"outcome"},
		),

		// Rate limiting metrics
		RateLimitHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "splitledger_rate_limit_hits_total",
			Help: "Total requests rejected by the rate limiter",
		}),
	}
}
