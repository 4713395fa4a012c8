package dto

import (
	"time"

	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/usecase"
)

// EntryResponse represents an expense entry in API responses.
type EntryResponse struct {
	Name string `json:"name"`
	Cost string `json:"cost"`
}

// SessionResponse represents a session and its computed totals.
type SessionResponse struct {
	ID         string          `json:"id"`
	Entries    []EntryResponse `json:"entries"`
	Total      string          `json:"total"`
	SplitCount int             `json:"split_count"`
	PerPerson  string          `json:"per_person"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// SplitResponse represents a split computation.
type SplitResponse struct {
	Total      string `json:"total"`
	SplitCount int    `json:"split_count"`
	PerPerson  string `json:"per_person"`
}

// ErrorResponse represents an error response. Field names the rejected
// input for validation errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message,omitempty"`
}

// EntriesFromDomain converts ledger entries to responses.
func EntriesFromDomain(entries []domain.ExpenseEntry) []EntryResponse {
	result := make([]EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryResponse{
			Name: e.Name,
			Cost: domain.FormatAmount(e.Cost),
		}
	}
	return result
}

// SessionFromDomain converts a session to a response using its stored split count.
func SessionFromDomain(s *domain.Session) *SessionResponse {
	return &SessionResponse{
		ID:         s.ID,
		Entries:    EntriesFromDomain(s.Ledger.Entries()),
		Total:      domain.FormatAmount(s.Ledger.TotalCost()),
		SplitCount: s.Ledger.SplitCount(),
		PerPerson:  domain.FormatAmount(s.Ledger.Split()),
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}

// SessionFromSummary converts a summary to a response. The split fields
// reflect the count the summary was computed with.
func SessionFromSummary(sum *usecase.Summary) *SessionResponse {
	resp := SessionFromDomain(sum.Session)
	resp.SplitCount = sum.SplitCount
	resp.PerPerson = domain.FormatAmount(sum.PerPerson)
	return resp
}

// SplitFromSummary converts a summary to a split response.
func SplitFromSummary(sum *usecase.Summary) *SplitResponse {
	return &SplitResponse{
		Total:      domain.FormatAmount(sum.Total),
		SplitCount: sum.SplitCount,
		PerPerson:  domain.FormatAmount(sum.PerPerson),
	}
}
