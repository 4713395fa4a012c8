package domain

import (
	"github.com/shopspring/decimal"
)

// ExpenseEntry is one named cost line item. Entries are values and are never
// mutated once they are part of a ledger.
type ExpenseEntry struct {
	Name string
	Cost decimal.Decimal
}

// EntryCandidate is an entry as typed by the user, before validation.
type EntryCandidate struct {
	Name string
	// Cost holds the raw text of the cost field. A JSON number is carried as
	// its literal text.
	Cost    string
	HasCost bool
}

// NewEntryCandidate builds a candidate with the cost field present.
func NewEntryCandidate(name, cost string) EntryCandidate {
	return EntryCandidate{Name: name, Cost: cost, HasCost: true}
}

// NewExpenseEntry validates name and cost and returns the entry.
func NewExpenseEntry(name string, cost decimal.Decimal) (ExpenseEntry, error) {
	if err := ValidateEntryName(name); err != nil {
		return ExpenseEntry{}, err
	}
	if err := ValidateCost(cost); err != nil {
		return ExpenseEntry{}, err
	}
	return ExpenseEntry{Name: name, Cost: cost}, nil
}

// DefaultSeed returns the entries a seeded session starts with.
func DefaultSeed() []ExpenseEntry {
	return []ExpenseEntry{
		{Name: "Room rent", Cost: decimal.NewFromInt(12000)},
		{Name: "Maintenance", Cost: decimal.NewFromInt(1200)},
	}
}
