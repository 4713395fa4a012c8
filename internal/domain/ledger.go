package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// DefaultSplitCount is the headcount a new ledger splits across.
const DefaultSplitCount = 1

// Ledger is the ordered collection of entries for one session plus the
// headcount last supplied for splitting.
//
// Ledger is a value: AddEntry, Reset and WithSplitCount return a new Ledger
// and leave the receiver untouched. Two ledgers never share a backing array.
type Ledger struct {
	entries    []ExpenseEntry
	splitCount int
}

// NewLedger creates a ledger holding the given seed entries.
func NewLedger(seed ...ExpenseEntry) Ledger {
	entries := make([]ExpenseEntry, len(seed))
	copy(entries, seed)
	return Ledger{entries: entries, splitCount: DefaultSplitCount}
}

// AddEntry validates the candidate and returns the ledger with it appended.
// On failure the returned ledger is the receiver, unchanged.
func (l Ledger) AddEntry(c EntryCandidate) (Ledger, error) {
	entry, err := ValidateCandidate(c)
	if err != nil {
		return l, err
	}

	entries := make([]ExpenseEntry, len(l.entries), len(l.entries)+1)
	copy(entries, l.entries)
	entries = append(entries, entry)

	return Ledger{entries: entries, splitCount: l.splitCount}, nil
}

// TotalCost sums entry costs in insertion order.
func (l Ledger) TotalCost() decimal.Decimal {
	total := decimal.Zero
	for _, e := range l.entries {
		total = total.Add(e.Cost)
	}
	return total
}

// ComputeSplit divides the total evenly across splitCount people. A
// splitCount below 1 yields zero instead of an error. The result is not
// rounded; use FormatAmount at the display boundary.
func (l Ledger) ComputeSplit(splitCount int) decimal.Decimal {
	if splitCount <= 0 {
		return decimal.Zero
	}
	return l.TotalCost().Div(decimal.NewFromInt(int64(splitCount)))
}

// Reset returns the ledger with no entries. The split count is kept.
func (l Ledger) Reset() Ledger {
	return Ledger{entries: []ExpenseEntry{}, splitCount: l.splitCount}
}

// WithSplitCount returns the ledger with the stored headcount replaced.
// Values below 1 are stored as 0, meaning "not computable".
func (l Ledger) WithSplitCount(n int) Ledger {
	if n < 0 {
		n = 0
	}
	entries := make([]ExpenseEntry, len(l.entries))
	copy(entries, l.entries)
	return Ledger{entries: entries, splitCount: n}
}

// SplitCount returns the stored headcount.
func (l Ledger) SplitCount() int {
	return l.splitCount
}

// Split divides the total by the stored headcount.
func (l Ledger) Split() decimal.Decimal {
	return l.ComputeSplit(l.splitCount)
}

// Entries returns a copy of the entries in insertion order.
func (l Ledger) Entries() []ExpenseEntry {
	out := make([]ExpenseEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries.
func (l Ledger) Len() int {
	return len(l.entries)
}

type ledgerJSON struct {
	Entries    []entryJSON `json:"entries"`
	SplitCount int         `json:"split_count"`
}

type entryJSON struct {
	Name string          `json:"name"`
	Cost decimal.Decimal `json:"cost"`
}

// MarshalJSON encodes the ledger for session stores.
func (l Ledger) MarshalJSON() ([]byte, error) {
	out := ledgerJSON{
		Entries:    make([]entryJSON, len(l.entries)),
		SplitCount: l.splitCount,
	}
	for i, e := range l.entries {
		out.Entries[i] = entryJSON{Name: e.Name, Cost: e.Cost}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a stored ledger, re-checking every entry.
func (l *Ledger) UnmarshalJSON(data []byte) error {
	var in ledgerJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	entries := make([]ExpenseEntry, 0, len(in.Entries))
	for _, e := range in.Entries {
		entry, err := NewExpenseEntry(e.Name, e.Cost)
		if err != nil {
			return err
		}
		entries = append(entries, entry)
	}

	*l = Ledger{entries: entries, splitCount: max(in.SplitCount, 0)}
	return nil
}
