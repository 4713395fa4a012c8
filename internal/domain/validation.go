package domain

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ValidateEntryName validates an entry name.
func ValidateEntryName(name string) error {
	if strings.TrimSpace(name) == "" {
		return newValidationError(FieldName, ErrNameRequired)
	}
	return nil
}

// ParseCost parses a user-typed cost.
func ParseCost(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, newValidationError(FieldCost, ErrCostNotNumber)
	}

	cost, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, newValidationError(FieldCost, ErrCostNotNumber)
	}

	return cost, nil
}

// Bounds on an accepted cost. Exponents far from zero make every later
// rescale, sum and format proportionally expensive.
const (
	maxCostExponent = 12
	minCostExponent = -DisplayPlaces * 4
	maxCostDigits   = 20
)

// ValidateCost validates a parsed cost.
func ValidateCost(cost decimal.Decimal) error {
	if !cost.IsPositive() {
		return newValidationError(FieldCost, ErrCostNotPositive)
	}
	if exp := cost.Exponent(); exp > maxCostExponent || exp < minCostExponent || cost.NumDigits() > maxCostDigits {
		return newValidationError(FieldCost, ErrCostOutOfRange)
	}
	return nil
}

// ValidateCandidate runs the entry rules in order and returns the first
// failure, or the validated entry.
func ValidateCandidate(c EntryCandidate) (ExpenseEntry, error) {
	if err := ValidateEntryName(c.Name); err != nil {
		return ExpenseEntry{}, err
	}

	if !c.HasCost {
		return ExpenseEntry{}, newValidationError(FieldCost, ErrCostNotNumber)
	}

	cost, err := ParseCost(c.Cost)
	if err != nil {
		return ExpenseEntry{}, err
	}

	if err := ValidateCost(cost); err != nil {
		return ExpenseEntry{}, err
	}

	return ExpenseEntry{Name: c.Name, Cost: cost}, nil
}

// ParseSplitCount parses a user-typed headcount. Anything that is not a
// positive integer yields 0.
func ParseSplitCount(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return 0
	}
	return n
}
