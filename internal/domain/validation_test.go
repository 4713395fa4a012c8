package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateEntryName(t *testing.T) {
	t.Parallel()

	t.Run("valid name", func(t *testing.T) {
		if err := ValidateEntryName("Room rent"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("empty name rejected", func(t *testing.T) {
		err := ValidateEntryName("")
		if !errors.Is(err, ErrNameRequired) {
			t.Fatalf("expected ErrNameRequired, got %v", err)
		}
	})

	t.Run("blank name rejected", func(t *testing.T) {
		err := ValidateEntryName("   ")
		verr, ok := IsValidationError(err)
		if !ok || verr.Field != FieldName {
			t.Fatalf("expected name validation error, got %v", err)
		}
	})
}

func TestParseCost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    string
		wantErr error
	}{
		{in: "12000", want: "12000"},
		{in: " 300 ", want: "300"},
		{in: "12.5", want: "12.5"},
		{in: "-3", want: "-3"},
		{in: "abc", wantErr: ErrCostNotNumber},
		{in: "", wantErr: ErrCostNotNumber},
		{in: "1.2.3", wantErr: ErrCostNotNumber},
	}

	for _, tt := range tests {
		got, err := ParseCost(tt.in)
		if tt.wantErr != nil {
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ParseCost(%q) error = %v, want %v", tt.in, err, tt.wantErr)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseCost(%q) unexpected error: %v", tt.in, err)
		}
		if !got.Equal(decimal.RequireFromString(tt.want)) {
			t.Fatalf("ParseCost(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestValidateCost(t *testing.T) {
	t.Parallel()

	if err := ValidateCost(decimal.NewFromFloat(0.01)); err != nil {
		t.Fatalf("expected small positive cost to pass, got %v", err)
	}

	if err := ValidateCost(decimal.Zero); !errors.Is(err, ErrCostNotPositive) {
		t.Fatalf("expected ErrCostNotPositive for zero, got %v", err)
	}

	if err := ValidateCost(decimal.NewFromInt(-3)); !errors.Is(err, ErrCostNotPositive) {
		t.Fatalf("expected ErrCostNotPositive for negative, got %v", err)
	}
}

func TestValidateCost_RejectsExtremeMagnitudes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		wantErr error
	}{
		{in: "12000"},
		{in: "12.50"},
		{in: "1e12"},
		{in: "0.00000001"},
		{in: "99999999999999999999"},
		{in: "1e10000000", wantErr: ErrCostOutOfRange},
		{in: "1e-10000000", wantErr: ErrCostOutOfRange},
		{in: "1e13", wantErr: ErrCostOutOfRange},
		{in: "0.000000001", wantErr: ErrCostOutOfRange},
		{in: "123456789012345678901", wantErr: ErrCostOutOfRange},
	}

	for _, tt := range tests {
		cost, err := ParseCost(tt.in)
		if err != nil {
			t.Fatalf("ParseCost(%q) unexpected error: %v", tt.in, err)
		}

		err = ValidateCost(cost)
		if tt.wantErr == nil {
			if err != nil {
				t.Fatalf("ValidateCost(%q) unexpected error: %v", tt.in, err)
			}
			continue
		}
		verr, ok := IsValidationError(err)
		if !ok || verr.Field != FieldCost || !errors.Is(err, tt.wantErr) {
			t.Fatalf("ValidateCost(%q) error = %v, want %v on cost", tt.in, err, tt.wantErr)
		}
	}
}

func TestLedger_AddEntryRejectsHugeExponent(t *testing.T) {
	t.Parallel()

	l := NewLedger(DefaultSeed()...)
	got, err := l.AddEntry(NewEntryCandidate("X", "1e10000000"))
	if !errors.Is(err, ErrCostOutOfRange) {
		t.Fatalf("expected ErrCostOutOfRange, got %v", err)
	}
	if got.Len() != 2 || FormatAmount(got.TotalCost()) != "13200.00" {
		t.Fatalf("expected ledger unchanged, got %d entries total %s", got.Len(), got.TotalCost())
	}
}

func TestValidateCandidate_FirstFailureWins(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		candidate EntryCandidate
		wantErr   error
		wantField string
	}{
		{
			name:      "missing name beats bad cost",
			candidate: NewEntryCandidate("", "abc"),
			wantErr:   ErrNameRequired,
			wantField: FieldName,
		},
		{
			name:      "absent cost is not a number",
			candidate: EntryCandidate{Name: "X"},
			wantErr:   ErrCostNotNumber,
			wantField: FieldCost,
		},
		{
			name:      "non numeric cost",
			candidate: NewEntryCandidate("X", "abc"),
			wantErr:   ErrCostNotNumber,
			wantField: FieldCost,
		},
		{
			name:      "negative cost",
			candidate: NewEntryCandidate("X", "-3"),
			wantErr:   ErrCostNotPositive,
			wantField: FieldCost,
		},
		{
			name:      "zero cost",
			candidate: NewEntryCandidate("X", "0"),
			wantErr:   ErrCostNotPositive,
			wantField: FieldCost,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateCandidate(tt.candidate)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			verr, ok := IsValidationError(err)
			if !ok {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if verr.Field != tt.wantField {
				t.Fatalf("expected field %q, got %q", tt.wantField, verr.Field)
			}
		})
	}
}

func TestParseSplitCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want int
	}{
		{"3", 3},
		{" 4 ", 4},
		{"1", 1},
		{"0", 0},
		{"-1", 0},
		{"", 0},
		{"abc", 0},
		{"2.5", 0},
	}

	for _, tt := range tests {
		if got := ParseSplitCount(tt.in); got != tt.want {
			t.Fatalf("ParseSplitCount(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
