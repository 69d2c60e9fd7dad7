package domain

import (
	"errors"
	"testing"
	"time"
)

func TestPortfolio_Validate(t *testing.T) {
	if err := NewPortfolio("Retirement").Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := NewPortfolio("   ").Validate(); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestHolding_Validate(t *testing.T) {
	date := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	testCases := []struct {
		name        string
		quantity    int64
		price       Decimal
		expectError bool
	}{
		{"valid", 10, MustDecimal("150.25"), false},
		{"zero quantity", 0, MustDecimal("150.25"), true},
		{"negative quantity", -5, MustDecimal("150.25"), true},
		{"zero price", 10, MustDecimal("0"), true},
		{"negative price", 10, MustDecimal("-1"), true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHolding(1, 2, tc.quantity, tc.price, date)
			err := h.Validate()
			if tc.expectError {
				if !errors.Is(err, ErrValidation) {
					t.Errorf("expected ErrValidation, got %v", err)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestNewHolding_TruncatesPurchaseDate(t *testing.T) {
	in := time.Date(2024, 2, 1, 16, 0, 0, 0, time.UTC)
	h := NewHolding(1, 2, 10, MustDecimal("150"), in)
	if !h.PurchaseDate.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("expected purchase date truncated to midnight, got %s", h.PurchaseDate)
	}
}
