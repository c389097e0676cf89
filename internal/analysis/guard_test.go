package analysis

import (
	"errors"
	"testing"
)

func TestCheckRules_MissingStrategy(t *testing.T) {
	for _, strategy := range []string{"", "   "} {
		if _, err := checkRules(Request{InvestmentStrategy: strategy}); !errors.Is(err, ErrMissingStrategy) {
			t.Fatalf("strategy %q: expected ErrMissingStrategy, got %v", strategy, err)
		}
	}
}

func TestCheckRules_RentToRentWithRentalPrice(t *testing.T) {
	price := 1500.0
	req := Request{
		InvestmentStrategy:  "Rent-To-Rent",
		RentalPricePerMonth: &price,
	}
	if _, err := checkRules(req); !errors.Is(err, ErrConflictingInput) {
		t.Fatalf("expected ErrConflictingInput, got %v", err)
	}
}

func TestCheckRules_RentToRentWithoutRentalPrice(t *testing.T) {
	spec, err := checkRules(Request{InvestmentStrategy: "Rent-To-Rent"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spec.ID != "rent_to_rent" {
		t.Fatalf("resolved %s, want rent_to_rent", spec.ID)
	}
}

func TestCheckRules_RentalPriceAllowedElsewhere(t *testing.T) {
	price := 1500.0
	req := Request{
		InvestmentStrategy:  "Buy-To-Let",
		RentalPricePerMonth: &price,
	}
	if _, err := checkRules(req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCheckRules_UnsupportedStrategy(t *testing.T) {
	if _, err := checkRules(Request{InvestmentStrategy: "crypto staking"}); !errors.Is(err, ErrUnsupportedStrategy) {
		t.Fatalf("expected ErrUnsupportedStrategy, got %v", err)
	}
}
