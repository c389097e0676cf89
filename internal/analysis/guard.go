package analysis

import "strings"

// checkRules validates cross-field invariants before anything is sent
// upstream, so a request that is guaranteed to fail validation never
// burns a paid model call. It returns the resolved spec so the caller
// does not resolve twice.
func checkRules(req Request) (StrategySpec, error) {
	if strings.TrimSpace(req.InvestmentStrategy) == "" {
		return StrategySpec{}, ErrMissingStrategy
	}
	spec, err := ResolveStrategy(req.InvestmentStrategy)
	if err != nil {
		return StrategySpec{}, err
	}
	// Rent-to-Rent modelling derives the rental price itself; a caller
	// that already fixed one is sending a conflicting signal.
	if spec.ID == "rent_to_rent" && req.RentalPricePerMonth != nil {
		return StrategySpec{}, ErrConflictingInput
	}
	return spec, nil
}
