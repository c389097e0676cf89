package analysis

import (
	"fmt"
	"strings"
)

// PointKind selects the projection shape a strategy must produce.
type PointKind string

const (
	PointKindYears1to25   PointKind = "years_1_25"
	PointKindMonths1to12  PointKind = "months_1_12"
	PointKindStagesBRRR   PointKind = "stages_brrr"
	PointKindTimelineFlip PointKind = "timeline_flip"
)

// BRRRStages is the fixed x sequence for stages_brrr projections.
var BRRRStages = []string{"Purchase", "Renovation", "Refinance", "Rent"}

// StrategySpec describes the output contract for one investment
// strategy: the canonical label, the stat keys the response must carry,
// and the projection shape. Entries are static and shared read-only
// across requests.
type StrategySpec struct {
	ID       string
	Label    string
	TopStats []string
	XLabel   string
	YLabel   string
	Kind     PointKind
}

// matchRule binds a keyword set to a spec. keywords match as
// case-insensitive substrings; exact entries must equal the whole
// normalized input (short synonyms like "sa" would otherwise fire on
// words such as "sale").
type matchRule struct {
	keywords []string
	exact    []string
	spec     StrategySpec
}

// strategyRules is evaluated top to bottom; the first rule that matches
// wins. The ordering is part of the contract and doubles as the
// tie-break for inputs that mention several strategies.
var strategyRules = []matchRule{
	{
		keywords: []string{"buy-to-let", "buy to let", "btl"},
		spec: StrategySpec{
			ID:    "buy_to_let",
			Label: "Buy-to-Let",
			TopStats: []string{
				"ROI (%)",
				"Rental Yield (%)",
				"Monthly Income (£)",
				"Monthly Cashflow (£)",
			},
			XLabel: "Years (1–25)",
			YLabel: "Net Cashflow (£)",
			Kind:   PointKindYears1to25,
		},
	},
	{
		keywords: []string{"serviced accommodation", "holiday let"},
		exact:    []string{"sa"},
		spec: StrategySpec{
			ID:    "serviced_accommodation",
			Label: "Serviced Accommodation / Holiday Let",
			TopStats: []string{
				"Average Nightly Rate (£)",
				"Occupancy Rate (%)",
				"Monthly Gross Income (£)",
				"Monthly Net Cashflow (£)",
			},
			XLabel: "Months (1–12)",
			YLabel: "Monthly Net Cashflow (£)",
			Kind:   PointKindMonths1to12,
		},
	},
	{
		keywords: []string{"brrr", "buy-refurbish-refinance", "buy refurbish refinance"},
		spec: StrategySpec{
			ID:    "brrr",
			Label: "Buy-Refurbish-Refinance (BRRR)",
			TopStats: []string{
				"Initial Investment (£) (Deposit + Refurbishment)",
				"Refinance Value (£)",
				"Cash Pulled Out (%)",
				"Post-Refi ROI (%)",
			},
			XLabel: "Stages (Purchase → Renovation → Refinance → Rent)",
			YLabel: "Net Cash Invested (£)",
			Kind:   PointKindStagesBRRR,
		},
	},
	{
		keywords: []string{"flip", "buy-to-sell", "buy to sell"},
		spec: StrategySpec{
			ID:    "flip",
			Label: "Flip (Buy-to-Sell)",
			TopStats: []string{
				"Purchase Price (£)",
				"Renovation Cost (£)",
				"Projected Sale Price (£)",
				"Profit Margin (%)",
			},
			XLabel: "Timeline (Month 0 → Sale Month)",
			YLabel: "Costs vs Expected Sale Price (£)",
			Kind:   PointKindTimelineFlip,
		},
	},
	{
		keywords: []string{"hmo"},
		spec: StrategySpec{
			ID:    "hmo",
			Label: "HMO (House in Multiple Occupation)",
			TopStats: []string{
				"Total Monthly Income (£)",
				"Net Monthly Cashflow (£)",
				"Occupancy Rate (%)",
				"ROI (%)",
			},
			XLabel: "Months (1–12)",
			YLabel: "Monthly Net Cashflow (£)",
			Kind:   PointKindMonths1to12,
		},
	},
	{
		keywords: []string{"rent-to-rent", "rent to rent", "airbnb", "commercial lease"},
		spec: StrategySpec{
			ID:    "rent_to_rent",
			Label: "Rent-to-Rent (Airbnb / Commercial Lease Model)",
			TopStats: []string{
				"Lease Cost (£ / month)",
				"Average Monthly Income (£)",
				"Occupancy Rate (%)",
				"Monthly Profit (£)",
			},
			XLabel: "Months (1–12)",
			YLabel: "Monthly Net Profit (£)",
			Kind:   PointKindMonths1to12,
		},
	},
}

// ResolveStrategy maps a free-form strategy string to its spec. Pure:
// no I/O, no state, same input always yields the same result.
func ResolveStrategy(s string) (StrategySpec, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	if norm == "" {
		return StrategySpec{}, ErrMissingStrategy
	}
	for _, rule := range strategyRules {
		for _, kw := range rule.keywords {
			if strings.Contains(norm, kw) {
				return rule.spec, nil
			}
		}
		for _, e := range rule.exact {
			if norm == e {
				return rule.spec, nil
			}
		}
	}
	return StrategySpec{}, fmt.Errorf("%w: %q", ErrUnsupportedStrategy, s)
}

// Strategies returns the specs in rule order, for diagnostics and tests.
func Strategies() []StrategySpec {
	out := make([]StrategySpec, 0, len(strategyRules))
	for _, r := range strategyRules {
		out = append(out, r.spec)
	}
	return out
}
