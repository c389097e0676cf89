package analysis

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func mustSpec(t *testing.T, strategy string) StrategySpec {
	t.Helper()
	spec, err := ResolveStrategy(strategy)
	if err != nil {
		t.Fatalf("resolve %s: %v", strategy, err)
	}
	return spec
}

func btlPayload() string {
	return `{
		"investment_strategy": "Buy-to-Let",
		"top_stats": {
			"ROI (%)": 5.2,
			"Rental Yield (%)": 6.1,
			"Monthly Income (£)": 1800,
			"Monthly Cashflow (£)": 420
		},
		"projection": {
			"x_label": "Years (1–25)",
			"y_label": "Net Cashflow (£)",
			"points": [
				{"x": 1, "y": 5040},
				{"x": 2, "y": 10232},
				{"x": 3, "y": 15580}
			]
		},
		"strengths": ["Stable demand", "Leverage friendly", "Long-term growth"],
		"weaknesses": ["Void periods", "Interest rate risk", "Maintenance costs"],
		"recommendations": ["Fix the mortgage rate", "Budget 10% for voids", "Review rent annually"]
	}`
}

func TestParseResponse_StrictJSON(t *testing.T) {
	resp, err := ParseResponse(btlPayload(), mustSpec(t, "btl"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.InvestmentStrategy != "Buy-to-Let" {
		t.Fatalf("strategy label = %q", resp.InvestmentStrategy)
	}
	if got := resp.TopStats["Monthly Cashflow (£)"]; got != 420 {
		t.Fatalf("Monthly Cashflow = %v", got)
	}
	if len(resp.Projection.Points) != 3 {
		t.Fatalf("points = %d", len(resp.Projection.Points))
	}
}

func TestParseResponse_RecoversJSONWrappedInProse(t *testing.T) {
	wrapped := "Here is your analysis:\n```json\n" + btlPayload() + "\n```\nHope this helps!"
	resp, err := ParseResponse(wrapped, mustSpec(t, "btl"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.TopStats["ROI (%)"] != 5.2 {
		t.Fatalf("ROI = %v", resp.TopStats["ROI (%)"])
	}
}

func TestParseResponse_NoJSONAtAll(t *testing.T) {
	_, err := ParseResponse("I could not produce an analysis, sorry.", mustSpec(t, "btl"))
	if !errors.Is(err, ErrMalformedOutput) {
		t.Fatalf("expected ErrMalformedOutput, got %v", err)
	}
}

func TestParseResponse_NoSecondRepairAttempt(t *testing.T) {
	// Broken JSON inside the brackets must fail; no deeper heuristics.
	_, err := ParseResponse(`prose {"investment_strategy": "Buy-to-Let", } prose`, mustSpec(t, "btl"))
	if !errors.Is(err, ErrMalformedOutput) {
		t.Fatalf("expected ErrMalformedOutput, got %v", err)
	}
}

func TestParseResponse_MissingStatKey(t *testing.T) {
	payload := strings.Replace(btlPayload(), `"Monthly Cashflow (£)": 420`, `"Something Else": 420`, 1)
	_, err := ParseResponse(payload, mustSpec(t, "btl"))
	if !errors.Is(err, ErrMalformedOutput) {
		t.Fatalf("expected ErrMalformedOutput, got %v", err)
	}
	if !strings.Contains(err.Error(), "Monthly Cashflow (£)") {
		t.Fatalf("error should name the missing key, got %q", err.Error())
	}
}

func TestParseResponse_NullStatValue(t *testing.T) {
	payload := strings.Replace(btlPayload(), `"Monthly Cashflow (£)": 420`, `"Monthly Cashflow (£)": null`, 1)
	if _, err := ParseResponse(payload, mustSpec(t, "btl")); !errors.Is(err, ErrMalformedOutput) {
		t.Fatalf("expected ErrMalformedOutput, got %v", err)
	}
}

func TestParseResponse_NonNumericStatValue(t *testing.T) {
	payload := strings.Replace(btlPayload(), `"Monthly Cashflow (£)": 420`, `"Monthly Cashflow (£)": "plenty"`, 1)
	if _, err := ParseResponse(payload, mustSpec(t, "btl")); !errors.Is(err, ErrMalformedOutput) {
		t.Fatalf("expected ErrMalformedOutput, got %v", err)
	}
}

func TestParseResponse_YearPointsOutOfRange(t *testing.T) {
	payload := strings.Replace(btlPayload(), `{"x": 3, "y": 15580}`, `{"x": 26, "y": 15580}`, 1)
	if _, err := ParseResponse(payload, mustSpec(t, "btl")); !errors.Is(err, ErrMalformedOutput) {
		t.Fatalf("expected ErrMalformedOutput for x=26, got %v", err)
	}
}

func TestParseResponse_YearPointsMustIncrease(t *testing.T) {
	payload := strings.Replace(btlPayload(), `{"x": 3, "y": 15580}`, `{"x": 2, "y": 15580}`, 1)
	if _, err := ParseResponse(payload, mustSpec(t, "btl")); !errors.Is(err, ErrMalformedOutput) {
		t.Fatalf("expected ErrMalformedOutput for duplicate x, got %v", err)
	}
}

func TestParseResponse_YearPointsNeedY(t *testing.T) {
	payload := strings.Replace(btlPayload(), `{"x": 3, "y": 15580}`, `{"x": 3}`, 1)
	if _, err := ParseResponse(payload, mustSpec(t, "btl")); !errors.Is(err, ErrMalformedOutput) {
		t.Fatalf("expected ErrMalformedOutput for missing y, got %v", err)
	}
}

func TestParseResponse_SubsetOfYearsIsFine(t *testing.T) {
	// Not all 25 years need to be present, only in-range and increasing.
	if _, err := ParseResponse(btlPayload(), mustSpec(t, "btl")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func brrrPayload(stages string) string {
	return fmt.Sprintf(`{
		"investment_strategy": "Buy-Refurbish-Refinance (BRRR)",
		"top_stats": {
			"Initial Investment (£) (Deposit + Refurbishment)": 85000,
			"Refinance Value (£)": 310000,
			"Cash Pulled Out (%%)": 78,
			"Post-Refi ROI (%%)": 14.5
		},
		"projection": {
			"x_label": "Stages (Purchase → Renovation → Refinance → Rent)",
			"y_label": "Net Cash Invested (£)",
			"points": [%s]
		},
		"strengths": ["Capital recycling", "Forced appreciation", "Rental income after refi"],
		"weaknesses": ["Refurb overruns", "Down-valuation risk", "Bridging costs"],
		"recommendations": ["Get three refurb quotes", "Stress-test the refi rate", "Keep a contingency fund"]
	}`, stages)
}

func TestParseResponse_StagePoints(t *testing.T) {
	ok := `{"x": "Purchase", "y": -85000}, {"x": "Renovation", "y": -120000}, {"x": "Refinance", "y": -26400}, {"x": "Rent", "y": -21000}`
	if _, err := ParseResponse(brrrPayload(ok), mustSpec(t, "brrr")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	unknown := `{"x": "Purchase", "y": -85000}, {"x": "Sell", "y": 0}`
	if _, err := ParseResponse(brrrPayload(unknown), mustSpec(t, "brrr")); !errors.Is(err, ErrMalformedOutput) {
		t.Fatalf("expected ErrMalformedOutput for unknown stage, got %v", err)
	}

	outOfOrder := `{"x": "Refinance", "y": -26400}, {"x": "Purchase", "y": -85000}`
	if _, err := ParseResponse(brrrPayload(outOfOrder), mustSpec(t, "brrr")); !errors.Is(err, ErrMalformedOutput) {
		t.Fatalf("expected ErrMalformedOutput for out-of-order stage, got %v", err)
	}
}

func flipPayload(points string) string {
	return fmt.Sprintf(`{
		"investment_strategy": "Flip (Buy-to-Sell)",
		"top_stats": {
			"Purchase Price (£)": 220000,
			"Renovation Cost (£)": 40000,
			"Projected Sale Price (£)": 310000,
			"Profit Margin (%%)": 16
		},
		"projection": {
			"x_label": "Timeline (Month 0 → Sale Month)",
			"y_label": "Costs vs Expected Sale Price (£)",
			"points": [%s]
		},
		"strengths": ["Quick capital turn", "No tenant management", "Clear exit"],
		"weaknesses": ["Market timing risk", "Transaction costs", "Capital gains tax"],
		"recommendations": ["Cap the refurb budget", "Agree the sale agent early", "Price for a 6-month exit"]
	}`, points)
}

func TestParseResponse_TimelinePoints(t *testing.T) {
	ok := `{"x": 0, "costs": 225000, "expected_sale_price": 310000},
		{"x": 1, "costs": 240000, "expected_sale_price": 310000},
		{"x": 2, "costs": 262000, "expected_sale_price": 310000, "y": 48000}`
	if _, err := ParseResponse(flipPayload(ok), mustSpec(t, "flip")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParseResponse_TimelinePointMissingCosts(t *testing.T) {
	bad := `{"x": 0, "expected_sale_price": 310000}`
	if _, err := ParseResponse(flipPayload(bad), mustSpec(t, "flip")); !errors.Is(err, ErrMalformedOutput) {
		t.Fatalf("expected ErrMalformedOutput, got %v", err)
	}
}

func TestParseResponse_TimelineSalePriceMustBeConstant(t *testing.T) {
	bad := `{"x": 0, "costs": 225000, "expected_sale_price": 310000},
		{"x": 1, "costs": 240000, "expected_sale_price": 305000}`
	if _, err := ParseResponse(flipPayload(bad), mustSpec(t, "flip")); !errors.Is(err, ErrMalformedOutput) {
		t.Fatalf("expected ErrMalformedOutput, got %v", err)
	}
}

func TestParseResponse_EmptyAdviceLists(t *testing.T) {
	payload := strings.Replace(btlPayload(),
		`"recommendations": ["Fix the mortgage rate", "Budget 10% for voids", "Review rent annually"]`,
		`"recommendations": []`, 1)
	_, err := ParseResponse(payload, mustSpec(t, "btl"))
	if !errors.Is(err, ErrMalformedOutput) {
		t.Fatalf("expected ErrMalformedOutput, got %v", err)
	}
	if !strings.Contains(err.Error(), "recommendations") {
		t.Fatalf("error should name the empty list, got %q", err.Error())
	}
}

func TestParseResponse_CanonicalLabelWins(t *testing.T) {
	payload := strings.Replace(btlPayload(), `"investment_strategy": "Buy-to-Let"`, `"investment_strategy": "btl"`, 1)
	resp, err := ParseResponse(payload, mustSpec(t, "btl"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.InvestmentStrategy != "Buy-to-Let" {
		t.Fatalf("label = %q, want canonical Buy-to-Let", resp.InvestmentStrategy)
	}
}
