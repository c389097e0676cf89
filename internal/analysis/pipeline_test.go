package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"

	"propalytiq/internal/gateway/repository/snapshot"
	llmclient "propalytiq/internal/llmClient"
)

// stubClient is a Client double that records calls and replays a canned
// response.
type stubClient struct {
	calls           int
	searchCalls     int
	text            string
	err             error
	lastInstruction string
	lastModel       string
}

func (s *stubClient) Invoke(_ context.Context, instruction, model string) (llmclient.Invocation, error) {
	s.calls++
	s.lastInstruction = instruction
	s.lastModel = model
	if s.err != nil {
		return llmclient.Invocation{}, s.err
	}
	return llmclient.Invocation{Text: s.text, RequestID: "req-123", ModelUsed: model}, nil
}

func (s *stubClient) InvokeWithWebSearch(ctx context.Context, instruction, model string) (llmclient.Invocation, error) {
	s.searchCalls++
	return s.Invoke(ctx, instruction, model)
}

func (s *stubClient) Name() string { return "stub" }
func (s *stubClient) Close() error { return nil }

const hmoModelOutput = `{
	"investment_strategy": "HMO (House in Multiple Occupation)",
	"top_stats": {
		"Total Monthly Income (£)": 3600,
		"Net Monthly Cashflow (£)": 1450,
		"Occupancy Rate (%)": 92,
		"ROI (%)": 11.8
	},
	"projection": {
		"x_label": "Months (1–12)",
		"y_label": "Monthly Net Cashflow (£)",
		"points": [
			{"x": 1, "y": 1450}, {"x": 2, "y": 2900}, {"x": 3, "y": 4350},
			{"x": 4, "y": 5800}, {"x": 5, "y": 7250}, {"x": 6, "y": 8700},
			{"x": 7, "y": 10150}, {"x": 8, "y": 11600}, {"x": 9, "y": 13050},
			{"x": 10, "y": 14500}, {"x": 11, "y": 15950}, {"x": 12, "y": 17400}
		]
	},
	"strengths": ["High yield per room", "Diversified tenant risk", "Strong demand near universities"],
	"weaknesses": ["Licensing requirements", "Higher management load", "More wear and tear"],
	"recommendations": ["Check Article 4 restrictions", "Budget for an HMO licence", "Use a specialist managing agent"]
}`

func TestAnalyze_EndToEnd(t *testing.T) {
	stub := &stubClient{text: hmoModelOutput}
	store := snapshot.NewMemoryStore()
	svc := NewService(stub, "gpt-5-nano", "gpt-4o-mini-2024-08-06", store)

	price := 250000.0
	beds := 6.0
	resp, err := svc.Analyze(context.Background(), Request{
		InvestmentStrategy: "HMO",
		PurchasePrice:      &price,
		NumberOfBedrooms:   &beds,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.InvestmentStrategy != "HMO (House in Multiple Occupation)" {
		t.Fatalf("strategy = %q", resp.InvestmentStrategy)
	}
	if stub.calls != 1 {
		t.Fatalf("expected exactly one upstream call, got %d", stub.calls)
	}
	if stub.lastModel != "gpt-5-nano" {
		t.Fatalf("model = %q", stub.lastModel)
	}
	if !strings.Contains(stub.lastInstruction, `"purchase_price":250000`) {
		t.Fatalf("instruction missing input payload")
	}
	if store.Len() != 1 {
		t.Fatalf("expected one snapshot, got %d", store.Len())
	}
}

func TestAnalyze_GuardFailsBeforeUpstream(t *testing.T) {
	stub := &stubClient{text: hmoModelOutput}
	svc := NewService(stub, "gpt-5-nano", "", nil)

	price := 1500.0
	_, err := svc.Analyze(context.Background(), Request{
		InvestmentStrategy:  "Rent-To-Rent",
		RentalPricePerMonth: &price,
	})
	if !errors.Is(err, ErrConflictingInput) {
		t.Fatalf("expected ErrConflictingInput, got %v", err)
	}
	if stub.calls != 0 {
		t.Fatalf("guard failure must not reach the model, got %d calls", stub.calls)
	}
}

func TestAnalyze_MissingStrategyBeforeUpstream(t *testing.T) {
	stub := &stubClient{text: hmoModelOutput}
	svc := NewService(stub, "gpt-5-nano", "", nil)

	_, err := svc.Analyze(context.Background(), Request{})
	if !errors.Is(err, ErrMissingStrategy) {
		t.Fatalf("expected ErrMissingStrategy, got %v", err)
	}
	if stub.calls != 0 {
		t.Fatalf("expected zero upstream calls, got %d", stub.calls)
	}
}

func TestAnalyze_UpstreamErrorsPassThrough(t *testing.T) {
	upstream := &llmclient.UpstreamError{Status: 500, Body: "boom"}
	stub := &stubClient{err: upstream}
	svc := NewService(stub, "gpt-5-nano", "", nil)

	_, err := svc.Analyze(context.Background(), Request{InvestmentStrategy: "HMO"})
	var got *llmclient.UpstreamError
	if !errors.As(err, &got) || got.Status != 500 {
		t.Fatalf("expected UpstreamError(500), got %v", err)
	}
}

func TestAnalyze_MalformedOutputNotSnapshotted(t *testing.T) {
	stub := &stubClient{text: "no json here"}
	store := snapshot.NewMemoryStore()
	svc := NewService(stub, "gpt-5-nano", "", store)

	_, err := svc.Analyze(context.Background(), Request{InvestmentStrategy: "HMO"})
	if !errors.Is(err, ErrMalformedOutput) {
		t.Fatalf("expected ErrMalformedOutput, got %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("failed analyses must not be snapshotted")
	}
}

func TestPropertyInfo_InvalidURL(t *testing.T) {
	stub := &stubClient{}
	svc := NewService(stub, "gpt-5-nano", "gpt-4o-mini-2024-08-06", nil)

	result, err := svc.PropertyInfo(context.Background(), "ftp://listings.example/123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ID != "invalid-url" {
		t.Fatalf("id = %q", result.ID)
	}
	if stub.searchCalls != 0 {
		t.Fatalf("invalid URL must not reach the model")
	}
}

func TestPropertyInfo_CoercesFields(t *testing.T) {
	stub := &stubClient{text: `{
		"property_address": "12 High Street, Leeds",
		"purchase_price": "450,000",
		"rental_price_per_month": 1800,
		"number_of_bedrooms": 3,
		"number_of_bathrooms": null,
		"property_type": "terraced",
		"property_description": "A three-bed terrace."
	}`}
	svc := NewService(stub, "gpt-5-nano", "gpt-4o-mini-2024-08-06", nil)

	result, err := svc.PropertyInfo(context.Background(), "https://listings.example/123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stub.searchCalls != 1 {
		t.Fatalf("expected one web-search invocation, got %d", stub.searchCalls)
	}
	obj := result.Object
	if obj.PurchasePrice == nil || *obj.PurchasePrice != 450000 {
		t.Fatalf("purchase_price = %v", obj.PurchasePrice)
	}
	if obj.RentalPricePerMonth == nil || *obj.RentalPricePerMonth != 1800 {
		t.Fatalf("rental_price_per_month = %v", obj.RentalPricePerMonth)
	}
	if obj.NumberOfBathrooms != nil {
		t.Fatalf("number_of_bathrooms should be nil, got %v", *obj.NumberOfBathrooms)
	}
	if obj.PropertyAddress == nil || *obj.PropertyAddress != "12 High Street, Leeds" {
		t.Fatalf("property_address = %v", obj.PropertyAddress)
	}
}
