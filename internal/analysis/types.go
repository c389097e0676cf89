package analysis

// Request is the property description submitted for analysis. Optional
// fields are pointers so that "absent" and "zero" stay distinguishable;
// the pipeline never mutates a request after it is handed in.
type Request struct {
	PropertyAddress     *string     `json:"property_address"`
	PurchasePrice       *float64    `json:"purchase_price"`
	RentalPricePerMonth *float64    `json:"rental_price_per_month"`
	NumberOfBedrooms    *float64    `json:"number_of_bedrooms"`
	NumberOfBathrooms   *float64    `json:"number_of_bathrooms"`
	SquareFootage       *float64    `json:"square_footage"`
	PropertyType        *string     `json:"property_type"`
	PropertyDescription *string     `json:"property_description"`
	InvestmentStrategy  string      `json:"investment_strategy"`
	Additional          *Additional `json:"additional,omitempty"`
}

// Additional carries the optional investor-profile block.
type Additional struct {
	Budget                *float64 `json:"budget"`
	DesiredMonthlyIncome  *float64 `json:"desired_monthly_income"`
	MortgageInterestRate  *float64 `json:"mortgage_interest_rate"`
	PrimaryInvestmentGoal *string  `json:"primary_investment_goal"`
}

// Response is the validated analysis returned to the caller.
type Response struct {
	InvestmentStrategy string             `json:"investment_strategy"`
	TopStats           map[string]float64 `json:"top_stats"`
	Projection         Projection         `json:"projection"`
	Strengths          []string           `json:"strengths"`
	Weaknesses         []string           `json:"weaknesses"`
	Recommendations    []string           `json:"recommendations"`
}

// Projection is the plottable series for the resolved strategy.
type Projection struct {
	XLabel string  `json:"x_label"`
	YLabel string  `json:"y_label"`
	Points []Point `json:"points"`
}

// Point is one plot point. X is a number for indexed kinds and a stage
// name for stages_brrr. Costs and ExpectedSalePrice are only set for
// timeline_flip points.
type Point struct {
	X                 any      `json:"x"`
	Y                 *float64 `json:"y,omitempty"`
	Costs             *float64 `json:"costs,omitempty"`
	ExpectedSalePrice *float64 `json:"expected_sale_price,omitempty"`
}

// PropertyInfo is the field set extracted from a listing page.
type PropertyInfo struct {
	PropertyAddress     *string  `json:"property_address"`
	PurchasePrice       *float64 `json:"purchase_price"`
	RentalPricePerMonth *float64 `json:"rental_price_per_month"`
	NumberOfBedrooms    *float64 `json:"number_of_bedrooms"`
	NumberOfBathrooms   *float64 `json:"number_of_bathrooms"`
	PropertyType        *string  `json:"property_type"`
	PropertyDescription *string  `json:"property_description"`
}

// PropertyInfoResult wraps an extraction together with provider metadata
// and the raw model text for diagnostics.
type PropertyInfoResult struct {
	ID     string       `json:"id"`
	Model  string       `json:"model"`
	Object PropertyInfo `json:"object"`
	Raw    string       `json:"raw"`
}
