package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"propalytiq/internal/util/jsonutil"
)

// PropertyInfo asks the model to open the given listing URL with its
// hosted web-search tool and extract the property fields, then coerces
// the loosely-typed result into PropertyInfo. An unusable URL yields an
// empty extraction rather than an error, so the caller's form flow can
// continue with manual entry.
func (s *Service) PropertyInfo(ctx context.Context, rawURL string) (PropertyInfoResult, error) {
	target, err := url.Parse(rawURL)
	if err != nil || (target.Scheme != "http" && target.Scheme != "https") {
		return PropertyInfoResult{ID: "invalid-url", Model: s.scrapeModel, Raw: "{}"}, nil
	}

	inv, err := s.client.InvokeWithWebSearch(ctx, scrapeInstruction(target.String()), s.scrapeModel)
	if err != nil {
		return PropertyInfoResult{}, err
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(inv.Text), &parsed); err != nil {
		if sub, ok := jsonutil.ExtractObject(inv.Text); ok {
			_ = json.Unmarshal([]byte(sub), &parsed)
		}
	}

	info := PropertyInfo{
		PropertyAddress:     stringField(parsed, "property_address"),
		PurchasePrice:       jsonutil.CoerceNumber(parsed["purchase_price"]),
		RentalPricePerMonth: jsonutil.CoerceNumber(parsed["rental_price_per_month"]),
		NumberOfBedrooms:    jsonutil.CoerceNumber(parsed["number_of_bedrooms"]),
		NumberOfBathrooms:   jsonutil.CoerceNumber(parsed["number_of_bathrooms"]),
		PropertyType:        stringField(parsed, "property_type"),
		PropertyDescription: stringField(parsed, "property_description"),
	}

	return PropertyInfoResult{
		ID:     inv.RequestID,
		Model:  inv.ModelUsed,
		Object: info,
		Raw:    inv.Text,
	}, nil
}

func scrapeInstruction(listingURL string) string {
	return fmt.Sprintf(`You are a scraper. Visit ONLY this listing URL and extract details strictly from that page (no other sources):
URL: %s

Return ONLY a JSON object with EXACTLY these keys:
- property_address (string or null)
- purchase_price (number or null, no currency symbols)
- rental_price_per_month (number or null, no currency symbols)
- number_of_bedrooms (number or null)
- number_of_bathrooms (number or null)
- property_type (string or null)
- property_description (string or null; write a short, neutral summary)

Rules:
- If a field is missing on the page, set it to null.
- Numbers MUST be numeric (e.g., 450000, 1800, 3). No text.
- Do not add extra keys or prose. Output ONLY JSON.`, listingURL)
}

func stringField(m map[string]any, key string) *string {
	if s, ok := m[key].(string); ok && s != "" {
		return &s
	}
	return nil
}
