package analysis

import (
	"encoding/json"
	"fmt"
	"math"

	"propalytiq/internal/util/jsonutil"
)

// rawResponse mirrors Response with nullable stats so that a null value
// is distinguishable from a missing key during validation.
type rawResponse struct {
	InvestmentStrategy string              `json:"investment_strategy"`
	TopStats           map[string]*float64 `json:"top_stats"`
	Projection         Projection          `json:"projection"`
	Strengths          []string            `json:"strengths"`
	Weaknesses         []string            `json:"weaknesses"`
	Recommendations    []string            `json:"recommendations"`
}

// ParseResponse turns raw model text into a validated Response.
//
// The repair chain is deliberately short: strict parse, then one
// bracket-scan extraction for JSON wrapped in prose, then give up.
// Anything more aggressive risks silently accepting garbage.
func ParseResponse(raw string, spec StrategySpec) (Response, error) {
	var parsed rawResponse
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		sub, ok := jsonutil.ExtractObject(raw)
		if !ok {
			return Response{}, fmt.Errorf("%w: no JSON object in model output", ErrMalformedOutput)
		}
		if err := json.Unmarshal([]byte(sub), &parsed); err != nil {
			return Response{}, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
		}
	}

	stats := make(map[string]float64, len(spec.TopStats))
	for _, key := range spec.TopStats {
		v, ok := parsed.TopStats[key]
		if !ok {
			return Response{}, fmt.Errorf("%w: missing %q in top_stats", ErrMalformedOutput, key)
		}
		// Defaulting is the model's job per the prompt contract; a null
		// or non-finite stat here is a hard failure, not a zero.
		if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
			return Response{}, fmt.Errorf("%w: top_stats[%q] is not a finite number", ErrMalformedOutput, key)
		}
		stats[key] = *v
	}

	if err := checkPoints(parsed.Projection.Points, spec.Kind); err != nil {
		return Response{}, err
	}

	for name, list := range map[string][]string{
		"strengths":       parsed.Strengths,
		"weaknesses":      parsed.Weaknesses,
		"recommendations": parsed.Recommendations,
	} {
		if len(list) == 0 {
			return Response{}, fmt.Errorf("%w: %s is empty", ErrMalformedOutput, name)
		}
	}

	return Response{
		InvestmentStrategy: spec.Label,
		TopStats:           stats,
		Projection: Projection{
			XLabel: parsed.Projection.XLabel,
			YLabel: parsed.Projection.YLabel,
			Points: parsed.Projection.Points,
		},
		Strengths:       parsed.Strengths,
		Weaknesses:      parsed.Weaknesses,
		Recommendations: parsed.Recommendations,
	}, nil
}

func checkPoints(points []Point, kind PointKind) error {
	if len(points) == 0 {
		return fmt.Errorf("%w: projection has no points", ErrMalformedOutput)
	}
	switch kind {
	case PointKindYears1to25:
		return checkIndexedPoints(points, 1, 25)
	case PointKindMonths1to12:
		return checkIndexedPoints(points, 1, 12)
	case PointKindStagesBRRR:
		return checkStagePoints(points)
	case PointKindTimelineFlip:
		return checkTimelinePoints(points)
	default:
		return fmt.Errorf("%w: unknown point kind %q", ErrMalformedOutput, kind)
	}
}

// checkIndexedPoints validates year/month series: integer x within
// [lo, hi], strictly increasing (which implies unique), finite y.
func checkIndexedPoints(points []Point, lo, hi float64) error {
	prev := lo - 1
	for i, p := range points {
		x, ok := numericX(p.X)
		if !ok || x != math.Trunc(x) || x < lo || x > hi {
			return fmt.Errorf("%w: point %d has x %v outside %v..%v", ErrMalformedOutput, i, p.X, lo, hi)
		}
		if x <= prev {
			return fmt.Errorf("%w: point %d breaks strictly increasing x order", ErrMalformedOutput, i)
		}
		prev = x
		if !finitePtr(p.Y) {
			return fmt.Errorf("%w: point %d has no finite y", ErrMalformedOutput, i)
		}
	}
	return nil
}

func checkStagePoints(points []Point) error {
	next := 0
	for i, p := range points {
		name, ok := p.X.(string)
		if !ok {
			return fmt.Errorf("%w: stage point %d has non-string x", ErrMalformedOutput, i)
		}
		idx := stageIndex(name)
		if idx < 0 {
			return fmt.Errorf("%w: stage point %d has unknown stage %q", ErrMalformedOutput, i, name)
		}
		if idx < next {
			return fmt.Errorf("%w: stage %q out of order", ErrMalformedOutput, name)
		}
		next = idx + 1
		if !finitePtr(p.Y) {
			return fmt.Errorf("%w: stage point %d has no finite y", ErrMalformedOutput, i)
		}
	}
	return nil
}

// checkTimelinePoints validates flip series: integer x from 0 upward,
// strictly increasing, each point carrying cumulative costs plus a
// constant expected sale price.
func checkTimelinePoints(points []Point) error {
	prev := -1.0
	var salePrice float64
	for i, p := range points {
		x, ok := numericX(p.X)
		if !ok || x != math.Trunc(x) || x < 0 {
			return fmt.Errorf("%w: timeline point %d has invalid x %v", ErrMalformedOutput, i, p.X)
		}
		if x <= prev {
			return fmt.Errorf("%w: timeline point %d breaks strictly increasing x order", ErrMalformedOutput, i)
		}
		prev = x
		if !finitePtr(p.Costs) {
			return fmt.Errorf("%w: timeline point %d is missing costs", ErrMalformedOutput, i)
		}
		if !finitePtr(p.ExpectedSalePrice) {
			return fmt.Errorf("%w: timeline point %d is missing expected_sale_price", ErrMalformedOutput, i)
		}
		if i == 0 {
			salePrice = *p.ExpectedSalePrice
		} else if *p.ExpectedSalePrice != salePrice {
			return fmt.Errorf("%w: expected_sale_price varies across timeline points", ErrMalformedOutput)
		}
		if p.Y != nil && !finitePtr(p.Y) {
			return fmt.Errorf("%w: timeline point %d has non-finite y", ErrMalformedOutput, i)
		}
	}
	return nil
}

func stageIndex(name string) int {
	for i, s := range BRRRStages {
		if s == name {
			return i
		}
	}
	return -1
}

func numericX(x any) (float64, bool) {
	f, ok := x.(float64)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func finitePtr(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}
