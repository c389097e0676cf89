package analysis

import (
	"bytes"
	"fmt"
	"strings"

	"propalytiq/internal/util/jsonutil"
)

// promptSpec is the STRATEGY_SPEC view embedded in the instruction.
// Field order is fixed by the struct, which keeps rendering
// byte-for-byte deterministic.
type promptSpec struct {
	Label      string   `json:"label"`
	TopStats   []string `json:"topStats"`
	Projection struct {
		XLabel string `json:"x_label"`
		YLabel string `json:"y_label"`
		XKind  string `json:"x_kind"`
	} `json:"projection"`
}

// BuildPrompt renders the analysis instruction for one request. It is a
// pure function of (req, spec): identical inputs produce an identical
// string.
func BuildPrompt(req Request, spec StrategySpec) string {
	in, _ := jsonutil.MarshalNoEscape(req)

	ps := promptSpec{Label: spec.Label, TopStats: spec.TopStats}
	ps.Projection.XLabel = spec.XLabel
	ps.Projection.YLabel = spec.YLabel
	ps.Projection.XKind = string(spec.Kind)
	sp, _ := jsonutil.MarshalNoEscape(ps)

	var buf bytes.Buffer
	buf.WriteString("You are a property investment analyst.\n")
	writeSection(&buf, "INPUT_JSON", string(in))
	writeSection(&buf, "STRATEGY_SPEC", string(sp))
	writeSection(&buf, "TASK", taskRules(spec))
	writeSection(&buf, "STRICT_OUTPUT", strictOutputShape)
	return strings.TrimSpace(buf.String()) + "\n"
}

func taskRules(spec StrategySpec) string {
	var buf strings.Builder
	buf.WriteString("- Using the numbers in INPUT_JSON, calculate the outputs required by STRATEGY_SPEC.\n")
	buf.WriteString("- If a number is missing and blocks a calculation, assume reasonable default values based on typical property investment scenarios in the relevant context so that every field has a real numeric value. Do not set any field to null.\n")
	buf.WriteString("- Produce a strict JSON object matching the STRICT_OUTPUT shape below.\n")
	fmt.Fprintf(&buf, "- \"top_stats\" MUST include exactly these keys, each with a number value (no nulls): %s.\n",
		quoteJoin(spec.TopStats))
	buf.WriteString("- \"projection\": use x_label and y_label from STRATEGY_SPEC. Every point must be plottable: \"x\" is always a number or string as specified and \"y\" is always a number (no nulls or undefined).\n")
	buf.WriteString(pointRules(spec.Kind))
	buf.WriteString("- If you need to assume values to compute points, do so reasonably based on UK property market averages (e.g. 3% annual rent growth, 2% expense inflation, 75% LTV mortgage) so that \"points\" is never empty.\n")
	buf.WriteString("- \"strengths\", \"weaknesses\" and \"recommendations\" MUST each contain 3-4 short, strategy-specific strings based on the calculated data and assumptions.")
	return buf.String()
}

func pointRules(kind PointKind) string {
	switch kind {
	case PointKindYears1to25:
		return "- points: x = 1..25 (integers, years); y = the cumulative net cashflow accumulated up to that year (running total of annual net cashflows from year 1 through x, not the per-year delta).\n"
	case PointKindMonths1to12:
		return "- points: x = 1..12 (integers, months); y = the cumulative net cashflow/profit accumulated up to that month (running total of monthly net cashflows from month 1 through x).\n"
	case PointKindStagesBRRR:
		return fmt.Sprintf("- points: x in [%s] (strings, in that order); y = the running cash position at each stage (cumulative net cash invested or returned from the start through that phase).\n",
			quoteJoin(BRRRStages))
	case PointKindTimelineFlip:
		return "- points: x = integers from 0 to the sale month (inclusive); every point MUST include \"costs\" (cumulative total costs up to that month) and \"expected_sale_price\" (a constant, the expected after-works sale price); \"y\", if provided, is expected_sale_price minus cumulative costs at that point.\n"
	default:
		return ""
	}
}

const strictOutputShape = `Return ONLY JSON with this exact shape (no extra keys, no prose, no markdown fences):
{
  "investment_strategy": string,
  "top_stats": { [statName: string]: number },
  "projection": {
    "x_label": string,
    "y_label": string,
    "points": [ { "x": number | string, "y"?: number, "costs"?: number, "expected_sale_price"?: number } ]
  },
  "strengths": string[],
  "weaknesses": string[],
  "recommendations": string[]
}`

func writeSection(buf *bytes.Buffer, name, body string) {
	body = strings.TrimSpace(body)
	if body == "" {
		return
	}
	fmt.Fprintf(buf, "\n[%s]\n%s\n", name, body)
}

func quoteJoin(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return strings.Join(quoted, ", ")
}
