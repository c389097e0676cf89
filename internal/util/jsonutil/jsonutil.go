package jsonutil

import (
	"bytes"
	"encoding/json"
	"math"
	"regexp"
	"strings"
)

// MarshalNoEscape encodes v into JSON without escaping <, >, & into
// \u003c etc. Prompt text goes to a language model, not a browser, so
// HTML escapes only add noise.
func MarshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	// Remove trailing newline from json.Encoder.Encode
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// ExtractObject returns the substring between the first '{' and the
// last '}' of s, inclusive. It recovers JSON the model wrapped in prose
// or markdown fences. The second return is false when no such span
// exists; no further repair is attempted.
func ExtractObject(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

var numberRun = regexp.MustCompile(`-?\d+(\.\d+)?`)

// CoerceNumber turns a loosely-typed JSON value into a finite number.
// Strings like "450,000" or "£1 800" yield their first numeric run.
// Anything else, including NaN/Inf, yields nil.
func CoerceNumber(v any) *float64 {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil
		}
		return &x
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return nil
		}
		return CoerceNumber(f)
	case string:
		cleaned := strings.NewReplacer(",", "", " ", "").Replace(x)
		m := numberRun.FindString(cleaned)
		if m == "" {
			return nil
		}
		var f float64
		if err := json.Unmarshal([]byte(m), &f); err != nil {
			return nil
		}
		return CoerceNumber(f)
	default:
		return nil
	}
}
