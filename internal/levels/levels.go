// Package levels derives ranked support/resistance/pivot levels from the
// structured indicator payloads carried in snapshots. Every function here is
// pure: it takes a payload plus the current market price and returns a fresh
// result, so callers may re-derive on every read. Malformed or missing
// payloads degrade to empty results, never an error.
package levels

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Kind classifies a derived level relative to the current price.
type Kind string

const (
	Support      Kind = "support"
	Resistance   Kind = "resistance"
	Pivot        Kind = "pivot"
	CurrentPrice Kind = "currentPrice"
	Unclassified Kind = "unclassified"
)

// ── payload coercion ──
//
// Indicator payloads arrive as decoded JSON (map[string]any / []any) and the
// upstream feed is sloppy about numeric types: a pivot value may be a number
// or a numeric string. Coercion is tolerant; anything unparsable is skipped.

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func asSlice(v any) ([]any, bool) {
	s, ok := v.([]any)
	return s, ok
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func toInt(v any) int {
	if f, ok := toFloat(v); ok {
		return int(f)
	}
	return 0
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	default:
		return ""
	}
}

// sliceField extracts payload[field] as a slice; nil payloads or wrong
// shapes yield an empty slice.
func sliceField(payload any, field string) []any {
	m, ok := asMap(payload)
	if !ok {
		return nil
	}
	s, _ := asSlice(m[field])
	return s
}

// priceText is the canonical display text of the synthetic current-price
// row.
func priceText(price float64) string {
	return "Cu. Price=" + strconv.FormatFloat(price, 'f', 5, 64)
}
