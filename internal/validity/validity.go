// Package validity decides whether an indicator value is "real". The
// upstream feed marks not-yet-computed values with a reserved huge-magnitude
// sentinel instead of omitting them, so structural presence alone does not
// mean a value is displayable.
package validity

import (
	"encoding/json"
	"math"
)

const (
	// Sentinel is the reserved numeric value meaning "indicator not computed".
	Sentinel = 1e100

	// LargeThreshold bounds the magnitude of believable values; anything
	// beyond it is treated as near-sentinel noise.
	LargeThreshold = 1e10
)

// ValidNumber reports whether f is a real, displayable numeric value.
func ValidNumber(f float64) bool {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return false
	}
	if f == Sentinel {
		return false
	}
	return math.Abs(f) <= LargeThreshold
}

// Valid reports whether v is a real value. nil is invalid; numbers follow
// ValidNumber; every other type (string, bool, object, array) is valid by
// default, callers apply structural checks where they need them.
func Valid(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case float64:
		return ValidNumber(t)
	case float32:
		return ValidNumber(float64(t))
	case int:
		return ValidNumber(float64(t))
	case int64:
		return ValidNumber(float64(t))
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return false
		}
		return ValidNumber(f)
	default:
		return true
	}
}
