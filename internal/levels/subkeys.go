package levels

import (
	"strconv"
	"strings"

	"levelboard/internal/validity"
)

// Indicator keys with structured payloads requiring a derivation. The
// *Support/*Resistance variants are views over the same underlying payload.
const (
	KeyPivotHighLow       = "Pivot Points High Low"
	KeySRv2               = "SRv2"
	KeySRv2Support        = "SRv2 Support"
	KeySRv2Resistance     = "SRv2 Resistance"
	KeyStandardPivot      = "Pivot Points Standard"
	KeyStandardResistance = "Pivot Points Standard Resistance"
	KeyStandardSupport    = "Pivot Points Standard Support"
	KeyNadarayaWatson     = "Nadaraya-Watson-LuxAlgo"
)

// PayloadKey maps a view key to the snapshot indicator that actually stores
// its payload (e.g. both SRv2 views read the "SRv2" entry).
func PayloadKey(indicatorKey string) string {
	switch indicatorKey {
	case KeySRv2Support, KeySRv2Resistance:
		return KeySRv2
	case KeyStandardResistance, KeyStandardSupport:
		return KeyStandardPivot
	default:
		return indicatorKey
	}
}

// ScalarSubKeys fixes the displayable sub-field order for the plain numeric
// indicators. Indicators not listed here expose whatever fields their
// payload carries.
var ScalarSubKeys = map[string][]string{
	"EMA50":  {"EMA"},
	"EMA200": {"EMA"},
	"RSI":    {"RSI", "RSIbased_MA"},
	"MACD":   {"Histogram", "MACD", "Signal"},
	"FibonacciBollingerBands": {
		"1_2", "0764_2", "0618_2", "05", "0382", "0236",
		"Plot", "0236_2", "0382_2", "05_2", "0618", "0764", "1",
	},
	"VWAP": {
		"Upper_Band_3", "Upper_Band_2", "Upper_Band_1", "VWAP",
		"Lower_Band_1", "Lower_Band_2", "Lower_Band_3",
	},
	"BollingerBands": {"Upper", "Basis", "Lower"},
}

// SubKeysFor returns the displayable sub-key ordering for an indicator, or
// nil when the indicator has no fixed sub-key table. Derivation-backed
// indicators use the bounded addressing their display rows follow (top of
// the rendered list first); scalar indicators use ScalarSubKeys. The
// Pivot-High-Low addressing is sized per symbol, see PivotHLSubKeys.
func SubKeysFor(indicatorKey string) []string {
	switch indicatorKey {
	case KeySRv2Support:
		return []string{"Level1", "Level2", "Level3", "Level4", "Level5"}
	case KeySRv2, KeySRv2Resistance:
		return []string{"Level5", "Level4", "Level3", "Level2", "Level1", "CurrentPrice"}
	case KeyStandardResistance:
		return []string{"R5", "R4", "R3", "R2", "R1", "CurrentPrice"}
	case KeyStandardSupport:
		return []string{"CurrentPrice", "S1", "S2", "S3", "S4", "S5"}
	case KeyStandardPivot:
		return []string{"P", "CurrentPrice"}
	case KeyNadarayaWatson:
		return []string{"UpperBand", "LowerBand"}
	default:
		return ScalarSubKeys[indicatorKey]
	}
}

// PivotHLSubKeys builds the ResN..Res1, CurrentPrice, Sup1..SupM display
// addressing for the given bucket sizes.
func PivotHLSubKeys(maxRes, maxSup int) []string {
	keys := make([]string, 0, maxRes+maxSup+1)
	for k := maxRes; k >= 1; k-- {
		keys = append(keys, "Res"+strconv.Itoa(k))
	}
	keys = append(keys, "CurrentPrice")
	for k := 1; k <= maxSup; k++ {
		keys = append(keys, "Sup"+strconv.Itoa(k))
	}
	return keys
}

// HasSubKey reports whether the given sub-key currently resolves to a
// defined, non-sentinel value under the derivation belonging to
// indicatorKey. It runs the same derivation the value query runs — the
// existence check and the value computation cannot diverge.
func HasSubKey(indicatorKey string, payload any, price float64, subKey string) bool {
	switch indicatorKey {
	case KeyPivotHighLow:
		return pivotHLSubKeyReady(payload, price, subKey)

	case KeySRv2Support:
		_, ok := SRv2(payload, price).SubLevel(Support, subKey)
		return ok
	case KeySRv2, KeySRv2Resistance:
		_, ok := SRv2(payload, price).SubLevel(Resistance, subKey)
		return ok

	case KeyStandardResistance:
		return standardSubKeyReady(payload, price, Resistance, subKey)
	case KeyStandardSupport:
		return standardSubKeyReady(payload, price, Support, subKey)
	case KeyStandardPivot:
		return standardSubKeyReady(payload, price, Pivot, subKey)

	case KeyNadarayaWatson:
		_, ok := NadarayaWatsonBands(payload)
		return ok

	default:
		m, ok := asMap(payload)
		if !ok {
			return false
		}
		v, present := m[subKey]
		return present && validity.Valid(v)
	}
}

func pivotHLSubKeyReady(payload any, price float64, subKey string) bool {
	l := PivotHighLow(payload, price)
	switch {
	case subKey == "CurrentPrice":
		return l.HasCurrentPrice
	case strings.HasPrefix(subKey, "Res"):
		k, err := strconv.Atoi(subKey[len("Res"):])
		if err != nil {
			return false
		}
		_, ok := l.Res(k)
		return ok
	case strings.HasPrefix(subKey, "Sup"):
		k, err := strconv.Atoi(subKey[len("Sup"):])
		if err != nil {
			return false
		}
		_, ok := l.Sup(k)
		return ok
	default:
		return false
	}
}

func standardSubKeyReady(payload any, price float64, pool Kind, subKey string) bool {
	if subKey == "CurrentPrice" {
		return price > 0
	}
	_, ok := StandardPivotLookup(payload, price, pool, subKey)
	return ok
}

// MaxLevelCounts returns the largest resistance and support bucket sizes the
// Pivot-High-Low derivation produces across the given payloads (one per
// ready timeframe). The display layer sizes its ResK/SupK row set from this.
func MaxLevelCounts(payloads []any, price float64) (maxRes, maxSup int) {
	for _, payload := range payloads {
		l := PivotHighLow(payload, price)
		if n := len(l.Resistance); n > maxRes {
			maxRes = n
		}
		if n := len(l.Support); n > maxSup {
			maxSup = n
		}
	}
	return maxRes, maxSup
}
