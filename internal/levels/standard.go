package levels

import (
	"regexp"
	"sort"
	"strings"
)

// pivotValueRe extracts the parenthesized decimal of a standard-pivot label
// text such as "R1 (1234.56)".
var pivotValueRe = regexp.MustCompile(`\((\d+\.?\d*)\)`)

// StandardPivotLabel is one parsed label of a "Pivot Points Standard"
// payload. Name is the text prefix before the parenthesis with surrounding
// whitespace trimmed; the source data is inconsistent about a leading space
// on the pivot row ("P (..." vs " P (..."), so trimming is the canonical
// rule here and the pivot row's name is always exactly "P".
type StandardPivotLabel struct {
	Name string  `json:"name"`
	Text string  `json:"text"`
	Y    float64 `json:"y"`
	Kind Kind    `json:"kind"`
}

// ParseStandardPivots parses and classifies every well-formed label of a
// "Pivot Points Standard" payload relative to the current price. Labels
// without a parenthesized number are skipped.
func ParseStandardPivots(payload any, price float64) []StandardPivotLabel {
	raw := sliceField(payload, "labels")
	out := make([]StandardPivotLabel, 0, len(raw))
	for _, item := range raw {
		m, ok := asMap(item)
		if !ok {
			continue
		}
		text := toString(m["text"])
		label, ok := parsePivotLabel(text, price)
		if !ok {
			continue
		}
		out = append(out, label)
	}
	return out
}

func parsePivotLabel(text string, price float64) (StandardPivotLabel, bool) {
	match := pivotValueRe.FindStringSubmatchIndex(text)
	if match == nil {
		return StandardPivotLabel{}, false
	}
	y, ok := toFloat(text[match[2]:match[3]])
	if !ok {
		return StandardPivotLabel{}, false
	}
	name := strings.TrimSpace(text[:match[0]])

	kind := Pivot
	switch {
	case y > price:
		kind = Resistance
	case y < price:
		kind = Support
	}
	return StandardPivotLabel{Name: name, Text: text, Y: y, Kind: kind}, true
}

// StandardPivotRow is one row of the combined standard-pivot view.
type StandardPivotRow struct {
	Name string  `json:"name"`
	Text string  `json:"text"`
	Y    float64 `json:"y"`
	Kind Kind    `json:"kind"`

	// GapBefore marks the boundary crossing from the resistance/pivot block
	// into the support block, used by the display layer for spacing.
	GapBefore bool `json:"gapBefore,omitempty"`
}

// StandardPivotCombined merges all parsed levels with a synthetic
// current-price row (when a price is available), sorts descending by y, and
// flags the first support row that follows a resistance or pivot row.
func StandardPivotCombined(payload any, price float64) []StandardPivotRow {
	labels := ParseStandardPivots(payload, price)
	rows := make([]StandardPivotRow, 0, len(labels)+1)
	for _, l := range labels {
		rows = append(rows, StandardPivotRow{Name: l.Name, Text: l.Text, Y: l.Y, Kind: l.Kind})
	}
	if price > 0 {
		rows = append(rows, StandardPivotRow{
			Name: "CurrentPrice",
			Text: priceText(price),
			Y:    price,
			Kind: CurrentPrice,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Y > rows[j].Y })

	for i := 1; i < len(rows); i++ {
		if rows[i].Y < price && rows[i-1].Y >= price {
			rows[i].GapBefore = true
		}
	}
	return rows
}

// StandardPivotLookup resolves a named sub-level (R1..R5, S1..S5, P) against
// the classification pool the caller is viewing. The pool restriction comes
// first: a label whose name matches but whose classification does not is "no
// data". Pool Pivot restricts to the row named exactly "P"; pool
// Unclassified searches all parsed labels.
func StandardPivotLookup(payload any, price float64, pool Kind, subKey string) (StandardPivotLabel, bool) {
	subKey = strings.TrimSpace(subKey)
	for _, l := range ParseStandardPivots(payload, price) {
		switch pool {
		case Resistance:
			if l.Kind != Resistance {
				continue
			}
		case Support:
			// The support view spans y ≤ price, so a pivot row sitting
			// exactly on the price stays visible there.
			if l.Kind == Resistance {
				continue
			}
		case Pivot:
			if l.Name != "P" {
				continue
			}
		}
		if l.Name == subKey {
			return l, true
		}
	}
	return StandardPivotLabel{}, false
}
