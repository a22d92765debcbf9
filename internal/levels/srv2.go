package levels

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// SRLabel is one classified label of an SRv2 payload. IDs missing upstream
// are replaced with a deterministic positional fallback so derivation output
// is reproducible.
type SRLabel struct {
	ID   string  `json:"id"`
	Text string  `json:"text"`
	Y    float64 `json:"y"`
	Kind Kind    `json:"kind"`
}

// SRv2Levels is the ranked result of the SRv2 derivation. Support is sorted
// descending by y (nearest-below first), Resistance ascending (nearest-above
// first); LevelK addresses position K of the respective list.
type SRv2Levels struct {
	Support    []SRLabel `json:"support"`
	Resistance []SRLabel `json:"resistance"`

	// ShowCurrentPrice marks that the synthetic current-price row belongs in
	// the resistance-side display: true exactly when the price sits strictly
	// above the highest support and at or below the lowest resistance.
	ShowCurrentPrice bool    `json:"showCurrentPrice"`
	CurrentPrice     float64 `json:"currentPrice"`
}

// SRv2 classifies and ranks an SRv2 payload's labels around the current
// price. A label whose text marks it as support is support; otherwise the
// side is inferred from y relative to the price. Support candidates are
// further restricted to y ≤ price and resistance candidates to y > price.
func SRv2(payload any, price float64) SRv2Levels {
	out := SRv2Levels{CurrentPrice: price}

	for i, item := range sliceField(payload, "labels") {
		m, ok := asMap(item)
		if !ok {
			continue
		}
		y, ok := toFloat(m["y"])
		if !ok {
			continue
		}
		label := SRLabel{
			ID:   toString(m["id"]),
			Text: toString(m["text"]),
			Y:    y,
		}
		if label.ID == "" {
			label.ID = "label-" + strconv.Itoa(i)
		}
		isSupport := strings.Contains(strings.ToLower(label.Text), "support") || y <= price
		if label.Text == "" {
			if isSupport {
				label.Text = "Support"
			} else {
				label.Text = "Resistance"
			}
		}
		if isSupport {
			label.Kind = Support
			if y <= price {
				out.Support = append(out.Support, label)
			}
		} else {
			label.Kind = Resistance
			if y > price {
				out.Resistance = append(out.Resistance, label)
			}
		}
	}

	sort.SliceStable(out.Support, func(i, j int) bool {
		return out.Support[i].Y > out.Support[j].Y
	})
	sort.SliceStable(out.Resistance, func(i, j int) bool {
		return out.Resistance[i].Y < out.Resistance[j].Y
	})

	if price > 0 {
		maxSupport, minResistance := out.bounds()
		out.ShowCurrentPrice = price > maxSupport && price <= minResistance
	}
	return out
}

// bounds returns the highest support y (or -inf equivalent when there is no
// support) and the lowest resistance y (or +inf equivalent), matching how
// the synthetic-row rule degenerates on empty sides.
func (l SRv2Levels) bounds() (maxSupport, minResistance float64) {
	maxSupport = -math.MaxFloat64
	minResistance = math.MaxFloat64
	if len(l.Support) > 0 {
		maxSupport = l.Support[0].Y
	}
	if len(l.Resistance) > 0 {
		minResistance = l.Resistance[0].Y
	}
	return maxSupport, minResistance
}

// Level returns the k-th level (1-based) of the requested side.
func (l SRv2Levels) Level(kind Kind, k int) (SRLabel, bool) {
	var pool []SRLabel
	switch kind {
	case Support:
		pool = l.Support
	case Resistance:
		pool = l.Resistance
	default:
		return SRLabel{}, false
	}
	if k < 1 || k > len(pool) {
		return SRLabel{}, false
	}
	return pool[k-1], true
}

// SubLevel resolves SRv2 sub-key addressing: "Level1".."LevelN" indexes the
// side's sorted list; "CurrentPrice" addresses the synthetic row, which only
// exists on the resistance side.
func (l SRv2Levels) SubLevel(kind Kind, subKey string) (SRLabel, bool) {
	if subKey == "CurrentPrice" {
		if kind == Resistance && l.ShowCurrentPrice {
			return SRLabel{
				ID:   "current-price",
				Text: priceText(l.CurrentPrice),
				Y:    l.CurrentPrice,
				Kind: CurrentPrice,
			}, true
		}
		return SRLabel{}, false
	}
	k, ok := levelIndex(subKey)
	if !ok {
		return SRLabel{}, false
	}
	return l.Level(kind, k)
}

// ResistanceRows returns the resistance-side display rows sorted descending
// by y, with the synthetic current-price row inserted when applicable.
func (l SRv2Levels) ResistanceRows() []SRLabel {
	rows := make([]SRLabel, 0, len(l.Resistance)+1)
	rows = append(rows, l.Resistance...)
	if l.ShowCurrentPrice {
		rows = append(rows, SRLabel{
			ID:   "current-price",
			Text: priceText(l.CurrentPrice),
			Y:    l.CurrentPrice,
			Kind: CurrentPrice,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Y > rows[j].Y })
	return rows
}

// SupportRows returns the support-side display rows sorted descending by y.
// The synthetic row never appears on the support side.
func (l SRv2Levels) SupportRows() []SRLabel {
	rows := make([]SRLabel, len(l.Support))
	copy(rows, l.Support)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Y > rows[j].Y })
	return rows
}

// levelIndex parses "LevelK" into K.
func levelIndex(subKey string) (int, bool) {
	rest, ok := strings.CutPrefix(subKey, "Level")
	if !ok {
		return 0, false
	}
	k, err := strconv.Atoi(rest)
	if err != nil || k < 1 {
		return 0, false
	}
	return k, true
}
