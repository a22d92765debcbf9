package levels

import (
	"sort"
	"strconv"
	"strings"
)

// PivotPoint is one entry of a "Pivot Points High Low" payload's
// processedPivotPoints sequence.
type PivotPoint struct {
	Value      float64 `json:"value"`
	Count      int     `json:"count"`
	Difference string  `json:"difference"`
}

// PivotHLLevels is the bucketed result of the Pivot-High-Low derivation.
// Resistance holds points with value ≥ price sorted descending, so the
// nearest-above point is its last element; Support holds points below price,
// also descending, so the nearest-below point is its first element.
type PivotHLLevels struct {
	Resistance []PivotPoint `json:"resistance"`
	Support    []PivotPoint `json:"support"`

	// Unclassified carries every point in arrival order when the current
	// price is zero or unavailable and no partition can be assumed.
	Unclassified []PivotPoint `json:"unclassified,omitempty"`

	HasCurrentPrice bool    `json:"hasCurrentPrice"`
	CurrentPrice    float64 `json:"currentPrice"`
}

// PivotHighLow buckets a "Pivot Points High Low" payload around the current
// price.
func PivotHighLow(payload any, price float64) PivotHLLevels {
	points := parsePivotPoints(sliceField(payload, "processedPivotPoints"))

	if price <= 0 {
		return PivotHLLevels{Unclassified: points}
	}

	res := PivotHLLevels{HasCurrentPrice: true, CurrentPrice: price}
	for _, p := range points {
		if p.Value >= price {
			res.Resistance = append(res.Resistance, p)
		} else {
			res.Support = append(res.Support, p)
		}
	}
	sort.SliceStable(res.Resistance, func(i, j int) bool {
		return res.Resistance[i].Value > res.Resistance[j].Value
	})
	sort.SliceStable(res.Support, func(i, j int) bool {
		return res.Support[i].Value > res.Support[j].Value
	})
	return res
}

func parsePivotPoints(raw []any) []PivotPoint {
	points := make([]PivotPoint, 0, len(raw))
	for _, item := range raw {
		m, ok := asMap(item)
		if !ok {
			continue
		}
		v, ok := toFloat(m["value"])
		if !ok {
			continue
		}
		diff := toString(m["difference"])
		if diff == "" {
			diff = "-"
		}
		points = append(points, PivotPoint{
			Value:      v,
			Count:      toInt(m["count"]),
			Difference: diff,
		})
	}
	return points
}

// Res returns the k-th resistance level counted outward from the price:
// Res1 is the nearest point at or above the current price.
func (l PivotHLLevels) Res(k int) (PivotPoint, bool) {
	if k < 1 || k > len(l.Resistance) {
		return PivotPoint{}, false
	}
	return l.Resistance[len(l.Resistance)-k], true
}

// Sup returns the k-th support level counted outward from the price: Sup1 is
// the nearest point below the current price.
func (l PivotHLLevels) Sup(k int) (PivotPoint, bool) {
	if k < 1 || k > len(l.Support) {
		return PivotPoint{}, false
	}
	return l.Support[k-1], true
}

// PivotHLRow is one display row of the bucketed result.
type PivotHLRow struct {
	Name  string  `json:"name"` // ResK, SupK, or CurrentPrice
	Text  string  `json:"text"`
	Value float64 `json:"value"`
	Kind  Kind    `json:"kind"`
}

// Rows flattens the result into display order: ResN..Res1 (farthest to
// nearest), the current-price marker, then Sup1..SupM (nearest to farthest).
// With no price, points come back positionally, unclassified.
func (l PivotHLLevels) Rows() []PivotHLRow {
	if !l.HasCurrentPrice {
		rows := make([]PivotHLRow, 0, len(l.Unclassified))
		for i, p := range l.Unclassified {
			rows = append(rows, PivotHLRow{
				Name:  "P" + strconv.Itoa(i+1),
				Text:  pivotPointText(p),
				Value: p.Value,
				Kind:  Unclassified,
			})
		}
		return rows
	}

	rows := make([]PivotHLRow, 0, len(l.Resistance)+len(l.Support)+1)
	for i, p := range l.Resistance {
		rows = append(rows, PivotHLRow{
			Name:  "Res" + strconv.Itoa(len(l.Resistance)-i),
			Text:  pivotPointText(p),
			Value: p.Value,
			Kind:  Resistance,
		})
	}
	rows = append(rows, PivotHLRow{
		Name:  "CurrentPrice",
		Text:  priceText(l.CurrentPrice),
		Value: l.CurrentPrice,
		Kind:  CurrentPrice,
	})
	for i, p := range l.Support {
		rows = append(rows, PivotHLRow{
			Name:  "Sup" + strconv.Itoa(i+1),
			Text:  pivotPointText(p),
			Value: p.Value,
			Kind:  Support,
		})
	}
	return rows
}

func pivotPointText(p PivotPoint) string {
	var b strings.Builder
	b.WriteString(strconv.FormatFloat(p.Value, 'f', -1, 64))
	b.WriteString(" (Count: ")
	b.WriteString(strconv.Itoa(p.Count))
	b.WriteString(", Diff: ")
	b.WriteString(p.Difference)
	b.WriteString(")")
	return b.String()
}
