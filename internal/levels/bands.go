package levels

import "sort"

// NWBands is the band pair extracted from a Nadaraya-Watson payload.
type NWBands struct {
	Upper float64 `json:"upper"`
	Lower float64 `json:"lower"`
}

// NadarayaWatsonBands picks the upper and lower envelope values out of a
// "Nadaraya-Watson-LuxAlgo" payload: lines are sorted descending by their y2
// endpoint, the first is the upper band and the second the lower. Payloads
// with fewer than two numeric lines yield no bands.
func NadarayaWatsonBands(payload any) (NWBands, bool) {
	raw := sliceField(payload, "lines")
	ys := make([]float64, 0, len(raw))
	for _, item := range raw {
		m, ok := asMap(item)
		if !ok {
			continue
		}
		if y2, ok := toFloat(m["y2"]); ok {
			ys = append(ys, y2)
		}
	}
	if len(ys) < 2 {
		return NWBands{}, false
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(ys)))
	return NWBands{Upper: ys[0], Lower: ys[1]}, true
}

// ActivePatterns lists the candlestick patterns flagged active (value == 1)
// in a CandlestickPatterns payload. The upstream "$time" bookkeeping key is
// ignored. Output is sorted for deterministic results.
func ActivePatterns(payload any) []string {
	m, ok := asMap(payload)
	if !ok {
		return nil
	}
	var active []string
	for k, v := range m {
		if k == "$time" {
			continue
		}
		if f, ok := toFloat(v); ok && f == 1 {
			active = append(active, k)
		}
	}
	sort.Strings(active)
	return active
}
