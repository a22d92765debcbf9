package model

// Timeframe identifiers as sent by the upstream feed. The intraday ones are
// candle minutes encoded as strings; daily and weekly keep their letter form.
const (
	TF15m = "15"
	TF1h  = "60"
	TF4h  = "240"
	TF1D  = "1D"
	TF1W  = "1W"
)

// TimeframeOrder is the fixed display order for timeframes, independent of
// tick arrival order.
var TimeframeOrder = []string{TF15m, TF1h, TF4h, TF1D, TF1W}

// TimeframeLabels maps timeframe identifiers to their display labels.
var TimeframeLabels = map[string]string{
	TF15m: "15m",
	TF1h:  "1h",
	TF4h:  "4h",
	TF1D:  "1D",
	TF1W:  "1W",
}

var timeframeRank = func() map[string]int {
	m := make(map[string]int, len(TimeframeOrder))
	for i, tf := range TimeframeOrder {
		m[tf] = i
	}
	return m
}()

// KnownTimeframe reports whether tf is one of the fixed timeframe universe.
// Unknown identifiers are stored but never surfaced by the readiness filter.
func KnownTimeframe(tf string) bool {
	_, ok := timeframeRank[tf]
	return ok
}

// TimeframeRank returns the position of tf in the fixed total order, or -1
// for unknown identifiers.
func TimeframeRank(tf string) int {
	if r, ok := timeframeRank[tf]; ok {
		return r
	}
	return -1
}

// TimeframeLabel returns the display label for tf, falling back to the raw
// identifier.
func TimeframeLabel(tf string) string {
	if l, ok := TimeframeLabels[tf]; ok {
		return l
	}
	return tf
}
