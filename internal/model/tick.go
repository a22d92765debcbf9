package model

// Tick is one inbound indicator/price update for a (symbol, timeframe) pair,
// as pushed by the upstream feed. MarketPrice and Volume are optional; a zero
// value means the field was absent from the wire message.
type Tick struct {
	Symbol      string         `json:"symbol"`
	Timeframe   string         `json:"timeframe"`
	MarketPrice float64        `json:"marketPrice,omitempty"`
	Volume      float64        `json:"volume,omitempty"`
	Indicators  map[string]any `json:"indicators,omitempty"`

	// Aliases holds recognized top-level indicator fields (e.g. a tick that
	// carries "EMA50" next to, or instead of, indicators["EMA50"]). An alias
	// names the same logical indicator as the equally named entry inside
	// Indicators; within one tick the alias occurrence wins.
	Aliases map[string]any `json:"-"`
}

// AliasKeys lists the top-level indicator fields the upstream feed is known
// to emit outside the indicators map.
var AliasKeys = []string{
	"EMA50",
	"EMA200",
	"RSI",
	"MACD",
	"FibonacciBollingerBands",
	"VWAP",
	"BollingerBands",
	"CandlestickPatterns",
	"Nadaraya-Watson-LuxAlgo",
	"SRv2",
	"Pivot Points High Low",
	"Pivot Points Standard",
}

// MergedIndicators returns the tick's indicator updates with aliases folded
// in (alias wins on a same-name collision).
func (t Tick) MergedIndicators() map[string]any {
	merged := make(map[string]any, len(t.Indicators)+len(t.Aliases))
	for k, v := range t.Indicators {
		merged[k] = v
	}
	for k, v := range t.Aliases {
		merged[k] = v
	}
	return merged
}

// Valid reports whether the tick carries the minimum identity required for
// storage. Ticks failing this are dropped at the ingest boundary.
func (t Tick) Valid() bool {
	return t.Symbol != "" && t.Timeframe != ""
}
