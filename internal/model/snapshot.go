package model

// Snapshot is the merged indicator state for one (symbol, timeframe) pair,
// accumulated across every tick received for that key. Snapshots are
// immutable once published: the store replaces the whole value on merge, so
// a reader holding an old reference is never affected by a later update.
type Snapshot struct {
	Symbol     string         `json:"symbol"`
	Timeframe  string         `json:"timeframe"`
	Indicators map[string]any `json:"indicators"`
}

// Key returns the store key "symbol:timeframe".
func (s *Snapshot) Key() string {
	return s.Symbol + ":" + s.Timeframe
}

// Indicator returns the named indicator payload, or nil when absent.
func (s *Snapshot) Indicator(name string) any {
	if s == nil {
		return nil
	}
	return s.Indicators[name]
}

// MarketPrice is the per-symbol latest trade price and volume, updated
// independently of indicator snapshots.
type MarketPrice struct {
	MarketPrice float64 `json:"marketPrice"`
	Volume      float64 `json:"volume"`
}
