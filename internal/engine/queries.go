package engine

import (
	"errors"
	"time"

	"levelboard/internal/levels"
	"levelboard/internal/model"
)

var (
	// ErrNoSnapshot means no data has arrived for the (symbol, timeframe).
	ErrNoSnapshot = errors.New("no snapshot for symbol and timeframe")
	// ErrUnknownIndicator means the levels route got an unsupported name.
	ErrUnknownIndicator = errors.New("unknown indicator")
)

// Levels route indicator names.
const (
	IndicatorPivotHL       = "pivot-hl"
	IndicatorSRv2          = "srv2"
	IndicatorStandardPivot = "standard-pivot"
	IndicatorNWBands       = "nw-bands"
)

// TimeframeInfo pairs a timeframe code with its display label.
type TimeframeInfo struct {
	Timeframe string `json:"timeframe"`
	Label     string `json:"label"`
}

// ReadyTimeframes lists the symbol's ready timeframes in fixed display
// order, with labels.
func (svc *Service) ReadyTimeframes(symbol string) []TimeframeInfo {
	tfs := svc.store.ReadyTimeframes(symbol)
	out := make([]TimeframeInfo, 0, len(tfs))
	for _, tf := range tfs {
		out = append(out, TimeframeInfo{Timeframe: tf, Label: model.TimeframeLabel(tf)})
	}
	return out
}

// Price returns the symbol's cached market price, zero-valued when unknown.
func (svc *Service) Price(symbol string) model.MarketPrice {
	return svc.store.Prices().Get(symbol)
}

// Snapshot returns the merged snapshot for a (symbol, timeframe).
func (svc *Service) Snapshot(symbol, timeframe string) (*model.Snapshot, error) {
	snap, ok := svc.store.Get(symbol, timeframe)
	if !ok {
		return nil, ErrNoSnapshot
	}
	return snap, nil
}

// Levels computes one indicator's level derivation for a (symbol,
// timeframe). priceOverride, when non-nil, replaces the cached market price
// for classification. Derivations run on the stable snapshot reference, so
// concurrent ticks never affect a response mid-computation.
func (svc *Service) Levels(symbol, timeframe, indicator string, priceOverride *float64) (any, error) {
	snap, ok := svc.store.Get(symbol, timeframe)
	if !ok {
		return nil, ErrNoSnapshot
	}

	price := svc.store.Prices().Get(symbol).MarketPrice
	if priceOverride != nil {
		price = *priceOverride
	}

	start := time.Now()
	defer func() {
		if svc.prom != nil {
			svc.prom.DerivationDur.WithLabelValues(indicator).Observe(time.Since(start).Seconds())
		}
	}()

	switch indicator {
	case IndicatorPivotHL:
		return levels.PivotHighLow(snap.Indicator(levels.KeyPivotHighLow), price).Rows(), nil
	case IndicatorSRv2:
		l := levels.SRv2(snap.Indicator(levels.KeySRv2), price)
		return map[string]any{
			"resistance": l.ResistanceRows(),
			"support":    l.SupportRows(),
		}, nil
	case IndicatorStandardPivot:
		return levels.StandardPivotCombined(snap.Indicator(levels.KeyStandardPivot), price), nil
	case IndicatorNWBands:
		bands, ok := levels.NadarayaWatsonBands(snap.Indicator(levels.KeyNadarayaWatson))
		if !ok {
			// Missing or short payload degrades to "no data", the snapshot
			// itself exists.
			return map[string]any{"hasData": false}, nil
		}
		return map[string]any{"hasData": true, "upper": bands.Upper, "lower": bands.Lower}, nil
	default:
		return nil, ErrUnknownIndicator
	}
}

// LevelCounts reports the largest resistance and support bucket sizes the
// Pivot-High-Low derivation yields across the symbol's ready timeframes.
func (svc *Service) LevelCounts(symbol string) (maxRes, maxSup int) {
	price := svc.store.Prices().Get(symbol).MarketPrice
	var payloads []any
	for _, tf := range svc.store.ReadyTimeframes(symbol) {
		if snap, ok := svc.store.Get(symbol, tf); ok {
			payloads = append(payloads, snap.Indicator(levels.KeyPivotHighLow))
		}
	}
	return levels.MaxLevelCounts(payloads, price)
}

// SubKeyStatus flags whether one displayable sub-row of an indicator
// currently resolves for the symbol.
type SubKeyStatus struct {
	SubKey string `json:"subKey"`
	Ready  bool   `json:"ready"`
}

// SubKeys lists an indicator's displayable sub-rows in display order, each
// flagged ready when it resolves on at least one of the symbol's ready
// timeframes. Pivot-High-Low addressing is sized from the current level
// counts; indicators without a sub-key table are rejected.
func (svc *Service) SubKeys(symbol, indicatorKey string) ([]SubKeyStatus, error) {
	var keys []string
	if indicatorKey == levels.KeyPivotHighLow {
		maxRes, maxSup := svc.LevelCounts(symbol)
		keys = levels.PivotHLSubKeys(maxRes, maxSup)
	} else if keys = levels.SubKeysFor(indicatorKey); keys == nil {
		return nil, ErrUnknownIndicator
	}

	out := make([]SubKeyStatus, 0, len(keys))
	for _, k := range keys {
		out = append(out, SubKeyStatus{SubKey: k, Ready: svc.AnySubKeyReady(symbol, indicatorKey, k)})
	}
	return out, nil
}

// AnySubKeyReady reports whether the indicator sub-key resolves on at least
// one ready timeframe of the symbol.
func (svc *Service) AnySubKeyReady(symbol, indicatorKey, subKey string) bool {
	price := svc.store.Prices().Get(symbol).MarketPrice
	payloadKey := levels.PayloadKey(indicatorKey)
	for _, tf := range svc.store.ReadyTimeframes(symbol) {
		snap, ok := svc.store.Get(symbol, tf)
		if !ok {
			continue
		}
		if levels.HasSubKey(indicatorKey, snap.Indicator(payloadKey), price, subKey) {
			return true
		}
	}
	return false
}
