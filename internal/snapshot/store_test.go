package snapshot

import (
	"reflect"
	"testing"

	"levelboard/internal/model"
)

func tick(symbol, tf string, indicators map[string]any) model.Tick {
	return model.Tick{Symbol: symbol, Timeframe: tf, Indicators: indicators}
}

func TestApply_OverlayMerge(t *testing.T) {
	s := NewStore()

	s.Apply(tick("XAUUSD", "60", map[string]any{
		"EMA50": map[string]any{"EMA": 1800.0},
		"RSI":   map[string]any{"RSI": 55.0},
	}))
	snap := s.Apply(tick("XAUUSD", "60", map[string]any{
		"RSI": map[string]any{"RSI": 60.0},
	}))

	// RSI overwritten wholesale, EMA50 untouched.
	rsi := snap.Indicators["RSI"].(map[string]any)
	if rsi["RSI"] != 60.0 {
		t.Errorf("RSI = %v, want 60", rsi["RSI"])
	}
	ema := snap.Indicators["EMA50"].(map[string]any)
	if ema["EMA"] != 1800.0 {
		t.Errorf("EMA50 lost during merge: %v", ema)
	}
}

func TestApply_Idempotent(t *testing.T) {
	s := NewStore()
	tk := tick("GER40", "240", map[string]any{"EMA200": 18000.5})

	first := s.Apply(tk)
	second := s.Apply(tk)

	if !reflect.DeepEqual(first.Indicators, second.Indicators) {
		t.Errorf("re-applying an identical tick changed state: %v vs %v",
			first.Indicators, second.Indicators)
	}
}

func TestApply_CopyOnWrite(t *testing.T) {
	s := NewStore()

	old := s.Apply(tick("NAS100", "15", map[string]any{"RSI": 40.0}))
	s.Apply(tick("NAS100", "15", map[string]any{"RSI": 70.0}))

	if old.Indicators["RSI"] != 40.0 {
		t.Errorf("old snapshot reference mutated: RSI = %v", old.Indicators["RSI"])
	}
	cur, _ := s.Get("NAS100", "15")
	if cur.Indicators["RSI"] != 70.0 {
		t.Errorf("current snapshot RSI = %v, want 70", cur.Indicators["RSI"])
	}
}

func TestApply_AliasWins(t *testing.T) {
	s := NewStore()
	tk := model.Tick{
		Symbol:     "BTCUSD",
		Timeframe:  "1D",
		Indicators: map[string]any{"EMA50": 1.0},
		Aliases:    map[string]any{"EMA50": 2.0},
	}
	snap := s.Apply(tk)
	if snap.Indicators["EMA50"] != 2.0 {
		t.Errorf("alias occurrence must win: got %v", snap.Indicators["EMA50"])
	}
}

func TestApply_MalformedTickDropped(t *testing.T) {
	s := NewStore()
	if snap := s.Apply(model.Tick{Timeframe: "60"}); snap != nil {
		t.Error("tick without symbol must be dropped")
	}
	if snap := s.Apply(model.Tick{Symbol: "XAUUSD"}); snap != nil {
		t.Error("tick without timeframe must be dropped")
	}
	if s.KeyCount() != 0 {
		t.Errorf("malformed ticks must not create state, have %d keys", s.KeyCount())
	}
}

func TestApply_RoutesPriceToCache(t *testing.T) {
	s := NewStore()
	s.Apply(model.Tick{Symbol: "XRPUSD", Timeframe: "60", MarketPrice: 2.5, Volume: 100})

	p := s.Prices().Get("XRPUSD")
	if p.MarketPrice != 2.5 || p.Volume != 100 {
		t.Errorf("price cache = %+v, want {2.5 100}", p)
	}
}

func TestApply_ExplicitSentinelOverwrites(t *testing.T) {
	s := NewStore()
	s.Apply(tick("SUIUSDT", "1W", map[string]any{"RSI": 45.0}))
	snap := s.Apply(tick("SUIUSDT", "1W", map[string]any{"RSI": 1e100}))

	// Explicit sentinel replaces the value in storage; display filtering is
	// the validity layer's job.
	if snap.Indicators["RSI"] != 1e100 {
		t.Errorf("explicit sentinel must overwrite: got %v", snap.Indicators["RSI"])
	}
}

func TestGet_Absent(t *testing.T) {
	s := NewStore()
	if _, ok := s.Get("NOPE", "60"); ok {
		t.Error("Get on unknown key must report absent")
	}
}

func TestForSymbol_CopiesMap(t *testing.T) {
	s := NewStore()
	s.Apply(tick("GER40", "60", map[string]any{"RSI": 50.0}))

	m := s.ForSymbol("GER40")
	delete(m, "60")
	if _, ok := s.Get("GER40", "60"); !ok {
		t.Error("mutating the ForSymbol result must not affect the store")
	}
}
