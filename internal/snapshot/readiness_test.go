package snapshot

import (
	"reflect"
	"testing"
)

func TestReadyTimeframes_SortedByFixedOrder(t *testing.T) {
	s := NewStore()
	// Arrival order deliberately scrambled.
	s.Apply(tick("XAUUSD", "1D", map[string]any{"RSI": 50.0}))
	s.Apply(tick("XAUUSD", "15", map[string]any{"RSI": 50.0}))
	s.Apply(tick("XAUUSD", "240", map[string]any{"RSI": 50.0}))

	got := s.ReadyTimeframes("XAUUSD")
	want := []string{"15", "240", "1D"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ReadyTimeframes = %v, want %v", got, want)
	}
}

func TestReadyTimeframes_AllSentinelExcluded(t *testing.T) {
	s := NewStore()
	s.Apply(tick("GER40", "60", map[string]any{"RSI": 1e100, "EMA50": nil}))

	if got := s.ReadyTimeframes("GER40"); len(got) != 0 {
		t.Errorf("timeframe with only sentinel values must not be ready, got %v", got)
	}

	// One valid value flips it ready.
	s.Apply(tick("GER40", "60", map[string]any{"EMA200": 18000.0}))
	if got := s.ReadyTimeframes("GER40"); !reflect.DeepEqual(got, []string{"60"}) {
		t.Errorf("got %v, want [60]", got)
	}
}

func TestReadyTimeframes_SentinelOverwriteRevokesReadiness(t *testing.T) {
	s := NewStore()
	s.Apply(tick("NAS100", "15", map[string]any{"RSI": 42.0}))
	if got := s.ReadyTimeframes("NAS100"); len(got) != 1 {
		t.Fatalf("expected ready before overwrite, got %v", got)
	}

	s.Apply(tick("NAS100", "15", map[string]any{"RSI": 1e100}))
	if got := s.ReadyTimeframes("NAS100"); len(got) != 0 {
		t.Errorf("sentinel overwrite must revoke readiness, got %v", got)
	}
}

func TestReadyTimeframes_UnknownTimeframeStoredButExcluded(t *testing.T) {
	s := NewStore()
	s.Apply(tick("BTCUSD", "5", map[string]any{"RSI": 42.0}))

	if _, ok := s.Get("BTCUSD", "5"); !ok {
		t.Fatal("unknown timeframe must still be stored")
	}
	if got := s.ReadyTimeframes("BTCUSD"); len(got) != 0 {
		t.Errorf("unknown timeframe must be excluded from readiness, got %v", got)
	}
}

func TestReadyTimeframes_UnknownSymbol(t *testing.T) {
	s := NewStore()
	if got := s.ReadyTimeframes("NOPE"); len(got) != 0 {
		t.Errorf("unknown symbol = %v, want empty", got)
	}
}
