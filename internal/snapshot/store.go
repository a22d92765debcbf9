// Package snapshot holds the in-memory merged state of the engine: the
// per-(symbol, timeframe) indicator snapshots, the per-symbol market price
// cache, and the timeframe readiness filter over both.
package snapshot

import (
	"sync"

	"levelboard/internal/model"
)

// Store keeps the latest merged Snapshot per (symbol, timeframe). Merging is
// copy-on-write: Apply builds a fresh Snapshot value and swaps it in under
// the lock, so readers holding a previously returned *Snapshot are never
// exposed to a partial merge.
//
// Apply is expected to be called from a single goroutine in tick arrival
// order; reads may come from any number of goroutines.
type Store struct {
	mu    sync.RWMutex
	snaps map[string]map[string]*model.Snapshot // symbol → timeframe → snapshot

	prices *PriceCache
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		snaps:  make(map[string]map[string]*model.Snapshot, 16),
		prices: NewPriceCache(),
	}
}

// Prices exposes the market price cache fed by Apply.
func (s *Store) Prices() *PriceCache {
	return s.prices
}

// Apply merges a tick into the snapshot for its (symbol, timeframe) key and
// routes any price/volume fields into the price cache. Indicators present in
// the tick replace same-named entries wholesale; indicators absent from the
// tick are untouched. Returns the newly published snapshot.
//
// Ticks failing model.Tick.Valid are ignored and return nil.
func (s *Store) Apply(tick model.Tick) *model.Snapshot {
	if !tick.Valid() {
		return nil
	}

	if tick.MarketPrice != 0 || tick.Volume != 0 {
		s.prices.Update(tick.Symbol, tick.MarketPrice, tick.Volume)
	}

	updates := tick.MergedIndicators()

	s.mu.Lock()
	defer s.mu.Unlock()

	byTF := s.snaps[tick.Symbol]
	if byTF == nil {
		byTF = make(map[string]*model.Snapshot, len(model.TimeframeOrder))
		s.snaps[tick.Symbol] = byTF
	}

	prev := byTF[tick.Timeframe]
	next := &model.Snapshot{
		Symbol:     tick.Symbol,
		Timeframe:  tick.Timeframe,
		Indicators: make(map[string]any, mergedCap(prev, len(updates))),
	}
	if prev != nil {
		for k, v := range prev.Indicators {
			next.Indicators[k] = v
		}
	}
	for k, v := range updates {
		next.Indicators[k] = v
	}

	byTF[tick.Timeframe] = next
	return next
}

func mergedCap(prev *model.Snapshot, updates int) int {
	if prev == nil {
		return updates
	}
	return len(prev.Indicators) + updates
}

// Get returns the current snapshot for (symbol, timeframe).
func (s *Store) Get(symbol, timeframe string) (*model.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snaps[symbol][timeframe]
	return snap, ok
}

// ForSymbol returns the symbol's snapshots keyed by timeframe. The returned
// map is a private copy; the snapshots themselves are shared immutable
// values.
func (s *Store) ForSymbol(symbol string) map[string]*model.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byTF := s.snaps[symbol]
	out := make(map[string]*model.Snapshot, len(byTF))
	for tf, snap := range byTF {
		out[tf] = snap
	}
	return out
}

// Symbols returns every symbol with at least one stored snapshot.
func (s *Store) Symbols() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.snaps))
	for sym := range s.snaps {
		out = append(out, sym)
	}
	return out
}

// KeyCount returns the number of (symbol, timeframe) keys currently held.
func (s *Store) KeyCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, byTF := range s.snaps {
		n += len(byTF)
	}
	return n
}
