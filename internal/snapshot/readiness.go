package snapshot

import (
	"sort"

	"levelboard/internal/model"
	"levelboard/internal/validity"
)

// ReadyTimeframes returns the symbol's timeframes that currently hold at
// least one valid (non-sentinel) indicator value, sorted by the fixed
// timeframe order. Unknown timeframe identifiers stay in storage but are
// never returned here.
//
// The list is recomputed in full on every call; readiness reflects current
// sentinel state, so it cannot be patched incrementally.
func (s *Store) ReadyTimeframes(symbol string) []string {
	s.mu.RLock()
	byTF := s.snaps[symbol]
	ready := make([]string, 0, len(byTF))
	for tf, snap := range byTF {
		if !model.KnownTimeframe(tf) {
			continue
		}
		if snapshotReady(snap) {
			ready = append(ready, tf)
		}
	}
	s.mu.RUnlock()

	sort.Slice(ready, func(i, j int) bool {
		return model.TimeframeRank(ready[i]) < model.TimeframeRank(ready[j])
	})
	return ready
}

func snapshotReady(snap *model.Snapshot) bool {
	for _, v := range snap.Indicators {
		if validity.Valid(v) {
			return true
		}
	}
	return false
}
