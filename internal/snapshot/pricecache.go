package snapshot

import (
	"sync"

	"levelboard/internal/model"
)

// PriceCache holds the per-symbol latest trade price and volume. Price ticks
// arrive independently of indicator updates and are frequently partial: a
// missing (zero) field keeps the previously cached value rather than
// resetting it.
type PriceCache struct {
	mu     sync.RWMutex
	prices map[string]model.MarketPrice
}

// NewPriceCache creates an empty PriceCache.
func NewPriceCache() *PriceCache {
	return &PriceCache{prices: make(map[string]model.MarketPrice, 16)}
}

// Update replaces the fields of the symbol's entry that are present
// (non-zero) in this update. A first update initializes absent fields to 0.
func (c *PriceCache) Update(symbol string, marketPrice, volume float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry := c.prices[symbol]
	if marketPrice != 0 {
		entry.MarketPrice = marketPrice
	}
	if volume != 0 {
		entry.Volume = volume
	}
	c.prices[symbol] = entry
}

// Get returns the cached entry for symbol, or the {0, 0} default.
func (c *PriceCache) Get(symbol string) model.MarketPrice {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.prices[symbol]
}
