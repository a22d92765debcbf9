// Package symbols keeps the traded-symbol watchlist in sync with the
// symbolsd service. Any fetch failure clears the lists: a stale watchlist is
// worse than an empty one.
package symbols

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"levelboard/internal/model"
)

// Client fetches and caches the buy/sell symbol lists.
type Client struct {
	baseURL string
	http    *http.Client
	log     *logrus.Entry

	mu   sync.RWMutex
	buy  []model.SymbolEntry
	sell []model.SymbolEntry

	// Hooks for metrics and health reporting.
	OnFetch func(ok bool)
}

// New creates a symbols client against baseURL (no trailing slash needed).
func New(baseURL string, timeout time.Duration, log *logrus.Entry) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// Fetch retrieves the watchlist once and replaces the cached lists. On any
// failure both lists are reset to empty and the error is returned.
func (c *Client) Fetch(ctx context.Context) error {
	err := c.fetch(ctx)
	if err != nil {
		c.set(nil, nil)
		c.log.WithError(err).Warn("watchlist fetch failed, lists cleared")
	}
	if c.OnFetch != nil {
		c.OnFetch(err == nil)
	}
	return err
}

func (c *Client) fetch(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/symbols", nil)
	if err != nil {
		return fmt.Errorf("symbols: build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("symbols: fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("symbols: fetch status %d", resp.StatusCode)
	}

	var list model.SymbolListResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return fmt.Errorf("symbols: decode response: %w", err)
	}
	if !list.Success {
		return fmt.Errorf("symbols: upstream reported failure")
	}

	buy, sell := model.PartitionBySide(list.Symbols)
	c.set(buy, sell)
	return nil
}

func (c *Client) set(buy, sell []model.SymbolEntry) {
	if buy == nil {
		buy = []model.SymbolEntry{}
	}
	if sell == nil {
		sell = []model.SymbolEntry{}
	}
	c.mu.Lock()
	c.buy, c.sell = buy, sell
	c.mu.Unlock()
}

// Buy returns the cached long-side entries.
func (c *Client) Buy() []model.SymbolEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]model.SymbolEntry(nil), c.buy...)
}

// Sell returns the cached short-side entries.
func (c *Client) Sell() []model.SymbolEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]model.SymbolEntry(nil), c.sell...)
}

// Names returns every cached symbol name, buy side first. The ingest client
// uses this as its subscription set.
func (c *Client) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.buy)+len(c.sell))
	for _, e := range c.buy {
		names = append(names, e.Symbol)
	}
	for _, e := range c.sell {
		names = append(names, e.Symbol)
	}
	return names
}

// Refresh fetches immediately and then on every interval tick until ctx is
// cancelled.
func (c *Client) Refresh(ctx context.Context, interval time.Duration) {
	c.Fetch(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Fetch(ctx)
		}
	}
}
