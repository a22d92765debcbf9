// feedsim is a demo indicator feed for running levelsd without the real
// upstream. It accepts "select-symbol" subscriptions and streams simulated
// ticks in the production JSON shape: a random-walk market price plus a few
// indicator payloads per (symbol, timeframe).
//
// Config (env vars):
//
//	FEEDSIM_ADDR         — listen address (default ":8765")
//	FEEDSIM_INTERVAL_MS  — tick interval milliseconds (default "500")
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"levelboard/internal/model"
)

// client is one connected consumer with its subscribed symbol set.
type client struct {
	mu      sync.RWMutex
	out     chan []byte
	symbols map[string]bool
}

func (c *client) subscribe(symbol string) {
	c.mu.Lock()
	c.symbols[symbol] = true
	c.mu.Unlock()
}

func (c *client) wants(symbol string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.symbols[symbol]
}

type hub struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]*client
}

func newHub() *hub {
	return &hub{clients: make(map[*websocket.Conn]*client)}
}

func (h *hub) register(conn *websocket.Conn) *client {
	c := &client{out: make(chan []byte, 256), symbols: make(map[string]bool)}
	h.mu.Lock()
	h.clients[conn] = c
	h.mu.Unlock()
	return c
}

func (h *hub) unregister(conn *websocket.Conn) {
	h.mu.Lock()
	if c, ok := h.clients[conn]; ok {
		close(c.out)
		delete(h.clients, conn)
	}
	h.mu.Unlock()
}

func (h *hub) broadcast(symbol string, msg []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		if !c.wants(symbol) {
			continue
		}
		select {
		case c.out <- msg:
		default: // slow client, drop tick
		}
	}
}

// subscribedSymbols returns the union of all clients' subscriptions.
func (h *hub) subscribedSymbols() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	seen := make(map[string]bool)
	var out []string
	for _, c := range h.clients {
		c.mu.RLock()
		for s := range c.symbols {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
		c.mu.RUnlock()
	}
	return out
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(_ *http.Request) bool { return true },
}

func wsHandler(h *hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("[feedsim] upgrade error: %v", err)
			return
		}
		log.Printf("[feedsim] client connected: %s", r.RemoteAddr)

		c := h.register(conn)
		defer func() {
			h.unregister(conn)
			conn.Close()
			log.Printf("[feedsim] client disconnected: %s", r.RemoteAddr)
		}()

		// Read pump: consume subscription messages.
		go func() {
			for {
				var msg struct {
					Type   string `json:"type"`
					Symbol string `json:"symbol"`
				}
				if err := conn.ReadJSON(&msg); err != nil {
					conn.Close()
					return
				}
				if msg.Type == "select-symbol" && msg.Symbol != "" {
					c.subscribe(msg.Symbol)
					log.Printf("[feedsim] %s subscribed to %s", r.RemoteAddr, msg.Symbol)
				}
			}
		}()

		// Write pump.
		for msg := range c.out {
			conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		}
	}
}

// walkPrice applies a tiny random walk (±0.1%) to simulate price movement.
func walkPrice(price float64) float64 {
	pct := (rand.Float64()*0.2 - 0.1) / 100.0
	next := price * (1 + pct)
	if next < 1 {
		next = 1
	}
	return next
}

// makeTick builds one simulated tick for a (symbol, timeframe) around price.
func makeTick(symbol, tf string, price float64) model.Tick {
	return model.Tick{
		Symbol:      symbol,
		Timeframe:   tf,
		MarketPrice: price,
		Volume:      float64(rand.Intn(10000) + 100),
		Indicators: map[string]any{
			"RSI": map[string]any{
				"RSI":         30 + rand.Float64()*40,
				"RSIbased_MA": 30 + rand.Float64()*40,
			},
			"EMA50":  map[string]any{"EMA": price * (1 - rand.Float64()*0.02)},
			"EMA200": map[string]any{"EMA": price * (1 - rand.Float64()*0.05)},
			"Pivot Points High Low": map[string]any{
				"processedPivotPoints": []any{
					map[string]any{"value": price * 1.03, "count": 3, "difference": "3.0%"},
					map[string]any{"value": price * 1.01, "count": 2, "difference": "1.0%"},
					map[string]any{"value": price * 0.99, "count": 2, "difference": "-1.0%"},
					map[string]any{"value": price * 0.97, "count": 4, "difference": "-3.0%"},
				},
			},
			"Pivot Points Standard": map[string]any{
				"labels": []any{
					map[string]any{"text": fmt.Sprintf("R1 (%.2f)", price*1.02)},
					map[string]any{"text": fmt.Sprintf("P (%.2f)", price)},
					map[string]any{"text": fmt.Sprintf("S1 (%.2f)", price*0.98)},
				},
			},
		},
	}
}

func runGenerator(h *hub, intervalMs int) {
	ticker := time.NewTicker(time.Duration(intervalMs) * time.Millisecond)
	defer ticker.Stop()

	prices := make(map[string]float64)
	for range ticker.C {
		for _, symbol := range h.subscribedSymbols() {
			price, ok := prices[symbol]
			if !ok {
				price = 100 + rand.Float64()*1000
			}
			price = walkPrice(price)
			prices[symbol] = price

			tf := model.TimeframeOrder[rand.Intn(len(model.TimeframeOrder))]
			b, err := json.Marshal(makeTick(symbol, tf, price))
			if err != nil {
				continue
			}
			h.broadcast(symbol, b)
		}
	}
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	log.Println("[feedsim] starting demo indicator feed...")

	addr := envOrDefault("FEEDSIM_ADDR", ":8765")
	intervalMs := envIntOrDefault("FEEDSIM_INTERVAL_MS", 500)

	h := newHub()
	go runGenerator(h, intervalMs)

	http.HandleFunc("/stream", wsHandler(h))
	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintln(w, `{"status":"ok","service":"feedsim"}`)
	})

	log.Printf("[feedsim] listening on %s (WebSocket: ws://localhost%s/stream)", addr, addr)
	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Fatalf("[feedsim] server error: %v", err)
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOrDefault(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
