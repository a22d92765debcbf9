// Package ingest maintains the upstream tick feed connection: it dials the
// feed WebSocket, subscribes the configured symbols, and pushes decoded
// ticks into the engine's channel, reconnecting for as long as the context
// lives.
package ingest

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"levelboard/internal/model"
)

// Config holds the ingest connection settings.
type Config struct {
	WSURL       string
	DialTimeout time.Duration
	MinBackoff  time.Duration
	MaxBackoff  time.Duration

	// Reconnect attempts are additionally throttled by a token bucket so a
	// flapping upstream cannot turn the backoff loop into a dial storm.
	ReconnectRate  float64
	ReconnectBurst int
}

// Client is the reconnecting feed consumer.
type Client struct {
	cfg     Config
	auth    *Authenticator
	symbols func() []string
	log     *logrus.Entry
	limiter *rate.Limiter

	// Hooks for metrics and health reporting.
	OnReconnect func()
	OnConnected func(bool)
	OnTick      func()
	OnDropped   func()
}

// New creates a feed client. symbols is consulted on every (re)connect so
// the subscription set follows the live watchlist.
func New(cfg Config, auth *Authenticator, symbols func() []string, log *logrus.Entry) *Client {
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 10 * time.Second
	}
	if cfg.MinBackoff <= 0 {
		cfg.MinBackoff = time.Second
	}
	if cfg.MaxBackoff < cfg.MinBackoff {
		cfg.MaxBackoff = 30 * time.Second
	}
	if cfg.ReconnectRate <= 0 {
		cfg.ReconnectRate = 0.5
	}
	if cfg.ReconnectBurst <= 0 {
		cfg.ReconnectBurst = 3
	}
	return &Client{
		cfg:     cfg,
		auth:    auth,
		symbols: symbols,
		log:     log,
		limiter: rate.NewLimiter(rate.Limit(cfg.ReconnectRate), cfg.ReconnectBurst),
	}
}

// subscribeMsg asks the feed to start streaming one symbol.
type subscribeMsg struct {
	Type      string `json:"type"`
	Symbol    string `json:"symbol"`
	SessionID string `json:"sessionId"`
}

// Run connects and streams ticks into tickCh until ctx is cancelled. A full
// channel drops the tick rather than stalling the read loop.
func (c *Client) Run(ctx context.Context, tickCh chan<- model.Tick) error {
	backoff := c.cfg.MinBackoff
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return ctx.Err()
		}

		start := time.Now()
		err := c.connectOnce(ctx, tickCh)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		// A session that held for a while earns a fresh backoff window.
		if time.Since(start) > c.cfg.MaxBackoff {
			backoff = c.cfg.MinBackoff
		}

		c.fireConnected(false)
		if c.OnReconnect != nil {
			c.OnReconnect()
		}
		c.log.WithError(err).WithField("backoff", backoff).Warn("feed connection lost, reconnecting")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > c.cfg.MaxBackoff {
			backoff = c.cfg.MaxBackoff
		}
	}
}

// connectOnce runs a single connection lifecycle: authenticate, dial,
// subscribe, then read until the connection or context dies.
func (c *Client) connectOnce(ctx context.Context, tickCh chan<- model.Tick) error {
	token, err := c.auth.Token(ctx)
	if err != nil {
		return err
	}

	dialer := websocket.Dialer{HandshakeTimeout: c.cfg.DialTimeout}
	header := make(map[string][]string)
	if token != "" {
		header["Authorization"] = []string{"Bearer " + token}
	}

	conn, _, err := dialer.DialContext(ctx, c.cfg.WSURL, header)
	if err != nil {
		return err
	}
	defer conn.Close()

	sessionID := uuid.NewString()
	syms := c.symbols()
	for _, s := range syms {
		msg := subscribeMsg{Type: "select-symbol", Symbol: s, SessionID: sessionID}
		if err := conn.WriteJSON(msg); err != nil {
			return err
		}
	}
	c.log.WithFields(logrus.Fields{"session": sessionID, "symbols": len(syms)}).Info("feed connected, subscriptions sent")
	c.fireConnected(true)

	// Unblock the read loop on cancellation.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		tick, err := ParseTick(raw)
		if err != nil {
			c.log.WithError(err).Debug("dropping malformed tick")
			if c.OnDropped != nil {
				c.OnDropped()
			}
			continue
		}
		if c.OnTick != nil {
			c.OnTick()
		}
		select {
		case tickCh <- tick:
		default:
			c.log.Warn("tick channel full, dropping tick")
			if c.OnDropped != nil {
				c.OnDropped()
			}
		}
	}
}

func (c *Client) fireConnected(up bool) {
	if c.OnConnected != nil {
		c.OnConnected(up)
	}
}
