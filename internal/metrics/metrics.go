package metrics

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Metrics holds all Prometheus metrics for the levels engine.
type Metrics struct {
	TicksTotal   prometheus.Counter
	TicksDropped prometheus.Counter
	TicksMerged  prometheus.Counter
	WSReconnects prometheus.Counter

	SnapshotKeys prometheus.Gauge

	DerivationDur  *prometheus.HistogramVec // labels: indicator
	RedisPubDur    prometheus.Histogram
	SymbolsFetches *prometheus.CounterVec // labels: result=ok|error
}

// NewMetrics registers and returns all Prometheus metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		TicksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "levelsd_ticks_total",
			Help: "Total ticks received from the upstream WebSocket",
		}),
		TicksDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "levelsd_ticks_dropped_total",
			Help: "Ticks dropped for missing symbol or timeframe",
		}),
		TicksMerged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "levelsd_ticks_merged_total",
			Help: "Ticks merged into a snapshot",
		}),
		WSReconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "levelsd_ws_reconnects_total",
			Help: "Total WebSocket reconnection attempts",
		}),
		SnapshotKeys: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "levelsd_snapshot_keys",
			Help: "Distinct (symbol, timeframe) snapshots currently held",
		}),
		DerivationDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "levelsd_derivation_duration_seconds",
			Help:    "Level derivation latency per indicator",
			Buckets: []float64{0.000001, 0.000005, 0.00001, 0.00005, 0.0001, 0.0005, 0.001},
		}, []string{"indicator"}),
		RedisPubDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "levelsd_redis_publish_duration_seconds",
			Help:    "Redis publish latency",
			Buckets: prometheus.DefBuckets,
		}),
		SymbolsFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "levelsd_symbols_fetches_total",
			Help: "Watchlist fetch attempts by result",
		}, []string{"result"}),
	}

	prometheus.MustRegister(
		m.TicksTotal,
		m.TicksDropped,
		m.TicksMerged,
		m.WSReconnects,
		m.SnapshotKeys,
		m.DerivationDur,
		m.RedisPubDur,
		m.SymbolsFetches,
	)

	return m
}

// HealthStatus represents the service health.
type HealthStatus struct {
	mu sync.RWMutex

	WSConnected    bool      `json:"ws_connected"`
	LastTickTime   time.Time `json:"last_tick_time"`
	RedisConnected bool      `json:"redis_connected"`
	SymbolsOK      bool      `json:"symbols_ok"`

	RedisLatencyMs float64   `json:"redis_latency_ms"`
	LastCheckAt    time.Time `json:"last_check_at"`
	StartedAt      time.Time `json:"started_at"`
}

// NewHealthStatus returns a default health status.
func NewHealthStatus() *HealthStatus {
	return &HealthStatus{StartedAt: time.Now()}
}

func (h *HealthStatus) SetWSConnected(v bool) {
	h.mu.Lock()
	h.WSConnected = v
	h.mu.Unlock()
}

func (h *HealthStatus) SetLastTickTime(t time.Time) {
	h.mu.Lock()
	h.LastTickTime = t
	h.mu.Unlock()
}

func (h *HealthStatus) SetSymbolsOK(v bool) {
	h.mu.Lock()
	h.SymbolsOK = v
	h.mu.Unlock()
}

// CheckRedis pings Redis and records latency + connectivity.
func (h *HealthStatus) CheckRedis(ctx context.Context, rdb *goredis.Client) {
	start := time.Now()
	err := rdb.Ping(ctx).Err()
	latency := time.Since(start)

	h.mu.Lock()
	h.RedisConnected = err == nil
	h.RedisLatencyMs = float64(latency.Microseconds()) / 1000.0
	h.LastCheckAt = time.Now()
	h.mu.Unlock()
}

// StartLivenessChecker runs periodic dependency checks.
func (h *HealthStatus) StartLivenessChecker(ctx context.Context, rdb *goredis.Client, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if rdb == nil {
					continue
				}
				probeCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
				h.CheckRedis(probeCtx, rdb)
				cancel()
			}
		}
	}()
}

// ServeHTTP handles the /healthz endpoint.
func (h *HealthStatus) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	overallStatus := "healthy"
	httpCode := http.StatusOK
	if !h.WSConnected || !h.SymbolsOK {
		overallStatus = "degraded"
		httpCode = http.StatusServiceUnavailable
	}

	tickAge := ""
	if !h.LastTickTime.IsZero() {
		tickAge = time.Since(h.LastTickTime).Round(time.Millisecond).String()
	}

	status := struct {
		Status         string  `json:"status"`
		Uptime         string  `json:"uptime"`
		WSConnected    bool    `json:"ws_connected"`
		LastTickTime   string  `json:"last_tick_time"`
		TickAge        string  `json:"tick_age"`
		RedisConnected bool    `json:"redis_connected"`
		RedisLatencyMs float64 `json:"redis_latency_ms"`
		SymbolsOK      bool    `json:"symbols_ok"`
		LastCheckAt    string  `json:"last_check_at"`
	}{
		Status:         overallStatus,
		Uptime:         time.Since(h.StartedAt).Round(time.Second).String(),
		WSConnected:    h.WSConnected,
		LastTickTime:   h.LastTickTime.Format(time.RFC3339),
		TickAge:        tickAge,
		RedisConnected: h.RedisConnected,
		RedisLatencyMs: h.RedisLatencyMs,
		SymbolsOK:      h.SymbolsOK,
		LastCheckAt:    h.LastCheckAt.Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	if httpCode != http.StatusOK {
		w.WriteHeader(httpCode)
	}
	json.NewEncoder(w).Encode(status)
}

// Server runs an HTTP server exposing /metrics and /healthz.
type Server struct {
	health *HealthStatus
	addr   string
	srv    *http.Server
	log    *logrus.Entry
}

// NewServer creates a metrics and health server.
func NewServer(addr string, health *HealthStatus, log *logrus.Entry) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", health.ServeHTTP)

	return &Server{
		health: health,
		addr:   addr,
		log:    log,
		srv: &http.Server{
			Addr:    addr,
			Handler: mux,
		},
	}
}

// Start launches the HTTP server in a goroutine.
func (s *Server) Start() {
	go func() {
		s.log.WithField("addr", s.addr).Info("metrics server listening")
		if err := s.srv.ListenAndServe(); err != http.ErrServerClosed {
			s.log.WithError(err).Error("metrics server error")
		}
	}()
}

// Stop gracefully shuts down the metrics server.
func (s *Server) Stop(ctx context.Context) {
	s.srv.Shutdown(ctx)
}
