// levelsd is the levels engine daemon: it consumes the upstream indicator
// feed, maintains merged per-(symbol, timeframe) snapshots, and serves the
// read-side REST API.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"levelboard/internal/config"
	"levelboard/internal/engine"
	"levelboard/internal/gateway"
	"levelboard/internal/ingest"
	"levelboard/internal/logger"
	"levelboard/internal/metrics"
	"levelboard/internal/symbols"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Init("levelsd", "info", "text").WithError(err).Fatal("config load failed")
	}
	if err := cfg.Validate(); err != nil {
		logger.Init("levelsd", "info", "text").WithError(err).Fatal("config invalid")
	}

	log := logger.Init("levelsd", cfg.Logging.Level, cfg.Logging.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info("shutdown signal received")
		cancel()
	}()

	prom := metrics.NewMetrics()
	health := metrics.NewHealthStatus()

	// Optional Redis fan-out.
	var pub engine.Publisher
	var redisPub *gateway.RedisPublisher
	if cfg.Redis.Enabled {
		redisPub, err = gateway.NewRedisPublisher(ctx, cfg.Redis.Addr, cfg.Redis.DB,
			logger.Component(log, "publisher"), prom.RedisPubDur)
		if err != nil {
			log.WithError(err).Fatal("redis connect failed")
		}
		defer redisPub.Close()
		pub = redisPub
		health.StartLivenessChecker(ctx, redisPub.Client(), 15*time.Second)
	}

	svc := engine.New(logger.Component(log, "engine"), prom, health, pub)

	// Watchlist refresh drives the feed subscription set.
	sym := symbols.New(cfg.Symbols.BaseURL, cfg.Symbols.Timeout, logger.Component(log, "symbols"))
	sym.OnFetch = func(ok bool) {
		health.SetSymbolsOK(ok)
		if ok {
			prom.SymbolsFetches.WithLabelValues("ok").Inc()
		} else {
			prom.SymbolsFetches.WithLabelValues("error").Inc()
		}
	}
	go sym.Refresh(ctx, cfg.Symbols.RefreshInterval)

	// Feed ingest.
	auth := &ingest.Authenticator{
		LoginURL:   cfg.Ingest.LoginURL,
		ClientCode: cfg.Ingest.ClientCode,
		Password:   cfg.Ingest.Password,
		TOTPSecret: cfg.Ingest.TOTPSecret,
	}
	feed := ingest.New(ingest.Config{
		WSURL:          cfg.Ingest.WSURL,
		DialTimeout:    cfg.Ingest.DialTimeout,
		MinBackoff:     cfg.Ingest.MinBackoff,
		MaxBackoff:     cfg.Ingest.MaxBackoff,
		ReconnectRate:  cfg.Ingest.ReconnectRate,
		ReconnectBurst: cfg.Ingest.ReconnectBurst,
	}, auth, sym.Names, logger.Component(log, "ingest"))
	feed.OnReconnect = prom.WSReconnects.Inc
	feed.OnConnected = health.SetWSConnected
	feed.OnTick = prom.TicksTotal.Inc
	feed.OnDropped = prom.TicksDropped.Inc
	go feed.Run(ctx, svc.TickCh())

	// Metrics + health endpoint.
	metricsSrv := metrics.NewServer(cfg.Metrics.ListenAddr, health, logger.Component(log, "metrics"))
	metricsSrv.Start()

	// REST API.
	router := gateway.NewRouter(gateway.RouterConfig{
		Engine:  svc,
		Symbols: sym,
		Healthz: health,
		Mode:    cfg.Gateway.Mode,
	})
	apiSrv := &http.Server{Addr: cfg.Gateway.ListenAddr, Handler: router}
	go func() {
		log.WithField("addr", cfg.Gateway.ListenAddr).Info("api listening")
		if err := apiSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("api server error")
			cancel()
		}
	}()

	svc.Run(ctx)

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutCancel()
	apiSrv.Shutdown(shutCtx)
	metricsSrv.Stop(shutCtx)
	log.Info("shutdown complete")
}
