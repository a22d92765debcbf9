// symbolsd serves the traded-symbol watchlist that levelsd subscribes and
// filters by.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"levelboard/internal/config"
	"levelboard/internal/logger"
	"levelboard/internal/watchlist"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	listenAddr := flag.String("listen", ":3001", "listen address")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Init("symbolsd", "info", "text").WithError(err).Fatal("config load failed")
	}

	log := logger.Init("symbolsd", cfg.Logging.Level, cfg.Logging.Format)

	os.MkdirAll(filepath.Dir(cfg.Watchlist.DBPath), 0o755)
	store, err := watchlist.Open(cfg.Watchlist.DBPath)
	if err != nil {
		log.WithError(err).Fatal("watchlist open failed")
	}
	defer store.Close()

	router := watchlist.NewRouter(store, logger.Component(log, "watchlist"), cfg.Gateway.Mode)
	srv := &http.Server{Addr: *listenAddr, Handler: router}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info("shutdown signal received")
		cancel()
	}()

	go func() {
		log.WithField("addr", *listenAddr).Info("symbolsd listening")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("server error")
			cancel()
		}
	}()

	<-ctx.Done()
	shutCtx, shutCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutCancel()
	srv.Shutdown(shutCtx)
	log.Info("shutdown complete")
}
