// Package engine is the top-level orchestrator for the levels engine: it
// owns the snapshot store, consumes the tick channel in arrival order, and
// exposes the read-side queries the gateway serves.
package engine

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"levelboard/internal/metrics"
	"levelboard/internal/model"
	"levelboard/internal/snapshot"
)

// Publisher fans out applied state to downstream consumers. Publish failures
// are logged by the engine, never fatal.
type Publisher interface {
	PublishSnapshot(ctx context.Context, snap *model.Snapshot) error
	PublishPrice(ctx context.Context, symbol string, price model.MarketPrice) error
}

// Service wires the store, the tick channel, and the observability hooks.
type Service struct {
	store  *snapshot.Store
	tickCh chan model.Tick

	prom   *metrics.Metrics
	health *metrics.HealthStatus
	pub    Publisher
	log    *logrus.Entry
}

// New creates a Service. pub may be nil when no fan-out is configured;
// prom and health may be nil in tests.
func New(log *logrus.Entry, prom *metrics.Metrics, health *metrics.HealthStatus, pub Publisher) *Service {
	return &Service{
		store:  snapshot.NewStore(),
		tickCh: make(chan model.Tick, 5000),
		prom:   prom,
		health: health,
		pub:    pub,
		log:    log,
	}
}

// TickCh is the inbound channel the ingest client feeds.
func (svc *Service) TickCh() chan<- model.Tick { return svc.tickCh }

// Run consumes ticks until ctx is cancelled. Ticks are applied strictly in
// arrival order by this single goroutine; readers work off the immutable
// snapshots the store publishes, so no reader ever observes a partial merge.
func (svc *Service) Run(ctx context.Context) error {
	svc.log.Info("levels engine running")
	for {
		select {
		case <-ctx.Done():
			svc.log.Info("levels engine stopped")
			return ctx.Err()
		case tick := <-svc.tickCh:
			svc.processTick(ctx, tick)
		}
	}
}

func (svc *Service) processTick(ctx context.Context, tick model.Tick) {
	snap := svc.store.Apply(tick)
	if snap == nil {
		if svc.prom != nil {
			svc.prom.TicksDropped.Inc()
		}
		return
	}

	if svc.prom != nil {
		svc.prom.TicksMerged.Inc()
		svc.prom.SnapshotKeys.Set(float64(svc.store.KeyCount()))
	}
	if svc.health != nil {
		svc.health.SetLastTickTime(time.Now())
	}

	if svc.pub == nil {
		return
	}
	if err := svc.pub.PublishSnapshot(ctx, snap); err != nil {
		svc.log.WithError(err).Warn("snapshot publish failed")
	}
	if tick.MarketPrice != 0 || tick.Volume != 0 {
		if err := svc.pub.PublishPrice(ctx, tick.Symbol, svc.store.Prices().Get(tick.Symbol)); err != nil {
			svc.log.WithError(err).Warn("price publish failed")
		}
	}
}

// Store exposes the snapshot store for tests.
func (svc *Service) Store() *snapshot.Store { return svc.store }
