package gateway

import (
	"context"
	"encoding/json"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"levelboard/internal/model"
)

// RedisPublisher fans applied snapshots and prices out over Redis PubSub.
// Downstream dashboards subscribe to pub:ind:<symbol>:<tf> and
// pub:price:<symbol>.
type RedisPublisher struct {
	rdb *goredis.Client
	log *logrus.Entry
	dur prometheus.Histogram
}

// NewRedisPublisher connects to Redis and verifies the connection.
func NewRedisPublisher(ctx context.Context, addr string, db int, log *logrus.Entry, dur prometheus.Histogram) (*RedisPublisher, error) {
	rdb := goredis.NewClient(&goredis.Options{Addr: addr, DB: db})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, err
	}
	return &RedisPublisher{rdb: rdb, log: log, dur: dur}, nil
}

// Client exposes the underlying connection for health probes.
func (p *RedisPublisher) Client() *goredis.Client { return p.rdb }

// Close releases the Redis connection.
func (p *RedisPublisher) Close() error { return p.rdb.Close() }

// PublishSnapshot publishes the merged snapshot to its indicator channel.
func (p *RedisPublisher) PublishSnapshot(ctx context.Context, snap *model.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return p.publish(ctx, "pub:ind:"+snap.Symbol+":"+snap.Timeframe, payload)
}

// PublishPrice publishes the symbol's latest price and volume.
func (p *RedisPublisher) PublishPrice(ctx context.Context, symbol string, price model.MarketPrice) error {
	payload, err := json.Marshal(price)
	if err != nil {
		return err
	}
	return p.publish(ctx, "pub:price:"+symbol, payload)
}

func (p *RedisPublisher) publish(ctx context.Context, channel string, payload []byte) error {
	start := time.Now()
	err := p.rdb.Publish(ctx, channel, payload).Err()
	if p.dur != nil {
		p.dur.Observe(time.Since(start).Seconds())
	}
	return err
}
