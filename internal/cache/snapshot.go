// Package cache provides the Redis-backed snapshot cache.  It observes
// every accepted lounge mutation (wired as a hub sink) and keeps the last
// known snapshot per event so that polling reads survive an instance
// restart and can be served without the registry.  Like the rest of the
// Redis plumbing, a nil client disables the cache rather than failing.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/evlive/lounge/internal/config"
	"github.com/evlive/lounge/internal/lounge"
)

// SnapshotCache stores the latest lounge snapshot per event in Redis.
type SnapshotCache struct {
	rdb *redis.Client
	cfg config.SnapshotCacheConfig
	log *logrus.Entry
}

// NewSnapshotCache returns a cache over the client.  A nil client or a
// disabled config yields a cache whose operations are no-ops.
func NewSnapshotCache(rdb *redis.Client, cfg config.SnapshotCacheConfig, log *logrus.Entry) *SnapshotCache {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &SnapshotCache{rdb: rdb, cfg: cfg, log: log}
}

func (c *SnapshotCache) enabled() bool {
	return c != nil && c.rdb != nil && c.cfg.Enabled
}

func (c *SnapshotCache) key(eventID uint64) string {
	return fmt.Sprintf("%s:snapshot:%d", c.cfg.Prefix, eventID)
}

// Store writes the snapshot with the configured TTL.  Failures are logged
// and swallowed; the cache is an optimisation, never a source of truth.
func (c *SnapshotCache) Store(ctx context.Context, snap lounge.Snapshot) {
	if !c.enabled() {
		return
	}
	body, err := json.Marshal(snap)
	if err != nil {
		c.log.WithError(err).Warn("snapshot marshal failed")
		return
	}
	if err := c.rdb.Set(ctx, c.key(snap.EventID), body, c.cfg.TTL).Err(); err != nil {
		c.log.WithError(err).Warn("snapshot cache store failed")
	}
}

// Load returns the cached snapshot for the event, reporting whether one
// was found.  Errors count as a miss.
func (c *SnapshotCache) Load(ctx context.Context, eventID uint64) (lounge.Snapshot, bool) {
	if !c.enabled() {
		return lounge.Snapshot{}, false
	}
	body, err := c.rdb.Get(ctx, c.key(eventID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.WithError(err).Warn("snapshot cache load failed")
		}
		return lounge.Snapshot{}, false
	}
	var snap lounge.Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		c.log.WithError(err).Warn("snapshot cache decode failed")
		return lounge.Snapshot{}, false
	}
	return snap, true
}

// Sink adapts the cache to the hub's snapshot sink signature.  The write
// runs on its own goroutine with a short timeout so broadcasts never wait
// on Redis.
func (c *SnapshotCache) Sink() func(lounge.Snapshot) {
	return func(snap lounge.Snapshot) {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			c.Store(ctx, snap)
		}()
	}
}
