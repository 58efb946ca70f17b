package config

import "time"

// SnapshotCacheConfig defines settings for the Redis-backed lounge
// snapshot cache.  The cache holds the latest broadcast snapshot per
// event so the polling fallback endpoint can be served without touching
// the in-process registry, and so a freshly restarted instance can serve
// reads before the hub warms up.  When Enabled is false or no Redis
// client is configured, caching is disabled and reads always hit the
// registry.
type SnapshotCacheConfig struct {
	Enabled bool
	TTL     time.Duration
	Prefix  string
}

// LoadSnapshotCacheConfig reads environment variables to build a
// SnapshotCacheConfig.  The TTL default comfortably outlives the
// ten-second polling cadence.
func LoadSnapshotCacheConfig() SnapshotCacheConfig {
	return SnapshotCacheConfig{
		Enabled: envBool("SNAPSHOT_CACHE_ENABLED", true),
		TTL:     envDur("SNAPSHOT_CACHE_TTL", time.Minute),
		Prefix:  envStr("SNAPSHOT_CACHE_PREFIX", "lounge"),
	}
}
