// Package constants defines default configuration values and backend names
// for sigma. It provides standard settings for the result cache, the HTTP
// server and the stats collector.
package constants

import "time"

const (
	// DefaultCacheTTL is how long a cached result is kept by backends that expire entries.
	DefaultCacheTTL = 10 * time.Minute
	// DefaultCacheCapacity bounds the number of results held by the in-memory backend.
	DefaultCacheCapacity = 1024
	// DefaultStatsCollector is the name of the default stats collector.
	DefaultStatsCollector = "default"
	// DefaultHTTPAddr is the address the HTTP server listens on when none is configured.
	DefaultHTTPAddr = "127.0.0.1:8080"
	// DefaultTimeout bounds the work done for a single HTTP request or a graceful stop.
	DefaultTimeout = 5 * time.Second
	// NoBackend disables the result cache.
	NoBackend = "none"
	// InMemoryBackend is the in-memory backend type.
	// Results are kept in an LRU list in application memory.
	InMemoryBackend = "in-memory"
	// RedisBackend is the name of the Redis backend.
	// Results are serialized and stored in a Redis database with a TTL.
	RedisBackend = "redis"
)
