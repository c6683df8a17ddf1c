package redis

import "time"

// Config holds Redis transcript settings
type Config struct {
	// URL is the Redis connection URL (redis://...)
	URL string
	// Key is the list key transcript entries are appended to
	Key string
	// MaxEntries caps the list length; older entries are trimmed
	MaxEntries int
	// TTL is refreshed on every record; zero disables expiry
	TTL time.Duration
	// Connection pool settings
	PoolSize     int
	MinIdleConns int
}

// DefaultConfig returns sensible defaults for the transcript store
func DefaultConfig() Config {
	return Config{
		Key:          "skyduel:transcript",
		MaxEntries:   10000,
		TTL:          7 * 24 * time.Hour,
		PoolSize:     10,
		MinIdleConns: 2,
	}
}
