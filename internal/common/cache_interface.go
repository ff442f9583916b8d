package common

import "time"

// CacheInterface is the key/value store behind the palette cache.
// Implementations are safe for concurrent use.
type CacheInterface interface {
	// Set stores value under key for duration. Zero duration uses the
	// backend default.
	Set(key string, value interface{}, duration time.Duration)

	// Get returns the stored value and true, or nil and false on a miss.
	// Remote backends return the stored JSON as json.RawMessage.
	Get(key string) (interface{}, bool)

	Delete(key string)

	// Backend names the implementation for health output.
	Backend() string

	// Ping reports whether the backend is reachable.
	Ping() error

	Close() error
}
