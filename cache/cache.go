// Package cache provides response cache implementations for a
// translation session.
package cache

// TranslationCache is the interface for session response caching.
type TranslationCache interface {
	// Get retrieves a cached translation. Returns empty string and false if not found or expired.
	Get(key string) (string, bool)

	// Set stores a translation in the cache.
	Set(key string, value string) error
}
