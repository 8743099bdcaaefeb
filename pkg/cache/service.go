package cache

import "time"

// CacheService is the in-process cache used for cart sessions, catalog and promotion
// lookups and memoized totals.
type CacheService interface {
	// Get returns the value and true when present and not expired.
	Get(key string) (interface{}, bool)

	// Set stores value for the given duration. A zero duration uses the default expiry.
	Set(key string, value interface{}, duration time.Duration)

	Delete(key string)

	// Flush removes all items
	Flush()

	// ItemCount reports how many items are held, expired ones included until cleanup.
	ItemCount() int
}
