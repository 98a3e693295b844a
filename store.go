package memo

// Store maps keys to memoized entries.
//
// A store holds at most one entry per key and Save replaces any prior entry
// wholesale. Stores never decide expiration; Cache does that from
// Entry.ExpiresAt so every driver shares one boundary rule.
type Store[K comparable, V any] interface {
	Driver() Driver
	Load(key K) (Entry[V], bool)
	Save(key K, entry Entry[V])
}
