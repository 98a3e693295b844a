// Package memo memoizes function results per key with a per-call expiration.
//
// GetOrCompute returns the stored result for a key while it is fresh and
// otherwise runs the supplied function, stores its result for the given ttl
// and returns it. An entry is fresh only while the current time is strictly
// before its expiration instant. Failed computations are returned to the
// caller unchanged and never stored.
//
//	c := memo.New[string, int]()
//	n, err := c.GetOrCompute("key1", func(k string) (int, error) {
//		return len(k), nil
//	}, 5*time.Second)
//
// Cache is not safe for concurrent use; NewSync wraps it with a mutex and
// per-key coalescing of in-flight computations.
//
// Entries live in a Store. The default map store keeps everything in a Go
// map; NewMemoryStore (go-cache) and NewOtterStore (otter) are synchronized
// alternatives and NewNullStore disables memoization. No store bounds its
// size or sweeps stale entries: a stale entry is only replaced when its key
// is requested again.
package memo
