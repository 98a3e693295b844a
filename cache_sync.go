package memo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// SyncCache is a Cache that is safe for concurrent use.
//
// Store access is serialized by a single mutex that is never held while a
// compute function runs. Concurrent misses for the same key are coalesced:
// at most one compute function per key runs at a time and every waiting
// caller receives its result or error.
type SyncCache[K comparable, V any] struct {
	cache   *Cache[K, V]
	mu      sync.Mutex
	group   singleflight.Group
	keyFunc func(K) string
}

// NewSync wraps cache for concurrent use. The wrapped cache must not be used
// directly afterwards.
// @group Concurrency
//
// Example: shared cache
//
//	c := memo.NewSync(memo.New[string, int]())
//	n, _ := c.GetOrCompute("key1", func(k string) (int, error) {
//		return len(k), nil
//	}, time.Minute)
//	fmt.Println(n) // 4
func NewSync[K comparable, V any](cache *Cache[K, V]) *SyncCache[K, V] {
	return NewSyncWithKeyFunc(cache, nil)
}

// NewSyncWithKeyFunc is NewSync with a custom key encoding used to coalesce
// in-flight computations. keyFunc must map equal keys to equal strings and
// should map distinct keys to distinct strings; a collision only makes two
// keys wait on each other's computation, after which the waiting key reads
// the clock again and computes its own value. nil selects the default %#v
// encoding.
func NewSyncWithKeyFunc[K comparable, V any](cache *Cache[K, V], keyFunc func(K) string) *SyncCache[K, V] {
	if cache == nil {
		cache = New[K, V]()
	}
	if keyFunc == nil {
		keyFunc = flightKey[K]
	}
	return &SyncCache[K, V]{
		cache:   cache,
		keyFunc: keyFunc,
	}
}

// Driver reports the underlying store driver.
func (s *SyncCache[K, V]) Driver() Driver {
	return s.cache.Driver()
}

// GetOrCompute has the semantics of Cache.GetOrCompute and may be called
// from multiple goroutines.
// @group Concurrency
func (s *SyncCache[K, V]) GetOrCompute(key K, fn func(K) (V, error), ttl time.Duration) (V, error) {
	var compute func(context.Context, K) (V, error)
	if fn != nil {
		compute = func(_ context.Context, k K) (V, error) { return fn(k) }
	}
	return s.GetOrComputeCtx(context.Background(), key, compute, ttl)
}

// GetOrComputeCtx is the context-aware variant of GetOrCompute. When calls
// are coalesced, fn receives the ctx of the caller that started the
// computation.
func (s *SyncCache[K, V]) GetOrComputeCtx(ctx context.Context, key K, fn func(context.Context, K) (V, error), ttl time.Duration) (V, error) {
	var zero V
	start := time.Now()
	now := s.cache.clock.Now()

	if value, ok := s.lookup(key, now); ok {
		s.cache.observe(ctx, OpGetOrCompute, key, true, nil, start)
		return value, nil
	}
	if fn == nil {
		s.cache.observe(ctx, OpGetOrCompute, key, false, ErrNilComputeFunc, start)
		return zero, ErrNilComputeFunc
	}

	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			// Freshness and expiry are measured from the retry, not the first wait.
			now = s.cache.clock.Now()
		}
		leader, computed := false, false
		result, err, _ := s.group.Do(s.keyFunc(key), func() (any, error) {
			leader = true
			// A flight that finished after our lookup may already have stored it.
			if value, ok := s.lookup(key, now); ok {
				return flight[K, V]{key: key, value: value}, nil
			}
			computed = true
			value, err := fn(ctx, key)
			if err != nil {
				return flight[K, V]{key: key, err: err}, nil
			}
			s.mu.Lock()
			s.cache.store.Save(key, NewEntry(value, now.Add(ttl)))
			s.mu.Unlock()
			return flight[K, V]{key: key, value: value}, nil
		})
		f, ok := result.(flight[K, V])
		if err != nil || !ok {
			// The flight ended without a result, so nothing was stored for key.
			continue
		}
		if !leader && f.key != key {
			// Joined the flight of a different key with the same encoding.
			continue
		}
		if f.err != nil {
			s.cache.observe(ctx, OpGetOrCompute, key, false, f.err, start)
			return zero, f.err
		}
		s.cache.observe(ctx, OpGetOrCompute, key, !computed, nil, start)
		return f.value, nil
	}
}

// flight is the outcome of one coalesced computation.
type flight[K comparable, V any] struct {
	key   K
	value V
	err   error
}

func (s *SyncCache[K, V]) lookup(key K, now time.Time) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.lookup(key, now)
}

func flightKey[K comparable](key K) string {
	if s, ok := any(key).(string); ok {
		return s
	}
	return fmt.Sprintf("%#v", key)
}
