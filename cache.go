package memo

import (
	"context"
	"errors"
	"time"
)

// ErrNilComputeFunc is returned when get-or-compute is called without a
// compute function.
var ErrNilComputeFunc = errors.New("memo get-or-compute requires a compute function")

// Cache memoizes the results of compute functions per key, each result valid
// for the ttl given when it was computed.
//
// A Cache is not safe for concurrent use. Callers sharing one across
// goroutines must synchronize externally or wrap it with NewSync.
type Cache[K comparable, V any] struct {
	store    Store[K, V]
	clock    Clock
	observer Observer
}

// New creates an empty cache over the default map store.
// @group Cache
//
// Example: memoize string length
//
//	c := memo.New[string, int]()
//	n, _ := c.GetOrCompute("key1", func(k string) (int, error) {
//		return len(k), nil
//	}, 5*time.Second)
//	fmt.Println(n) // 4
func New[K comparable, V any](opts ...Option) *Cache[K, V] {
	return NewWithStore(NewMapStore[K, V](), opts...)
}

// NewWithStore creates a cache bound to a concrete store.
// @group Cache
//
// Example: cache over a go-cache backed store
//
//	c := memo.NewWithStore(memo.NewMemoryStore[int]())
//	fmt.Println(c.Driver()) // memory
func NewWithStore[K comparable, V any](store Store[K, V], opts ...Option) *Cache[K, V] {
	if store == nil {
		store = NewMapStore[K, V]()
	}
	cfg := buildConfig(opts)
	return &Cache[K, V]{
		store:    store,
		clock:    cfg.Clock,
		observer: cfg.Observer,
	}
}

// Driver reports the underlying store driver.
// @group Cache
func (c *Cache[K, V]) Driver() Driver {
	return c.store.Driver()
}

// GetOrCompute returns the stored value for key while it is fresh, otherwise
// it calls fn once, stores the result for ttl and returns it.
//
// An entry is fresh only while the current time is strictly before its
// expiration, so a ttl <= 0 stores an entry that is already stale and the
// next call computes again. Errors from fn are returned unchanged and
// nothing is stored.
// @group Cache
func (c *Cache[K, V]) GetOrCompute(key K, fn func(K) (V, error), ttl time.Duration) (V, error) {
	var compute func(context.Context, K) (V, error)
	if fn != nil {
		compute = func(_ context.Context, k K) (V, error) { return fn(k) }
	}
	return c.GetOrComputeCtx(context.Background(), key, compute, ttl)
}

// GetOrComputeCtx is the context-aware variant of GetOrCompute. ctx is handed
// to fn and to the observer; the cache itself never waits on it.
func (c *Cache[K, V]) GetOrComputeCtx(ctx context.Context, key K, fn func(context.Context, K) (V, error), ttl time.Duration) (V, error) {
	start := time.Now()
	now := c.clock.Now()

	if value, ok := c.lookup(key, now); ok {
		c.observe(ctx, OpGetOrCompute, key, true, nil, start)
		return value, nil
	}

	value, err := c.compute(ctx, key, fn, ttl, now)
	c.observe(ctx, OpGetOrCompute, key, false, err, start)
	return value, err
}

// lookup returns the value stored for key when it is still fresh at now.
func (c *Cache[K, V]) lookup(key K, now time.Time) (V, bool) {
	entry, ok := c.store.Load(key)
	if !ok || entry.Expired(now) {
		var zero V
		return zero, false
	}
	return entry.Value(), true
}

// compute runs fn and saves its result with an expiration derived from now.
// The store is written only after fn returned successfully.
func (c *Cache[K, V]) compute(ctx context.Context, key K, fn func(context.Context, K) (V, error), ttl time.Duration, now time.Time) (V, error) {
	var zero V
	if fn == nil {
		return zero, ErrNilComputeFunc
	}
	value, err := fn(ctx, key)
	if err != nil {
		return zero, err
	}
	c.store.Save(key, NewEntry(value, now.Add(ttl)))
	return value, nil
}

func (c *Cache[K, V]) observe(ctx context.Context, op string, key K, hit bool, err error, start time.Time) {
	if c.observer == nil {
		return
	}
	c.observer.OnMemoOp(ctx, op, key, hit, err, time.Since(start), c.Driver())
}
