// Package memofake provides deterministic helpers for testing code that uses
// memo caches: a manual clock and a compute function that records its calls.
package memofake

import (
	"fmt"
	"sync"
	"testing"
)

// Func wraps a compute function and counts invocations per key.
type Func[K comparable, V any] struct {
	fn     func(K) (V, error)
	counts map[K]int
	mu     sync.Mutex
}

// NewFunc records calls to fn.
func NewFunc[K comparable, V any](fn func(K) (V, error)) *Func[K, V] {
	return &Func[K, V]{
		fn:     fn,
		counts: make(map[K]int),
	}
}

// Returning records calls to a compute function that always yields value.
func Returning[K comparable, V any](value V) *Func[K, V] {
	return NewFunc(func(K) (V, error) { return value, nil })
}

// Failing records calls to a compute function that always fails with err.
func Failing[K comparable, V any](err error) *Func[K, V] {
	return NewFunc(func(K) (V, error) {
		var zero V
		return zero, err
	})
}

// Fn returns the compute function to hand to GetOrCompute.
func (f *Func[K, V]) Fn() func(K) (V, error) {
	return f.call
}

func (f *Func[K, V]) call(key K) (V, error) {
	f.mu.Lock()
	f.counts[key]++
	f.mu.Unlock()
	return f.fn(key)
}

// Reset clears recorded counts.
func (f *Func[K, V]) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts = make(map[K]int)
}

// Count returns calls for key.
func (f *Func[K, V]) Count(key K) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counts[key]
}

// Total returns calls across keys.
func (f *Func[K, V]) Total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	var sum int
	for _, v := range f.counts {
		sum += v
	}
	return sum
}

// AssertCalled verifies fn ran for key the expected number of times.
func (f *Func[K, V]) AssertCalled(t testing.TB, key K, times int) {
	t.Helper()
	if got := f.Count(key); got != times {
		t.Fatalf("expected compute for %s called %d times, got %d", describe(key), times, got)
	}
}

// AssertNotCalled ensures fn never ran for key.
func (f *Func[K, V]) AssertNotCalled(t testing.TB, key K) {
	t.Helper()
	if got := f.Count(key); got != 0 {
		t.Fatalf("expected compute for %s not called, got %d", describe(key), got)
	}
}

// AssertTotal ensures the total call count matches times.
func (f *Func[K, V]) AssertTotal(t testing.TB, times int) {
	t.Helper()
	if got := f.Total(); got != times {
		t.Fatalf("expected compute total=%d, got %d", times, got)
	}
}

func describe(key any) string {
	return fmt.Sprintf("%#v", key)
}
