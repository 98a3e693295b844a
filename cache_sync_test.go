package memo

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/goforj/memo/memofake"
)

func TestSyncCacheConcurrentDistinctKeys(t *testing.T) {
	c := NewSync(New[int, int]())

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := c.GetOrCompute(i%4, func(k int) (int, error) { return k * 10, nil }, time.Minute)
			if err != nil || v != (i%4)*10 {
				t.Errorf("key %d: value=%d err=%v", i%4, v, err)
			}
		}(i)
	}
	wg.Wait()
}

func TestSyncCacheSharesErrorAndStoresNothing(t *testing.T) {
	store := NewMapStore[string, int]()
	c := NewSync(NewWithStore(store))
	boom := errors.New("boom")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.GetOrCompute("k", func(string) (int, error) { return 0, boom }, time.Minute); !errors.Is(err, boom) {
				t.Errorf("expected boom, got %v", err)
			}
		}()
	}
	wg.Wait()

	if _, ok := store.Load("k"); ok {
		t.Fatalf("expected no entry after failures")
	}
}

func TestSyncCacheReportsCoalescedCallersAsHits(t *testing.T) {
	var mu sync.Mutex
	hits, misses := 0, 0
	obs := ObserverFunc(func(_ context.Context, op string, _ any, hit bool, err error, _ time.Duration, _ Driver) {
		mu.Lock()
		defer mu.Unlock()
		if op != OpGetOrCompute || err != nil {
			return
		}
		if hit {
			hits++
		} else {
			misses++
		}
	})
	clock := memofake.NewClock(testEpoch)
	c := NewSync(New[string, int](WithClock(clock), WithObserver(obs)))

	release := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = c.GetOrCompute("k", func(string) (int, error) {
				<-release
				return 1, nil
			}, time.Minute)
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if misses != 1 || hits != 7 {
		t.Fatalf("expected 1 miss and 7 hits, got misses=%d hits=%d", misses, hits)
	}
}

func TestSyncCacheCustomKeyFunc(t *testing.T) {
	var mu sync.Mutex
	var seen []string
	keyFunc := func(k int) string {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, "n")
		return "n"
	}
	c := NewSyncWithKeyFunc(New[int, int](), keyFunc)

	if _, err := c.GetOrCompute(1, func(k int) (int, error) { return k, nil }, time.Minute); err != nil {
		t.Fatalf("get or compute failed: %v", err)
	}
	if len(seen) != 1 {
		t.Fatalf("expected key func used once on miss, got %d", len(seen))
	}
	if _, err := c.GetOrCompute(1, func(k int) (int, error) { return k, nil }, time.Minute); err != nil {
		t.Fatalf("get or compute failed: %v", err)
	}
	if len(seen) != 1 {
		t.Fatalf("expected key func skipped on hit, got %d", len(seen))
	}
}

func TestSyncCacheNilComputeFunc(t *testing.T) {
	c := NewSync[string, int](nil)
	if _, err := c.GetOrCompute("k", nil, time.Minute); !errors.Is(err, ErrNilComputeFunc) {
		t.Fatalf("expected ErrNilComputeFunc, got %v", err)
	}
	if c.Driver() != DriverMap {
		t.Fatalf("expected map driver, got %q", c.Driver())
	}
}

func TestFlightKey(t *testing.T) {
	type id struct {
		Tenant string
		N      int
	}
	if got := flightKey("plain"); got != "plain" {
		t.Fatalf("expected string keys used as-is, got %q", got)
	}
	a := flightKey(id{Tenant: "a b", N: 1})
	b := flightKey(id{Tenant: "a", N: 1})
	if a == b {
		t.Fatalf("expected distinct encodings, both %q", a)
	}
	if flightKey(42) != flightKey(42) {
		t.Fatalf("expected stable encoding")
	}
}

func TestSyncCacheKeyCollisionKeepsValuesApart(t *testing.T) {
	c := NewSyncWithKeyFunc(New[int, int](), func(int) string { return "same" })

	release := make(chan struct{})
	var wg sync.WaitGroup
	results := make([]int, 2)
	for i, key := range []int{1, 2} {
		wg.Add(1)
		go func(i, key int) {
			defer wg.Done()
			results[i], _ = c.GetOrCompute(key, func(k int) (int, error) {
				<-release
				return k * 10, nil
			}, time.Minute)
		}(i, key)
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if results[0] != 10 || results[1] != 20 {
		t.Fatalf("expected per-key values [10 20], got %v", results)
	}
}

func TestSyncCacheWaiterNeverGetsZeroValueWhenLeaderExits(t *testing.T) {
	c := NewSync(New[string, int]())

	release := make(chan struct{})
	leaderDone := make(chan struct{})
	go func() {
		defer close(leaderDone)
		_, _ = c.GetOrCompute("", func(string) (int, error) {
			<-release
			runtime.Goexit()
			return 0, nil
		}, time.Minute)
	}()
	time.Sleep(20 * time.Millisecond)

	var (
		got      int
		gotErr   error
		returned bool
	)
	waiterDone := make(chan struct{})
	go func() {
		defer close(waiterDone)
		got, gotErr = c.GetOrCompute("", func(string) (int, error) { return 99, nil }, time.Minute)
		returned = true
	}()
	time.Sleep(20 * time.Millisecond)
	close(release)
	<-leaderDone
	<-waiterDone

	if returned && (gotErr != nil || got != 99) {
		t.Fatalf("expected the waiter to compute its own value, got %d err=%v", got, gotErr)
	}

	v, err := c.GetOrCompute("", func(string) (int, error) { return 5, nil }, time.Minute)
	if err != nil {
		t.Fatalf("get or compute failed: %v", err)
	}
	if !returned && v != 5 {
		t.Fatalf("expected nothing stored by the exited flight, got %d", v)
	}
}

func TestSyncCacheKeyCollisionRereadsClock(t *testing.T) {
	clock := memofake.NewClock(testEpoch)
	store := NewMapStore[int, int]()
	c := NewSyncWithKeyFunc(NewWithStore(store, WithClock(clock)), func(int) string { return "same" })

	release := make(chan struct{})
	var wg sync.WaitGroup
	run := func(key int) {
		defer wg.Done()
		_, _ = c.GetOrCompute(key, func(k int) (int, error) {
			<-release
			return k, nil
		}, time.Minute)
	}
	wg.Add(2)
	go run(1)
	time.Sleep(20 * time.Millisecond)
	go run(2)
	time.Sleep(20 * time.Millisecond)
	clock.Advance(30 * time.Second)
	close(release)
	wg.Wait()

	first, ok := store.Load(1)
	if !ok || !first.ExpiresAt().Equal(testEpoch.Add(time.Minute)) {
		t.Fatalf("expected key 1 to expire at %v, got ok=%v %v", testEpoch.Add(time.Minute), ok, first.ExpiresAt())
	}
	second, ok := store.Load(2)
	want := testEpoch.Add(30 * time.Second).Add(time.Minute)
	if !ok || !second.ExpiresAt().Equal(want) {
		t.Fatalf("expected key 2 to expire at %v, got ok=%v %v", want, ok, second.ExpiresAt())
	}
}
