package memotest

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goforj/memo"
	"github.com/goforj/memo/memofake"
)

// Options configures shared contract checks.
type Options struct {
	// CaseName namespaces the keys RunStoreContract writes, so one store can
	// back several runs. Defaults to t.Name(). RunGetOrComputeContract builds
	// a fresh target per case and ignores it.
	CaseName string
	// NullSemantics expects a store that retains nothing.
	NullSemantics bool
	// Concurrent adds the coalescing check for targets safe for concurrent use.
	Concurrent bool
}

// Target is the get-or-compute surface exercised by RunGetOrComputeContract.
type Target = memo.GetOrComputeAPI[string, int]

// Factory builds a fresh target driven by clock.
type Factory func(clock memo.Clock) Target

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

var errCompute = errors.New("memotest: compute failed")

// RunStoreContract runs a backend-agnostic store contract suite.
func RunStoreContract(t *testing.T, store memo.Store[string, string], opts Options) {
	t.Helper()

	caseName := opts.CaseName
	if caseName == "" {
		caseName = t.Name()
	}
	key := func(s string) string {
		return sanitize(caseName) + ":" + s
	}

	if store.Driver() == "" {
		t.Fatalf("expected store to report a driver")
	}

	// Missing key.
	if _, ok := store.Load(key("missing")); ok {
		t.Fatalf("expected miss for unknown key")
	}

	// Save/Load round-trip keeps value and expiration.
	expires := epoch.Add(time.Minute)
	store.Save(key("alpha"), memo.NewEntry("value", expires))
	entry, ok := store.Load(key("alpha"))
	if opts.NullSemantics {
		if ok {
			t.Fatalf("expected miss for null semantics")
		}
		return
	}
	if !ok || entry.Value() != "value" || !entry.ExpiresAt().Equal(expires) {
		t.Fatalf("unexpected load result: ok=%v value=%q expires=%v", ok, entry.Value(), entry.ExpiresAt())
	}

	// Save replaces wholesale.
	replaced := epoch.Add(2 * time.Minute)
	store.Save(key("alpha"), memo.NewEntry("other", replaced))
	entry, ok = store.Load(key("alpha"))
	if !ok || entry.Value() != "other" || !entry.ExpiresAt().Equal(replaced) {
		t.Fatalf("expected replaced entry, got ok=%v value=%q expires=%v", ok, entry.Value(), entry.ExpiresAt())
	}

	// Stale entries are returned as stored; expiration is the cache's decision.
	stale := epoch.Add(-time.Minute)
	store.Save(key("stale"), memo.NewEntry("old", stale))
	entry, ok = store.Load(key("stale"))
	if !ok || entry.Value() != "old" || !entry.Expired(epoch) {
		t.Fatalf("expected stale entry kept, got ok=%v value=%q", ok, entry.Value())
	}

	// Keys are independent.
	store.Save(key("beta"), memo.NewEntry("b", expires))
	if entry, ok := store.Load(key("alpha")); !ok || entry.Value() != "other" {
		t.Fatalf("expected alpha untouched by beta, got ok=%v value=%q", ok, entry.Value())
	}
}

// RunGetOrComputeContract runs the get-or-compute behavioral suite against
// targets produced by mk. Every case gets a fresh target and clock.
func RunGetOrComputeContract(t *testing.T, mk Factory, opts Options) {
	t.Helper()

	setup := func(t *testing.T) (Target, *memofake.Clock) {
		t.Helper()
		clock := memofake.NewClock(epoch)
		return mk(clock), clock
	}
	hitsExpected := !opts.NullSemantics

	t.Run("hit", func(t *testing.T) {
		c, _ := setup(t)
		fn := memofake.NewFunc(func(k string) (int, error) { return len(k), nil })

		first, err := c.GetOrCompute("key1", fn.Fn(), 5*time.Second)
		if err != nil {
			t.Fatalf("first call failed: %v", err)
		}
		second, err := c.GetOrCompute("key1", fn.Fn(), 5*time.Second)
		if err != nil {
			t.Fatalf("second call failed: %v", err)
		}
		if first != 4 || second != 4 {
			t.Fatalf("expected 4 twice, got %d and %d", first, second)
		}
		if hitsExpected {
			fn.AssertCalled(t, "key1", 1)
		} else {
			fn.AssertCalled(t, "key1", 2)
		}
	})

	t.Run("hit returns stored value", func(t *testing.T) {
		c, clock := setup(t)
		if _, err := c.GetOrCompute("k", memofake.Returning[string](1).Fn(), time.Minute); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
		clock.Advance(59 * time.Second)
		second := memofake.Returning[string](2)
		got, err := c.GetOrCompute("k", second.Fn(), time.Minute)
		if err != nil {
			t.Fatalf("second call failed: %v", err)
		}
		want := 1
		if !hitsExpected {
			want = 2
		}
		if got != want {
			t.Fatalf("expected %d, got %d", want, got)
		}
		if hitsExpected {
			second.AssertNotCalled(t, "k")
		}
	})

	t.Run("expiration", func(t *testing.T) {
		c, clock := setup(t)
		fn := memofake.Returning[string](7)
		if _, err := c.GetOrCompute("k", fn.Fn(), time.Second); err != nil {
			t.Fatalf("first call failed: %v", err)
		}
		clock.Set(epoch.Add(2 * time.Second))
		if _, err := c.GetOrCompute("k", fn.Fn(), time.Second); err != nil {
			t.Fatalf("second call failed: %v", err)
		}
		fn.AssertCalled(t, "k", 2)
	})

	t.Run("boundary counts as expired", func(t *testing.T) {
		c, clock := setup(t)
		fn := memofake.Returning[string](7)
		if _, err := c.GetOrCompute("k", fn.Fn(), time.Second); err != nil {
			t.Fatalf("first call failed: %v", err)
		}
		clock.Advance(time.Second - time.Nanosecond)
		if _, err := c.GetOrCompute("k", fn.Fn(), time.Second); err != nil {
			t.Fatalf("call before boundary failed: %v", err)
		}
		if hitsExpected {
			fn.AssertCalled(t, "k", 1)
		}
		clock.Advance(time.Nanosecond)
		if _, err := c.GetOrCompute("k", fn.Fn(), time.Second); err != nil {
			t.Fatalf("call at boundary failed: %v", err)
		}
		if hitsExpected {
			fn.AssertCalled(t, "k", 2)
		}
	})

	t.Run("recompute restarts ttl", func(t *testing.T) {
		c, clock := setup(t)
		fn := memofake.Returning[string](7)
		_, _ = c.GetOrCompute("k", fn.Fn(), time.Second)
		clock.Advance(time.Second)
		_, _ = c.GetOrCompute("k", fn.Fn(), 10*time.Second)
		clock.Advance(5 * time.Second)
		_, _ = c.GetOrCompute("k", fn.Fn(), 10*time.Second)
		if hitsExpected {
			fn.AssertCalled(t, "k", 2)
		} else {
			fn.AssertCalled(t, "k", 3)
		}
	})

	t.Run("independent keys", func(t *testing.T) {
		c, _ := setup(t)
		fn := memofake.NewFunc(func(k string) (int, error) { return len(k), nil })
		a, _ := c.GetOrCompute("a", fn.Fn(), time.Minute)
		bb, _ := c.GetOrCompute("bb", fn.Fn(), time.Minute)
		again, _ := c.GetOrCompute("a", fn.Fn(), time.Minute)
		if a != 1 || bb != 2 || again != 1 {
			t.Fatalf("unexpected values a=%d bb=%d again=%d", a, bb, again)
		}
		fn.AssertCalled(t, "bb", 1)
		fn.AssertNotCalled(t, "c")
		if hitsExpected {
			fn.AssertCalled(t, "a", 1)
			fn.AssertTotal(t, 2)
		}
	})

	t.Run("failure is not cached", func(t *testing.T) {
		c, _ := setup(t)
		failing := memofake.Failing[string, int](errCompute)
		if _, err := c.GetOrCompute("k", failing.Fn(), time.Minute); !errors.Is(err, errCompute) {
			t.Fatalf("expected compute error, got %v", err)
		}
		ok := memofake.Returning[string](3)
		got, err := c.GetOrCompute("k", ok.Fn(), time.Minute)
		if err != nil || got != 3 {
			t.Fatalf("expected recompute after failure, got %d err=%v", got, err)
		}
		failing.AssertCalled(t, "k", 1)
		ok.AssertCalled(t, "k", 1)
	})

	t.Run("failure returns the compute error unchanged", func(t *testing.T) {
		c, _ := setup(t)
		var target *contractError
		_, err := c.GetOrCompute("k", func(string) (int, error) {
			return 0, &contractError{code: 42}
		}, time.Minute)
		if !errors.As(err, &target) || target.code != 42 {
			t.Fatalf("expected *contractError, got %T %v", err, err)
		}
	})

	t.Run("zero ttl recomputes immediately", func(t *testing.T) {
		c, _ := setup(t)
		fn := memofake.Returning[string](1)
		_, _ = c.GetOrCompute("k", fn.Fn(), 0)
		_, _ = c.GetOrCompute("k", fn.Fn(), 0)
		fn.AssertCalled(t, "k", 2)
	})

	t.Run("negative ttl recomputes immediately", func(t *testing.T) {
		c, _ := setup(t)
		fn := memofake.Returning[string](1)
		_, _ = c.GetOrCompute("k", fn.Fn(), -time.Second)
		_, _ = c.GetOrCompute("k", fn.Fn(), -time.Second)
		fn.AssertCalled(t, "k", 2)
	})

	t.Run("nil compute func", func(t *testing.T) {
		c, _ := setup(t)
		if _, err := c.GetOrCompute("k", nil, time.Minute); !errors.Is(err, memo.ErrNilComputeFunc) {
			t.Fatalf("expected ErrNilComputeFunc, got %v", err)
		}
	})

	if !opts.Concurrent {
		return
	}

	t.Run("concurrent misses compute once", func(t *testing.T) {
		c, _ := setup(t)
		release := make(chan struct{})
		fn := memofake.NewFunc(func(k string) (int, error) {
			<-release
			return len(k), nil
		})

		const workers = 16
		var started, done sync.WaitGroup
		started.Add(workers)
		done.Add(workers)
		results := make([]int, workers)
		errs := make([]error, workers)
		for i := 0; i < workers; i++ {
			go func(i int) {
				defer done.Done()
				started.Done()
				results[i], errs[i] = c.GetOrCompute("shared", fn.Fn(), time.Minute)
			}(i)
		}
		started.Wait()
		// Give every worker time to reach the cache before releasing the flight.
		time.Sleep(50 * time.Millisecond)
		close(release)
		done.Wait()

		for i := range results {
			if errs[i] != nil || results[i] != len("shared") {
				t.Fatalf("worker %d: value=%d err=%v", i, results[i], errs[i])
			}
		}
		if hitsExpected {
			fn.AssertTotal(t, 1)
		}
	})
}

type contractError struct {
	code int
}

func (e *contractError) Error() string {
	return "memotest: contract error"
}

func sanitize(s string) string {
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
