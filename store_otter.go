package memo

import (
	"github.com/maypok86/otter/v2"
)

// NewOtterStore returns a store backed by an unbounded otter cache.
// Otter applies no size limit and no expiry of its own here. The store is
// safe for concurrent use and accepts any comparable key.
// @group Stores
//
// Example: otter store
//
//	store := memo.NewOtterStore[int, string]()
//	c := memo.NewWithStore(store)
//	fmt.Println(c.Driver()) // otter
func NewOtterStore[K comparable, V any]() Store[K, V] {
	return &otterStore[K, V]{
		cache: otter.Must(&otter.Options[K, Entry[V]]{}),
	}
}

type otterStore[K comparable, V any] struct {
	cache *otter.Cache[K, Entry[V]]
}

func (s *otterStore[K, V]) Driver() Driver {
	return DriverOtter
}

func (s *otterStore[K, V]) Load(key K) (Entry[V], bool) {
	return s.cache.GetIfPresent(key)
}

func (s *otterStore[K, V]) Save(key K, entry Entry[V]) {
	s.cache.Set(key, entry)
}
