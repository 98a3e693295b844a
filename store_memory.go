package memo

import (
	gocache "github.com/patrickmn/go-cache"
)

// NewMemoryStore returns a string-keyed store on top of go-cache.
// Items are stored without a go-cache expiration and no janitor runs, so
// entries are only ever replaced, never swept. The store is safe for
// concurrent use.
// @group Stores
//
// Example: memory store
//
//	store := memo.NewMemoryStore[int]()
//	c := memo.NewWithStore(store)
//	fmt.Println(c.Driver()) // memory
func NewMemoryStore[V any]() Store[string, V] {
	return &memoryStore[V]{
		cache: gocache.New(gocache.NoExpiration, 0),
	}
}

type memoryStore[V any] struct {
	cache *gocache.Cache
}

func (s *memoryStore[V]) Driver() Driver {
	return DriverMemory
}

func (s *memoryStore[V]) Load(key string) (Entry[V], bool) {
	item, ok := s.cache.Get(key)
	if !ok {
		return Entry[V]{}, false
	}
	entry, ok := item.(Entry[V])
	if !ok {
		return Entry[V]{}, false
	}
	return entry, true
}

func (s *memoryStore[V]) Save(key string, entry Entry[V]) {
	s.cache.Set(key, entry, gocache.NoExpiration)
}
