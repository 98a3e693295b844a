package memo

// NewMapStore returns the default store: a plain Go map.
// It is not safe for concurrent use; wrap the owning cache with NewSync
// when callers share it across goroutines.
// @group Stores
//
// Example: explicit map store
//
//	store := memo.NewMapStore[string, int]()
//	c := memo.NewWithStore(store)
//	fmt.Println(c.Driver()) // map
func NewMapStore[K comparable, V any]() Store[K, V] {
	return &mapStore[K, V]{items: make(map[K]Entry[V])}
}

type mapStore[K comparable, V any] struct {
	items map[K]Entry[V]
}

func (s *mapStore[K, V]) Driver() Driver {
	return DriverMap
}

func (s *mapStore[K, V]) Load(key K) (Entry[V], bool) {
	entry, ok := s.items[key]
	return entry, ok
}

func (s *mapStore[K, V]) Save(key K, entry Entry[V]) {
	s.items[key] = entry
}
