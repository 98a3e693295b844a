package memo

// NewNullStore returns a store that retains nothing, so every
// get-or-compute runs the compute function. Useful to switch memoization
// off without changing call sites.
// @group Stores
func NewNullStore[K comparable, V any]() Store[K, V] {
	return nullStore[K, V]{}
}

type nullStore[K comparable, V any] struct{}

func (nullStore[K, V]) Driver() Driver { return DriverNull }

func (nullStore[K, V]) Load(K) (Entry[V], bool) { return Entry[V]{}, false }

func (nullStore[K, V]) Save(K, Entry[V]) {}
