package memo

// NewStore returns a string-keyed store for the requested driver.
// Unknown or empty drivers fall back to the map store.
// @group Constructors
//
// Example: select driver explicitly
//
//	store := memo.NewStore[int](memo.DriverOtter)
//	fmt.Println(store.Driver()) // otter
func NewStore[V any](driver Driver) Store[string, V] {
	switch driver {
	case DriverMemory:
		return NewMemoryStore[V]()
	case DriverOtter:
		return NewOtterStore[string, V]()
	case DriverNull:
		return NewNullStore[string, V]()
	default:
		return NewMapStore[string, V]()
	}
}

// ParseDriver maps a driver name to a known Driver.
func ParseDriver(name string) (Driver, bool) {
	switch d := Driver(name); d {
	case DriverMap, DriverMemory, DriverOtter, DriverNull:
		return d, true
	default:
		return "", false
	}
}
