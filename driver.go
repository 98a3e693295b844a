package memo

// Driver identifies the entry store backing a cache.
type Driver string

const (
	DriverNull   Driver = "null"
	DriverMap    Driver = "map"
	DriverMemory Driver = "memory"
	DriverOtter  Driver = "otter"
)
