package memo

// Option mutates Config when constructing a cache.
type Option func(Config) Config

// WithClock overrides the time source used for expiration.
func WithClock(clock Clock) Option {
	return func(cfg Config) Config {
		cfg.Clock = clock
		return cfg
	}
}

// WithObserver attaches an observer to receive operation events.
func WithObserver(o Observer) Option {
	return func(cfg Config) Config {
		cfg.Observer = o
		return cfg
	}
}
