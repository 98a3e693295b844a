package memo

// Config holds the collaborators a cache is built with.
type Config struct {
	// Clock supplies "now" for expiration checks. Defaults to SystemClock.
	Clock Clock

	// Observer receives an event after every get-or-compute. Optional.
	Observer Observer
}

func (c Config) withDefaults() Config {
	if c.Clock == nil {
		c.Clock = SystemClock
	}
	return c
}

func buildConfig(opts []Option) Config {
	var cfg Config
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		cfg = opt(cfg)
	}
	return cfg.withDefaults()
}
