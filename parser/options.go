package parser

// Option configures an engine constructed by New, Parse, or ParseWithRegistry.
type Option func(*config) error

type config struct {
	logger   Logger
	required []string
}

func applyOptions(opts ...Option) (*config, error) {
	cfg := &config{
		logger: NopLogger(),
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// WithLogger sets the structured logger used by the engine.
// Default: a no-op logger.
func WithLogger(logger Logger) Option {
	return func(cfg *config) error {
		if logger != nil {
			cfg.logger = logger
		}
		return nil
	}
}

// WithRequiredProperties overrides the property subset whose presence
// Validate checks. Default: the registry's required set, which is empty
// for the built-in registries.
func WithRequiredProperties(names ...string) Option {
	return func(cfg *config) error {
		cfg.required = append([]string(nil), names...)
		return nil
	}
}
