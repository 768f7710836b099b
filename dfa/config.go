package dfa

// Config configures DFA construction.
type Config struct {
	// MaxStates is the maximum number of DFA states construction may create.
	//
	// Default: 10,000 states
	//
	// Lexers for programming languages typically need a few hundred states;
	// the limit stops pathological rule sets from exhausting memory.
	MaxStates int
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() Config {
	return Config{
		MaxStates: 10_000,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.MaxStates <= 0 {
		return &Error{
			Kind:    InvalidConfig,
			Message: "MaxStates must be > 0",
		}
	}
	return nil
}

// Option is a functional option for Construct
type Option func(*Config)

// WithMaxStates sets Config.MaxStates
func WithMaxStates(n int) Option {
	return func(c *Config) {
		c.MaxStates = n
	}
}

// WithConfig replaces the whole configuration
func WithConfig(config Config) Option {
	return func(c *Config) {
		*c = config
	}
}
