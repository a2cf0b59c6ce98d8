package resilience

// Option configures the guard.
type Option func(*GuardConfig)

// WithMaxConcurrent sets the maximum concurrent requests.
func WithMaxConcurrent(n int) Option {
	return func(c *GuardConfig) {
		c.MaxConcurrent = n
	}
}

// WithRate sets the sustained request rate per second.
func WithRate(n int) Option {
	return func(c *GuardConfig) {
		c.Rate = n
	}
}

// WithBurst sets the token bucket capacity.
func WithBurst(n int) Option {
	return func(c *GuardConfig) {
		c.Burst = n
	}
}

// NewGuardWithOptions creates a guard from the default configuration with
// the given options applied.
func NewGuardWithOptions(opts ...Option) *Guard {
	config := DefaultGuardConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return NewGuard(config)
}
