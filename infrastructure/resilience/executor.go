// Package resilience guards outbound calls to the Checkly API with a
// concurrency bulkhead and a token bucket rate limit, using fortify.
//
// Calls are never retried: a failed request fails the tool call.
package resilience

import (
	"context"
	"fmt"
	"net/http"

	"github.com/felixgeelhaar/fortify/bulkhead"
	"github.com/felixgeelhaar/fortify/ratelimit"
)

// limiterKey is the single bucket shared by every request to one account.
const limiterKey = "checkly-api"

// Guard admits outbound requests. It is safe for concurrent use.
type Guard struct {
	bulkhead bulkhead.Bulkhead[*http.Response]
	limiter  ratelimit.RateLimiter
}

// GuardConfig configures the guard.
type GuardConfig struct {
	// MaxConcurrent limits requests in flight at once.
	MaxConcurrent int

	// Rate is the number of requests admitted per second.
	Rate int

	// Burst is the token bucket capacity.
	Burst int
}

// DefaultGuardConfig returns a configuration that stays well inside the
// Checkly public API limits.
func DefaultGuardConfig() GuardConfig {
	return GuardConfig{
		MaxConcurrent: 10,
		Rate:          10,
		Burst:         20,
	}
}

// NewGuard creates a guard. Non-positive values fall back to defaults.
func NewGuard(config GuardConfig) *Guard {
	def := DefaultGuardConfig()
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = def.MaxConcurrent
	}
	if config.Rate <= 0 {
		config.Rate = def.Rate
	}
	if config.Burst <= 0 {
		config.Burst = config.Rate
	}

	return &Guard{
		bulkhead: bulkhead.New[*http.Response](bulkhead.Config{
			MaxConcurrent: config.MaxConcurrent,
		}),
		limiter: ratelimit.New(&ratelimit.Config{
			Rate:  config.Rate,
			Burst: config.Burst,
		}),
	}
}

// Do waits for a rate limit token, then runs fn inside the bulkhead.
func (g *Guard) Do(ctx context.Context, fn func(ctx context.Context) (*http.Response, error)) (*http.Response, error) {
	if err := g.limiter.Wait(ctx, limiterKey); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}
	return g.bulkhead.Execute(ctx, fn)
}
