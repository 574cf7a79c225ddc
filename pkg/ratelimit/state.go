// Package ratelimit gates requests to the ledger API. A local token bucket
// paces this process, and a cool-down recorded from HTTP 429 responses
// (Retry-After) pauses every client sharing the same Redis.
package ratelimit

import (
	"time"
)

// Redis keys for rate limit state storage.
const (
	RedisKeyBlockedUntil = "ledger:rate_limit:blocked_until"
	RedisKeyLastUpdate   = "ledger:rate_limit:last_update"
)

const (
	// DefaultCooldown applies when a 429 carries no usable Retry-After.
	DefaultCooldown = 5 * time.Second

	// MaxCooldown caps the pause taken from a Retry-After header.
	MaxCooldown = 5 * time.Minute
)

// RateLimitState is the shared cool-down state.
type RateLimitState struct {
	// BlockedUntil is when requests may resume. Zero means not blocked.
	BlockedUntil time.Time `json:"blocked_until"`

	// LastUpdate is when a 429 was last recorded.
	LastUpdate time.Time `json:"last_update"`
}

// IsBlocked reports whether requests must wait for the cool-down to end.
func (s *RateLimitState) IsBlocked() bool {
	return time.Now().Before(s.BlockedUntil)
}

// IsStale returns true if the state is older than maxAge.
func (s *RateLimitState) IsStale(maxAge time.Duration) bool {
	return time.Since(s.LastUpdate) > maxAge
}

// TimeUntilReset returns the remaining cool-down, or 0 once it has passed.
func (s *RateLimitState) TimeUntilReset() time.Duration {
	duration := time.Until(s.BlockedUntil)
	if duration < 0 {
		return 0
	}
	return duration
}
