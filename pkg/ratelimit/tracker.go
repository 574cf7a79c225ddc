package ratelimit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Sternrassler/helium-client/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Prometheus metrics for rate limit tracking.
var (
	ledgerRateLimitBlocksTotal = promauto.With(metrics.Registry).NewCounter(prometheus.CounterOpts{
		Name: "ledger_rate_limit_blocks_total",
		Help: "Total number of requests blocked during a 429 cool-down",
	})

	ledgerRateLimitCooldownsTotal = promauto.With(metrics.Registry).NewCounter(prometheus.CounterOpts{
		Name: "ledger_rate_limit_cooldowns_total",
		Help: "Total number of cool-downs recorded from 429 responses",
	})
)

// extendCooldown stores blocked_until (unix ms) and last_update only when the
// new cool-down ends later than the stored one. Returns 1 when it wrote.
var extendCooldown = redis.NewScript(`
local current = tonumber(redis.call('GET', KEYS[1]) or '0')
if current >= tonumber(ARGV[1]) then
	return 0
end
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
return 1
`)

// Config holds the local pacing settings.
type Config struct {
	// RequestsPerSecond paces this process. Zero disables local pacing.
	RequestsPerSecond int

	// Burst is the token bucket size.
	Burst int
}

// Tracker paces requests and tracks 429 cool-downs.
type Tracker struct {
	redis   *redis.Client
	limiter *rate.Limiter
	logger  zerolog.Logger

	// local state used when no Redis client is configured
	mu    sync.Mutex
	local RateLimitState
}

// NewTracker creates a tracker. redisClient may be nil, in which case the
// cool-down is kept in process.
func NewTracker(redisClient *redis.Client, cfg Config, logger zerolog.Logger) *Tracker {
	t := &Tracker{
		redis:  redisClient,
		logger: logger,
	}
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		t.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	return t
}

// Wait blocks until the local token bucket admits a request.
func (t *Tracker) Wait(ctx context.Context) error {
	if t.limiter == nil {
		return nil
	}
	return t.limiter.Wait(ctx)
}

// GetState returns the current cool-down state.
func (t *Tracker) GetState(ctx context.Context) (*RateLimitState, error) {
	if t.redis == nil {
		t.mu.Lock()
		defer t.mu.Unlock()
		state := t.local
		return &state, nil
	}

	blockedUntil, err := t.redis.Get(ctx, RedisKeyBlockedUntil).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("get blocked until: %w", err)
	}

	lastUpdateStr, err := t.redis.Get(ctx, RedisKeyLastUpdate).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("get last update: %w", err)
	}

	state := &RateLimitState{}
	if blockedUntil > 0 {
		state.BlockedUntil = time.UnixMilli(blockedUntil)
	}
	if lastUpdateStr != "" {
		if err := json.Unmarshal([]byte(lastUpdateStr), &state.LastUpdate); err != nil {
			return nil, fmt.Errorf("parse last update: %w", err)
		}
	}

	return state, nil
}

// RecordThrottle starts a cool-down from a 429 response's headers.
func (t *Tracker) RecordThrottle(ctx context.Context, headers http.Header) error {
	now := time.Now()
	cooldown := parseRetryAfter(headers.Get("Retry-After"), now)

	state := RateLimitState{
		BlockedUntil: now.Add(cooldown),
		LastUpdate:   now,
	}

	if t.redis == nil {
		t.mu.Lock()
		if state.BlockedUntil.After(t.local.BlockedUntil) {
			t.local = state
		}
		t.mu.Unlock()
	} else {
		lastUpdateJSON, err := json.Marshal(state.LastUpdate)
		if err != nil {
			return fmt.Errorf("marshal last update: %w", err)
		}

		// Keys expire with the cool-down.
		ttl := cooldown + time.Second
		keys := []string{RedisKeyBlockedUntil, RedisKeyLastUpdate}
		written, err := extendCooldown.Run(ctx, t.redis, keys,
			state.BlockedUntil.UnixMilli(), string(lastUpdateJSON), ttl.Milliseconds()).Int()
		if err != nil {
			return fmt.Errorf("store rate limit state in redis: %w", err)
		}
		if written == 0 {
			t.logger.Debug().Dur("cooldown", cooldown).Msg("Longer cool-down already active")
		}
	}

	ledgerRateLimitCooldownsTotal.Inc()
	t.logger.Warn().
		Dur("cooldown", cooldown).
		Time("blocked_until", state.BlockedUntil).
		Msg("Ledger API rate limited - pausing requests")

	return nil
}

// ShouldAllowRequest returns false while a cool-down is active.
func (t *Tracker) ShouldAllowRequest(ctx context.Context) (bool, error) {
	state, err := t.GetState(ctx)
	if err != nil {
		return false, fmt.Errorf("get rate limit state: %w", err)
	}

	if state.IsBlocked() {
		t.logger.Warn().
			Dur("wait_duration", state.TimeUntilReset()).
			Msg("Ledger API cool-down active - blocking request")

		ledgerRateLimitBlocksTotal.Inc()
		return false, nil
	}

	return true, nil
}

// parseRetryAfter accepts delay-seconds or an HTTP date.
func parseRetryAfter(value string, now time.Time) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return DefaultCooldown
	}

	var d time.Duration
	if seconds, err := strconv.Atoi(value); err == nil {
		d = time.Duration(seconds) * time.Second
	} else if at, err := http.ParseTime(value); err == nil {
		d = at.Sub(now)
	} else {
		return DefaultCooldown
	}

	switch {
	case d <= 0:
		return DefaultCooldown
	case d > MaxCooldown:
		return MaxCooldown
	default:
		return d
	}
}
