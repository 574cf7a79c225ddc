package ratelimit

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestParseRetryAfter(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name     string
		value    string
		expected time.Duration
	}{
		{name: "missing", value: "", expected: DefaultCooldown},
		{name: "seconds", value: "12", expected: 12 * time.Second},
		{name: "padded seconds", value: " 3 ", expected: 3 * time.Second},
		{name: "zero", value: "0", expected: DefaultCooldown},
		{name: "negative", value: "-4", expected: DefaultCooldown},
		{name: "garbage", value: "soon", expected: DefaultCooldown},
		{name: "capped", value: "86400", expected: MaxCooldown},
		{name: "http date", value: now.Add(90 * time.Second).Format(http.TimeFormat), expected: 90 * time.Second},
		{name: "http date in past", value: now.Add(-time.Minute).Format(http.TimeFormat), expected: DefaultCooldown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseRetryAfter(tt.value, now); got != tt.expected {
				t.Errorf("parseRetryAfter(%q) = %v, want %v", tt.value, got, tt.expected)
			}
		})
	}
}

func TestTracker_LocalCooldown(t *testing.T) {
	tracker := NewTracker(nil, Config{}, zerolog.Nop())
	ctx := context.Background()

	allowed, err := tracker.ShouldAllowRequest(ctx)
	if err != nil {
		t.Fatalf("ShouldAllowRequest() error = %v", err)
	}
	if !allowed {
		t.Fatal("fresh tracker should allow requests")
	}

	headers := http.Header{}
	headers.Set("Retry-After", "30")
	if err := tracker.RecordThrottle(ctx, headers); err != nil {
		t.Fatalf("RecordThrottle() error = %v", err)
	}

	allowed, err = tracker.ShouldAllowRequest(ctx)
	if err != nil {
		t.Fatalf("ShouldAllowRequest() error = %v", err)
	}
	if allowed {
		t.Error("request should be blocked during cool-down")
	}

	state, err := tracker.GetState(ctx)
	if err != nil {
		t.Fatalf("GetState() error = %v", err)
	}
	if wait := state.TimeUntilReset(); wait <= 25*time.Second {
		t.Errorf("TimeUntilReset() = %v, want ~30s", wait)
	}
}

func TestTracker_LocalCooldownKeepsLongest(t *testing.T) {
	tracker := NewTracker(nil, Config{}, zerolog.Nop())
	ctx := context.Background()

	long := http.Header{}
	long.Set("Retry-After", "60")
	short := http.Header{}
	short.Set("Retry-After", "1")

	if err := tracker.RecordThrottle(ctx, long); err != nil {
		t.Fatalf("RecordThrottle() error = %v", err)
	}
	if err := tracker.RecordThrottle(ctx, short); err != nil {
		t.Fatalf("RecordThrottle() error = %v", err)
	}

	state, _ := tracker.GetState(ctx)
	if wait := state.TimeUntilReset(); wait <= 50*time.Second {
		t.Errorf("shorter cool-down replaced longer one: %v left", wait)
	}
}

func TestTracker_Wait(t *testing.T) {
	unpaced := NewTracker(nil, Config{}, zerolog.Nop())
	if err := unpaced.Wait(context.Background()); err != nil {
		t.Errorf("Wait() without limiter error = %v", err)
	}

	paced := NewTracker(nil, Config{RequestsPerSecond: 1, Burst: 1}, zerolog.Nop())
	if err := paced.Wait(context.Background()); err != nil {
		t.Fatalf("first Wait() error = %v", err)
	}

	// The bucket is empty now, so a second Wait cannot finish before the deadline.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := paced.Wait(ctx); err == nil {
		t.Error("second Wait() should fail once the context deadline is shorter than the refill")
	}
}
