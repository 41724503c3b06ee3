package ratelimit

import (
	"sync"
	"testing"
	"time"
)

func TestLimiter_Allow(t *testing.T) {
	limiter := New(Config{RequestsPerMinute: 3})
	defer limiter.Stop()

	key := "ip:10.0.0.1"

	for i := 0; i < 3; i++ {
		if !limiter.Allow(key) {
			t.Errorf("Request %d should be allowed", i+1)
		}
	}

	if limiter.Allow(key) {
		t.Error("Fourth request should be blocked due to rate limit")
	}
}

func TestLimiter_DifferentKeys(t *testing.T) {
	limiter := New(Config{RequestsPerMinute: 1})
	defer limiter.Stop()

	tests := []string{"user:1", "user:2", "tg:1"}

	for _, key := range tests {
		if !limiter.Allow(key) {
			t.Errorf("%s first request should be allowed", key)
		}
	}
	for _, key := range tests {
		if limiter.Allow(key) {
			t.Errorf("%s second request should be blocked", key)
		}
	}
}

func TestLimiter_WindowSlides(t *testing.T) {
	limiter := New(Config{RequestsPerMinute: 1, Window: 50 * time.Millisecond})
	defer limiter.Stop()

	if !limiter.Allow("k") {
		t.Fatal("first request should be allowed")
	}
	if limiter.Allow("k") {
		t.Fatal("second request should be blocked inside the window")
	}

	time.Sleep(80 * time.Millisecond)

	if !limiter.Allow("k") {
		t.Error("request should be allowed after the window passed")
	}
}

func TestLimiter_RemainingRequests(t *testing.T) {
	limiter := New(Config{RequestsPerMinute: 5})
	defer limiter.Stop()

	key := "user:12345"

	if remaining := limiter.RemainingRequests(key); remaining != 5 {
		t.Errorf("RemainingRequests() = %d, want 5", remaining)
	}

	limiter.Allow(key)
	limiter.Allow(key)

	if remaining := limiter.RemainingRequests(key); remaining != 3 {
		t.Errorf("RemainingRequests() = %d, want 3", remaining)
	}
}

func TestLimiter_ResetTime(t *testing.T) {
	limiter := New(Config{RequestsPerMinute: 1})
	defer limiter.Stop()

	before := time.Now()
	limiter.Allow("k")

	resetTime := limiter.ResetTime("k")

	expectedReset := before.Add(time.Minute)
	tolerance := 2 * time.Second

	if resetTime.Before(expectedReset.Add(-tolerance)) || resetTime.After(expectedReset.Add(tolerance)) {
		t.Errorf("ResetTime() = %v, expected around %v", resetTime, expectedReset)
	}
}

func TestLimiter_DefaultConfig(t *testing.T) {
	limiter := New(Config{})
	defer limiter.Stop()

	if limiter.Limit() != DefaultRequestsPerMinute {
		t.Fatalf("Limit() = %d, want %d", limiter.Limit(), DefaultRequestsPerMinute)
	}

	for i := 0; i < DefaultRequestsPerMinute; i++ {
		if !limiter.Allow("k") {
			t.Errorf("Request %d should be allowed with default config", i+1)
		}
	}

	if limiter.Allow("k") {
		t.Error("request over the default limit should be blocked")
	}
}

func TestLimiter_Concurrent(t *testing.T) {
	limiter := New(Config{RequestsPerMinute: 100})
	defer limiter.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				limiter.Allow("shared")
			}
		}()
	}
	wg.Wait()

	if remaining := limiter.RemainingRequests("shared"); remaining != 0 {
		t.Errorf("RemainingRequests() = %d, want 0 after concurrent access", remaining)
	}
}

func TestLimiter_StopTwice(t *testing.T) {
	limiter := New(Config{})
	limiter.Stop()
	limiter.Stop()
}
