package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is advanced by hand
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestLimiter(cfg *Config) (*Limiter, *fakeClock) {
	cfg.CleanupInterval = 0
	l := NewLimiter(cfg)
	clock := &fakeClock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	l.now = clock.now
	return l, clock
}

func runConfig() *Config {
	cfg := DefaultConfig()
	cfg.EndpointConfigs = []EndpointConfig{
		{Path: "/run", Method: "POST", Limit: 10, Window: time.Hour, Burst: 2},
	}
	return cfg
}

func TestAllow_BurstThenDeny(t *testing.T) {
	l, _ := newTestLimiter(runConfig())
	defer l.Stop()

	allowed, info := l.Allow("1.2.3.4", "/run", "POST")
	require.True(t, allowed)
	assert.Equal(t, 10, info.Limit)
	assert.Equal(t, 1, info.Remaining)

	allowed, _ = l.Allow("1.2.3.4", "/run", "POST")
	require.True(t, allowed)

	allowed, info = l.Allow("1.2.3.4", "/run", "POST")
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	// 10 per hour refills one token every 6 minutes
	assert.InDelta(t, (6 * time.Minute).Seconds(), info.RetryAfter.Seconds(), 1)
}

func TestAllow_Refill(t *testing.T) {
	l, clock := newTestLimiter(runConfig())
	defer l.Stop()

	for i := 0; i < 2; i++ {
		allowed, _ := l.Allow("c", "/run", "POST")
		require.True(t, allowed)
	}
	allowed, _ := l.Allow("c", "/run", "POST")
	require.False(t, allowed)

	clock.advance(6*time.Minute + time.Second)
	allowed, _ = l.Allow("c", "/run", "POST")
	assert.True(t, allowed)

	allowed, _ = l.Allow("c", "/run", "POST")
	assert.False(t, allowed)
}

func TestAllow_ClientsAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(runConfig())
	defer l.Stop()

	for i := 0; i < 2; i++ {
		l.Allow("a", "/run", "POST")
	}
	allowed, _ := l.Allow("a", "/run", "POST")
	assert.False(t, allowed)

	allowed, _ = l.Allow("b", "/run", "POST")
	assert.True(t, allowed)
}

func TestAllow_HealthUnlimited(t *testing.T) {
	l, _ := newTestLimiter(runConfig())
	defer l.Stop()

	for i := 0; i < 1000; i++ {
		allowed, info := l.Allow("a", "/health", "GET")
		require.True(t, allowed)
		assert.Equal(t, 0, info.Limit)
	}
}

func TestAllow_DefaultLimit(t *testing.T) {
	cfg := runConfig()
	cfg.DefaultLimit = 3
	cfg.DefaultWindow = time.Minute
	l, _ := newTestLimiter(cfg)
	defer l.Stop()

	for i := 0; i < 3; i++ {
		allowed, _ := l.Allow("a", "/runs", "GET")
		require.True(t, allowed, "request %d", i+1)
	}
	allowed, info := l.Allow("a", "/runs", "GET")
	assert.False(t, allowed)
	assert.Equal(t, 3, info.Limit)
}

func TestAllow_WhitelistAndBlacklist(t *testing.T) {
	cfg := runConfig()
	cfg.Whitelist = map[string]bool{"10.0.0.1": true}
	cfg.Blacklist = map[string]bool{"10.0.0.2": true}
	l, _ := newTestLimiter(cfg)
	defer l.Stop()

	for i := 0; i < 10; i++ {
		allowed, _ := l.Allow("10.0.0.1", "/run", "POST")
		assert.True(t, allowed)
	}
	allowed, _ := l.Allow("10.0.0.2", "/health", "GET")
	assert.False(t, allowed)
}

func TestAllow_Disabled(t *testing.T) {
	l := NewLimiter(&Config{Enabled: false})
	defer l.Stop()

	for i := 0; i < 100; i++ {
		allowed, _ := l.Allow("a", "/run", "POST")
		require.True(t, allowed)
	}
}

func TestCleanupBuckets(t *testing.T) {
	l, clock := newTestLimiter(runConfig())
	defer l.Stop()

	l.Allow("old", "/run", "POST")
	clock.advance(2 * time.Hour)
	l.Allow("new", "/run", "POST")

	l.cleanupBuckets()

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.Len(t, l.buckets, 1)
	assert.Contains(t, l.buckets, "new:/run:POST")
}

func TestAllow_Concurrent(t *testing.T) {
	cfg := runConfig()
	cfg.EndpointConfigs[0].Burst = 50
	l, _ := newTestLimiter(cfg)
	defer l.Stop()

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowedCount := 0
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := l.Allow("a", "/run", "POST"); ok {
				mu.Lock()
				allowedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, allowedCount)
}

func TestStop_Idempotent(t *testing.T) {
	l := NewLimiter(DefaultConfig())
	l.Stop()
	assert.NotPanics(t, l.Stop)
}

func TestMatchEndpoint(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/run", Method: "POST", Limit: 10},
		{Path: "/runs/", Method: "GET", Limit: 50},
	}

	tests := []struct {
		path, method string
		wantLimit    int
		wantNil      bool
	}{
		{"/run", "POST", 10, false},
		{"/run", "GET", 0, true},
		{"/runs/abc/steps", "GET", 50, false},
		{"/health", "GET", 0, false},
		{"/validate", "POST", 0, true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s %s", tt.method, tt.path), func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantLimit, got.Limit)
		})
	}
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_DEFAULT_LIMIT", "42")
	t.Setenv("RATE_LIMIT_WHITELIST", " 1.1.1.1 , 2.2.2.2")
	t.Setenv("RATE_LIMIT_RUNS_PER_HOUR", "3")

	cfg := LoadConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 42, cfg.DefaultLimit)
	assert.Equal(t, map[string]bool{"1.1.1.1": true, "2.2.2.2": true}, cfg.Whitelist)
	assert.Equal(t, 3, MatchEndpoint("/run", "POST", cfg.EndpointConfigs).Limit)
	assert.Equal(t, 120, MatchEndpoint("/validate", "POST", cfg.EndpointConfigs).Limit)
}

func TestLoadConfig_Disabled(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	assert.False(t, LoadConfig().Enabled)
}
