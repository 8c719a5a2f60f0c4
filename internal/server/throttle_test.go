package server

import (
	"testing"
	"time"

	"github.com/lawnchairsociety/tococyn/internal/config"
)

// fakeClock freezes the throttle clock and returns it for the test to advance.
func fakeClock(t *Throttle) *time.Time {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t.now = func() time.Time { return now }
	return &now
}

func TestNewThrottle_Disabled(t *testing.T) {
	for _, cfg := range []config.RateLimitConfig{
		{},
		{MaxCommands: 5},
		{WindowSeconds: 10},
	} {
		if th := NewThrottle(cfg); th != nil {
			t.Errorf("NewThrottle(%+v) should be nil", cfg)
		}
	}

	var th *Throttle
	if ok, _ := th.Allow(); !ok {
		t.Error("nil throttle should allow everything")
	}
	th.Reset()
}

func TestThrottle_Allow(t *testing.T) {
	th := NewThrottle(config.RateLimitConfig{MaxCommands: 3, WindowSeconds: 10})
	now := fakeClock(th)

	for i := 0; i < 3; i++ {
		if ok, _ := th.Allow(); !ok {
			t.Fatalf("command %d should be allowed", i+1)
		}
		*now = now.Add(time.Second)
	}

	ok, wait := th.Allow()
	if ok {
		t.Fatal("fourth command in the window should be throttled")
	}
	if wait != 7*time.Second {
		t.Errorf("wait = %v, want 7s", wait)
	}

	// First command leaves the window after 10s
	*now = now.Add(7 * time.Second)
	if ok, _ := th.Allow(); !ok {
		t.Error("command should be allowed once the oldest expired")
	}
	if ok, _ := th.Allow(); ok {
		t.Error("window is full again")
	}
}

func TestThrottle_Reset(t *testing.T) {
	th := NewThrottle(config.RateLimitConfig{MaxCommands: 1, WindowSeconds: 60})
	fakeClock(th)

	th.Allow()
	if ok, _ := th.Allow(); ok {
		t.Fatal("second command should be throttled")
	}
	th.Reset()
	if ok, _ := th.Allow(); !ok {
		t.Error("command should be allowed after Reset")
	}
}
