package server

import (
	"sync"
	"time"

	"github.com/lawnchairsociety/tococyn/internal/config"
)

// Throttle limits how many dice commands one session may run in a sliding
// window. A nil Throttle allows everything.
type Throttle struct {
	mu          sync.Mutex
	maxCommands int
	window      time.Duration
	times       []time.Time // Timestamps of recent commands
	now         func() time.Time
}

// NewThrottle returns a Throttle for cfg, or nil when the limit is disabled.
func NewThrottle(cfg config.RateLimitConfig) *Throttle {
	if cfg.MaxCommands <= 0 || cfg.WindowSeconds <= 0 {
		return nil
	}
	return &Throttle{
		maxCommands: cfg.MaxCommands,
		window:      time.Duration(cfg.WindowSeconds) * time.Second,
		times:       make([]time.Time, 0, cfg.MaxCommands),
		now:         time.Now,
	}
}

// Allow records a command and reports whether it may run. When it may not,
// the returned duration says how long until the oldest command expires.
func (t *Throttle) Allow() (bool, time.Duration) {
	if t == nil {
		return true, 0
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.cleanup(now)

	if len(t.times) >= t.maxCommands {
		return false, t.times[0].Add(t.window).Sub(now)
	}
	t.times = append(t.times, now)
	return true, 0
}

// cleanup drops timestamps outside the window
func (t *Throttle) cleanup(now time.Time) {
	cutoff := now.Add(-t.window)
	kept := t.times[:0]
	for _, ts := range t.times {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	t.times = kept
}

// Reset clears all tracking data
func (t *Throttle) Reset() {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.times = t.times[:0]
}
