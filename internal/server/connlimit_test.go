package server

import (
	"net/http"
	"sync"
	"testing"

	"github.com/lawnchairsociety/tococyn/internal/config"
)

func TestConnLimiter(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.ConnectionsConfig
		attempts []string
		want     []bool
	}{
		{
			name:     "per ip limit",
			cfg:      config.ConnectionsConfig{MaxPerIP: 2},
			attempts: []string{"10.0.0.1", "10.0.0.1", "10.0.0.1", "10.0.0.2"},
			want:     []bool{true, true, false, true},
		},
		{
			name:     "total limit",
			cfg:      config.ConnectionsConfig{MaxTotal: 2},
			attempts: []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"},
			want:     []bool{true, true, false},
		},
		{
			name:     "unlimited",
			cfg:      config.ConnectionsConfig{},
			attempts: []string{"10.0.0.1", "10.0.0.1", "10.0.0.1", "10.0.0.1"},
			want:     []bool{true, true, true, true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limiter := NewConnLimiter(tt.cfg)
			for i, ip := range tt.attempts {
				if got := limiter.TryAcquire(ip); got != tt.want[i] {
					t.Errorf("attempt %d from %s = %v, want %v", i, ip, got, tt.want[i])
				}
			}
		})
	}
}

func TestConnLimiter_Release(t *testing.T) {
	limiter := NewConnLimiter(config.ConnectionsConfig{MaxPerIP: 1})

	if !limiter.TryAcquire("10.0.0.1") {
		t.Fatal("first acquire rejected")
	}
	if limiter.TryAcquire("10.0.0.1") {
		t.Fatal("second acquire allowed past per-IP limit")
	}
	limiter.Release("10.0.0.1")
	if !limiter.TryAcquire("10.0.0.1") {
		t.Error("acquire after release rejected")
	}

	// Releasing an unknown IP must not drive counts negative
	limiter.Release("10.0.0.9")
	total, ips := limiter.Stats()
	if total != 1 || ips != 1 {
		t.Errorf("Stats() = %d, %d, want 1, 1", total, ips)
	}
}

func TestConnLimiter_ConcurrentAccess(t *testing.T) {
	limiter := NewConnLimiter(config.ConnectionsConfig{MaxTotal: 1000})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				if limiter.TryAcquire("10.0.0.1") {
					limiter.Release("10.0.0.1")
				}
			}
		}()
	}
	wg.Wait()

	if total, ips := limiter.Stats(); total != 0 || ips != 0 {
		t.Errorf("Stats() after balanced acquire/release = %d, %d", total, ips)
	}
}

func TestExtractIP(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"192.168.1.1:12345", "192.168.1.1"},
		{"[::1]:12345", "::1"},
		{"localhost:4443", "localhost"},
		{"192.168.1.1", "192.168.1.1"},
	}

	for _, tt := range tests {
		if result := extractIP(tt.input); result != tt.expected {
			t.Errorf("extractIP(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestGetRealIP(t *testing.T) {
	tests := []struct {
		name       string
		xff        string
		xri        string
		remoteAddr string
		expected   string
	}{
		{"forwarded chain", "203.0.113.50, 70.41.3.18", "", "10.0.0.1:12345", "203.0.113.50"},
		{"real ip header", "", "203.0.113.50", "10.0.0.1:12345", "203.0.113.50"},
		{"forwarded wins", "203.0.113.50", "198.51.100.25", "10.0.0.1:12345", "203.0.113.50"},
		{"remote addr", "", "", "192.168.1.100:54321", "192.168.1.100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &http.Request{RemoteAddr: tt.remoteAddr, Header: http.Header{}}
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}
			if got := getRealIP(req); got != tt.expected {
				t.Errorf("getRealIP() = %q, want %q", got, tt.expected)
			}
		})
	}
}
