// File: internal/ratelimit/ratelimit.go
package ratelimit

import (
    "net"
    "net/http"
    "strings"
    "sync"
    "time"
)

// Config holds rate limiting configuration
type Config struct {
    WindowSize    time.Duration // Time window for counting attempts
    MaxAttempts   int           // Maximum attempts per window
    CleanupPeriod time.Duration // How often to drop stale entries
    BanDuration   time.Duration // How long to ban after exceeding the limit
}

// DefaultAuthConfig returns sensible defaults for auth endpoints
func DefaultAuthConfig() *Config {
    return &Config{
        WindowSize:    15 * time.Minute,
        MaxAttempts:   5,
        CleanupPeriod: 30 * time.Minute,
        BanDuration:   30 * time.Minute,
    }
}

// ChatConfig allows a conversational request rate suited to interactive use:
// generous per-minute volume, short ban.
func ChatConfig() *Config {
    return &Config{
        WindowSize:    1 * time.Minute,
        MaxAttempts:   30,
        CleanupPeriod: 10 * time.Minute,
        BanDuration:   2 * time.Minute,
    }
}

// RateLimitInfo describes the outcome of one Allow check.
type RateLimitInfo struct {
    Allowed    bool
    Remaining  int
    ResetTime  time.Time
    RetryAfter time.Duration
    Banned     bool
}

type attemptRecord struct {
    count     int
    firstSeen time.Time
    bannedAt  *time.Time
}

// MemoryRateLimiter is a fixed-window in-memory limiter keyed by an opaque
// identifier, usually the client IP. Exceeding the window's budget bans the
// identifier for BanDuration.
type MemoryRateLimiter struct {
    config   *Config
    attempts map[string]*attemptRecord
    mu       sync.Mutex
    stopCh   chan struct{}
}

func NewMemoryRateLimiter(config *Config) *MemoryRateLimiter {
    limiter := &MemoryRateLimiter{
        config:   config,
        attempts: make(map[string]*attemptRecord),
        stopCh:   make(chan struct{}),
    }
    go limiter.cleanupLoop()
    return limiter
}

// Allow records one attempt for identifier and reports whether it fits the
// current window.
func (rl *MemoryRateLimiter) Allow(identifier string) (bool, *RateLimitInfo) {
    rl.mu.Lock()
    defer rl.mu.Unlock()

    now := time.Now()
    record, exists := rl.attempts[identifier]

    if !exists {
        rl.attempts[identifier] = &attemptRecord{count: 1, firstSeen: now}
        return true, &RateLimitInfo{
            Allowed:   true,
            Remaining: rl.config.MaxAttempts - 1,
            ResetTime: now.Add(rl.config.WindowSize),
        }
    }

    if record.bannedAt != nil {
        elapsed := now.Sub(*record.bannedAt)
        if elapsed < rl.config.BanDuration {
            return false, &RateLimitInfo{
                ResetTime:  record.bannedAt.Add(rl.config.BanDuration),
                RetryAfter: rl.config.BanDuration - elapsed,
                Banned:     true,
            }
        }
        // Ban expired, start a fresh window.
        record.count = 0
        record.firstSeen = now
        record.bannedAt = nil
    }

    if now.Sub(record.firstSeen) > rl.config.WindowSize {
        record.count = 0
        record.firstSeen = now
    }

    record.count++
    if record.count > rl.config.MaxAttempts {
        banTime := now
        record.bannedAt = &banTime
        return false, &RateLimitInfo{
            ResetTime:  now.Add(rl.config.BanDuration),
            RetryAfter: rl.config.BanDuration,
            Banned:     true,
        }
    }

    return true, &RateLimitInfo{
        Allowed:   true,
        Remaining: rl.config.MaxAttempts - record.count,
        ResetTime: record.firstSeen.Add(rl.config.WindowSize),
    }
}

// RecordSuccess clears the identifier's attempts, so a successful login does
// not count toward the failure budget.
func (rl *MemoryRateLimiter) RecordSuccess(identifier string) {
    rl.mu.Lock()
    defer rl.mu.Unlock()
    delete(rl.attempts, identifier)
}

func (rl *MemoryRateLimiter) cleanupLoop() {
    ticker := time.NewTicker(rl.config.CleanupPeriod)
    defer ticker.Stop()

    for {
        select {
        case <-ticker.C:
            rl.cleanup()
        case <-rl.stopCh:
            return
        }
    }
}

func (rl *MemoryRateLimiter) cleanup() {
    rl.mu.Lock()
    defer rl.mu.Unlock()

    now := time.Now()
    for identifier, record := range rl.attempts {
        windowExpired := now.Sub(record.firstSeen) > rl.config.WindowSize
        banExpired := record.bannedAt != nil && now.Sub(*record.bannedAt) > rl.config.BanDuration

        if (windowExpired && record.bannedAt == nil) || banExpired {
            delete(rl.attempts, identifier)
        }
    }
}

// Close stops the cleanup goroutine
func (rl *MemoryRateLimiter) Close() {
    close(rl.stopCh)
}

// GetClientIP extracts the real client IP, honoring proxy headers.
func GetClientIP(r *http.Request) string {
    if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
        if ip := strings.TrimSpace(strings.Split(forwarded, ",")[0]); ip != "" {
            return ip
        }
    }
    if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
        return realIP
    }
    ip, _, err := net.SplitHostPort(r.RemoteAddr)
    if err != nil {
        return r.RemoteAddr
    }
    return ip
}
