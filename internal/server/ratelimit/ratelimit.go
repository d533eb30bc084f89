// Package ratelimit provides per-client token bucket rate limiting. Model
// generation endpoints get tight limits; plain CRUD rides the default.
package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// bucket is a token bucket: capacity tokens, refilled at rate tokens/second.
type bucket struct {
	mu         sync.Mutex
	capacity   int
	refillRate float64
	tokens     float64
	lastRefill time.Time
}

func newBucket(capacity int, refillRate float64) *bucket {
	return &bucket{
		capacity:   capacity,
		refillRate: refillRate,
		tokens:     float64(capacity),
		lastRefill: time.Now(),
	}
}

func (b *bucket) refillLocked(now time.Time) {
	b.tokens = min(float64(b.capacity), b.tokens+now.Sub(b.lastRefill).Seconds()*b.refillRate)
	b.lastRefill = now
}

func (b *bucket) take() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refillLocked(time.Now())
	if b.tokens >= 1.0 {
		b.tokens -= 1.0
		return true
	}
	return false
}

// status reports remaining tokens and when the bucket will be full again.
func (b *bucket) status() (remaining int, resetTime time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := time.Now()
	b.refillLocked(now)
	remaining = int(b.tokens)
	if b.tokens < float64(b.capacity) {
		secondsUntilFull := (float64(b.capacity) - b.tokens) / b.refillRate
		return remaining, now.Add(time.Duration(secondsUntilFull * float64(time.Second)))
	}
	return remaining, now
}

// Rule is the limit applied to one endpoint. Path matching is exact, or
// prefix when Path ends with "/".
type Rule struct {
	Path   string
	Method string
	Limit  int
	Window time.Duration
	Burst  int
}

// Config holds limiter configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Rules           []Rule
}

// LoadConfig builds a Config from environment variables and the built-in
// endpoint rules.
func LoadConfig() *Config {
	if !envBool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}
	return &Config{
		Enabled:         true,
		DefaultLimit:    envInt("RATE_LIMIT_DEFAULT_LIMIT", 600),
		DefaultWindow:   envDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: envDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Rules:           defaultRules(),
	}
}

// defaultRules tiers the API: generation endpoints burn model quota and get
// per-hour limits, writes get per-minute limits, reads ride the default.
func defaultRules() []Rule {
	return []Rule{
		{Path: "/jobs/extract", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},
		{Path: "/jobs/", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/jobs", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/jobs/", Method: "PUT", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/resumes", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
	}
}

// match finds the rule for a path and method, nil when the default applies.
// The health check is always unlimited.
func match(path, method string, rules []Rule) *Rule {
	if path == "/health" && method == "GET" {
		return &Rule{Limit: 0}
	}
	for i := range rules {
		if rules[i].Path == path && rules[i].Method == method {
			return &rules[i]
		}
	}
	for i := range rules {
		r := &rules[i]
		if r.Method == method && strings.HasSuffix(r.Path, "/") && strings.HasPrefix(path, r.Path) {
			return r
		}
	}
	return nil
}

// Info describes the limit state returned with each decision.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Limiter applies per-client, per-endpoint token buckets.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	seen    map[string]time.Time
	config  *Config

	cleanupTicker *time.Ticker
	cleanupStop   chan struct{}
}

func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = LoadConfig()
	}
	l := &Limiter{
		buckets: make(map[string]*bucket),
		seen:    make(map[string]time.Time),
		config:  config,
	}
	if config.Enabled && config.CleanupInterval > 0 {
		l.cleanupTicker = time.NewTicker(config.CleanupInterval)
		l.cleanupStop = make(chan struct{})
		go l.cleanupLoop()
	}
	return l
}

// Allow decides whether a request from clientID to method path may proceed.
func (l *Limiter) Allow(clientID, path, method string) (bool, Info) {
	if !l.config.Enabled {
		return true, Info{Allowed: true}
	}

	rule := match(path, method, l.config.Rules)
	if rule == nil {
		rule = &Rule{Limit: l.config.DefaultLimit, Window: l.config.DefaultWindow, Burst: l.config.DefaultLimit}
	}
	if rule.Limit <= 0 {
		return true, Info{Allowed: true}
	}

	key := clientID + ":" + path + ":" + method
	b := l.bucketFor(key, rule)

	allowed := b.take()
	remaining, resetTime := b.status()

	var retryAfter time.Duration
	if !allowed {
		if retryAfter = time.Until(resetTime); retryAfter < 0 {
			retryAfter = 0
		}
	}
	return allowed, Info{
		Allowed:    allowed,
		Limit:      rule.Limit,
		Remaining:  remaining,
		ResetTime:  resetTime,
		RetryAfter: retryAfter,
	}
}

func (l *Limiter) bucketFor(key string, rule *Rule) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seen[key] = time.Now()
	if b, ok := l.buckets[key]; ok {
		return b
	}
	capacity := rule.Burst
	if capacity <= 0 {
		capacity = rule.Limit
	}
	b := newBucket(capacity, float64(rule.Limit)/rule.Window.Seconds())
	l.buckets[key] = b
	return b
}

func (l *Limiter) cleanupLoop() {
	for {
		select {
		case <-l.cleanupTicker.C:
			l.dropStale()
		case <-l.cleanupStop:
			return
		}
	}
}

// dropStale evicts buckets idle for over an hour.
func (l *Limiter) dropStale() {
	cutoff := time.Now().Add(-time.Hour)
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, last := range l.seen {
		if last.Before(cutoff) {
			delete(l.buckets, key)
			delete(l.seen, key)
		}
	}
}

// Stop halts the cleanup goroutine.
func (l *Limiter) Stop() {
	if l.cleanupTicker != nil {
		l.cleanupTicker.Stop()
	}
	if l.cleanupStop != nil {
		close(l.cleanupStop)
	}
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
