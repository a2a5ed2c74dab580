package webhook

import (
	"crypto/subtle"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

// SecurityValidator checks inbound deliveries before they are parsed.
type SecurityValidator struct {
	config      SecurityConfig
	allowed     []*net.IPNet
	rateLimiter *rateLimiter
}

func NewSecurityValidator(config SecurityConfig) *SecurityValidator {
	if config.RateLimitPerMin <= 0 {
		config.RateLimitPerMin = DefaultRateLimitPerMin
	}
	v := &SecurityValidator{
		config:      config,
		rateLimiter: newRateLimiter(config.RateLimitPerMin),
	}
	for _, entry := range config.AllowedIPs {
		entry = strings.TrimSpace(entry)
		if !strings.Contains(entry, "/") {
			if strings.Contains(entry, ":") {
				entry += "/128"
			} else {
				entry += "/32"
			}
		}
		if _, ipNet, err := net.ParseCIDR(entry); err == nil {
			v.allowed = append(v.allowed, ipNet)
		}
	}
	return v
}

// VerificationEnabled reports whether a shared secret is configured.
func (v *SecurityValidator) VerificationEnabled() bool {
	return v.config.Secret != ""
}

// ValidateGitLabToken compares the X-Gitlab-Token header with the shared secret.
func (v *SecurityValidator) ValidateGitLabToken(token string) error {
	if !v.VerificationEnabled() {
		return nil
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(v.config.Secret)) != 1 {
		return ErrInvalidToken
	}
	return nil
}

// ValidateIPAddress checks ip against the allow list.
func (v *SecurityValidator) ValidateIPAddress(ip string) error {
	if len(v.config.AllowedIPs) == 0 {
		return nil
	}
	parsed := net.ParseIP(ip)
	if parsed != nil {
		for _, n := range v.allowed {
			if n.Contains(parsed) {
				return nil
			}
		}
	}
	return fmt.Errorf("%w: %s", ErrIPNotAllowed, ip)
}

// CheckRateLimit enforces the per-source rate.
func (v *SecurityValidator) CheckRateLimit(source string) error {
	return v.rateLimiter.Allow(source)
}

// rateLimiter keeps one token bucket per source; idle sources expire.
type rateLimiter struct {
	limiters *expirable.LRU[string, *rate.Limiter]
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
}

func newRateLimiter(requestsPerMin int) *rateLimiter {
	return &rateLimiter{
		limiters: expirable.NewLRU[string, *rate.Limiter](1000, nil, 5*time.Minute),
		rate:     rate.Limit(float64(requestsPerMin) / 60.0),
		burst:    max(requestsPerMin/10, 1),
	}
}

func (rl *rateLimiter) Allow(key string) error {
	rl.mu.Lock()
	limiter, ok := rl.limiters.Get(key)
	if !ok {
		limiter = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters.Add(key, limiter)
	}
	rl.mu.Unlock()

	if !limiter.Allow() {
		return fmt.Errorf("%w for %s", ErrRateLimited, key)
	}
	return nil
}

// Deliveries remembers delivery ids for a while so retried deliveries are
// acknowledged without a second review.
type Deliveries struct {
	mu   sync.Mutex
	seen *expirable.LRU[string, struct{}]
}

// NewDeliveries creates a delivery id cache; ttl <= 0 uses DefaultDedupTTL.
func NewDeliveries(ttl time.Duration) *Deliveries {
	if ttl <= 0 {
		ttl = DefaultDedupTTL
	}
	return &Deliveries{seen: expirable.NewLRU[string, struct{}](dedupSize, nil, ttl)}
}

// Claim returns false when id was claimed within the TTL. Empty ids are never deduplicated.
func (d *Deliveries) Claim(id string) bool {
	if id == "" {
		return true
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.seen.Contains(id) {
		return false
	}
	d.seen.Add(id, struct{}{})
	return true
}

// Release forgets id so a retry of a rejected delivery is processed.
func (d *Deliveries) Release(id string) {
	if id == "" {
		return
	}
	d.seen.Remove(id)
}
