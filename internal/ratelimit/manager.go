package ratelimit

import (
	"fmt"
	"sync"

	"github.com/ppiankov/querent/internal/model"
	"golang.org/x/time/rate"
)

// Manager gates upstream calls with one token bucket per provider plus
// a global bucket shared by all providers. TryAcquire is non-blocking:
// callers must treat a denied permit as an instant provider failure,
// never queue behind the limiter.
type Manager struct {
	mu        sync.RWMutex
	global    *rate.Limiter
	providers map[string]*rate.Limiter

	defaultRefill rate.Limit
	defaultBurst  int
}

// Status is a snapshot of limiter state for one provider.
type Status struct {
	ProviderName   string  `json:"provider_name"`
	GlobalTokens   float64 `json:"global_tokens"`
	ProviderTokens float64 `json:"provider_tokens"`
	Throttled      bool    `json:"throttled"`
}

// NewManager creates a manager from configuration, falling back to
// defaults for non-positive values.
func NewManager(cfg model.RateLimitConfig) *Manager {
	if cfg.ProviderCapacity <= 0 {
		cfg.ProviderCapacity = 60
	}
	if cfg.ProviderRefill <= 0 {
		cfg.ProviderRefill = 1.0
	}
	if cfg.GlobalCapacity <= 0 {
		cfg.GlobalCapacity = 100
	}
	if cfg.GlobalRefill <= 0 {
		cfg.GlobalRefill = 10.0
	}

	return &Manager{
		global:        rate.NewLimiter(rate.Limit(cfg.GlobalRefill), cfg.GlobalCapacity),
		providers:     make(map[string]*rate.Limiter),
		defaultRefill: rate.Limit(cfg.ProviderRefill),
		defaultBurst:  cfg.ProviderCapacity,
	}
}

// Register installs a custom bucket for a provider, replacing any
// existing one.
func (m *Manager) Register(providerName string, capacity int, refillPerSec float64) {
	if capacity <= 0 {
		capacity = m.defaultBurst
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.providers[providerName] = rate.NewLimiter(rate.Limit(refillPerSec), capacity)
}

// TryAcquire consumes one token from the global bucket and one from the
// provider's bucket. Returns false immediately when either is empty.
// A provider denial does not return the global token; the global bucket
// refills fast enough that the loss is negligible.
func (m *Manager) TryAcquire(providerName string) bool {
	if !m.global.Allow() {
		return false
	}
	return m.limiterFor(providerName).Allow()
}

// limiterFor returns the bucket for a provider, creating a default one
// on first use.
func (m *Manager) limiterFor(providerName string) *rate.Limiter {
	m.mu.RLock()
	limiter, ok := m.providers[providerName]
	m.mu.RUnlock()
	if ok {
		return limiter
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if limiter, ok := m.providers[providerName]; ok {
		return limiter
	}
	limiter = rate.NewLimiter(m.defaultRefill, m.defaultBurst)
	m.providers[providerName] = limiter
	return limiter
}

// StatusFor reports the current token counts for a provider.
func (m *Manager) StatusFor(providerName string) Status {
	globalTokens := m.global.Tokens()
	providerTokens := m.limiterFor(providerName).Tokens()
	return Status{
		ProviderName:   providerName,
		GlobalTokens:   globalTokens,
		ProviderTokens: providerTokens,
		Throttled:      globalTokens < 1.0 || providerTokens < 1.0,
	}
}

// Reset replaces a provider's bucket with a full one, keeping its rate.
func (m *Manager) Reset(providerName string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	limiter, ok := m.providers[providerName]
	if !ok {
		return
	}
	m.providers[providerName] = rate.NewLimiter(limiter.Limit(), limiter.Burst())
}

// Message formats a status line for logs and the providers command.
func (s Status) Message() string {
	if s.Throttled {
		return fmt.Sprintf("%s: rate limit exceeded", s.ProviderName)
	}
	return fmt.Sprintf("%s: %.1f requests available", s.ProviderName, s.ProviderTokens)
}
