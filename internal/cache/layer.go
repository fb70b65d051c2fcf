package cache

import (
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/ppiankov/querent/internal/model"
)

const cleanupInterval = 10 * time.Minute

// Layer holds the two independent search caches:
//
//   - provider cache: one entry per (provider, normalized query, language),
//     default TTL 60 minutes, capacity 1000
//   - response cache: one entry per (normalized query, language, intent),
//     default TTL 30 minutes, capacity 500
//
// Both are bounded: when full, the oldest written entry is evicted.
// All operations are safe under concurrent use; statistics reads never
// block writers.
type Layer struct {
	provider *boundedCache
	response *boundedCache

	providerHits   atomic.Int64
	providerMisses atomic.Int64
	responseHits   atomic.Int64
	responseMisses atomic.Int64
}

// Statistics is a point-in-time snapshot of cache effectiveness.
type Statistics struct {
	ProviderSize     int     `json:"provider_size"`
	ProviderHitRate  float64 `json:"provider_hit_rate"`
	ProviderMissRate float64 `json:"provider_miss_rate"`
	ResponseSize     int     `json:"response_size"`
	ResponseHitRate  float64 `json:"response_hit_rate"`
	ResponseMissRate float64 `json:"response_miss_rate"`
}

// OverallEfficiency averages the two hit rates.
func (s Statistics) OverallEfficiency() float64 {
	return (s.ProviderHitRate + s.ResponseHitRate) / 2.0
}

// NewLayer creates the cache layer, falling back to defaults for
// non-positive config values.
func NewLayer(cfg model.CacheConfig) *Layer {
	if cfg.ProviderTTL <= 0 {
		cfg.ProviderTTL = 60 * time.Minute
	}
	if cfg.ProviderSize <= 0 {
		cfg.ProviderSize = 1000
	}
	if cfg.ResponseTTL <= 0 {
		cfg.ResponseTTL = 30 * time.Minute
	}
	if cfg.ResponseSize <= 0 {
		cfg.ResponseSize = 500
	}

	return &Layer{
		provider: newBoundedCache(cfg.ProviderTTL, cfg.ProviderSize),
		response: newBoundedCache(cfg.ResponseTTL, cfg.ResponseSize),
	}
}

// GetProviderResult returns a cached provider result, or false on miss.
// Skipped entirely when the query bypasses the cache.
func (l *Layer) GetProviderResult(providerName string, query *model.SearchQuery) (model.ProviderResult, bool) {
	if query.BypassCache {
		return model.ProviderResult{}, false
	}

	val, found := l.provider.get(providerKey(providerName, query))
	if !found {
		l.providerMisses.Add(1)
		return model.ProviderResult{}, false
	}
	l.providerHits.Add(1)
	return val.(model.ProviderResult), true
}

// PutProviderResult stores one provider's result.
func (l *Layer) PutProviderResult(providerName string, query *model.SearchQuery, result model.ProviderResult) {
	l.provider.set(providerKey(providerName, query), result)
}

// GetResponse returns a cached full response, or false on miss.
func (l *Layer) GetResponse(query *model.SearchQuery) (*model.SearchResponse, bool) {
	if query.BypassCache {
		return nil, false
	}

	val, found := l.response.get(responseKey(query))
	if !found {
		l.responseMisses.Add(1)
		return nil, false
	}
	l.responseHits.Add(1)

	// Return a copy so callers can set CacheHit/LatencyMs freely.
	cached := val.(model.SearchResponse)
	return &cached, true
}

// PutResponse stores a full response. The stored copy always carries
// CacheHit=false so later reads can report hits correctly.
func (l *Layer) PutResponse(query *model.SearchQuery, response *model.SearchResponse) {
	stored := *response
	stored.CacheHit = false
	l.response.set(responseKey(query), stored)
}

// InvalidateProvider drops every provider-cache entry for one provider.
func (l *Layer) InvalidateProvider(providerName string) {
	l.provider.deleteMatching(func(key string) bool {
		return strings.HasPrefix(key, providerName+":")
	})
}

// InvalidateQuery drops the response entry for a query and any
// provider entry whose key contains the normalized text.
func (l *Layer) InvalidateQuery(query *model.SearchQuery) {
	l.response.delete(responseKey(query))

	normalized := NormalizeText(query.Text)
	l.provider.deleteMatching(func(key string) bool {
		return strings.Contains(key, normalized)
	})
}

// ClearAll empties both caches.
func (l *Layer) ClearAll() {
	l.provider.clear()
	l.response.clear()
}

// Stats returns current cache statistics.
func (l *Layer) Stats() Statistics {
	return Statistics{
		ProviderSize:     l.provider.len(),
		ProviderHitRate:  hitRate(l.providerHits.Load(), l.providerMisses.Load()),
		ProviderMissRate: missRate(l.providerHits.Load(), l.providerMisses.Load()),
		ResponseSize:     l.response.len(),
		ResponseHitRate:  hitRate(l.responseHits.Load(), l.responseMisses.Load()),
		ResponseMissRate: missRate(l.responseHits.Load(), l.responseMisses.Load()),
	}
}

func hitRate(hits, misses int64) float64 {
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}

func missRate(hits, misses int64) float64 {
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(misses) / float64(total)
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9 ]`)
var multiSpace = regexp.MustCompile(`\s+`)

// NormalizeText canonicalizes query text for cache keys: lowercase,
// trimmed, whitespace collapsed, punctuation stripped.
func NormalizeText(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = multiSpace.ReplaceAllString(s, " ")
	return nonAlnum.ReplaceAllString(s, "")
}

// providerKey format: "providerName:normalizedQuery:language".
func providerKey(providerName string, query *model.SearchQuery) string {
	return providerName + ":" + NormalizeText(query.Text) + ":" + query.Language
}

// responseKey format: "normalizedQuery:language:intent".
func responseKey(query *model.SearchQuery) string {
	intent := string(query.Intent)
	if intent == "" {
		intent = "auto"
	}
	return NormalizeText(query.Text) + ":" + query.Language + ":" + intent
}

// boundedCache pairs a TTL cache with a write-order key list used for
// size-based eviction. go-cache handles expiry; the key list enforces
// the capacity bound.
type boundedCache struct {
	ttl      *gocache.Cache
	capacity int

	mu    sync.Mutex
	order []string
}

func newBoundedCache(ttl time.Duration, capacity int) *boundedCache {
	return &boundedCache{
		ttl:      gocache.New(ttl, cleanupInterval),
		capacity: capacity,
	}
}

func (b *boundedCache) get(key string) (any, bool) {
	return b.ttl.Get(key)
}

func (b *boundedCache) set(key string, value any) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.ttl.Get(key); !exists {
		b.order = append(b.order, key)
	}
	b.ttl.SetDefault(key, value)

	for len(b.order) > b.capacity {
		oldest := b.order[0]
		b.order = b.order[1:]
		b.ttl.Delete(oldest)
	}
}

func (b *boundedCache) delete(key string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ttl.Delete(key)
	b.dropKeyLocked(key)
}

func (b *boundedCache) deleteMatching(match func(key string) bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	kept := b.order[:0]
	for _, key := range b.order {
		if match(key) {
			b.ttl.Delete(key)
		} else {
			kept = append(kept, key)
		}
	}
	b.order = kept
}

func (b *boundedCache) clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ttl.Flush()
	b.order = nil
}

func (b *boundedCache) len() int {
	return b.ttl.ItemCount()
}

func (b *boundedCache) dropKeyLocked(key string) {
	for i, k := range b.order {
		if k == key {
			b.order = append(b.order[:i], b.order[i+1:]...)
			return
		}
	}
}
