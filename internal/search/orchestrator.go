package search

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ppiankov/querent/internal/aggregate"
	"github.com/ppiankov/querent/internal/cache"
	"github.com/ppiankov/querent/internal/intent"
	"github.com/ppiankov/querent/internal/model"
	"github.com/ppiankov/querent/internal/provider"
	"github.com/ppiankov/querent/internal/ratelimit"
	"github.com/ppiankov/querent/internal/summarize"
	"github.com/ppiankov/querent/internal/verify"
)

// Orchestrator runs the full query pipeline: intent detection, cached
// rate-limited provider fan-out, aggregation, summarization, and
// optional fact verification. Provider failures never abort a search;
// whatever succeeded within the deadline is returned.
type Orchestrator struct {
	cfg      model.Config
	detector *intent.Detector
	cache    *cache.Layer
	limits   *ratelimit.Manager
	agg      *aggregate.Aggregator
	summ     *summarize.Summarizer
	llm      *summarize.LLMSummarizer
	verifier *verify.Verifier

	mu        sync.RWMutex
	providers []provider.SearchProvider

	totalQueries atomic.Int64
	cacheHits    atomic.Int64
}

// New creates an orchestrator with no registered providers.
func New(cfg model.Config) *Orchestrator {
	return &Orchestrator{
		cfg:      cfg,
		detector: intent.NewDetector(),
		cache:    cache.NewLayer(cfg.Cache),
		limits:   ratelimit.NewManager(cfg.RateLimit),
		agg:      aggregate.New(),
		summ:     summarize.New(),
		verifier: verify.New(),
	}
}

// SetLLMSummarizer attaches an optional model-backed summary refiner.
func (o *Orchestrator) SetLLMSummarizer(llm *summarize.LLMSummarizer) {
	o.llm = llm
}

// Register adds a provider and installs its rate bucket.
func (o *Orchestrator) Register(p provider.SearchProvider) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.providers = append(o.providers, p)
	o.limits.Register(p.Name(), o.cfg.RateLimit.ProviderCapacity, o.cfg.RateLimit.ProviderRefill)
}

// Unregister removes a provider by name.
func (o *Orchestrator) Unregister(name string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i, p := range o.providers {
		if p.Name() == name {
			o.providers = append(o.providers[:i], o.providers[i+1:]...)
			return
		}
	}
}

// Providers returns a snapshot of registered providers.
func (o *Orchestrator) Providers() []provider.SearchProvider {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make([]provider.SearchProvider, len(o.providers))
	copy(out, o.providers)
	return out
}

// Limits exposes the rate limiter for status reporting.
func (o *Orchestrator) Limits() *ratelimit.Manager {
	return o.limits
}

// Cache exposes the cache layer for statistics and invalidation.
func (o *Orchestrator) Cache() *cache.Layer {
	return o.cache
}

// Search runs one query end to end. An error return means the query
// itself could not be processed; provider failures instead surface in
// the response's Errors list.
func (o *Orchestrator) Search(ctx context.Context, query *model.SearchQuery) (*model.SearchResponse, error) {
	start := time.Now()

	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}
	o.totalQueries.Add(1)

	if query.Intent == "" || query.Intent == model.IntentUnknown {
		detection := o.detector.Detect(query)
		query = query.WithIntent(detection.Intent)
	}

	if cached, ok := o.cache.GetResponse(query); ok {
		o.cacheHits.Add(1)
		cached.CacheHit = true
		cached.LatencyMs = time.Since(start).Milliseconds()
		return cached, nil
	}

	selected := o.selectProviders(query)
	if len(selected) == 0 {
		return &model.SearchResponse{
			QueryID:   query.ID,
			Query:     query.Text,
			Intent:    query.Intent,
			LatencyMs: time.Since(start).Milliseconds(),
			Timestamp: time.Now().UTC(),
			Errors:    []string{"no providers available for intent: " + string(query.Intent)},
		}, nil
	}

	providerResults, err := o.fanOut(ctx, query, selected)
	if err != nil {
		return nil, err
	}

	results := o.agg.Process(providerResults, query.MaxResults)

	response := &model.SearchResponse{
		QueryID:         query.ID,
		Query:           query.Text,
		Intent:          query.Intent,
		Results:         results,
		ProviderResults: providerResults,
		TotalResults:    len(results),
		Timestamp:       time.Now().UTC(),
	}
	for _, pr := range providerResults {
		if !pr.Success {
			response.Errors = append(response.Errors, pr.ProviderName+": "+pr.Error)
		}
	}

	if len(results) > 0 {
		if o.cfg.Search.EnableSummarization {
			o.summarizeInto(ctx, query, response, providerResults)
		}
		if o.cfg.Search.EnableFactVerification && query.Intent == model.IntentFactCheck {
			response.FactVerification = o.verifier.VerifyWithIntent(query.Text, query.Intent, providerResults)
		}
	}

	response.LatencyMs = time.Since(start).Milliseconds()
	if response.Successful() {
		o.cache.PutResponse(query, response)
	}
	return response, nil
}

// selectProviders filters to providers that handle the intent, orders
// them by descending priority, and caps the fan-out width.
func (o *Orchestrator) selectProviders(query *model.SearchQuery) []provider.SearchProvider {
	o.mu.RLock()
	defer o.mu.RUnlock()

	var eligible []provider.SearchProvider
	for _, p := range o.providers {
		if provider.CanHandle(p, query) {
			eligible = append(eligible, p)
		}
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].Priority(query.Intent) > eligible[j].Priority(query.Intent)
	})

	max := o.cfg.Search.MaxProvidersPerQuery
	if max > 0 && len(eligible) > max {
		eligible = eligible[:max]
	}
	return eligible
}

// fanOut queries all selected providers concurrently under the query
// deadline. Providers that miss the deadline are reported as failures;
// only cancellation of the parent context aborts the search.
func (o *Orchestrator) fanOut(ctx context.Context, query *model.SearchQuery, selected []provider.SearchProvider) ([]model.ProviderResult, error) {
	timeout := query.Timeout
	if timeout <= 0 {
		timeout = o.cfg.Search.DefaultTimeout
	}
	fanCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resultCh := make(chan model.ProviderResult, len(selected))
	var wg sync.WaitGroup
	for _, p := range selected {
		wg.Add(1)
		go func(p provider.SearchProvider) {
			defer wg.Done()
			resultCh <- o.queryProvider(fanCtx, p, query)
		}(p)
	}
	go func() {
		wg.Wait()
		close(resultCh)
	}()

	var results []model.ProviderResult
	for pr := range resultCh {
		results = append(results, pr)
	}

	if ctx.Err() != nil {
		return nil, fmt.Errorf("search cancelled: %w", ctx.Err())
	}
	return results, nil
}

// queryProvider runs a single provider call behind the rate limiter
// and the provider-level cache. The permit is checked first: an
// exhausted bucket fails the call even when a cached result exists.
func (o *Orchestrator) queryProvider(ctx context.Context, p provider.SearchProvider, query *model.SearchQuery) model.ProviderResult {
	if !o.limits.TryAcquire(p.Name()) {
		return model.ProviderFailure(p.Name(), "Rate limit exceeded", 0)
	}

	if cached, ok := o.cache.GetProviderResult(p.Name(), query); ok {
		return cached
	}

	result := p.Search(ctx, query)
	if result.Success {
		o.cache.PutProviderResult(p.Name(), query, result)
	}
	return result
}

// summarizeInto fills the summary fields, preferring the model-backed
// refiner when available and falling back to extractive output.
func (o *Orchestrator) summarizeInto(ctx context.Context, query *model.SearchQuery, response *model.SearchResponse, providerResults []model.ProviderResult) {
	report := o.summ.Summarize(response.Results, providerResults)
	response.Summary = report.Brief
	response.ExtendedSummary = report.Extended
	response.Attributions = report.Attributions

	if o.llm != nil {
		if refined, err := o.llm.Refine(ctx, query.Text, report.Extended); err == nil && refined != "" {
			response.Summary = refined
		}
	}
}

// Statistics is a point-in-time view of orchestrator activity.
type Statistics struct {
	TotalQueries        int64
	CacheHits           int64
	CacheHitRate        float64
	RegisteredProviders int
}

// Stats returns orchestrator counters.
func (o *Orchestrator) Stats() Statistics {
	total := o.totalQueries.Load()
	hits := o.cacheHits.Load()
	rate := 0.0
	if total > 0 {
		rate = float64(hits) / float64(total)
	}
	o.mu.RLock()
	registered := len(o.providers)
	o.mu.RUnlock()

	return Statistics{
		TotalQueries:        total,
		CacheHits:           hits,
		CacheHitRate:        rate,
		RegisteredProviders: registered,
	}
}
