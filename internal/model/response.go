package model

import (
	"fmt"
	"time"
)

// SearchResponse is the final attributed answer for one query.
type SearchResponse struct {
	QueryID          string                  `json:"query_id"`
	Query            string                  `json:"query"`
	Intent           Intent                  `json:"intent"`
	Results          []SearchResultItem      `json:"results"`
	Summary          string                  `json:"summary,omitempty"`
	ExtendedSummary  string                  `json:"extended_summary,omitempty"`
	Attributions     []Attribution           `json:"attributions,omitempty"`
	FactVerification *FactVerificationResult `json:"fact_verification,omitempty"`
	ProviderResults  []ProviderResult        `json:"provider_results,omitempty"`
	TotalResults     int                     `json:"total_results"`
	LatencyMs        int64                   `json:"latency_ms"`
	Timestamp        time.Time               `json:"timestamp"`
	CacheHit         bool                    `json:"cache_hit"`
	Errors           []string                `json:"errors,omitempty"`
}

// Successful reports whether the search produced any results.
func (r *SearchResponse) Successful() bool {
	return len(r.Results) > 0
}

// PartialSuccess reports whether results were produced but some providers failed.
func (r *SearchResponse) PartialSuccess() bool {
	return r.Successful() && len(r.Errors) > 0
}

// StatusMessage returns a user-facing summary of the outcome.
func (r *SearchResponse) StatusMessage() string {
	switch {
	case !r.Successful():
		return "No results found"
	case len(r.Errors) == 0:
		return fmt.Sprintf("Found %d results", len(r.Results))
	default:
		return fmt.Sprintf("Found %d results (%d providers unavailable)", len(r.Results), len(r.Errors))
	}
}

// TopAttributions returns at most n attributions.
func (r *SearchResponse) TopAttributions(n int) []Attribution {
	if len(r.Attributions) <= n {
		return r.Attributions
	}
	return r.Attributions[:n]
}
