package tool

import (
	"context"
	"fmt"

	"github.com/ppiankov/querent/internal/model"
	"github.com/ppiankov/querent/internal/search"
	"github.com/ppiankov/querent/internal/verify"
)

const maxResultsLimit = 50

// Params are the arguments of a web_search tool invocation.
type Params struct {
	Query       string                 `json:"query"`
	Intent      string                 `json:"intent,omitempty"`
	MaxResults  int                    `json:"max_results,omitempty"`
	VerifyFacts bool                   `json:"verify_facts,omitempty"`
	Location    *model.LocationContext `json:"location,omitempty"`
}

// Validate checks parameter ranges before a search is attempted.
func (p Params) Validate() error {
	if p.Query == "" {
		return fmt.Errorf("query must not be empty")
	}
	if p.MaxResults != 0 && (p.MaxResults < 1 || p.MaxResults > maxResultsLimit) {
		return fmt.Errorf("max_results must be between 1 and %d, got %d", maxResultsLimit, p.MaxResults)
	}
	if p.Intent != "" {
		if _, err := model.ParseIntent(p.Intent); err != nil {
			return err
		}
	}
	if p.Location != nil {
		if err := p.Location.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Tool adapts the orchestrator to a flat request/response shape usable
// as an assistant tool call.
type Tool struct {
	orchestrator *search.Orchestrator
}

// New wraps an orchestrator.
func New(orchestrator *search.Orchestrator) *Tool {
	return &Tool{orchestrator: orchestrator}
}

// Execute runs a search and flattens the response into a map suitable
// for JSON serialization back to the caller. Searches that produce
// nothing usable return an error with a human-readable reason.
func (t *Tool) Execute(ctx context.Context, params Params) (map[string]any, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}

	query := model.NewSearchQuery(params.Query)
	if params.Intent != "" {
		parsed, _ := model.ParseIntent(params.Intent)
		query.Intent = parsed
	}
	if params.MaxResults > 0 {
		query.MaxResults = params.MaxResults
	}
	query.Location = params.Location

	response, err := t.orchestrator.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	if !response.Successful() {
		reason := response.StatusMessage()
		if len(response.Errors) > 0 {
			reason = fmt.Sprintf("%s (%s)", reason, response.Errors[0])
		}
		return nil, fmt.Errorf("search failed: %s", reason)
	}

	out := map[string]any{
		"status":       response.StatusMessage(),
		"intent":       string(response.Intent),
		"result_count": len(response.Results),
		"latency_ms":   response.LatencyMs,
		"cache_hit":    response.CacheHit,
	}
	if response.Summary != "" {
		out["summary"] = response.Summary
	}

	top := response.Results
	if len(top) > 5 {
		top = top[:5]
	}
	results := make([]map[string]any, 0, len(top))
	for _, item := range top {
		entry := map[string]any{
			"title":   item.Title,
			"snippet": item.Snippet,
			"url":     item.URL,
			"source":  item.Source,
		}
		if item.Confidence != nil {
			entry["confidence"] = *item.Confidence
		}
		results = append(results, entry)
	}
	out["results"] = results

	sources := make([]string, 0, len(response.Attributions))
	for _, a := range response.Attributions {
		sources = append(sources, a.Citation())
	}
	out["sources"] = sources

	if params.VerifyFacts {
		verification := response.FactVerification
		if verification == nil {
			verification = verify.New().VerifyWithIntent(params.Query, response.Intent, response.ProviderResults)
		}
		out["fact_verification"] = map[string]any{
			"verdict":    string(verification.Verdict),
			"confidence": verification.ConfidenceScore,
			"summary":    verification.Summary(),
		}
	}
	return out, nil
}
