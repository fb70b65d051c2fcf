package model

import (
	"fmt"
	"strings"
	"time"
)

// SearchResultItem is the canonical representation of a single hit.
// Every provider-specific format is normalized to this structure.
type SearchResultItem struct {
	Title       string            `json:"title"`
	Snippet     string            `json:"snippet"`
	URL         string            `json:"url"`
	Source      string            `json:"source"`
	PublishedAt *time.Time        `json:"published_at,omitempty"`
	Language    string            `json:"language,omitempty"`
	Confidence  *float64          `json:"confidence,omitempty"` // 0.0 to 1.0
	ImageURL    string            `json:"image_url,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Quote returns a concise excerpt of the snippet, at most maxWords words.
func (r *SearchResultItem) Quote(maxWords int) string {
	words := strings.Fields(r.Snippet)
	if len(words) <= maxWords {
		return r.Snippet
	}
	return strings.Join(words[:maxWords], " ") + "..."
}

// ProviderResult is one provider's response to one query.
// Created once per provider call and never mutated.
type ProviderResult struct {
	ProviderName string             `json:"provider_name"`
	Success      bool               `json:"success"`
	Results      []SearchResultItem `json:"results,omitempty"`
	Error        string             `json:"error,omitempty"` // set iff !Success
	LatencyMs    int64              `json:"latency_ms"`
	RetrievedAt  time.Time          `json:"retrieved_at"`
	Metadata     map[string]string  `json:"metadata,omitempty"`
}

// ProviderSuccess builds a successful provider result.
func ProviderSuccess(name string, results []SearchResultItem, latencyMs int64) ProviderResult {
	return ProviderResult{
		ProviderName: name,
		Success:      true,
		Results:      results,
		LatencyMs:    latencyMs,
		RetrievedAt:  time.Now().UTC(),
	}
}

// ProviderFailure builds a failed provider result.
func ProviderFailure(name, errMsg string, latencyMs int64) ProviderResult {
	return ProviderResult{
		ProviderName: name,
		Success:      false,
		Error:        errMsg,
		LatencyMs:    latencyMs,
		RetrievedAt:  time.Now().UTC(),
	}
}

// HasResults reports whether this provider returned usable results.
func (p *ProviderResult) HasResults() bool {
	return p.Success && len(p.Results) > 0
}

// ProviderStatus is a health snapshot of one provider.
type ProviderStatus struct {
	ProviderName   string    `json:"provider_name"`
	Healthy        bool      `json:"healthy"`
	ErrorMessage   string    `json:"error_message,omitempty"`
	QuotaRemaining *int      `json:"quota_remaining,omitempty"`
	LastChecked    time.Time `json:"last_checked"`
}

// Attribution is a citation record backing a summary or verdict.
type Attribution struct {
	Source      string    `json:"source"`
	URL         string    `json:"url"`
	RetrievedAt time.Time `json:"retrieved_at"`
	Snippet     string    `json:"snippet"`
	Confidence  *float64  `json:"confidence,omitempty"`
}

// Citation formats the attribution as a single citation line.
func (a *Attribution) Citation() string {
	snippet := a.Snippet
	if len(snippet) > 100 {
		snippet = snippet[:100] + "..."
	}
	return fmt.Sprintf("%s: %s (%s, retrieved %s)", a.Source, snippet, a.URL, a.RetrievedAt.Format(time.RFC3339))
}
