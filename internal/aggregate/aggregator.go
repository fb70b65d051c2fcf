package aggregate

import (
	"sort"
	"strings"
	"time"

	"github.com/ppiankov/querent/internal/model"
)

const (
	confidenceWeight = 0.7
	recencyWeight    = 0.3

	defaultConfidence = 0.5
	defaultRecency    = 0.5
)

// Aggregator merges per-provider result sets into one ranked,
// deduplicated list. Ranking combines provider-reported confidence
// with publication recency.
type Aggregator struct {
	now func() time.Time
}

// New creates an aggregator using wall-clock time for recency scoring.
func New() *Aggregator {
	return &Aggregator{now: time.Now}
}

// Process flattens successful provider results, ranks them, removes
// duplicate URLs, and truncates to maxResults.
func (a *Aggregator) Process(providerResults []model.ProviderResult, maxResults int) []model.SearchResultItem {
	var all []model.SearchResultItem
	for _, pr := range providerResults {
		if pr.Success {
			all = append(all, pr.Results...)
		}
	}

	ranked := a.Rank(all)
	deduped := Deduplicate(ranked)
	if maxResults > 0 && len(deduped) > maxResults {
		deduped = deduped[:maxResults]
	}
	return deduped
}

// Rank orders results by combined score, best first. The sort is
// stable so equally scored results keep provider order.
func (a *Aggregator) Rank(results []model.SearchResultItem) []model.SearchResultItem {
	ranked := make([]model.SearchResultItem, len(results))
	copy(ranked, results)
	sort.SliceStable(ranked, func(i, j int) bool {
		return a.Score(ranked[i]) > a.Score(ranked[j])
	})
	return ranked
}

// Score computes the ranking score for a single result in [0, 1].
func (a *Aggregator) Score(item model.SearchResultItem) float64 {
	confidence := defaultConfidence
	if item.Confidence != nil {
		confidence = *item.Confidence
	}

	recency := defaultRecency
	if item.PublishedAt != nil {
		ageHours := a.now().Sub(*item.PublishedAt).Hours()
		if ageHours < 0 {
			ageHours = 0
		}
		recency = 1.0 / (1.0 + ageHours/24.0)
	}

	return confidenceWeight*confidence + recencyWeight*recency
}

// Deduplicate drops results whose normalized URL was already seen,
// keeping the first (highest ranked) occurrence. Results without a URL
// are always kept.
func Deduplicate(results []model.SearchResultItem) []model.SearchResultItem {
	seen := make(map[string]struct{}, len(results))
	out := make([]model.SearchResultItem, 0, len(results))
	for _, item := range results {
		if item.URL == "" {
			out = append(out, item)
			continue
		}
		key := NormalizeURL(item.URL)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}

// NormalizeURL canonicalizes a URL for duplicate detection: lowercase,
// no scheme, no leading www., no query or fragment, no trailing slash.
func NormalizeURL(rawURL string) string {
	s := strings.ToLower(strings.TrimSpace(rawURL))
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "www.")
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSuffix(s, "/")
}
