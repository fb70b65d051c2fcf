package provider

import (
	"context"

	"github.com/ppiankov/querent/internal/model"
)

// SearchProvider wraps one upstream search API behind a uniform
// contract. Implementations must be safe for concurrent use, and
// Search must never fail with an error: every upstream problem is
// converted into a failure ProviderResult. Only context cancellation
// is allowed to cut a call short.
type SearchProvider interface {
	// Name is the unique provider name, e.g. "duckduckgo".
	Name() string

	// SupportedIntents lists the intents this provider can serve.
	SupportedIntents() []model.Intent

	// Search executes the query and normalizes the upstream response.
	Search(ctx context.Context, query *model.SearchQuery) model.ProviderResult

	// HealthCheck probes the upstream and reports current status.
	HealthCheck(ctx context.Context) model.ProviderStatus

	// Priority returns the selection weight for an intent,
	// 0 if the intent is unsupported.
	Priority(intent model.Intent) int
}

// CanHandle reports whether a provider supports the query's intent.
func CanHandle(p SearchProvider, query *model.SearchQuery) bool {
	if query.Intent == "" {
		return false
	}
	for _, intent := range p.SupportedIntents() {
		if intent == query.Intent {
			return true
		}
	}
	return false
}

func floatPtr(v float64) *float64 { return &v }
