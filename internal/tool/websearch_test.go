package tool

import (
	"context"
	"testing"
	"time"

	"github.com/ppiankov/querent/internal/model"
	"github.com/ppiankov/querent/internal/provider"
	"github.com/ppiankov/querent/internal/search"
)

type stubProvider struct {
	results []model.SearchResultItem
}

func (s *stubProvider) Name() string                     { return "stub" }
func (s *stubProvider) SupportedIntents() []model.Intent { return model.Intents }
func (s *stubProvider) Priority(intent model.Intent) int { return 50 }

func (s *stubProvider) Search(ctx context.Context, query *model.SearchQuery) model.ProviderResult {
	return model.ProviderSuccess(s.Name(), s.results, 1)
}

func (s *stubProvider) HealthCheck(ctx context.Context) model.ProviderStatus {
	return model.ProviderStatus{ProviderName: s.Name(), Healthy: true, LastChecked: time.Now()}
}

var _ provider.SearchProvider = (*stubProvider)(nil)

func newTestTool(results []model.SearchResultItem) *Tool {
	cfg := model.DefaultConfig()
	orchestrator := search.New(cfg)
	orchestrator.Register(&stubProvider{results: results})
	return New(orchestrator)
}

func TestParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		wantErr bool
	}{
		{"valid", Params{Query: "hello"}, false},
		{"empty query", Params{}, true},
		{"max results too high", Params{Query: "q", MaxResults: 51}, true},
		{"max results negative", Params{Query: "q", MaxResults: -1}, true},
		{"valid intent", Params{Query: "q", Intent: "weather"}, false},
		{"bad intent", Params{Query: "q", Intent: "sorcery"}, true},
		{"bad location", Params{Query: "q", Location: &model.LocationContext{Latitude: 200}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestTool_Execute(t *testing.T) {
	tool := newTestTool([]model.SearchResultItem{
		{Title: "Answer", Snippet: "A snippet long enough for summarization to keep.", URL: "https://a.example/1", Source: "a"},
	})

	out, err := tool.Execute(context.Background(), Params{Query: "what is the answer"})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if out["result_count"] != 1 {
		t.Errorf("expected result_count 1, got %v", out["result_count"])
	}
	if out["cache_hit"] != false {
		t.Errorf("expected cache_hit false, got %v", out["cache_hit"])
	}
	results, ok := out["results"].([]map[string]any)
	if !ok || len(results) != 1 {
		t.Fatalf("unexpected results payload: %v", out["results"])
	}
	if results[0]["title"] != "Answer" {
		t.Errorf("unexpected title: %v", results[0]["title"])
	}
	if _, present := out["fact_verification"]; present {
		t.Error("fact verification should be absent unless requested")
	}
}

func TestTool_ExecuteTopFive(t *testing.T) {
	var items []model.SearchResultItem
	for i := 0; i < 8; i++ {
		items = append(items, model.SearchResultItem{
			Title: "T", Snippet: "Some reasonably descriptive snippet text here.",
			URL: "https://a.example/" + string(rune('a'+i)), Source: "a",
		})
	}
	tool := newTestTool(items)

	out, err := tool.Execute(context.Background(), Params{Query: "many results"})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	results := out["results"].([]map[string]any)
	if len(results) != 5 {
		t.Errorf("expected top 5 results, got %d", len(results))
	}
	if out["result_count"] != 8 {
		t.Errorf("result_count should reflect the full set, got %v", out["result_count"])
	}
}

func TestTool_ExecuteVerifyFacts(t *testing.T) {
	tool := newTestTool([]model.SearchResultItem{
		{Title: "Evidence", Snippet: "This statement is false and was debunked years ago.", URL: "https://a.example/1", Source: "a"},
	})

	out, err := tool.Execute(context.Background(), Params{Query: "is it true that the statement holds", VerifyFacts: true})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	verification, ok := out["fact_verification"].(map[string]any)
	if !ok {
		t.Fatal("expected fact_verification in output")
	}
	if verification["verdict"] == "" {
		t.Error("expected a verdict")
	}
}

func TestTool_ExecuteInvalidParams(t *testing.T) {
	tool := newTestTool(nil)
	if _, err := tool.Execute(context.Background(), Params{}); err == nil {
		t.Error("expected error for empty query")
	}
}

func TestTool_ExecuteNoResults(t *testing.T) {
	cfg := model.DefaultConfig()
	orchestrator := search.New(cfg) // no providers registered
	tool := New(orchestrator)

	if _, err := tool.Execute(context.Background(), Params{Query: "anything at all"}); err == nil {
		t.Error("expected error when no provider can serve the query")
	}
}
