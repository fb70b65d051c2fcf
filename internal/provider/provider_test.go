package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/ppiankov/querent/internal/httpx"
	"github.com/ppiankov/querent/internal/model"
)

func newTestClient() *httpx.Client {
	cfg := model.DefaultConfig().HTTP
	cfg.MaxRetries = 0
	return httpx.New(cfg)
}

func jsonServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestSearchSubject(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"who is Ada Lovelace?", "ada lovelace"},
		{"tell me about the Eiffel Tower", "the eiffel tower"},
		{"weather in Boston", "boston"},
		{"What is the weather in Oslo?", "oslo"},
		{"plain subject", "plain subject"},
	}
	for _, tt := range tests {
		if got := searchSubject(tt.in); got != tt.want {
			t.Errorf("searchSubject(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCanHandle(t *testing.T) {
	client := newTestClient()
	ddg := NewDuckDuckGo(client)

	query := model.NewSearchQuery("anything").WithIntent(model.IntentGeneral)
	if !CanHandle(ddg, query) {
		t.Error("duckduckgo should handle general queries")
	}
	weather := model.NewSearchQuery("anything").WithIntent(model.IntentWeather)
	if CanHandle(ddg, weather) {
		t.Error("duckduckgo should not handle weather queries")
	}
	unresolved := model.NewSearchQuery("anything")
	if CanHandle(ddg, unresolved) {
		t.Error("queries without a resolved intent are not routable")
	}
}

func TestDuckDuckGo_Search(t *testing.T) {
	server := jsonServer(t, `{
		"Abstract": "Ada Lovelace was an English mathematician.",
		"AbstractSource": "Wikipedia",
		"AbstractURL": "https://en.wikipedia.org/wiki/Ada_Lovelace",
		"Heading": "Ada Lovelace",
		"Type": "A",
		"RelatedTopics": [
			{"Text": "Analytical Engine - proposed mechanical computer", "FirstURL": "https://ddg.example/1"},
			{"Text": "", "FirstURL": "https://ddg.example/skip"}
		]
	}`)

	ddg := NewDuckDuckGo(newTestClient())
	ddg.baseURL = server.URL + "/"

	result := ddg.Search(context.Background(), model.NewSearchQuery("who is ada lovelace"))
	if !result.Success {
		t.Fatalf("expected success, got error: %s", result.Error)
	}
	if len(result.Results) != 2 {
		t.Fatalf("expected abstract + 1 topic, got %d", len(result.Results))
	}
	if *result.Results[0].Confidence != 0.85 {
		t.Errorf("abstract confidence should be 0.85, got %.2f", *result.Results[0].Confidence)
	}
	if *result.Results[1].Confidence != 0.70 {
		t.Errorf("topic confidence should be 0.70, got %.2f", *result.Results[1].Confidence)
	}
	if result.Metadata["answer_type"] != "A" {
		t.Errorf("expected answer_type metadata, got %v", result.Metadata)
	}
}

func TestDuckDuckGo_TopicCapWithoutAbstract(t *testing.T) {
	var topics []string
	for i := 0; i < 8; i++ {
		topics = append(topics, fmt.Sprintf(
			`{"Text": "Related topic number %d with some detail", "FirstURL": "https://ddg.example/%d"}`, i, i))
	}
	server := jsonServer(t, fmt.Sprintf(`{"Abstract": "", "RelatedTopics": [%s]}`, strings.Join(topics, ",")))

	ddg := NewDuckDuckGo(newTestClient())
	ddg.baseURL = server.URL + "/"

	result := ddg.Search(context.Background(), model.NewSearchQuery("broad topic"))
	if !result.Success {
		t.Fatalf("expected success, got error: %s", result.Error)
	}
	if len(result.Results) != 5 {
		t.Errorf("related topics should cap at 5 even without an abstract, got %d", len(result.Results))
	}
}

func TestDuckDuckGo_TopicTitleRuneTruncation(t *testing.T) {
	long := strings.Repeat("é", 150)
	server := jsonServer(t, fmt.Sprintf(
		`{"Abstract": "", "RelatedTopics": [{"Text": "%s", "FirstURL": "https://ddg.example/long"}]}`, long))

	ddg := NewDuckDuckGo(newTestClient())
	ddg.baseURL = server.URL + "/"

	result := ddg.Search(context.Background(), model.NewSearchQuery("accents"))
	if !result.Success {
		t.Fatalf("expected success, got error: %s", result.Error)
	}
	title := result.Results[0].Title
	if !utf8.ValidString(title) {
		t.Error("truncated title is not valid UTF-8")
	}
	if got := utf8.RuneCountInString(title); got != 100 {
		t.Errorf("expected 100-rune title, got %d runes", got)
	}
}

func TestDuckDuckGo_NoAnswers(t *testing.T) {
	server := jsonServer(t, `{"Abstract": "", "RelatedTopics": []}`)
	ddg := NewDuckDuckGo(newTestClient())
	ddg.baseURL = server.URL + "/"

	result := ddg.Search(context.Background(), model.NewSearchQuery("gibberish zxqv"))
	if result.Success {
		t.Error("empty instant answers should be a failure result")
	}
	if result.Error == "" {
		t.Error("failure should carry an error message")
	}
}

func TestSerpAPI_Search(t *testing.T) {
	server := jsonServer(t, `{
		"search_metadata": {"id": "abc123", "status": "Success"},
		"organic_results": [
			{"position": 1, "title": "First", "link": "https://one.example/a",
			 "displayed_link": "one.example", "snippet": "first snippet"},
			{"position": 2, "title": "Second", "link": "https://two.example/b", "snippet": "second snippet"}
		]
	}`)

	serp := NewSerpAPI(newTestClient(), "test-key", "")
	serp.baseURL = server.URL

	result := serp.Search(context.Background(), model.NewSearchQuery("anything"))
	if !result.Success {
		t.Fatalf("expected success, got error: %s", result.Error)
	}
	if len(result.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(result.Results))
	}
	if result.Results[1].Source != "two.example" {
		t.Errorf("missing displayed_link should fall back to host, got %q", result.Results[1].Source)
	}
	if result.Metadata["search_id"] != "abc123" {
		t.Errorf("expected search_id metadata, got %v", result.Metadata)
	}
}

func TestSerpAPI_UpstreamError(t *testing.T) {
	server := jsonServer(t, `{"error": "Invalid API key"}`)
	serp := NewSerpAPI(newTestClient(), "bad-key", "google")
	serp.baseURL = server.URL

	result := serp.Search(context.Background(), model.NewSearchQuery("anything"))
	if result.Success {
		t.Error("upstream error should be a failure result")
	}
}

func TestWikipedia_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("titles"); got != "ada lovelace" {
			t.Errorf("expected stripped subject, got titles=%q", got)
		}
		_, _ = w.Write([]byte(`{
			"query": {"pages": {"1": {
				"pageid": 1, "title": "Ada Lovelace",
				"extract": "Ada Lovelace was an English mathematician and writer.",
				"thumbnail": {"source": "https://upload.example/ada.jpg"}
			}}}
		}`))
	}))
	defer server.Close()

	wiki := NewWikipedia(newTestClient())
	wiki.baseURL = server.URL + "/%s/api"

	result := wiki.Search(context.Background(), model.NewSearchQuery("who is Ada Lovelace?"))
	if !result.Success {
		t.Fatalf("expected success, got error: %s", result.Error)
	}
	if result.Results[0].ImageURL != "https://upload.example/ada.jpg" {
		t.Errorf("expected thumbnail, got %q", result.Results[0].ImageURL)
	}
	if *result.Results[0].Confidence != 0.90 {
		t.Errorf("expected confidence 0.90, got %.2f", *result.Results[0].Confidence)
	}
}

func TestWikipedia_MissingPage(t *testing.T) {
	server := jsonServer(t, `{"query": {"pages": {"-1": {"pageid": 0, "title": "Nope"}}}}`)
	wiki := NewWikipedia(newTestClient())
	wiki.baseURL = server.URL + "/%s/api"

	result := wiki.Search(context.Background(), model.NewSearchQuery("who is nobody at all"))
	if result.Success {
		t.Error("missing page should be a failure result")
	}
}

func TestWttr_Search(t *testing.T) {
	server := jsonServer(t, `{
		"current_condition": [{
			"temp_C": "18", "FeelsLikeC": "17", "humidity": "60",
			"weatherDesc": [{"value": "Partly cloudy"}]
		}],
		"nearest_area": [{"areaName": [{"value": "Boston"}], "country": [{"value": "USA"}]}]
	}`)

	wttr := NewWttr(newTestClient())
	wttr.baseURL = server.URL

	query := model.NewSearchQuery("weather in Boston").WithIntent(model.IntentWeather)
	result := wttr.Search(context.Background(), query)
	if !result.Success {
		t.Fatalf("expected success, got error: %s", result.Error)
	}
	item := result.Results[0]
	if item.Title != "Weather in Boston" {
		t.Errorf("unexpected title: %q", item.Title)
	}
	if item.Metadata["temp_c"] != "18" {
		t.Errorf("expected temp metadata, got %v", item.Metadata)
	}
	if *item.Confidence != 0.75 {
		t.Errorf("expected confidence 0.75, got %.2f", *item.Confidence)
	}
}

func TestWttr_PrefersLocationContext(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"current_condition": [{"temp_C": "5", "weatherDesc": [{"value": "Clear"}]}]}`))
	}))
	defer server.Close()

	wttr := NewWttr(newTestClient())
	wttr.baseURL = server.URL

	query := model.NewSearchQuery("weather").WithIntent(model.IntentWeather)
	query.Location = &model.LocationContext{City: "Oslo"}
	if result := wttr.Search(context.Background(), query); !result.Success {
		t.Fatalf("expected success, got error: %s", result.Error)
	}
	if gotPath != "/Oslo" {
		t.Errorf("expected city path /Oslo, got %q", gotPath)
	}
}

func TestNewsAPI_Search(t *testing.T) {
	var gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-Api-Key")
		_, _ = w.Write([]byte(`{
			"status": "ok", "totalResults": 2,
			"articles": [
				{"source": {"name": "Example Times"}, "title": "Headline one",
				 "description": "Body one", "url": "https://news.example/1",
				 "publishedAt": "2026-01-15T10:30:00Z"},
				{"source": {"name": "Example Post"}, "title": "", "url": "https://news.example/skip"}
			]
		}`))
	}))
	defer server.Close()

	news := NewNewsAPI(newTestClient(), "news-key")
	news.baseURL = server.URL

	result := news.Search(context.Background(), model.NewSearchQuery("latest news"))
	if !result.Success {
		t.Fatalf("expected success, got error: %s", result.Error)
	}
	if gotKey != "news-key" {
		t.Errorf("expected X-Api-Key header, got %q", gotKey)
	}
	if len(result.Results) != 1 {
		t.Fatalf("untitled articles should be skipped, got %d results", len(result.Results))
	}
	item := result.Results[0]
	if item.PublishedAt == nil || item.PublishedAt.Hour() != 10 {
		t.Errorf("expected parsed publishedAt, got %v", item.PublishedAt)
	}
	if item.Source != "Example Times" {
		t.Errorf("unexpected source: %q", item.Source)
	}
}

func TestNewsAPI_ErrorStatus(t *testing.T) {
	server := jsonServer(t, `{"status": "error", "code": "apiKeyInvalid", "message": "Your API key is invalid"}`)
	news := NewNewsAPI(newTestClient(), "bad")
	news.baseURL = server.URL

	result := news.Search(context.Background(), model.NewSearchQuery("anything"))
	if result.Success {
		t.Error("error status should be a failure result")
	}
}

func TestPriorities(t *testing.T) {
	client := newTestClient()
	tests := []struct {
		provider SearchProvider
		intent   model.Intent
		want     int
	}{
		{NewSerpAPI(client, "k", ""), model.IntentGeneral, 85},
		{NewSerpAPI(client, "k", ""), model.IntentImage, 75},
		{NewDuckDuckGo(client), model.IntentPersonWhois, 80},
		{NewWikipedia(client), model.IntentPersonWhois, 95},
		{NewWttr(client), model.IntentWeather, 60},
		{NewWttr(client), model.IntentGeneral, 0},
		{NewNewsAPI(client, "k"), model.IntentNews, 90},
		{NewNewsAPI(client, "k"), model.IntentGeneral, 40},
	}
	for _, tt := range tests {
		if got := tt.provider.Priority(tt.intent); got != tt.want {
			t.Errorf("%s priority for %s: expected %d, got %d", tt.provider.Name(), tt.intent, tt.want, got)
		}
	}
}
