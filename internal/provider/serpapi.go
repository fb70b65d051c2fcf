package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ppiankov/querent/internal/httpx"
	"github.com/ppiankov/querent/internal/model"
)

const serpAPIBaseURL = "https://serpapi.com/search"

// SerpAPI queries the SerpApi structured SERP service. Paid, keyed.
// Returns up to maxResults ranked organic results.
type SerpAPI struct {
	client  *httpx.Client
	apiKey  string
	engine  string
	baseURL string
}

// NewSerpAPI creates the paid general-search provider.
func NewSerpAPI(client *httpx.Client, apiKey, engine string) *SerpAPI {
	if engine == "" {
		engine = "google"
	}
	return &SerpAPI{client: client, apiKey: apiKey, engine: engine, baseURL: serpAPIBaseURL}
}

func (s *SerpAPI) Name() string { return "serpapi" }

func (s *SerpAPI) SupportedIntents() []model.Intent {
	return []model.Intent{model.IntentGeneral, model.IntentImage, model.IntentVideo}
}

func (s *SerpAPI) Priority(intent model.Intent) int {
	switch intent {
	case model.IntentGeneral:
		return 85
	case model.IntentImage, model.IntentVideo:
		return 75
	default:
		return 0
	}
}

type serpResponse struct {
	SearchMetadata *serpMetadata `json:"search_metadata"`
	OrganicResults []serpOrganic `json:"organic_results"`
	Error          string        `json:"error"`
}

type serpMetadata struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type serpOrganic struct {
	Position      int    `json:"position"`
	Title         string `json:"title"`
	Link          string `json:"link"`
	DisplayedLink string `json:"displayed_link"`
	Snippet       string `json:"snippet"`
	Thumbnail     string `json:"thumbnail"`
}

func (s *SerpAPI) Search(ctx context.Context, query *model.SearchQuery) model.ProviderResult {
	start := time.Now()

	num := query.MaxResults
	if num > 20 {
		num = 20
	}
	params := url.Values{}
	params.Set("q", query.Text)
	params.Set("engine", s.engine)
	params.Set("api_key", s.apiKey)
	params.Set("num", strconv.Itoa(num))

	var data serpResponse
	if err := s.client.GetJSON(ctx, s.baseURL+"?"+params.Encode(), &data); err != nil {
		return model.ProviderFailure(s.Name(), fmt.Sprintf("serpapi request failed: %v", err), elapsedMs(start))
	}
	if data.Error != "" {
		return model.ProviderFailure(s.Name(), "serpapi error: "+data.Error, elapsedMs(start))
	}

	results := make([]model.SearchResultItem, 0, len(data.OrganicResults))
	for _, organic := range data.OrganicResults {
		source := organic.DisplayedLink
		if source == "" {
			source = hostOf(organic.Link)
		}
		results = append(results, model.SearchResultItem{
			Title:      organic.Title,
			Snippet:    organic.Snippet,
			URL:        organic.Link,
			Source:     source,
			Confidence: floatPtr(0.80),
			ImageURL:   organic.Thumbnail,
			Metadata:   map[string]string{"position": strconv.Itoa(organic.Position)},
		})
	}

	if len(results) == 0 {
		return model.ProviderFailure(s.Name(), "no search results found", elapsedMs(start))
	}

	result := model.ProviderSuccess(s.Name(), results, elapsedMs(start))
	result.Metadata = map[string]string{"engine": s.engine}
	if data.SearchMetadata != nil {
		result.Metadata["search_id"] = data.SearchMetadata.ID
	}
	return result
}

func (s *SerpAPI) HealthCheck(ctx context.Context) model.ProviderStatus {
	params := url.Values{}
	params.Set("q", "test")
	params.Set("engine", s.engine)
	params.Set("api_key", s.apiKey)
	params.Set("num", "1")

	status := model.ProviderStatus{
		ProviderName: s.Name(),
		LastChecked:  time.Now().UTC(),
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		status.ErrorMessage = err.Error()
		return status
	}
	resp, err := s.client.Do(req)
	if err != nil {
		status.ErrorMessage = err.Error()
		return status
	}
	defer func() { _ = resp.Body.Close() }()

	status.Healthy = resp.StatusCode >= 200 && resp.StatusCode < 300
	if !status.Healthy {
		status.ErrorMessage = "HTTP " + strconv.Itoa(resp.StatusCode)
	}
	if quota, err := strconv.Atoi(resp.Header.Get("X-RateLimit-Remaining")); err == nil {
		status.QuotaRemaining = &quota
	}
	return status
}

func hostOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return "unknown"
	}
	return parsed.Host
}
