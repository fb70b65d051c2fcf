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

const newsAPIBaseURL = "https://newsapi.org/v2/everything"

// NewsAPI queries newsapi.org for recent articles. Keyed. The primary
// source for news intent, a weak contributor for general queries.
type NewsAPI struct {
	client  *httpx.Client
	apiKey  string
	baseURL string
}

// NewNewsAPI creates the news provider.
func NewNewsAPI(client *httpx.Client, apiKey string) *NewsAPI {
	return &NewsAPI{client: client, apiKey: apiKey, baseURL: newsAPIBaseURL}
}

func (n *NewsAPI) Name() string { return "newsapi" }

func (n *NewsAPI) SupportedIntents() []model.Intent {
	return []model.Intent{model.IntentNews, model.IntentGeneral}
}

func (n *NewsAPI) Priority(intent model.Intent) int {
	switch intent {
	case model.IntentNews:
		return 90
	case model.IntentGeneral:
		return 40
	default:
		return 0
	}
}

type newsResponse struct {
	Status       string        `json:"status"`
	Code         string        `json:"code"`
	Message      string        `json:"message"`
	TotalResults int           `json:"totalResults"`
	Articles     []newsArticle `json:"articles"`
}

type newsArticle struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
}

func (n *NewsAPI) Search(ctx context.Context, query *model.SearchQuery) model.ProviderResult {
	start := time.Now()

	pageSize := query.MaxResults
	if pageSize <= 0 || pageSize > 20 {
		pageSize = 20
	}
	params := url.Values{}
	params.Set("q", query.Text)
	params.Set("sortBy", "publishedAt")
	params.Set("pageSize", strconv.Itoa(pageSize))
	if query.Language != "" {
		params.Set("language", query.Language)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return model.ProviderFailure(n.Name(), fmt.Sprintf("newsapi request failed: %v", err), elapsedMs(start))
	}
	req.Header.Set("X-Api-Key", n.apiKey)

	var data newsResponse
	if err := n.client.DoJSON(req, &data); err != nil {
		return model.ProviderFailure(n.Name(), fmt.Sprintf("newsapi request failed: %v", err), elapsedMs(start))
	}
	if data.Status != "ok" {
		msg := data.Message
		if msg == "" {
			msg = data.Code
		}
		return model.ProviderFailure(n.Name(), "newsapi error: "+msg, elapsedMs(start))
	}

	results := make([]model.SearchResultItem, 0, len(data.Articles))
	for _, article := range data.Articles {
		if article.Title == "" || article.URL == "" {
			continue
		}
		item := model.SearchResultItem{
			Title:      article.Title,
			Snippet:    article.Description,
			URL:        article.URL,
			Source:     article.Source.Name,
			Language:   query.Language,
			Confidence: floatPtr(0.85),
			ImageURL:   article.URLToImage,
		}
		if ts, err := time.Parse(time.RFC3339, article.PublishedAt); err == nil {
			published := ts.UTC()
			item.PublishedAt = &published
		}
		results = append(results, item)
	}

	if len(results) == 0 {
		return model.ProviderFailure(n.Name(), "no articles found for: "+query.Text, elapsedMs(start))
	}

	result := model.ProviderSuccess(n.Name(), results, elapsedMs(start))
	result.Metadata = map[string]string{"total_results": strconv.Itoa(data.TotalResults)}
	return result
}

func (n *NewsAPI) HealthCheck(ctx context.Context) model.ProviderStatus {
	status := model.ProviderStatus{
		ProviderName: n.Name(),
		LastChecked:  time.Now().UTC(),
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"?q=test&pageSize=1", nil)
	if err != nil {
		status.ErrorMessage = err.Error()
		return status
	}
	req.Header.Set("X-Api-Key", n.apiKey)

	var data newsResponse
	if err := n.client.DoJSON(req, &data); err != nil {
		status.ErrorMessage = err.Error()
		return status
	}
	status.Healthy = data.Status == "ok"
	if !status.Healthy {
		status.ErrorMessage = data.Message
	}
	return status
}
