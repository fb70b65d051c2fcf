package provider

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/ppiankov/querent/internal/httpx"
	"github.com/ppiankov/querent/internal/model"
)

// Wikipedia queries the MediaWiki extracts API for encyclopedic
// summaries. Free, no key. Strongest source for person lookups.
type Wikipedia struct {
	client  *httpx.Client
	baseURL string // with %s for the language subdomain
}

// NewWikipedia creates the encyclopedia provider.
func NewWikipedia(client *httpx.Client) *Wikipedia {
	return &Wikipedia{client: client, baseURL: "https://%s.wikipedia.org/w/api.php"}
}

func (w *Wikipedia) Name() string { return "wikipedia" }

func (w *Wikipedia) SupportedIntents() []model.Intent {
	return []model.Intent{model.IntentPersonWhois, model.IntentGeneral, model.IntentFactCheck}
}

func (w *Wikipedia) Priority(intent model.Intent) int {
	switch intent {
	case model.IntentPersonWhois:
		return 95
	case model.IntentFactCheck:
		return 85
	case model.IntentGeneral:
		return 70
	default:
		return 0
	}
}

type wikiResponse struct {
	Query struct {
		Pages map[string]wikiPage `json:"pages"`
	} `json:"query"`
}

type wikiPage struct {
	PageID    int    `json:"pageid"`
	Title     string `json:"title"`
	Extract   string `json:"extract"`
	Thumbnail *struct {
		Source string `json:"source"`
	} `json:"thumbnail"`
}

func (w *Wikipedia) endpoint(language string) string {
	if language == "" {
		language = model.DefaultLanguage
	}
	return fmt.Sprintf(w.baseURL, language)
}

func (w *Wikipedia) Search(ctx context.Context, query *model.SearchQuery) model.ProviderResult {
	start := time.Now()

	subject := searchSubject(query.Text)
	params := url.Values{}
	params.Set("action", "query")
	params.Set("format", "json")
	params.Set("prop", "extracts|pageimages")
	params.Set("exintro", "1")
	params.Set("explaintext", "1")
	params.Set("redirects", "1")
	params.Set("pithumbsize", "200")
	params.Set("titles", subject)

	var data wikiResponse
	if err := w.client.GetJSON(ctx, w.endpoint(query.Language)+"?"+params.Encode(), &data); err != nil {
		return model.ProviderFailure(w.Name(), fmt.Sprintf("wikipedia request failed: %v", err), elapsedMs(start))
	}

	var results []model.SearchResultItem
	for _, page := range data.Query.Pages {
		if page.PageID == 0 || page.Extract == "" {
			continue
		}
		item := model.SearchResultItem{
			Title:      page.Title,
			Snippet:    page.Extract,
			URL:        articleURL(query.Language, page.Title),
			Source:     "Wikipedia",
			Language:   query.Language,
			Confidence: floatPtr(0.90),
		}
		if page.Thumbnail != nil {
			item.ImageURL = page.Thumbnail.Source
		}
		results = append(results, item)
	}

	if len(results) == 0 {
		return model.ProviderFailure(w.Name(), "no article found for: "+subject, elapsedMs(start))
	}
	return model.ProviderSuccess(w.Name(), results, elapsedMs(start))
}

func (w *Wikipedia) HealthCheck(ctx context.Context) model.ProviderStatus {
	var data wikiResponse
	err := w.client.GetJSON(ctx, w.endpoint(model.DefaultLanguage)+"?action=query&format=json&titles=Test", &data)

	status := model.ProviderStatus{
		ProviderName: w.Name(),
		Healthy:      err == nil,
		LastChecked:  time.Now().UTC(),
	}
	if err != nil {
		status.ErrorMessage = err.Error()
	}
	return status
}

func articleURL(language, title string) string {
	if language == "" {
		language = model.DefaultLanguage
	}
	return fmt.Sprintf("https://%s.wikipedia.org/wiki/%s", language, url.PathEscape(title))
}
