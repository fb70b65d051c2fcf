package provider

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/ppiankov/querent/internal/httpx"
	"github.com/ppiankov/querent/internal/model"
)

const duckDuckGoBaseURL = "https://api.duckduckgo.com/"

// DuckDuckGo queries the DuckDuckGo Instant Answer API. Free, no key.
// Returns at most one high-confidence abstract result plus up to five
// lower-confidence related topics.
type DuckDuckGo struct {
	client  *httpx.Client
	baseURL string
}

// NewDuckDuckGo creates the instant-answer provider.
func NewDuckDuckGo(client *httpx.Client) *DuckDuckGo {
	return &DuckDuckGo{client: client, baseURL: duckDuckGoBaseURL}
}

func (d *DuckDuckGo) Name() string { return "duckduckgo" }

func (d *DuckDuckGo) SupportedIntents() []model.Intent {
	return []model.Intent{model.IntentGeneral, model.IntentPersonWhois, model.IntentFactCheck}
}

func (d *DuckDuckGo) Priority(intent model.Intent) int {
	switch intent {
	case model.IntentGeneral:
		return 75
	case model.IntentPersonWhois:
		return 80
	case model.IntentFactCheck:
		return 70
	default:
		return 0
	}
}

type ddgResponse struct {
	Abstract       string     `json:"Abstract"`
	AbstractSource string     `json:"AbstractSource"`
	AbstractURL    string     `json:"AbstractURL"`
	Image          string     `json:"Image"`
	Heading        string     `json:"Heading"`
	Type           string     `json:"Type"`
	RelatedTopics  []ddgTopic `json:"RelatedTopics"`
}

type ddgTopic struct {
	Text     string `json:"Text"`
	FirstURL string `json:"FirstURL"`
}

func (d *DuckDuckGo) Search(ctx context.Context, query *model.SearchQuery) model.ProviderResult {
	start := time.Now()

	params := url.Values{}
	params.Set("q", query.Text)
	params.Set("format", "json")
	params.Set("no_html", "1")
	params.Set("skip_disambig", "0")

	var data ddgResponse
	if err := d.client.GetJSON(ctx, d.baseURL+"?"+params.Encode(), &data); err != nil {
		return model.ProviderFailure(d.Name(), fmt.Sprintf("duckduckgo request failed: %v", err), elapsedMs(start))
	}

	var results []model.SearchResultItem

	if data.Abstract != "" {
		title := data.Heading
		if title == "" {
			title = query.Text
		}
		source := data.AbstractSource
		if source == "" {
			source = d.Name()
		}
		results = append(results, model.SearchResultItem{
			Title:      title,
			Snippet:    data.Abstract,
			URL:        data.AbstractURL,
			Source:     source,
			Confidence: floatPtr(0.85),
			ImageURL:   data.Image,
		})
	}

	// At most 5 related topics, independent of the abstract.
	topics := 0
	for _, topic := range data.RelatedTopics {
		if topics >= 5 {
			break
		}
		if topic.Text == "" || topic.FirstURL == "" {
			continue
		}
		title := topic.Text
		if runes := []rune(title); len(runes) > 100 {
			title = string(runes[:100])
		}
		results = append(results, model.SearchResultItem{
			Title:      title,
			Snippet:    topic.Text,
			URL:        topic.FirstURL,
			Source:     d.Name(),
			Confidence: floatPtr(0.70),
		})
		topics++
	}

	if len(results) == 0 {
		return model.ProviderFailure(d.Name(), "no instant answers found for: "+query.Text, elapsedMs(start))
	}

	result := model.ProviderSuccess(d.Name(), results, elapsedMs(start))
	result.Metadata = map[string]string{"answer_type": data.Type}
	return result
}

func (d *DuckDuckGo) HealthCheck(ctx context.Context) model.ProviderStatus {
	var data ddgResponse
	err := d.client.GetJSON(ctx, d.baseURL+"?q=test&format=json", &data)

	status := model.ProviderStatus{
		ProviderName: d.Name(),
		Healthy:      err == nil,
		LastChecked:  time.Now().UTC(),
	}
	if err != nil {
		status.ErrorMessage = err.Error()
	}
	return status
}

func elapsedMs(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}
