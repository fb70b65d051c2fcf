package provider

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ppiankov/querent/internal/httpx"
	"github.com/ppiankov/querent/internal/model"
)

// Wttr queries wttr.in for current weather conditions. Free, no key.
// Lower priority than keyed weather services; serves as the always-on
// weather fallback.
type Wttr struct {
	client  *httpx.Client
	baseURL string
}

// NewWttr creates the weather provider.
func NewWttr(client *httpx.Client) *Wttr {
	return &Wttr{client: client, baseURL: "https://wttr.in"}
}

func (w *Wttr) Name() string { return "wttr" }

func (w *Wttr) SupportedIntents() []model.Intent {
	return []model.Intent{model.IntentWeather}
}

func (w *Wttr) Priority(intent model.Intent) int {
	if intent == model.IntentWeather {
		return 60
	}
	return 0
}

type wttrResponse struct {
	CurrentCondition []wttrCondition `json:"current_condition"`
	NearestArea      []wttrArea      `json:"nearest_area"`
}

type wttrCondition struct {
	TempC       string          `json:"temp_C"`
	FeelsLikeC  string          `json:"FeelsLikeC"`
	Humidity    string          `json:"humidity"`
	WeatherDesc []wttrValueText `json:"weatherDesc"`
}

type wttrArea struct {
	AreaName []wttrValueText `json:"areaName"`
	Country  []wttrValueText `json:"country"`
}

type wttrValueText struct {
	Value string `json:"value"`
}

func (w *Wttr) Search(ctx context.Context, query *model.SearchQuery) model.ProviderResult {
	start := time.Now()

	location := w.location(query)
	endpoint := w.baseURL + "/" + url.PathEscape(location) + "?format=j1"

	var data wttrResponse
	if err := w.client.GetJSON(ctx, endpoint, &data); err != nil {
		return model.ProviderFailure(w.Name(), fmt.Sprintf("wttr request failed: %v", err), elapsedMs(start))
	}
	if len(data.CurrentCondition) == 0 {
		return model.ProviderFailure(w.Name(), "no weather data for: "+location, elapsedMs(start))
	}

	cond := data.CurrentCondition[0]
	desc := ""
	if len(cond.WeatherDesc) > 0 {
		desc = cond.WeatherDesc[0].Value
	}
	area := location
	if len(data.NearestArea) > 0 && len(data.NearestArea[0].AreaName) > 0 {
		area = data.NearestArea[0].AreaName[0].Value
	}

	snippet := fmt.Sprintf("Current weather in %s: %s, %s°C (feels like %s°C), humidity %s%%.",
		area, strings.ToLower(desc), cond.TempC, cond.FeelsLikeC, cond.Humidity)

	result := model.SearchResultItem{
		Title:      "Weather in " + area,
		Snippet:    snippet,
		URL:        w.baseURL + "/" + url.PathEscape(location),
		Source:     "wttr.in",
		Confidence: floatPtr(0.75),
		Metadata: map[string]string{
			"temp_c":   cond.TempC,
			"humidity": cond.Humidity,
		},
	}
	return model.ProviderSuccess(w.Name(), []model.SearchResultItem{result}, elapsedMs(start))
}

// location prefers explicit location context, then falls back to the
// subject extracted from the query text.
func (w *Wttr) location(query *model.SearchQuery) string {
	if query.Location != nil {
		if query.Location.City != "" {
			return query.Location.City
		}
		return fmt.Sprintf("%.4f,%.4f", query.Location.Latitude, query.Location.Longitude)
	}
	return searchSubject(query.Text)
}

func (w *Wttr) HealthCheck(ctx context.Context) model.ProviderStatus {
	var data wttrResponse
	err := w.client.GetJSON(ctx, w.baseURL+"/London?format=j1", &data)

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
