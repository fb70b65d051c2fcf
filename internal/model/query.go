package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Default knobs for a SearchQuery.
const (
	DefaultLanguage   = "en"
	DefaultMaxResults = 10
	DefaultTimeout    = 30 * time.Second
)

// SearchQuery is one search request. Immutable after creation except for
// the single intent-enrichment copy made via WithIntent.
type SearchQuery struct {
	ID          string            `json:"id"`
	Text        string            `json:"text"`
	Intent      Intent            `json:"intent,omitempty"` // empty means auto-detect
	Location    *LocationContext  `json:"location,omitempty"`
	Language    string            `json:"language"` // ISO 639-1
	MaxResults  int               `json:"max_results"`
	Timeout     time.Duration     `json:"timeout"`
	BypassCache bool              `json:"bypass_cache"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// NewSearchQuery builds a query with generated ID and default knobs.
func NewSearchQuery(text string) *SearchQuery {
	return &SearchQuery{
		ID:         uuid.NewString(),
		Text:       text,
		Language:   DefaultLanguage,
		MaxResults: DefaultMaxResults,
		Timeout:    DefaultTimeout,
	}
}

// Validate checks the query invariants.
func (q *SearchQuery) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("query text cannot be blank")
	}
	if q.MaxResults <= 0 {
		return fmt.Errorf("maxResults must be positive, got %d", q.MaxResults)
	}
	if q.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", q.Timeout)
	}
	return nil
}

// WithIntent returns a copy of the query with the intent set.
func (q *SearchQuery) WithIntent(intent Intent) *SearchQuery {
	enriched := *q
	enriched.Intent = intent
	return &enriched
}

// LocationContext carries location data for location-aware queries.
type LocationContext struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	City      string  `json:"city,omitempty"`
	Country   string  `json:"country,omitempty"` // ISO 3166-1 alpha-2
}

// Validate checks coordinate ranges.
func (l *LocationContext) Validate() error {
	if l.Latitude < -90 || l.Latitude > 90 {
		return fmt.Errorf("invalid latitude: %f", l.Latitude)
	}
	if l.Longitude < -180 || l.Longitude > 180 {
		return fmt.Errorf("invalid longitude: %f", l.Longitude)
	}
	return nil
}

// DisplayString returns a human-readable location.
func (l *LocationContext) DisplayString() string {
	switch {
	case l.City != "" && l.Country != "":
		return l.City + ", " + l.Country
	case l.City != "":
		return l.City
	default:
		return fmt.Sprintf("%.4f, %.4f", l.Latitude, l.Longitude)
	}
}
