package model

import (
	"testing"
	"time"
)

func TestNewSearchQuery_Defaults(t *testing.T) {
	q := NewSearchQuery("hello world")
	if q.ID == "" {
		t.Error("expected generated ID")
	}
	if q.Language != DefaultLanguage {
		t.Errorf("expected language %q, got %q", DefaultLanguage, q.Language)
	}
	if q.MaxResults != DefaultMaxResults {
		t.Errorf("expected max results %d, got %d", DefaultMaxResults, q.MaxResults)
	}
	if q.Timeout != DefaultTimeout {
		t.Errorf("expected timeout %v, got %v", DefaultTimeout, q.Timeout)
	}
	if q.Intent != "" {
		t.Errorf("new query should have no intent, got %s", q.Intent)
	}
}

func TestSearchQuery_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*SearchQuery)
		wantErr bool
	}{
		{"valid", func(q *SearchQuery) {}, false},
		{"blank text", func(q *SearchQuery) { q.Text = "   " }, true},
		{"zero max results", func(q *SearchQuery) { q.MaxResults = 0 }, true},
		{"negative timeout", func(q *SearchQuery) { q.Timeout = -time.Second }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewSearchQuery("some text")
			tt.mutate(q)
			err := q.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestSearchQuery_WithIntent(t *testing.T) {
	q := NewSearchQuery("some text")
	enriched := q.WithIntent(IntentWeather)
	if enriched.Intent != IntentWeather {
		t.Errorf("expected weather intent, got %s", enriched.Intent)
	}
	if q.Intent != "" {
		t.Error("WithIntent must not mutate the original")
	}
	if enriched.ID != q.ID {
		t.Error("enriched copy should keep the query ID")
	}
}

func TestLocationContext_Validate(t *testing.T) {
	valid := &LocationContext{Latitude: 42.36, Longitude: -71.06}
	if err := valid.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	badLat := &LocationContext{Latitude: 91}
	if err := badLat.Validate(); err == nil {
		t.Error("expected latitude error")
	}
	badLon := &LocationContext{Longitude: -181}
	if err := badLon.Validate(); err == nil {
		t.Error("expected longitude error")
	}
}

func TestLocationContext_DisplayString(t *testing.T) {
	tests := []struct {
		loc  LocationContext
		want string
	}{
		{LocationContext{City: "Boston", Country: "US"}, "Boston, US"},
		{LocationContext{City: "Boston"}, "Boston"},
		{LocationContext{Latitude: 42.3601, Longitude: -71.0589}, "42.3601, -71.0589"},
	}
	for _, tt := range tests {
		if got := tt.loc.DisplayString(); got != tt.want {
			t.Errorf("DisplayString() = %q, want %q", got, tt.want)
		}
	}
}

func TestParseIntent(t *testing.T) {
	got, err := ParseIntent("WEATHER")
	if err != nil {
		t.Fatalf("ParseIntent failed: %v", err)
	}
	if got != IntentWeather {
		t.Errorf("expected weather, got %s", got)
	}

	if _, err := ParseIntent("nonsense"); err == nil {
		t.Error("expected error for unknown intent")
	}
}
