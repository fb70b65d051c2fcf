package model

import (
	"fmt"
	"strings"
)

// Intent classifies the purpose of a search query for provider routing.
type Intent string

const (
	IntentWeather     Intent = "weather"
	IntentPersonWhois Intent = "person_whois"
	IntentNews        Intent = "news"
	IntentGeneral     Intent = "general"
	IntentForum       Intent = "forum"
	IntentImage       Intent = "image"
	IntentVideo       Intent = "video"
	IntentFactCheck   Intent = "fact_check"
	IntentUnknown     Intent = "unknown"
)

// Intents lists every valid intent in cascade order.
var Intents = []Intent{
	IntentWeather,
	IntentPersonWhois,
	IntentNews,
	IntentFactCheck,
	IntentForum,
	IntentImage,
	IntentVideo,
	IntentGeneral,
	IntentUnknown,
}

// ParseIntent converts a user-supplied string into an Intent.
// Matching is case-insensitive; both "FACT_CHECK" and "fact_check" work.
func ParseIntent(s string) (Intent, error) {
	candidate := Intent(strings.ToLower(strings.TrimSpace(s)))
	for _, intent := range Intents {
		if candidate == intent {
			return intent, nil
		}
	}
	return IntentUnknown, fmt.Errorf("unknown intent: %q (valid: %s)", s, joinIntents())
}

func joinIntents() string {
	names := make([]string, len(Intents))
	for i, intent := range Intents {
		names[i] = string(intent)
	}
	return strings.Join(names, ", ")
}

// IntentDetection is the outcome of rule-based intent classification.
type IntentDetection struct {
	Intent     Intent  `json:"intent"`
	Confidence float64 `json:"confidence"` // 0.0 to 1.0
	Reasoning  string  `json:"reasoning"`
}
