package provider

import "strings"

// Lead-in phrases stripped before using query text as a lookup title
// or location.
var leadIns = []string{
	"who is", "who was", "who's", "whos",
	"tell me about", "information about", "biography of", "bio of",
	"what is", "what are", "what's", "whats",
	"the weather in", "weather in", "weather for", "weather at",
	"temperature in", "forecast for", "forecast in",
	"search for", "look up",
}

// searchSubject reduces free-text queries to a bare subject suitable
// for title-addressed APIs ("who is ada lovelace?" -> "ada lovelace").
func searchSubject(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = strings.TrimRight(s, "?!.")

	changed := true
	for changed {
		changed = false
		for _, lead := range leadIns {
			if strings.HasPrefix(s, lead+" ") {
				s = strings.TrimSpace(strings.TrimPrefix(s, lead+" "))
				changed = true
			}
		}
	}
	if s == "" {
		return strings.TrimSpace(text)
	}
	return s
}
