package intent

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ppiankov/querent/internal/model"
)

// Detector classifies query text into a search intent using an ordered
// cascade of rule-based detectors. Pure and deterministic: identical
// input always yields identical output.
type Detector struct{}

// NewDetector creates a new intent detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect runs the cascade and returns the first matching intent.
// General is the guaranteed fallback.
func (d *Detector) Detect(query *model.SearchQuery) model.IntentDetection {
	text := strings.ToLower(strings.TrimSpace(query.Text))

	detectors := []func() *model.IntentDetection{
		func() *model.IntentDetection { return detectWeather(text, query.Location != nil) },
		func() *model.IntentDetection { return detectPersonWhois(text) },
		func() *model.IntentDetection { return detectNews(text) },
		func() *model.IntentDetection { return detectFactCheck(text) },
		func() *model.IntentDetection { return detectForum(text) },
		func() *model.IntentDetection { return detectImage(text) },
		func() *model.IntentDetection { return detectVideo(text) },
	}
	for _, detect := range detectors {
		if result := detect(); result != nil {
			return *result
		}
	}
	return detectGeneral(text)
}

var (
	weatherPatterns = []*regexp.Regexp{
		regexp.MustCompile(`what'?s? the weather`),
		regexp.MustCompile(`(weather|temperature|forecast) (in|for|at)`),
		regexp.MustCompile(`(will it|is it going to) (rain|snow)`),
		regexp.MustCompile(`how (hot|cold|warm) is it`),
	}
	weatherKeywords = []string{
		"weather", "temperature", "forecast", "rain", "snow",
		"sunny", "cloudy", "humid", "wind", "storm", "hot", "cold",
	}

	whoisPatterns = []*regexp.Regexp{
		regexp.MustCompile(`who (is|was|were) ([a-z]+ ?){1,3}`),
		regexp.MustCompile(`(tell me about|information about) ([a-z]+ ?){1,3}`),
		regexp.MustCompile(`(biography|bio) of ([a-z]+ ?){1,3}`),
		regexp.MustCompile(`who'?s ([a-z]+ ?){1,3}`),
	}

	newsPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(latest|recent|breaking|today'?s?) news`),
		regexp.MustCompile(`news (about|on|regarding)`),
		regexp.MustCompile(`(what|any) (latest|recent) (news|updates|headlines)`),
		regexp.MustCompile(`(top|latest|recent) (headlines|stories|articles)`),
	}
	newsKeywords = []string{
		"news", "latest", "recent", "breaking", "headline",
		"article", "report", "announcement", "update",
	}

	factCheckPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(is it true|is this true)`),
		regexp.MustCompile(`(fact check|fact-check|verify|debunk)`),
		regexp.MustCompile(`(true or false|real or fake)`),
		regexp.MustCompile(`(did .+ really|is it real that)`),
	}

	forumPatterns = []*regexp.Regexp{
		regexp.MustCompile(`reddit (post|thread|discussion|comments?)`),
		regexp.MustCompile(`(forum|discussion) (on|about|regarding)`),
		regexp.MustCompile(`what (people|users) (are )?(saying|think|talking)`),
	}
	forumKeywords = []string{"reddit", "forum", "discussion", "thread", "community"}

	imagePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(images?|pictures?|photos?) (of|for|showing)`),
		regexp.MustCompile(`show me (images?|pictures?|photos?)`),
		regexp.MustCompile(`(find|search) (for )?(images?|pictures?|photos?)`),
	}

	videoPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(video|videos|clip|clips) (of|for|about|on)`),
		regexp.MustCompile(`(watch|show me) (video|videos)`),
		regexp.MustCompile(`youtube (video|tutorial|clip)`),
	}

	generalPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^(search|find|look up|google)`),
		regexp.MustCompile(`how (to|do|does|can)`),
		regexp.MustCompile(`what (is|are|does|do)`),
		regexp.MustCompile(`why (is|are|does|do)`),
		regexp.MustCompile(`when (is|are|was|were)`),
	}
)

func detectWeather(text string, hasLocation bool) *model.IntentDetection {
	for _, pattern := range weatherPatterns {
		if pattern.MatchString(text) {
			return &model.IntentDetection{
				Intent:     model.IntentWeather,
				Confidence: 0.95,
				Reasoning:  "query matches weather pattern: " + pattern.String(),
			}
		}
	}

	matched := containedKeywords(text, weatherKeywords)
	if len(matched) > 0 {
		// Location context makes a weather reading much more likely.
		confidence := 0.75
		if hasLocation {
			confidence = 0.90
		}
		return &model.IntentDetection{
			Intent:     model.IntentWeather,
			Confidence: confidence,
			Reasoning:  "query contains weather keywords: " + strings.Join(matched, ", "),
		}
	}
	return nil
}

func detectPersonWhois(text string) *model.IntentDetection {
	for _, pattern := range whoisPatterns {
		if pattern.MatchString(text) {
			return &model.IntentDetection{
				Intent:     model.IntentPersonWhois,
				Confidence: 0.90,
				Reasoning:  "query asking about a person or entity",
			}
		}
	}
	return nil
}

func detectNews(text string) *model.IntentDetection {
	for _, pattern := range newsPatterns {
		if pattern.MatchString(text) {
			return &model.IntentDetection{
				Intent:     model.IntentNews,
				Confidence: 0.92,
				Reasoning:  "query matches news pattern: " + pattern.String(),
			}
		}
	}

	matched := containedKeywords(text, newsKeywords)
	if len(matched) >= 2 {
		return &model.IntentDetection{
			Intent:     model.IntentNews,
			Confidence: 0.80,
			Reasoning:  "query contains multiple news keywords: " + strings.Join(matched, ", "),
		}
	}
	return nil
}

func detectFactCheck(text string) *model.IntentDetection {
	for _, pattern := range factCheckPatterns {
		if pattern.MatchString(text) {
			return &model.IntentDetection{
				Intent:     model.IntentFactCheck,
				Confidence: 0.88,
				Reasoning:  "query requesting fact verification",
			}
		}
	}
	return nil
}

func detectForum(text string) *model.IntentDetection {
	for _, pattern := range forumPatterns {
		if pattern.MatchString(text) {
			return &model.IntentDetection{
				Intent:     model.IntentForum,
				Confidence: 0.85,
				Reasoning:  "query seeking community discussions",
			}
		}
	}
	if len(containedKeywords(text, forumKeywords)) > 0 {
		return &model.IntentDetection{
			Intent:     model.IntentForum,
			Confidence: 0.70,
			Reasoning:  "query mentions forum or community platforms",
		}
	}
	return nil
}

func detectImage(text string) *model.IntentDetection {
	for _, pattern := range imagePatterns {
		if pattern.MatchString(text) {
			return &model.IntentDetection{
				Intent:     model.IntentImage,
				Confidence: 0.87,
				Reasoning:  "query requesting image results",
			}
		}
	}
	return nil
}

func detectVideo(text string) *model.IntentDetection {
	for _, pattern := range videoPatterns {
		if pattern.MatchString(text) {
			return &model.IntentDetection{
				Intent:     model.IntentVideo,
				Confidence: 0.86,
				Reasoning:  "query requesting video results",
			}
		}
	}
	return nil
}

func detectGeneral(text string) model.IntentDetection {
	for _, pattern := range generalPatterns {
		if pattern.MatchString(text) {
			return model.IntentDetection{
				Intent:     model.IntentGeneral,
				Confidence: 0.75,
				Reasoning:  "general information query",
			}
		}
	}
	return model.IntentDetection{
		Intent:     model.IntentGeneral,
		Confidence: 0.50,
		Reasoning:  "no specific intent detected, defaulting to general search",
	}
}

func containedKeywords(text string, keywords []string) []string {
	var matched []string
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			matched = append(matched, kw)
		}
	}
	return matched
}

// Describe returns a one-line human-readable detection summary.
func Describe(d model.IntentDetection) string {
	return fmt.Sprintf("%s (%.2f): %s", d.Intent, d.Confidence, d.Reasoning)
}
