package summarize

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/ppiankov/querent/internal/model"
)

const (
	briefSentenceLimit    = 3
	extendedSentenceLimit = 10
	extendedSourceLimit   = 5
	minSentenceLength     = 20
	attributionLimit      = 5
	quoteWordLimit        = 25
)

var sentenceSplit = regexp.MustCompile(`[.!?]+\s+`)

// Report is the synthesized view over a ranked result set.
type Report struct {
	Brief        string
	Extended     string
	Attributions []model.Attribution
	TotalSources int
	GeneratedAt  time.Time
}

// Summarizer builds extractive summaries from ranked results. No model
// calls; sentences come verbatim from result snippets.
type Summarizer struct{}

// New creates an extractive summarizer.
func New() *Summarizer {
	return &Summarizer{}
}

// Summarize produces a report from ranked results and the raw provider
// results that yielded them.
func (s *Summarizer) Summarize(results []model.SearchResultItem, providerResults []model.ProviderResult) Report {
	return Report{
		Brief:        s.Brief(results),
		Extended:     s.Extended(results),
		Attributions: Attributions(providerResults, attributionLimit),
		TotalSources: countSources(providerResults),
		GeneratedAt:  time.Now().UTC(),
	}
}

// Brief returns up to three sentences taken from the top result.
func (s *Summarizer) Brief(results []model.SearchResultItem) string {
	if len(results) == 0 {
		return ""
	}
	sentences := splitSentences(StripHTML(results[0].Snippet))
	if len(sentences) > briefSentenceLimit {
		sentences = sentences[:briefSentenceLimit]
	}
	return joinSentences(sentences)
}

// Extended returns distinct sentences gathered across the top results.
func (s *Summarizer) Extended(results []model.SearchResultItem) string {
	if len(results) == 0 {
		return ""
	}
	top := results
	if len(top) > extendedSourceLimit {
		top = top[:extendedSourceLimit]
	}

	seen := make(map[string]struct{})
	var sentences []string
	for _, item := range top {
		for _, sentence := range splitSentences(StripHTML(item.Snippet)) {
			key := strings.ToLower(sentence)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			sentences = append(sentences, sentence)
			if len(sentences) >= extendedSentenceLimit {
				return joinSentences(sentences)
			}
		}
	}
	return joinSentences(sentences)
}

// Attributions flattens successful provider results into source
// citations, one per distinct URL, most confident first.
func Attributions(providerResults []model.ProviderResult, max int) []model.Attribution {
	seen := make(map[string]struct{})
	var out []model.Attribution
	for _, pr := range providerResults {
		if !pr.Success {
			continue
		}
		for _, item := range pr.Results {
			if item.URL == "" {
				continue
			}
			if _, dup := seen[item.URL]; dup {
				continue
			}
			seen[item.URL] = struct{}{}
			out = append(out, model.Attribution{
				Source:      item.Source,
				URL:         item.URL,
				RetrievedAt: pr.RetrievedAt,
				Snippet:     item.Quote(quoteWordLimit),
				Confidence:  item.Confidence,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return confidenceOf(out[i]) > confidenceOf(out[j])
	})
	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return out
}

func confidenceOf(a model.Attribution) float64 {
	if a.Confidence == nil {
		return 0
	}
	return *a.Confidence
}

func countSources(providerResults []model.ProviderResult) int {
	n := 0
	for _, pr := range providerResults {
		if pr.Success {
			n += len(pr.Results)
		}
	}
	return n
}

func splitSentences(text string) []string {
	var out []string
	for _, raw := range sentenceSplit.Split(strings.TrimSpace(text), -1) {
		sentence := strings.TrimSpace(strings.TrimRight(raw, ".!?"))
		if len(sentence) > minSentenceLength {
			out = append(out, sentence)
		}
	}
	return out
}

func joinSentences(sentences []string) string {
	if len(sentences) == 0 {
		return ""
	}
	return strings.Join(sentences, ". ") + "."
}
