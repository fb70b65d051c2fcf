package verify

import (
	"strings"

	"github.com/ppiankov/querent/internal/model"
	"github.com/ppiankov/querent/internal/summarize"
)

const (
	supportOverlapThreshold = 0.6
	strongEvidenceCount     = 3
	provenanceLimit         = 5
)

var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {},
	"is": {}, "are": {}, "was": {}, "were": {}, "in": {}, "on": {},
	"at": {}, "to": {}, "for": {}, "of": {}, "with": {}, "by": {},
	"from": {}, "about": {},
}

// Phrases whose presence in a snippet marks it as contradicting the
// claim rather than merely restating it.
var contradictionIndicators = []string{
	"not true", "false", "incorrect", "wrong", "debunked", "myth",
	"hoax", "misleading", "contradicts", "however", "but actually",
	"in fact", "contrary to",
}

// Words suggesting the subject of a biography query is alive or dead.
var (
	livingIndicators = []string{"born", "age", "currently", "recent", "today", "current", "alive", "living"}
	deathIndicators  = []string{"died", "death", "deceased", "late", "was a"}
)

// Verifier cross-references a claim against retrieved evidence using
// keyword overlap and contradiction phrasing. It never asserts truth;
// it reports how the evidence leans.
type Verifier struct{}

// New creates a fact verifier.
func New() *Verifier {
	return &Verifier{}
}

// Verify classifies each result as supporting, contradicting, or
// neutral toward the claim and derives a verdict with confidence.
func (v *Verifier) Verify(claim string, providerResults []model.ProviderResult) *model.FactVerificationResult {
	keywords := extractKeywords(claim)

	var evidence model.Evidence
	for _, pr := range providerResults {
		if !pr.Success {
			continue
		}
		for _, item := range pr.Results {
			text := strings.ToLower(item.Title + " " + item.Snippet)
			switch {
			case containsContradiction(text):
				evidence.Contradicting = append(evidence.Contradicting, item)
			case keywordOverlap(keywords, text) >= supportOverlapThreshold:
				evidence.Supporting = append(evidence.Supporting, item)
			default:
				evidence.Neutral = append(evidence.Neutral, item)
			}
		}
	}

	verdict, confidence := decide(evidence)
	return &model.FactVerificationResult{
		Claim:           claim,
		Verdict:         verdict,
		Evidence:        evidence,
		ConfidenceScore: confidence,
		Provenance:      summarize.Attributions(providerResults, provenanceLimit),
	}
}

// VerifyWithIntent applies intent-specific safety rules on top of
// Verify. Biographical claims about people who appear to be alive are
// downgraded to unverified unless the evidence is strong.
func (v *Verifier) VerifyWithIntent(claim string, intent model.Intent, providerResults []model.ProviderResult) *model.FactVerificationResult {
	result := v.Verify(claim, providerResults)

	if intent == model.IntentPersonWhois && subjectAppearsLiving(result.Evidence) {
		if result.Verdict == model.VerdictInconclusive || result.ConfidenceScore < 0.7 {
			result.Verdict = model.VerdictUnverified
			result.ConfidenceScore = 0.0
		}
	}
	return result
}

// decide maps evidence counts to a verdict and confidence.
func decide(evidence model.Evidence) (model.Verdict, float64) {
	supporting := len(evidence.Supporting)
	contradicting := len(evidence.Contradicting)
	total := evidence.TotalCount()

	if total == 0 {
		return model.VerdictInconclusive, 0.0
	}

	switch {
	case supporting >= strongEvidenceCount && supporting > 2*contradicting:
		return model.VerdictSupports, agreementConfidence(supporting, total)
	case contradicting >= strongEvidenceCount && contradicting > 2*supporting:
		return model.VerdictContradicts, agreementConfidence(contradicting, total)
	case supporting > 0 && contradicting > 0:
		return model.VerdictInconclusive, inconclusiveConfidence(total)
	case supporting > contradicting:
		return model.VerdictSupports, agreementConfidence(supporting, total)
	case contradicting > supporting:
		return model.VerdictContradicts, agreementConfidence(contradicting, total)
	default:
		return model.VerdictInconclusive, inconclusiveConfidence(total)
	}
}

// agreementConfidence blends the agreeing share of evidence with the
// volume of evidence, clamped to [0.5, 0.95].
func agreementConfidence(agreeing, total int) float64 {
	ratio := float64(agreeing) / float64(total)
	volume := float64(total)
	if volume > 10 {
		volume = 10
	}
	confidence := ratio*0.7 + volume/10.0*0.3
	if confidence < 0.5 {
		return 0.5
	}
	if confidence > 0.95 {
		return 0.95
	}
	return confidence
}

func inconclusiveConfidence(total int) float64 {
	volume := float64(total)
	if volume > 5 {
		volume = 5
	}
	return 0.3 + volume/5.0*0.2
}

// extractKeywords lowercases the text and keeps tokens longer than
// two characters that are not stop words.
func extractKeywords(text string) []string {
	var out []string
	for _, token := range strings.Fields(strings.ToLower(text)) {
		token = strings.Trim(token, ".,!?;:'\"()")
		if len(token) <= 2 {
			continue
		}
		if _, stop := stopWords[token]; stop {
			continue
		}
		out = append(out, token)
	}
	return out
}

// keywordOverlap intersects whole tokens; a claim keyword never
// matches inside a longer word.
func keywordOverlap(keywords []string, text string) float64 {
	if len(keywords) == 0 {
		return 0
	}
	tokens := make(map[string]struct{})
	for _, token := range extractKeywords(text) {
		tokens[token] = struct{}{}
	}
	matched := 0
	for _, kw := range keywords {
		if _, ok := tokens[kw]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(keywords))
}

func containsContradiction(text string) bool {
	for _, indicator := range contradictionIndicators {
		if strings.Contains(text, indicator) {
			return true
		}
	}
	return false
}

// subjectAppearsLiving scans all evidence text for living versus death
// indicators. At least one living indicator must be present; given
// both, ties lean living, the cautious direction.
func subjectAppearsLiving(evidence model.Evidence) bool {
	var b strings.Builder
	for _, group := range [][]model.SearchResultItem{evidence.Supporting, evidence.Contradicting, evidence.Neutral} {
		for _, item := range group {
			b.WriteString(strings.ToLower(item.Title + " " + item.Snippet + " "))
		}
	}
	text := b.String()

	living, dead := 0, 0
	for _, w := range livingIndicators {
		living += strings.Count(text, w)
	}
	for _, w := range deathIndicators {
		dead += strings.Count(text, w)
	}
	return living > 0 && living >= dead
}
