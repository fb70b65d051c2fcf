package model

import "fmt"

// Verdict is the fact verifier's classification of a claim.
type Verdict string

const (
	// VerdictSupports means the claim is supported by multiple sources.
	VerdictSupports Verdict = "supports"
	// VerdictContradicts means the claim is contradicted by multiple sources.
	VerdictContradicts Verdict = "contradicts"
	// VerdictInconclusive means insufficient or conflicting evidence.
	VerdictInconclusive Verdict = "inconclusive"
	// VerdictUnverified means the claim could not be safely verified,
	// e.g. a weakly evidenced claim about a living person.
	VerdictUnverified Verdict = "unverified"
)

// Evidence buckets search results by their stance towards a claim.
type Evidence struct {
	Supporting    []SearchResultItem `json:"supporting,omitempty"`
	Contradicting []SearchResultItem `json:"contradicting,omitempty"`
	Neutral       []SearchResultItem `json:"neutral,omitempty"`
}

// TotalCount returns the number of evidence items across all buckets.
func (e *Evidence) TotalCount() int {
	return len(e.Supporting) + len(e.Contradicting) + len(e.Neutral)
}

// HasConflict reports whether both supporting and contradicting evidence exist.
func (e *Evidence) HasConflict() bool {
	return len(e.Supporting) > 0 && len(e.Contradicting) > 0
}

// FactVerificationResult is the outcome of checking one claim against
// the merged provider evidence.
type FactVerificationResult struct {
	Claim           string        `json:"claim"`
	Verdict         Verdict       `json:"verdict"`
	Evidence        Evidence      `json:"evidence"`
	ConfidenceScore float64       `json:"confidence_score"` // 0.0 to 1.0
	Provenance      []Attribution `json:"provenance,omitempty"`
}

// Summary returns a human-readable verdict line.
func (f *FactVerificationResult) Summary() string {
	switch f.Verdict {
	case VerdictSupports:
		return fmt.Sprintf("Claim is supported by %d sources (confidence: %.1f%%)", len(f.Evidence.Supporting), f.ConfidenceScore*100)
	case VerdictContradicts:
		return fmt.Sprintf("Claim is contradicted by %d sources (confidence: %.1f%%)", len(f.Evidence.Contradicting), f.ConfidenceScore*100)
	case VerdictInconclusive:
		return fmt.Sprintf("Insufficient evidence: %d supporting, %d contradicting", len(f.Evidence.Supporting), len(f.Evidence.Contradicting))
	case VerdictUnverified:
		return "Claim could not be verified from available sources"
	default:
		return string(f.Verdict)
	}
}
