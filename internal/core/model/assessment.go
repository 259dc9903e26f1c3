package model

// Quality gate failure reasons.
const (
	ReasonNoSources           = "no_sources_found"
	ReasonLowRelevance        = "low_relevance"
	ReasonWeakSources         = "weak_sources"
	ReasonInsufficientSources = "insufficient_sources"
)

// QualityAssessment scores one retrieval pass. A failed gate is a signal
// to the caller to hedge or decline, not an error.
type QualityAssessment struct {
	Pass            bool    `json:"pass"`
	Confidence      float64 `json:"confidence"`
	Reason          string  `json:"reason,omitempty"`
	TopScore        float64 `json:"top_score"`
	AvgScore        float64 `json:"avg_score"`
	SourceCount     int     `json:"source_count"`
	SourceDiversity int     `json:"source_diversity"`
}

// Verification statuses and flag severities.
const (
	StatusVerified = "verified"
	StatusWarning  = "warning"
	StatusError    = "error"

	SeverityHigh   = "high"
	SeverityMedium = "medium"
)

// FlaggedClaim is a statement in a generated answer that the evidence
// does not support.
type FlaggedClaim struct {
	Claim    string `json:"claim"`
	Reason   string `json:"reason"`
	Severity string `json:"severity"`
}

// VerificationResult is the outcome of the post-hoc hallucination check.
// When the check itself fails the verifier fails open: Status is
// "verified" but Confidence is 0, so callers that gate on confidence can
// tell "checked and clean" apart from "not actually checked".
type VerificationResult struct {
	Status     string         `json:"status"`
	Confidence float64        `json:"confidence"`
	Flagged    []FlaggedClaim `json:"flagged_claims,omitempty"`
}
