package verify

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/guichet-ai/guichet/internal/core/common"
	"github.com/guichet-ai/guichet/internal/core/model"
	"github.com/guichet-ai/guichet/internal/llm"
)

// Verifier checks a generated answer against the retrieved evidence for
// unsupported claims. It never blocks the user: any internal failure
// fails open to status "verified" with confidence 0, which callers that
// gate on confidence can tell apart from a genuine clean check.
type Verifier struct {
	llm    llm.LLMClient
	prompt string
}

func New(client llm.LLMClient, prompt string) *Verifier {
	return &Verifier{llm: client, prompt: prompt}
}

type verificationPayload struct {
	Flagged []struct {
		Claim    string `json:"claim"`
		Reason   string `json:"reason"`
		Severity string `json:"severity"`
	} `json:"flagged"`
	Confidence float64 `json:"confidence"`
}

func (v *Verifier) Verify(ctx context.Context, answer, evidence string) model.VerificationResult {
	if strings.TrimSpace(answer) == "" {
		return model.VerificationResult{Status: model.StatusVerified, Confidence: 1}
	}

	out, err := v.llm.Generate(ctx, fmt.Sprintf(v.prompt, evidence, answer))
	if err != nil {
		log.Printf("verification call failed, answer goes out unchecked: %v", err)
		return unverified()
	}

	payload, err := common.ParseJSON[verificationPayload](out)
	if err != nil {
		log.Printf("verification output unparseable, answer goes out unchecked: %v", err)
		return unverified()
	}

	result := model.VerificationResult{
		Status:     model.StatusVerified,
		Confidence: payload.Confidence,
	}
	for _, f := range payload.Flagged {
		severity := f.Severity
		if severity != model.SeverityHigh {
			severity = model.SeverityMedium
		}
		result.Flagged = append(result.Flagged, model.FlaggedClaim{
			Claim:    f.Claim,
			Reason:   f.Reason,
			Severity: severity,
		})
		if severity == model.SeverityHigh {
			result.Status = model.StatusError
		} else if result.Status != model.StatusError {
			result.Status = model.StatusWarning
		}
	}
	return result
}

// unverified is the fail-open result: verified status, zero confidence.
func unverified() model.VerificationResult {
	return model.VerificationResult{Status: model.StatusVerified, Confidence: 0}
}
