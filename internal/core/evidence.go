package core

import (
	"fmt"
	"strings"

	"github.com/guichet-ai/guichet/internal/core/model"
)

// FormatEvidence renders results as a numbered evidence block. The [n]
// labels are what the generation collaborator cites and what the
// verifier resolves claims against.
func FormatEvidence(results []model.SearchResultItem) string {
	var b strings.Builder
	for i, r := range results {
		fmt.Fprintf(&b, "[%d] (%s) %s\n\n", i+1, evidenceLabel(r), strings.TrimSpace(r.Content))
	}
	return strings.TrimRight(b.String(), "\n")
}

func evidenceLabel(r model.SearchResultItem) string {
	parts := []string{r.Source}
	if r.ArticleNumber != "" {
		ref := "article " + r.ArticleNumber
		if r.CodeName != "" {
			ref += ", " + r.CodeName
		}
		parts = append(parts, ref)
	}
	return strings.Join(parts, ", ")
}
