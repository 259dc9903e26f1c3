package quality

import (
	"github.com/guichet-ai/guichet/internal/core/model"
)

// Gate thresholds. A retrieval pass fails when the best score is weak,
// the average is weak, or nothing came back at all.
const (
	minTopScore = 0.40
	minAvgScore = 0.20
	minSources  = 1
)

// Confidence blend weights: top score dominates, then average quality,
// then corpus coverage (count saturating at 5, diversity at 3 doc types).
const (
	weightTop       = 0.4
	weightAvg       = 0.3
	weightCount     = 0.2
	weightDiversity = 0.1
)

// Assess scores one retrieval pass. Stateless; a failed gate is a signal,
// not an error.
func Assess(results []model.SearchResultItem) model.QualityAssessment {
	if len(results) == 0 {
		return model.QualityAssessment{
			Pass:   false,
			Reason: model.ReasonNoSources,
		}
	}

	var top, sum float64
	docTypes := make(map[string]bool)
	for _, r := range results {
		if r.Score > top {
			top = r.Score
		}
		sum += r.Score
		docTypes[r.DocType] = true
	}
	avg := sum / float64(len(results))
	count := len(results)
	diversity := len(docTypes)

	confidence := weightTop*top +
		weightAvg*clamp01(4*avg) +
		weightCount*clamp01(float64(count)/5) +
		weightDiversity*clamp01(float64(diversity)/3)

	assessment := model.QualityAssessment{
		Pass:            true,
		Confidence:      confidence,
		TopScore:        top,
		AvgScore:        avg,
		SourceCount:     count,
		SourceDiversity: diversity,
	}

	switch {
	case top < minTopScore:
		assessment.Pass = false
		assessment.Reason = model.ReasonLowRelevance
	case avg < minAvgScore:
		assessment.Pass = false
		assessment.Reason = model.ReasonWeakSources
	case count < minSources:
		assessment.Pass = false
		assessment.Reason = model.ReasonInsufficientSources
	}
	return assessment
}

func clamp01(v float64) float64 {
	if v > 1 {
		return 1
	}
	return v
}
