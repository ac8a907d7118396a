// Package analyzer scores and buckets leads. Everything here is pure and
// deterministic, with no I/O and no clock dependence beyond the completion
// timestamp, so analysis runs are reproducible.
package analyzer

import (
	"fmt"
	"math"
	"time"

	"github.com/sells-group/lead-intel/internal/model"
)

// Scoring weights and category thresholds. Fixed constants, not tunable at
// call time.
const (
	visitWeight   = 8
	maxVisitScore = 60
	qualityWeight = 4 // quality is bounded to [0,10], so quality score tops out at 40
	maxScore      = 100

	hotThreshold  = 75
	warmThreshold = 50
)

// Score derives the 0-100 custom score from visit count and the
// source-provided 0-10 quality heuristic.
func Score(visits, quality int) int {
	visitScore := visits * visitWeight
	if visitScore > maxVisitScore {
		visitScore = maxVisitScore
	}
	score := visitScore + quality*qualityWeight
	if score > maxScore {
		score = maxScore
	}
	return score
}

// Categorize buckets a custom score. Lower bounds are inclusive.
func Categorize(score int) model.Category {
	switch {
	case score >= hotThreshold:
		return model.CategoryHot
	case score >= warmThreshold:
		return model.CategoryWarm
	default:
		return model.CategoryCool
	}
}

// Insight describes engagement from the visit count. Buckets are checked in
// descending order; first match wins.
func Insight(visits int) string {
	switch {
	case visits > 10:
		return fmt.Sprintf("High engagement: %d visits", visits)
	case visits > 5:
		return fmt.Sprintf("Moderate interest: %d visits", visits)
	default:
		return fmt.Sprintf("Early research: %d visits", visits)
	}
}

// Analyze scores the given leads in order and computes aggregate metrics.
// An empty input yields a zeroed result with no division by zero. The
// summary is generated locally, without an external call.
func Analyze(leads []model.RawLead) model.AnalysisResult {
	result := model.AnalysisResult{
		Leads:      make([]model.ScoredLead, 0, len(leads)),
		AnalyzedAt: time.Now().UTC(),
	}

	var scoreSum int
	for _, lead := range leads {
		score := Score(lead.Visits, lead.Quality)
		category := Categorize(score)

		result.Leads = append(result.Leads, model.ScoredLead{
			RawLead:     lead,
			CustomScore: score,
			Category:    category,
			Insights:    Insight(lead.Visits),
		})

		scoreSum += score
		switch category {
		case model.CategoryHot:
			result.HotLeads++
		case model.CategoryWarm:
			result.WarmLeads++
		default:
			result.CoolLeads++
		}
	}

	result.TotalLeads = len(result.Leads)
	if result.TotalLeads > 0 {
		result.AvgScore = int(math.Round(float64(scoreSum) / float64(result.TotalLeads)))
	}

	result.Summary = fmt.Sprintf(
		"Analyzed %d leads: %d hot opportunities, %d warm leads, %d cool prospects.",
		result.TotalLeads, result.HotLeads, result.WarmLeads, result.CoolLeads,
	)

	return result
}
