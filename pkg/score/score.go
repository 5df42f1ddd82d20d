// Package score holds the aggregation arithmetic that turns per-item
// findings into section scores and the overall score. Aggregates are always
// recomputed from the current items — there is no caching layer, so a stale
// score cannot survive a mutation.
package score

import (
	"math"

	"github.com/krdstools/krds-checker/pkg/analysis"
)

// Category returns the rounded arithmetic mean of the item scores, or 0 for
// an empty list. This is the single source of truth for a section's
// aggregate.
func Category(items []analysis.CategoryItem) int {
	if len(items) == 0 {
		return 0
	}
	sum := 0
	for _, it := range items {
		sum += it.Score
	}
	return round(float64(sum) / float64(len(items)))
}

// Overall combines the four section aggregates into the top-level score. An
// absent or empty section contributes 0 and is still included in the mean:
// equal weighting is deliberate, an unscored section degrades the overall
// score rather than being excluded.
func Overall(designStyles, components, basicPatterns, servicePatterns int) int {
	return round(float64(designStyles+components+basicPatterns+servicePatterns) / 4)
}

// Recompute re-derives every aggregate of the result from its current
// section items: the four section scores, the overall score, and the nested
// compliance mirrors. It must be called after any section mutation,
// including exception overrides.
func Recompute(r *analysis.Result) {
	styles := Category(r.DesignStyles)
	components := Category(r.Components)
	basic := Category(r.BasicPatterns)
	service := Category(r.ServicePatterns)

	overall := Overall(styles, components, basic, service)
	r.OverallScore = overall
	r.KrdsCompliance.Score = overall
	r.KrdsCompliance.BasicPatterns = analysis.PatternSummary{OverallScore: basic}
	r.KrdsCompliance.ServicePatterns = analysis.PatternSummary{OverallScore: service}
}

// Grade buckets a 0-100 score into the rating the CLI and HTML report use.
func Grade(score int) string {
	switch {
	case score >= 90:
		return "excellent"
	case score >= 70:
		return "good"
	case score >= 50:
		return "fair"
	default:
		return "poor"
	}
}

func round(f float64) int {
	return int(math.Round(f))
}
