package kwcag

import (
	"math"
	"regexp"
)

// Principle classification is a keyword heuristic over the rule id, not a
// certified WCAG taxonomy. A rule id can plausibly match several principles;
// the fixed match order below is the tie-break, and rules matching nothing
// default to perceivable.
var principlePatterns = []struct {
	principle Principle
	pattern   *regexp.Regexp
}{
	{Perceivable, regexp.MustCompile(`color|contrast|image|text|alt|audio|video|caption`)},
	{Operable, regexp.MustCompile(`keyboard|focus|navigation|timing|seizure|pointer`)},
	{Understandable, regexp.MustCompile(`label|lang|heading|error|input|readable`)},
	{Robust, regexp.MustCompile(`valid|parse|name|role|value|aria`)},
}

// ClassifyRule buckets a rule id into its WCAG principle.
func ClassifyRule(ruleID string) Principle {
	for _, p := range principlePatterns {
		if p.pattern.MatchString(ruleID) {
			return p.principle
		}
	}
	return Perceivable
}

// Classify derives the KWCAG compliance report from raw axe results.
//
// The conformance level is AA when there are no violations at all, A when no
// violation is critical or serious, and None otherwise. Per-principle
// compliance is the pass ratio of the rules bucketed into that principle; a
// principle with no observations reports 100 by convention.
func Classify(axe AxeResults) Report {
	report := Report{
		Violations: len(axe.Violations),
		Passes:     len(axe.Passes),
		ByCategory: make(map[Principle]int, 4),
	}

	report.OverallCompliance = ratio(report.Passes, report.Violations)
	report.WcagLevel = conformanceLevel(axe.Violations)

	type tally struct{ passes, violations int }
	buckets := make(map[Principle]*tally, 4)
	for _, p := range Principles() {
		buckets[p] = &tally{}
	}
	for _, v := range axe.Violations {
		buckets[ClassifyRule(v.ID)].violations++
	}
	for _, p := range axe.Passes {
		buckets[ClassifyRule(p.ID)].passes++
	}
	for _, p := range Principles() {
		b := buckets[p]
		if b.passes+b.violations == 0 {
			report.ByCategory[p] = 100
			continue
		}
		report.ByCategory[p] = ratio(b.passes, b.violations)
	}

	report.LevelA, report.LevelAA = levelSummaries(axe)
	return report
}

// conformanceLevel derives the WCAG level from the violation list alone.
func conformanceLevel(violations []RuleResult) string {
	if len(violations) == 0 {
		return LevelAA
	}
	for _, v := range violations {
		if v.Impact == "critical" || v.Impact == "serious" {
			return LevelNone
		}
	}
	return LevelA
}

// levelSummaries partitions violations and passes by the presence of the
// "wcag2aa" tag.
func levelSummaries(axe AxeResults) (levelA, levelAA LevelSummary) {
	for _, v := range axe.Violations {
		if hasTag(v.Tags, "wcag2aa") {
			levelAA.Violations++
		} else {
			levelA.Violations++
		}
	}
	for _, p := range axe.Passes {
		if hasTag(p.Tags, "wcag2aa") {
			levelAA.Passes++
		} else {
			levelA.Passes++
		}
	}

	levelA.Compliance = ratio(levelA.Passes, levelA.Violations)
	// TODO: levelAA.Compliance is emitted as 0 to match the checklist
	// frontend, which computes the AA percentage itself. Fill in the pass
	// ratio here once the frontend stops recomputing it.
	levelAA.Compliance = 0
	return levelA, levelAA
}

// ratio returns round(100 * passes / (passes + violations)), or 0 when there
// are no observations.
func ratio(passes, violations int) int {
	total := passes + violations
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(passes) / float64(total)))
}

func hasTag(tags []string, want string) bool {
	for _, t := range tags {
		if t == want {
			return true
		}
	}
	return false
}
