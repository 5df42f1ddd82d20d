// Package rubric defines the KRDS audit rules and their signal evaluators.
// Each rule is a pluggable, independently testable function from collected
// page signals to a score and an issue list; the scoring engine treats
// evaluators as opaque producers.
package rubric

import (
	"github.com/krdstools/krds-checker/pkg/analysis"
	"github.com/krdstools/krds-checker/pkg/signal"
)

// Evaluation is the outcome of one rule against one page.
type Evaluation struct {
	Score  int      // 0..100
	Issues []string // what failed, empty when fully compliant
	Passed []string // which checks were satisfied
}

// Evaluator computes a rule's evaluation from page signals. Evaluators are
// deterministic: the same signals always produce the same evaluation.
type Evaluator func(sig *signal.PageSignals) Evaluation

// Rule is one entry of the audit rubric.
type Rule struct {
	Key         string           // section-specific matching key
	Label       string           // Korean display label
	EnglishName string           // stable english identifier
	Section     analysis.Section // which section the finding belongs to
	Evaluate    Evaluator
}

// Default returns the full built-in rubric in report order.
func Default() []Rule {
	var rules []Rule
	rules = append(rules, designStyleRules()...)
	rules = append(rules, componentRules()...)
	rules = append(rules, basicPatternRules()...)
	rules = append(rules, servicePatternRules()...)
	return rules
}

// BySection filters rules to one section, preserving order.
func BySection(rules []Rule, s analysis.Section) []Rule {
	var out []Rule
	for _, r := range rules {
		if r.Section == s {
			out = append(out, r)
		}
	}
	return out
}

// clamp bounds a computed score to the 0..100 range every evaluator must
// stay within.
func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// ratioScore scores how many of total observations are compliant, treating
// zero observations as fully compliant.
func ratioScore(offending, total int) int {
	if total == 0 {
		return 100
	}
	return clamp(100 - offending*100/total)
}
