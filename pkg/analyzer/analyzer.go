// Package analyzer assembles a full analysis result: it runs the rubric
// evaluators over collected page signals, classifies the accessibility
// report, builds the nested compliance mirror, and derives all aggregate
// scores.
package analyzer

import (
	"context"
	"fmt"
	"time"

	"github.com/krdstools/krds-checker/pkg/analysis"
	"github.com/krdstools/krds-checker/pkg/kwcag"
	"github.com/krdstools/krds-checker/pkg/rubric"
	"github.com/krdstools/krds-checker/pkg/score"
	"github.com/krdstools/krds-checker/pkg/signal"
	"github.com/krdstools/krds-checker/pkg/ux"
)

// Analyzer runs audits against a rubric.
type Analyzer struct {
	rules    []rubric.Rule
	progress ux.ProgressWriter
}

// New creates an analyzer. A nil rule slice means the default rubric; a nil
// progress writer means no progress reporting.
func New(rules []rubric.Rule, progress ux.ProgressWriter) *Analyzer {
	if rules == nil {
		rules = rubric.Default()
	}
	if progress == nil {
		progress = &ux.NoOpProgressWriter{}
	}
	return &Analyzer{rules: rules, progress: progress}
}

// Analyze acquires one signal session, collects signals for the target page
// and assembles the result. The session is released on both success and
// failure paths. A nil axe report degrades to an empty accessibility report
// rather than failing the audit.
func (a *Analyzer) Analyze(ctx context.Context, src signal.Source, url, viewport string, axe *kwcag.AxeResults) (*analysis.Result, error) {
	start := time.Now()

	sess, err := src.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire signal session: %w", err)
	}
	defer sess.Close()

	a.progress.Info("collecting page signals from %s", url)
	sig, err := sess.Collect(ctx, url, viewport)
	if err != nil {
		return nil, err
	}

	result := a.Assemble(sig, axe)
	result.URL = url
	result.Viewport = viewport
	result.ExecutionTime = time.Since(start).Milliseconds()
	return result, nil
}

// Assemble builds an analysis result from already-collected signals, for
// callers that receive computed signals from an external browser runner.
func (a *Analyzer) Assemble(sig *signal.PageSignals, axe *kwcag.AxeResults) *analysis.Result {
	result := &analysis.Result{
		URL:       sig.URL,
		Viewport:  sig.Viewport,
		Timestamp: time.Now().UTC(),
	}

	for _, section := range analysis.Sections() {
		a.progress.StartPhase(section.Label())
		result.SetSectionItems(section, a.evaluateSection(section, sig))
		a.progress.EndPhase()
	}

	if axe != nil {
		result.AxeResults = axe.Clone()
	} else {
		result.AxeResults = emptyAxeResults()
	}
	result.KwcagReport = kwcag.Classify(result.AxeResults)

	result.KrdsCompliance = analysis.KrdsCompliance{
		DesignTokensDetail: a.designTokensDetail(sig),
		KrdsComponents:     cloneSection(result.Components),
	}

	score.Recompute(result)
	return result
}

// evaluateSection runs every rule of the section and materializes the
// findings as category items, keyed by the section's designated key field.
func (a *Analyzer) evaluateSection(section analysis.Section, sig *signal.PageSignals) []analysis.CategoryItem {
	rules := rubric.BySection(a.rules, section)
	items := make([]analysis.CategoryItem, 0, len(rules))
	for _, rule := range rules {
		ev := rule.Evaluate(sig)
		items = append(items, newItem(section, rule, ev))
	}
	return items
}

// newItem turns an evaluation into a category item. Design-style compliance
// mirrors the score numerically; the other sections use status strings.
func newItem(section analysis.Section, rule rubric.Rule, ev rubric.Evaluation) analysis.CategoryItem {
	item := analysis.CategoryItem{
		Label:       rule.Label,
		EnglishName: rule.EnglishName,
		Score:       ev.Score,
		Issues:      ev.Issues,
	}
	if item.Issues == nil {
		item.Issues = []string{}
	}

	switch section.KeyField() {
	case "category":
		item.Category = rule.Key
	case "type":
		item.Type = rule.Key
	default:
		item.Name = rule.Key
	}

	if section == analysis.SectionDesignStyles {
		item.Compliance = ev.Score
	} else {
		item.Compliance = analysis.StatusForScore(ev.Score)
	}
	return item
}

// designTokensDetail renders the design-style findings in the keyed
// dictionary form downstream consumers expect.
func (a *Analyzer) designTokensDetail(sig *signal.PageSignals) map[string]analysis.TokenDetail {
	details := make(map[string]analysis.TokenDetail)
	for _, rule := range rubric.BySection(a.rules, analysis.SectionDesignStyles) {
		ev := rule.Evaluate(sig)
		detail := analysis.TokenDetail{
			Score:      ev.Score,
			Compliance: ev.Passed,
			Issues:     ev.Issues,
			Passed:     []string{},
		}
		if detail.Compliance == nil {
			detail.Compliance = []string{}
		}
		if detail.Issues == nil {
			detail.Issues = []string{}
		}
		details[rule.Key] = detail
	}
	return details
}

func cloneSection(items []analysis.CategoryItem) []analysis.CategoryItem {
	out := make([]analysis.CategoryItem, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}

func emptyAxeResults() kwcag.AxeResults {
	return kwcag.AxeResults{
		Violations:   []kwcag.RuleResult{},
		Passes:       []kwcag.RuleResult{},
		Incomplete:   []kwcag.RuleResult{},
		Inapplicable: []kwcag.RuleResult{},
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
	}
}
