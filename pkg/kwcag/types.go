// Package kwcag maps a raw axe-core accessibility report into the localized
// KWCAG compliance summary used by the KRDS checklist: an overall compliance
// percentage, a WCAG conformance level, and per-principle breakdowns.
package kwcag

// RuleResult is one rule outcome from the assistive-technology audit tool.
// Only the rule id is required; impact and tags degrade to "uncategorized,
// non-critical" when absent.
type RuleResult struct {
	ID          string   `json:"id"`
	Impact      string   `json:"impact,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Description string   `json:"description,omitempty"`
	Nodes       int      `json:"nodes,omitempty"`
}

// AxeResults is the raw audit output as delivered by the browser-side axe
// run. Upstream failures must be converted into an empty report before it
// reaches the classifier; the classifier itself never errors.
type AxeResults struct {
	Violations   []RuleResult `json:"violations"`
	Passes       []RuleResult `json:"passes"`
	Incomplete   []RuleResult `json:"incomplete"`
	Inapplicable []RuleResult `json:"inapplicable"`
	Timestamp    string       `json:"timestamp,omitempty"`
}

// Principle is one of the four WCAG principles the KWCAG summary groups by.
type Principle string

const (
	Perceivable    Principle = "perceivable"
	Operable       Principle = "operable"
	Understandable Principle = "understandable"
	Robust         Principle = "robust"
)

// Principles returns the four principles in report order.
func Principles() [4]Principle {
	return [4]Principle{Perceivable, Operable, Understandable, Robust}
}

// WCAG conformance levels reported by the classifier.
const (
	LevelAA   = "AA"
	LevelA    = "A"
	LevelNone = "None"
)

// LevelSummary is the count breakdown for one conformance level bucket.
type LevelSummary struct {
	Violations int `json:"violations"`
	Passes     int `json:"passes"`
	Compliance int `json:"compliance"`
}

// Report is the derived KWCAG compliance summary.
type Report struct {
	OverallCompliance int               `json:"overallCompliance"`
	WcagLevel         string            `json:"wcagLevel"`
	Violations        int               `json:"violations"`
	Passes            int               `json:"passes"`
	ByCategory        map[Principle]int `json:"byCategory"`
	LevelA            LevelSummary      `json:"levelA"`
	LevelAA           LevelSummary      `json:"levelAA"`
}

// Clone returns an independent copy of the raw results.
func (a AxeResults) Clone() AxeResults {
	return AxeResults{
		Violations:   cloneRules(a.Violations),
		Passes:       cloneRules(a.Passes),
		Incomplete:   cloneRules(a.Incomplete),
		Inapplicable: cloneRules(a.Inapplicable),
		Timestamp:    a.Timestamp,
	}
}

// Clone returns an independent copy of the report.
func (r Report) Clone() Report {
	out := r
	if r.ByCategory != nil {
		out.ByCategory = make(map[Principle]int, len(r.ByCategory))
		for k, v := range r.ByCategory {
			out.ByCategory[k] = v
		}
	}
	return out
}

func cloneRules(rules []RuleResult) []RuleResult {
	if rules == nil {
		return nil
	}
	out := make([]RuleResult, len(rules))
	for i, rr := range rules {
		out[i] = rr
		out[i].Tags = append([]string(nil), rr.Tags...)
	}
	return out
}
