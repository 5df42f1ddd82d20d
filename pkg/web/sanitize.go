package web

import (
	"github.com/krdstools/krds-checker/pkg/analysis"
	"github.com/krdstools/krds-checker/pkg/kwcag"
)

// sanitize coerces a result into a JSON-safe shape: nil slices and maps
// become empty so consumers never see null where they expect [] or {}.
// Results built from inline request payloads are the usual offenders.
func sanitize(r *analysis.Result) *analysis.Result {
	for _, section := range analysis.Sections() {
		items := r.SectionItems(section)
		for i := range items {
			if items[i].Issues == nil {
				items[i].Issues = []string{}
			}
		}
		if items == nil {
			r.SetSectionItems(section, []analysis.CategoryItem{})
		}
	}

	if r.KrdsCompliance.KrdsComponents == nil {
		r.KrdsCompliance.KrdsComponents = []analysis.CategoryItem{}
	}
	for i := range r.KrdsCompliance.KrdsComponents {
		if r.KrdsCompliance.KrdsComponents[i].Issues == nil {
			r.KrdsCompliance.KrdsComponents[i].Issues = []string{}
		}
	}

	if r.KrdsCompliance.DesignTokensDetail == nil {
		r.KrdsCompliance.DesignTokensDetail = map[string]analysis.TokenDetail{}
	}
	for key, d := range r.KrdsCompliance.DesignTokensDetail {
		if d.Compliance == nil {
			d.Compliance = []string{}
		}
		if d.Issues == nil {
			d.Issues = []string{}
		}
		if d.Passed == nil {
			d.Passed = []string{}
		}
		r.KrdsCompliance.DesignTokensDetail[key] = d
	}

	r.AxeResults = sanitizeAxe(r.AxeResults)

	if r.KwcagReport.ByCategory == nil {
		r.KwcagReport.ByCategory = map[kwcag.Principle]int{}
	}

	if r.ExceptionInfo != nil && r.ExceptionInfo.Sections == nil {
		r.ExceptionInfo.Sections = []string{}
	}
	return r
}

func sanitizeAxe(axe kwcag.AxeResults) kwcag.AxeResults {
	if axe.Violations == nil {
		axe.Violations = []kwcag.RuleResult{}
	}
	if axe.Passes == nil {
		axe.Passes = []kwcag.RuleResult{}
	}
	if axe.Incomplete == nil {
		axe.Incomplete = []kwcag.RuleResult{}
	}
	if axe.Inapplicable == nil {
		axe.Inapplicable = []kwcag.RuleResult{}
	}
	return axe
}
