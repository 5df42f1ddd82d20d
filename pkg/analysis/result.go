package analysis

import (
	"time"

	"github.com/krdstools/krds-checker/pkg/kwcag"
)

// Result is the assembled outcome of one audit run. It is treated as an
// immutable value: the exception engine never mutates a Result it was given,
// it builds an adjusted copy via Clone.
//
// Invariant: OverallScore and KrdsCompliance.Score are always equal and are
// always recomputed from the four section item lists, never set
// independently.
type Result struct {
	URL             string           `json:"url"`
	Viewport        string           `json:"viewport"`
	Timestamp       time.Time        `json:"timestamp"`
	ExecutionTime   int64            `json:"executionTime"` // milliseconds
	OverallScore    int              `json:"overallScore"`
	DesignStyles    []CategoryItem   `json:"designStyles"`
	Components      []CategoryItem   `json:"components"`
	BasicPatterns   []CategoryItem   `json:"basicPatterns"`
	ServicePatterns []CategoryItem   `json:"servicePatterns"`
	AxeResults      kwcag.AxeResults `json:"axeResults"`
	KwcagReport     kwcag.Report     `json:"kwcagReport"`
	KrdsCompliance  KrdsCompliance   `json:"krdsCompliance"`
	ExceptionInfo   *ExceptionInfo   `json:"exceptionInfo,omitempty"`
}

// KrdsCompliance is the nested mirror of the section findings consumed by
// downstream dashboards that expect keyed details rather than flat lists.
type KrdsCompliance struct {
	Score              int                    `json:"score"`
	DesignTokensDetail map[string]TokenDetail `json:"designTokensDetail"`
	KrdsComponents     []CategoryItem         `json:"krdsComponents"`
	BasicPatterns      PatternSummary         `json:"basicPatterns"`
	ServicePatterns    PatternSummary         `json:"servicePatterns"`
}

// TokenDetail is the dictionary form of a design-style finding.
type TokenDetail struct {
	Score      int      `json:"score"`
	Compliance []string `json:"compliance"`
	Issues     []string `json:"issues"`
	Passed     []string `json:"passed"`
	Excluded   bool     `json:"excluded,omitempty"`
}

// PatternSummary carries the aggregate score of a pattern section inside the
// nested compliance block.
type PatternSummary struct {
	OverallScore int `json:"overallScore"`
}

// ExceptionInfo is the audit record of one exception-override invocation.
// It is created once per invocation and never mutated afterwards. Sections
// lists the recognized sections that were *requested* for override, whether
// or not any item actually matched.
type ExceptionInfo struct {
	Applied         bool     `json:"applied"`
	ChecklistID     string   `json:"checklistId,omitempty"`
	TotalExceptions int      `json:"totalExceptions"`
	OriginalScore   int      `json:"originalScore"`
	AdjustedScore   int      `json:"adjustedScore"`
	ScoreDifference int      `json:"scoreDifference"`
	Sections        []string `json:"sections"`
}

// SectionItems returns the item list backing the given section. The returned
// slice shares storage with the Result; callers that must not observe
// mutations should Clone first.
func (r *Result) SectionItems(s Section) []CategoryItem {
	switch s {
	case SectionDesignStyles:
		return r.DesignStyles
	case SectionComponents:
		return r.Components
	case SectionBasicPatterns:
		return r.BasicPatterns
	case SectionServicePatterns:
		return r.ServicePatterns
	}
	return nil
}

// SetSectionItems replaces the item list backing the given section.
func (r *Result) SetSectionItems(s Section, items []CategoryItem) {
	switch s {
	case SectionDesignStyles:
		r.DesignStyles = items
	case SectionComponents:
		r.Components = items
	case SectionBasicPatterns:
		r.BasicPatterns = items
	case SectionServicePatterns:
		r.ServicePatterns = items
	}
}

// Clone builds a structurally independent copy of the result. The nested
// structures are reconstructed field by field rather than run through a
// generic deep-clone, so each level stays independently typed.
func (r *Result) Clone() *Result {
	out := *r

	for _, s := range Sections() {
		out.SetSectionItems(s, cloneItems(r.SectionItems(s)))
	}

	out.AxeResults = r.AxeResults.Clone()
	out.KwcagReport = r.KwcagReport.Clone()
	out.KrdsCompliance = r.KrdsCompliance.clone()

	if r.ExceptionInfo != nil {
		info := *r.ExceptionInfo
		info.Sections = append([]string(nil), r.ExceptionInfo.Sections...)
		out.ExceptionInfo = &info
	}
	return &out
}

func (k KrdsCompliance) clone() KrdsCompliance {
	out := k
	out.KrdsComponents = cloneItems(k.KrdsComponents)
	if k.DesignTokensDetail != nil {
		out.DesignTokensDetail = make(map[string]TokenDetail, len(k.DesignTokensDetail))
		for key, d := range k.DesignTokensDetail {
			out.DesignTokensDetail[key] = TokenDetail{
				Score:      d.Score,
				Compliance: append([]string(nil), d.Compliance...),
				Issues:     append([]string(nil), d.Issues...),
				Passed:     append([]string(nil), d.Passed...),
				Excluded:   d.Excluded,
			}
		}
	}
	return out
}

func cloneItems(items []CategoryItem) []CategoryItem {
	if items == nil {
		return nil
	}
	out := make([]CategoryItem, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}
