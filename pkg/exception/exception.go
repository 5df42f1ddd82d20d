// Package exception implements the override pipeline that reinterprets
// selected findings as intentionally excused, forces them to a compliant
// state, and re-derives every dependent aggregate while preserving an audit
// trail of the adjustment.
package exception

import (
	"sort"

	"github.com/krdstools/krds-checker/pkg/analysis"
	"github.com/krdstools/krds-checker/pkg/score"
)

// DefaultReason is recorded when an exception request carries no reason.
const DefaultReason = "예외 처리"

// exceptionPassedNote is written into the nested token detail of an excused
// design-style finding.
const exceptionPassedNote = "exception: fully compliant"

// Request is one operator-supplied override. ItemKey wins over ItemName for
// matching; Section wins over Category for routing. All fields are optional
// and degrade to non-matching rather than erroring.
type Request struct {
	ItemKey  string `json:"item_key,omitempty"`
	ItemName string `json:"item_name,omitempty"`
	Section  string `json:"section,omitempty"`
	Category string `json:"category,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// MatchKey resolves the key this request matches items against: item_key,
// then item_name, then the empty string (which never matches anything).
func (r Request) MatchKey() string {
	return analysis.FirstNonEmpty(r.ItemKey, r.ItemName)
}

// sectionName resolves the raw section routing name of the request.
func (r Request) sectionName() string {
	return analysis.FirstNonEmpty(r.Section, r.Category, analysis.SectionOther)
}

// Adjust applies the exception requests to a copy of the original result and
// returns the adjusted result carrying an ExceptionInfo audit record. The
// input is never mutated. An empty request list returns the original
// unchanged, with no audit record attached.
//
// Adjust is a projection to a compliant state: applying it twice with the
// same requests yields the same result as applying it once.
func Adjust(original *analysis.Result, requests []Request, checklistID string) *analysis.Result {
	if len(requests) == 0 {
		return original
	}

	originalScore := original.OverallScore
	adjusted := original.Clone()

	groups := groupBySection(requests)

	var requested []string
	for _, section := range analysis.Sections() {
		group := groups[section.ID()]
		if len(group) == 0 {
			continue
		}
		requested = append(requested, section.ID())
		overrideItems(adjusted.SectionItems(section), section, group)

		switch section {
		case analysis.SectionDesignStyles:
			overrideTokenDetails(adjusted.KrdsCompliance.DesignTokensDetail, group)
		case analysis.SectionComponents:
			overrideItems(adjusted.KrdsCompliance.KrdsComponents, analysis.SectionComponents, group)
		}
	}
	sort.Strings(requested)

	score.Recompute(adjusted)

	adjusted.ExceptionInfo = &analysis.ExceptionInfo{
		Applied:         true,
		ChecklistID:     checklistID,
		TotalExceptions: len(requests),
		OriginalScore:   originalScore,
		AdjustedScore:   adjusted.OverallScore,
		ScoreDifference: adjusted.OverallScore - originalScore,
		Sections:        requested,
	}
	return adjusted
}

// groupBySection partitions the requests by resolved section. Recognized
// sections are keyed by their canonical id; everything else lands under its
// raw name (or the "기타" bucket) and is retained for audit visibility only —
// no matching target exists, so those groups never mutate a section.
func groupBySection(requests []Request) map[string][]Request {
	groups := make(map[string][]Request)
	for _, req := range requests {
		name := req.sectionName()
		if section, ok := analysis.ResolveSection(name); ok {
			name = section.ID()
		}
		groups[name] = append(groups[name], req)
	}
	return groups
}

// overrideItems rewrites every item whose resolved key matches a request in
// the group. The first matching request supplies the exclusion reason.
// Non-matching items are left untouched.
func overrideItems(items []analysis.CategoryItem, section analysis.Section, group []Request) {
	for i := range items {
		key := items[i].Key(section)
		if key == "" {
			continue
		}
		req, ok := firstMatch(group, key)
		if !ok {
			continue
		}
		excuse(&items[i], req)
	}
}

// excuse forces a single item into the compliant state.
func excuse(item *analysis.CategoryItem, req Request) {
	item.Score = 100
	if _, wasString := item.Compliance.(string); wasString {
		item.Compliance = analysis.StatusCompliant
	} else {
		item.Compliance = 100
	}
	item.Issues = []string{}
	item.Excluded = true
	item.ExclusionReason = analysis.FirstNonEmpty(req.Reason, DefaultReason)
}

// overrideTokenDetails rewrites the nested design-token detail entries whose
// key matches a request in the group.
func overrideTokenDetails(details map[string]analysis.TokenDetail, group []Request) {
	for key := range details {
		if _, ok := firstMatch(group, key); !ok {
			continue
		}
		details[key] = analysis.TokenDetail{
			Score:      100,
			Compliance: []string{},
			Issues:     []string{},
			Passed:     []string{exceptionPassedNote},
			Excluded:   true,
		}
	}
}

// firstMatch returns the first request in the group whose match key equals
// the item key.
func firstMatch(group []Request, key string) (Request, bool) {
	for _, req := range group {
		if req.MatchKey() == key {
			return req, true
		}
	}
	return Request{}, false
}
