package analysis

import "strings"

// Section identifies one of the four fixed top-level finding categories of
// the KRDS rubric. The set is closed: everything else routes to the
// SectionOther bucket during exception handling.
type Section int

const (
	SectionDesignStyles Section = iota
	SectionComponents
	SectionBasicPatterns
	SectionServicePatterns
)

// SectionOther is the literal bucket name for exception requests whose
// section cannot be resolved to one of the four recognized sections.
// Such groups are kept for audit visibility but never mutate a section.
const SectionOther = "기타"

// Sections returns the four sections in their fixed report order.
func Sections() [4]Section {
	return [4]Section{SectionDesignStyles, SectionComponents, SectionBasicPatterns, SectionServicePatterns}
}

// ID returns the canonical identifier used in JSON payloads and in
// ExceptionInfo.Sections.
func (s Section) ID() string {
	switch s {
	case SectionDesignStyles:
		return "designStyles"
	case SectionComponents:
		return "components"
	case SectionBasicPatterns:
		return "basicPatterns"
	case SectionServicePatterns:
		return "servicePatterns"
	}
	return ""
}

// Label returns the Korean display name of the section, matching the labels
// the KRDS checklist uses.
func (s Section) Label() string {
	switch s {
	case SectionDesignStyles:
		return "디자인 스타일"
	case SectionComponents:
		return "컴포넌트"
	case SectionBasicPatterns:
		return "기본 패턴"
	case SectionServicePatterns:
		return "서비스 패턴"
	}
	return ""
}

// KeyField returns the name of the CategoryItem field that acts as the
// matching key for items in this section.
func (s Section) KeyField() string {
	switch s {
	case SectionDesignStyles:
		return "category"
	case SectionComponents:
		return "type"
	default:
		return "name"
	}
}

// sectionAliases maps every accepted spelling of a section name to its
// Section. Canonical ids, kebab-case aliases, and Korean labels are all
// accepted because exception requests arrive from several frontends.
var sectionAliases = map[string]Section{
	"designstyles":     SectionDesignStyles,
	"design-styles":    SectionDesignStyles,
	"design styles":    SectionDesignStyles,
	"디자인 스타일":          SectionDesignStyles,
	"디자인스타일":           SectionDesignStyles,
	"components":       SectionComponents,
	"krdscomponents":   SectionComponents,
	"컴포넌트":             SectionComponents,
	"basicpatterns":    SectionBasicPatterns,
	"basic-patterns":   SectionBasicPatterns,
	"basic patterns":   SectionBasicPatterns,
	"기본 패턴":            SectionBasicPatterns,
	"기본패턴":             SectionBasicPatterns,
	"servicepatterns":  SectionServicePatterns,
	"service-patterns": SectionServicePatterns,
	"service patterns": SectionServicePatterns,
	"서비스 패턴":           SectionServicePatterns,
	"서비스패턴":            SectionServicePatterns,
}

// ResolveSection maps a section name from an exception request to one of the
// four recognized sections. The second return value is false for empty or
// unrecognized names.
func ResolveSection(name string) (Section, bool) {
	s, ok := sectionAliases[strings.ToLower(strings.TrimSpace(name))]
	return s, ok
}
