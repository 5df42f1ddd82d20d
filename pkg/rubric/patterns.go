package rubric

import (
	"fmt"

	"github.com/krdstools/krds-checker/pkg/analysis"
	"github.com/krdstools/krds-checker/pkg/signal"
)

func basicPatternRules() []Rule {
	return []Rule{
		{
			Key: "identifier", Label: "공식 배너", EnglishName: "identifier",
			Section: analysis.SectionBasicPatterns,
			Evaluate: presenceRule("공식 누리집 배너",
				func(sig *signal.PageSignals) bool { return sig.HasOfficialBanner }),
		},
		{
			Key: "masthead", Label: "마스트헤드", EnglishName: "masthead",
			Section: analysis.SectionBasicPatterns,
			Evaluate: presenceRule("마스트헤드(header 랜드마크)",
				func(sig *signal.PageSignals) bool { return sig.HasMasthead }),
		},
		{
			Key: "skip-link", Label: "건너뛰기 링크", EnglishName: "skip-link",
			Section: analysis.SectionBasicPatterns,
			Evaluate: presenceRule("본문 바로가기 링크",
				func(sig *signal.PageSignals) bool { return sig.HasSkipLink }),
		},
		{
			Key: "structure", Label: "본문 구조", EnglishName: "structure",
			Section: analysis.SectionBasicPatterns, Evaluate: evalStructure,
		},
		{
			Key: "footer", Label: "푸터", EnglishName: "footer",
			Section: analysis.SectionBasicPatterns,
			Evaluate: presenceRule("푸터(footer 랜드마크)",
				func(sig *signal.PageSignals) bool { return sig.HasFooter }),
		},
	}
}

func servicePatternRules() []Rule {
	return []Rule{
		{
			Key: "login", Label: "로그인", EnglishName: "login",
			Section: analysis.SectionServicePatterns, Evaluate: evalLogin,
		},
		{
			Key: "search", Label: "검색", EnglishName: "search",
			Section: analysis.SectionServicePatterns,
			Evaluate: presenceRule("검색 기능",
				func(sig *signal.PageSignals) bool { return sig.HasSearchField }),
		},
		{
			Key: "privacy", Label: "개인정보 안내", EnglishName: "privacy",
			Section: analysis.SectionServicePatterns,
			Evaluate: presenceRule("개인정보 처리방침 안내",
				func(sig *signal.PageSignals) bool { return sig.HasPrivacyNotice }),
		},
	}
}

// presenceRule scores 100 when the pattern is present and 0 with an issue
// when it is not.
func presenceRule(what string, present func(*signal.PageSignals) bool) Evaluator {
	return func(sig *signal.PageSignals) Evaluation {
		if present(sig) {
			return Evaluation{Score: 100, Passed: []string{what + " 확인됨"}}
		}
		return Evaluation{Score: 0, Issues: []string{what + "을(를) 찾을 수 없습니다"}}
	}
}

// evalStructure checks the document outline: a main landmark and headings
// that descend without skipping levels.
func evalStructure(sig *signal.PageSignals) Evaluation {
	var ev Evaluation
	ev.Score = 100

	if !sig.HasMainLandmark {
		ev.Score -= 40
		ev.Issues = append(ev.Issues, "main 랜드마크를 찾을 수 없습니다")
	} else {
		ev.Passed = append(ev.Passed, "main 랜드마크 확인됨")
	}

	skips := headingSkips(sig.HeadingLevels)
	if skips > 0 {
		ev.Score -= skips * 20
		ev.Issues = append(ev.Issues, fmt.Sprintf("제목 수준이 %d회 건너뛰어집니다", skips))
	} else if len(sig.HeadingLevels) > 0 {
		ev.Passed = append(ev.Passed, "제목 구조가 순차적입니다")
	}

	ev.Score = clamp(ev.Score)
	return ev
}

// evalLogin treats a page without a login form as not applicable, and a page
// with one as compliant only when its inputs are labeled.
func evalLogin(sig *signal.PageSignals) Evaluation {
	if !sig.HasLoginForm {
		return Evaluation{Score: 100, Passed: []string{"로그인 양식이 관찰되지 않았습니다"}}
	}
	if sig.InputsWithoutLabel == 0 {
		return Evaluation{Score: 100, Passed: []string{"로그인 양식 입력 필드에 레이블이 있습니다"}}
	}
	return Evaluation{
		Score:  ratioScore(sig.InputsWithoutLabel, sig.InputCount),
		Issues: []string{"로그인 양식에 레이블이 없는 입력 필드가 있습니다"},
	}
}

// headingSkips counts level jumps greater than one in document order.
func headingSkips(levels []int) int {
	skips := 0
	for i := 1; i < len(levels); i++ {
		if levels[i] > levels[i-1]+1 {
			skips++
		}
	}
	return skips
}
