package rubric

import (
	"fmt"

	"github.com/krdstools/krds-checker/pkg/analysis"
	"github.com/krdstools/krds-checker/pkg/signal"
)

func componentRules() []Rule {
	return []Rule{
		{
			Key: "button", Label: "버튼", EnglishName: "button",
			Section: analysis.SectionComponents, Evaluate: evalButtons,
		},
		{
			Key: "link", Label: "링크", EnglishName: "link",
			Section: analysis.SectionComponents, Evaluate: evalLinks,
		},
		{
			Key: "text-input", Label: "텍스트 입력 필드", EnglishName: "text-input",
			Section: analysis.SectionComponents, Evaluate: evalInputs,
		},
		{
			Key: "table", Label: "표", EnglishName: "table",
			Section: analysis.SectionComponents, Evaluate: evalTables,
		},
	}
}

func evalButtons(sig *signal.PageSignals) Evaluation {
	if sig.ButtonCount == 0 {
		return Evaluation{Score: 100, Passed: []string{"버튼이 관찰되지 않았습니다"}}
	}
	if sig.ButtonsWithoutLabel == 0 {
		return Evaluation{Score: 100, Passed: []string{fmt.Sprintf("버튼 %d개 모두 레이블이 있습니다", sig.ButtonCount)}}
	}
	return Evaluation{
		Score:  ratioScore(sig.ButtonsWithoutLabel, sig.ButtonCount),
		Issues: []string{fmt.Sprintf("버튼 %d개 중 %d개에 접근 가능한 레이블이 없습니다", sig.ButtonCount, sig.ButtonsWithoutLabel)},
	}
}

func evalLinks(sig *signal.PageSignals) Evaluation {
	if sig.LinkCount == 0 {
		return Evaluation{Score: 100, Passed: []string{"링크가 관찰되지 않았습니다"}}
	}
	if sig.EmptyLinks == 0 {
		return Evaluation{Score: 100, Passed: []string{fmt.Sprintf("링크 %d개 모두 링크 텍스트가 있습니다", sig.LinkCount)}}
	}
	return Evaluation{
		Score:  ratioScore(sig.EmptyLinks, sig.LinkCount),
		Issues: []string{fmt.Sprintf("링크 %d개 중 %d개에 링크 텍스트가 없습니다", sig.LinkCount, sig.EmptyLinks)},
	}
}

func evalInputs(sig *signal.PageSignals) Evaluation {
	if sig.InputCount == 0 {
		return Evaluation{Score: 100, Passed: []string{"입력 필드가 관찰되지 않았습니다"}}
	}
	if sig.InputsWithoutLabel == 0 {
		return Evaluation{Score: 100, Passed: []string{fmt.Sprintf("입력 필드 %d개 모두 레이블과 연결되어 있습니다", sig.InputCount)}}
	}
	return Evaluation{
		Score:  ratioScore(sig.InputsWithoutLabel, sig.InputCount),
		Issues: []string{fmt.Sprintf("입력 필드 %d개 중 %d개가 레이블과 연결되어 있지 않습니다", sig.InputCount, sig.InputsWithoutLabel)},
	}
}

func evalTables(sig *signal.PageSignals) Evaluation {
	if sig.TableCount == 0 {
		return Evaluation{Score: 100, Passed: []string{"표가 관찰되지 않았습니다"}}
	}
	if sig.TablesWithoutCaption == 0 {
		return Evaluation{Score: 100, Passed: []string{fmt.Sprintf("표 %d개 모두 캡션이 있습니다", sig.TableCount)}}
	}
	return Evaluation{
		Score:  ratioScore(sig.TablesWithoutCaption, sig.TableCount),
		Issues: []string{fmt.Sprintf("표 %d개 중 %d개에 캡션이 없습니다", sig.TableCount, sig.TablesWithoutCaption)},
	}
}
