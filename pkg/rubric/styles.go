package rubric

import (
	"fmt"

	"github.com/krdstools/krds-checker/pkg/analysis"
	"github.com/krdstools/krds-checker/pkg/signal"
)

// KRDS design-token budgets. Pages using more distinct values than the token
// set allows are drifting away from the design system.
const (
	maxPaletteColors = 12
	maxFontFamilies  = 2
	maxFontSizes     = 8
	maxRadiusValues  = 4
	maxSpacingValues = 8
)

func designStyleRules() []Rule {
	return []Rule{
		{
			Key: "colors", Label: "색상", EnglishName: "colors",
			Section: analysis.SectionDesignStyles, Evaluate: evalColors,
		},
		{
			Key: "typography", Label: "타이포그래피", EnglishName: "typography",
			Section: analysis.SectionDesignStyles, Evaluate: evalTypography,
		},
		{
			Key: "shapes", Label: "형태", EnglishName: "shapes",
			Section: analysis.SectionDesignStyles, Evaluate: evalShapes,
		},
		{
			Key: "icons", Label: "아이콘", EnglishName: "icons",
			Section: analysis.SectionDesignStyles, Evaluate: evalIcons,
		},
		{
			Key: "spacing", Label: "간격", EnglishName: "spacing",
			Section: analysis.SectionDesignStyles, Evaluate: evalSpacing,
		},
	}
}

func evalColors(sig *signal.PageSignals) Evaluation {
	if sig.ColorCount <= maxPaletteColors {
		return Evaluation{Score: 100, Passed: []string{fmt.Sprintf("색상 %d종이 팔레트 기준(%d종) 이내입니다", sig.ColorCount, maxPaletteColors)}}
	}
	excess := sig.ColorCount - maxPaletteColors
	return Evaluation{
		Score:  clamp(100 - excess*5),
		Issues: []string{fmt.Sprintf("색상 %d종이 사용되어 팔레트 기준(%d종)을 초과합니다", sig.ColorCount, maxPaletteColors)},
	}
}

func evalTypography(sig *signal.PageSignals) Evaluation {
	var ev Evaluation
	ev.Score = 100
	if n := len(sig.FontFamilies); n > maxFontFamilies {
		ev.Score -= (n - maxFontFamilies) * 15
		ev.Issues = append(ev.Issues, fmt.Sprintf("글꼴 %d종이 사용되어 기준(%d종)을 초과합니다", n, maxFontFamilies))
	} else {
		ev.Passed = append(ev.Passed, "글꼴 수가 기준 이내입니다")
	}
	if sig.FontSizeCount > maxFontSizes {
		ev.Score -= (sig.FontSizeCount - maxFontSizes) * 5
		ev.Issues = append(ev.Issues, fmt.Sprintf("글자 크기 %d종이 사용되어 타입 스케일 기준(%d종)을 초과합니다", sig.FontSizeCount, maxFontSizes))
	} else {
		ev.Passed = append(ev.Passed, "타입 스케일이 기준 이내입니다")
	}
	ev.Score = clamp(ev.Score)
	return ev
}

func evalShapes(sig *signal.PageSignals) Evaluation {
	if sig.RadiusCount <= maxRadiusValues {
		return Evaluation{Score: 100, Passed: []string{"모서리 반경 값이 토큰 기준 이내입니다"}}
	}
	return Evaluation{
		Score:  clamp(100 - (sig.RadiusCount-maxRadiusValues)*10),
		Issues: []string{fmt.Sprintf("모서리 반경 %d종이 사용되어 토큰 기준(%d종)을 초과합니다", sig.RadiusCount, maxRadiusValues)},
	}
}

func evalIcons(sig *signal.PageSignals) Evaluation {
	if sig.IconCount == 0 {
		return Evaluation{Score: 100, Passed: []string{"아이콘이 관찰되지 않았습니다"}}
	}
	unlabeled := sig.IconCount - sig.IconsWithText
	if unlabeled <= 0 {
		return Evaluation{Score: 100, Passed: []string{"모든 아이콘에 텍스트 레이블이 있습니다"}}
	}
	return Evaluation{
		Score:  ratioScore(unlabeled, sig.IconCount),
		Issues: []string{fmt.Sprintf("아이콘 %d개 중 %d개에 텍스트 레이블이 없습니다", sig.IconCount, unlabeled)},
	}
}

func evalSpacing(sig *signal.PageSignals) Evaluation {
	if sig.SpacingValues <= maxSpacingValues {
		return Evaluation{Score: 100, Passed: []string{"간격 값이 스페이싱 토큰 기준 이내입니다"}}
	}
	return Evaluation{
		Score:  clamp(100 - (sig.SpacingValues-maxSpacingValues)*5),
		Issues: []string{fmt.Sprintf("간격 값 %d종이 사용되어 스페이싱 토큰 기준(%d종)을 초과합니다", sig.SpacingValues, maxSpacingValues)},
	}
}
