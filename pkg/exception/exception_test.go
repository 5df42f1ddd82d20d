package exception

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krdstools/krds-checker/pkg/analysis"
	"github.com/krdstools/krds-checker/pkg/score"
)

// sampleResult builds a result with known scores across all four sections.
func sampleResult() *analysis.Result {
	r := &analysis.Result{
		URL: "https://www.example.go.kr",
		DesignStyles: []analysis.CategoryItem{
			{Category: "colors", Label: "색상", Score: 40, Compliance: 40, Issues: []string{"팔레트 색상이 너무 많습니다"}},
			{Category: "typography", Label: "타이포그래피", Score: 70, Compliance: 70, Issues: []string{"글꼴 2종 초과"}},
		},
		Components: []analysis.CategoryItem{
			{Type: "button", Label: "버튼", Score: 50, Compliance: analysis.StatusPartial, Issues: []string{"레이블 없는 버튼"}},
			{Type: "link", Label: "링크", Score: 100, Compliance: analysis.StatusCompliant, Issues: []string{}},
		},
		BasicPatterns: []analysis.CategoryItem{
			{Name: "masthead", Label: "공식 배너", Score: 0, Compliance: analysis.StatusNonCompliant, Issues: []string{"공식 배너 없음"}},
		},
		ServicePatterns: []analysis.CategoryItem{
			{Name: "login", Label: "로그인", Score: 100, Compliance: analysis.StatusCompliant, Issues: []string{}},
		},
		KrdsCompliance: analysis.KrdsCompliance{
			DesignTokensDetail: map[string]analysis.TokenDetail{
				"colors":     {Score: 40, Compliance: []string{}, Issues: []string{"팔레트 색상이 너무 많습니다"}, Passed: []string{}},
				"typography": {Score: 70, Compliance: []string{}, Issues: []string{"글꼴 2종 초과"}, Passed: []string{}},
			},
			KrdsComponents: []analysis.CategoryItem{
				{Type: "button", Label: "버튼", Score: 50, Compliance: analysis.StatusPartial, Issues: []string{"레이블 없는 버튼"}},
				{Type: "link", Label: "링크", Score: 100, Compliance: analysis.StatusCompliant, Issues: []string{}},
			},
		},
	}
	score.Recompute(r)
	return r
}

func TestAdjustNoRequests(t *testing.T) {
	original := sampleResult()

	adjusted := Adjust(original, nil, "chk-1")

	assert.Same(t, original, adjusted)
	assert.Nil(t, adjusted.ExceptionInfo)
}

func TestAdjustSingleDesignStyleException(t *testing.T) {
	original := sampleResult()
	originalOverall := original.OverallScore

	adjusted := Adjust(original, []Request{
		{ItemKey: "colors", Section: "designStyles", Reason: "기관 고유 색상 사용 승인"},
	}, "chk-1")

	// The matched item is forced fully compliant.
	colors := adjusted.DesignStyles[0]
	assert.Equal(t, 100, colors.Score)
	assert.Equal(t, 100, colors.Compliance, "numeric compliance stays numeric")
	assert.Empty(t, colors.Issues)
	assert.True(t, colors.Excluded)
	assert.Equal(t, "기관 고유 색상 사용 승인", colors.ExclusionReason)

	// The sibling item is untouched.
	assert.Equal(t, 70, adjusted.DesignStyles[1].Score)
	assert.False(t, adjusted.DesignStyles[1].Excluded)

	// The nested token detail is rewritten in lockstep.
	detail := adjusted.KrdsCompliance.DesignTokensDetail["colors"]
	assert.Equal(t, 100, detail.Score)
	assert.True(t, detail.Excluded)
	assert.Empty(t, detail.Issues)
	assert.Equal(t, []string{"exception: fully compliant"}, detail.Passed)
	assert.False(t, adjusted.KrdsCompliance.DesignTokensDetail["typography"].Excluded)

	// Aggregates are re-derived: design styles 55 -> 85.
	assert.Equal(t, 85, score.Category(adjusted.DesignStyles))
	assert.Equal(t, adjusted.OverallScore, adjusted.KrdsCompliance.Score)

	// The audit record reflects the change.
	info := adjusted.ExceptionInfo
	require.NotNil(t, info)
	assert.True(t, info.Applied)
	assert.Equal(t, "chk-1", info.ChecklistID)
	assert.Equal(t, 1, info.TotalExceptions)
	assert.Equal(t, originalOverall, info.OriginalScore)
	assert.Equal(t, adjusted.OverallScore, info.AdjustedScore)
	assert.Equal(t, adjusted.OverallScore-originalOverall, info.ScoreDifference)
	assert.Equal(t, []string{"designStyles"}, info.Sections)
}

func TestAdjustDoesNotMutateInput(t *testing.T) {
	original := sampleResult()

	Adjust(original, []Request{
		{ItemKey: "colors", Section: "designStyles"},
		{ItemKey: "button", Section: "components"},
	}, "")

	assert.Equal(t, 40, original.DesignStyles[0].Score)
	assert.False(t, original.DesignStyles[0].Excluded)
	assert.Equal(t, 50, original.Components[0].Score)
	assert.False(t, original.KrdsCompliance.DesignTokensDetail["colors"].Excluded)
	assert.Equal(t, 50, original.KrdsCompliance.KrdsComponents[0].Score)
	assert.Nil(t, original.ExceptionInfo)
}

func TestAdjustStringComplianceRewrite(t *testing.T) {
	original := sampleResult()

	adjusted := Adjust(original, []Request{
		{ItemKey: "button", Section: "components"},
	}, "")

	button := adjusted.Components[0]
	assert.Equal(t, 100, button.Score)
	assert.Equal(t, analysis.StatusCompliant, button.Compliance)
	assert.True(t, button.Excluded)
	assert.Equal(t, DefaultReason, button.ExclusionReason)

	// The nested component mirror is rewritten too.
	nested := adjusted.KrdsCompliance.KrdsComponents[0]
	assert.Equal(t, 100, nested.Score)
	assert.True(t, nested.Excluded)
}

func TestAdjustMatchesByItemName(t *testing.T) {
	original := sampleResult()

	adjusted := Adjust(original, []Request{
		{ItemName: "masthead", Section: "basicPatterns", Reason: "내부 시스템"},
	}, "")

	masthead := adjusted.BasicPatterns[0]
	assert.True(t, masthead.Excluded)
	assert.Equal(t, 100, masthead.Score)
	assert.Equal(t, "내부 시스템", masthead.ExclusionReason)
}

func TestAdjustCategoryRoutesSection(t *testing.T) {
	original := sampleResult()

	// Section empty; the legacy category field routes instead.
	adjusted := Adjust(original, []Request{
		{ItemKey: "colors", Category: "디자인 스타일"},
	}, "")

	assert.True(t, adjusted.DesignStyles[0].Excluded)
	assert.Equal(t, []string{"designStyles"}, adjusted.ExceptionInfo.Sections)
}

func TestAdjustIdempotent(t *testing.T) {
	original := sampleResult()
	requests := []Request{
		{ItemKey: "colors", Section: "designStyles"},
		{ItemKey: "button", Section: "components"},
	}

	once := Adjust(original, requests, "chk")
	twice := Adjust(once, requests, "chk")

	assert.Equal(t, once.OverallScore, twice.OverallScore)
	assert.Equal(t, once.DesignStyles, twice.DesignStyles)
	assert.Equal(t, once.Components, twice.Components)
	assert.Equal(t, 0, twice.ExceptionInfo.ScoreDifference, "second application changes nothing")
	assert.Equal(t, twice.ExceptionInfo.OriginalScore, twice.ExceptionInfo.AdjustedScore)
}

func TestAdjustNeverLowersScore(t *testing.T) {
	original := sampleResult()

	adjusted := Adjust(original, []Request{
		{ItemKey: "link", Section: "components"}, // already at 100
		{ItemKey: "colors", Section: "designStyles"},
	}, "")

	assert.GreaterOrEqual(t, adjusted.OverallScore, original.OverallScore)
}

func TestAdjustUnmatchedKeyInRecognizedSection(t *testing.T) {
	original := sampleResult()

	adjusted := Adjust(original, []Request{
		{ItemKey: "nonexistent", Section: "designStyles"},
	}, "")

	// Nothing matched, so scores are unchanged.
	assert.Equal(t, original.OverallScore, adjusted.OverallScore)
	assert.Equal(t, 0, adjusted.ExceptionInfo.ScoreDifference)

	// The requested section is still recorded for audit visibility.
	assert.Equal(t, []string{"designStyles"}, adjusted.ExceptionInfo.Sections)
	assert.Equal(t, 1, adjusted.ExceptionInfo.TotalExceptions)
}

func TestAdjustUnrecognizedSection(t *testing.T) {
	original := sampleResult()

	adjusted := Adjust(original, []Request{
		{ItemKey: "colors", Section: "mystery"},
		{ItemKey: "button"}, // no section at all -> "기타"
	}, "")

	// Neither request can reach a section, so nothing is mutated.
	assert.False(t, adjusted.DesignStyles[0].Excluded)
	assert.False(t, adjusted.Components[0].Excluded)
	assert.Equal(t, original.OverallScore, adjusted.OverallScore)
	assert.Empty(t, adjusted.ExceptionInfo.Sections)
	assert.Equal(t, 2, adjusted.ExceptionInfo.TotalExceptions)
}

func TestAdjustSectionsSorted(t *testing.T) {
	original := sampleResult()

	adjusted := Adjust(original, []Request{
		{ItemKey: "login", Section: "servicePatterns"},
		{ItemKey: "colors", Section: "designStyles"},
		{ItemKey: "button", Section: "components"},
	}, "")

	assert.Equal(t, []string{"components", "designStyles", "servicePatterns"},
		adjusted.ExceptionInfo.Sections)
}

func TestAdjustFirstMatchingReasonWins(t *testing.T) {
	original := sampleResult()

	adjusted := Adjust(original, []Request{
		{ItemKey: "colors", Section: "designStyles", Reason: "첫 번째 사유"},
		{ItemKey: "colors", Section: "designStyles", Reason: "두 번째 사유"},
	}, "")

	assert.Equal(t, "첫 번째 사유", adjusted.DesignStyles[0].ExclusionReason)
	assert.Equal(t, 2, adjusted.ExceptionInfo.TotalExceptions)
}

func TestAdjustDefaultReason(t *testing.T) {
	original := sampleResult()

	adjusted := Adjust(original, []Request{
		{ItemKey: "colors", Section: "designStyles"},
	}, "")

	assert.Equal(t, DefaultReason, adjusted.DesignStyles[0].ExclusionReason)
}

func TestRequestMatchKey(t *testing.T) {
	tests := []struct {
		name     string
		req      Request
		expected string
	}{
		{"item_key wins", Request{ItemKey: "colors", ItemName: "색상"}, "colors"},
		{"item_name fallback", Request{ItemName: "색상"}, "색상"},
		{"empty never matches", Request{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.req.MatchKey())
		})
	}
}
