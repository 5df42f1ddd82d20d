package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krdstools/krds-checker/pkg/analysis"
	"github.com/krdstools/krds-checker/pkg/exception"
	"github.com/krdstools/krds-checker/pkg/kwcag"
	"github.com/krdstools/krds-checker/pkg/signal"
)

func testServer() *Server {
	return NewServer("localhost:0", &signal.Static{}, nil)
}

func postJSON(t *testing.T, handler http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleIndex(t *testing.T) {
	handler := testServer().Handler()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "krds-checker", body["service"])
}

func TestHandleIndexUnknownPath(t *testing.T) {
	handler := testServer().Handler()

	req := httptest.NewRequest(http.MethodGet, "/nonexistent", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	handler := testServer().Handler()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestHandleAnalyzeInlineSignals(t *testing.T) {
	handler := testServer().Handler()

	rec := postJSON(t, handler, "/api/analyze", AnalyzeRequest{
		URL:      "https://www.example.go.kr",
		Viewport: "desktop",
		Signals: &signal.PageSignals{
			ColorCount:      8,
			HasMainLandmark: true,
			HasMasthead:     true,
			HasFooter:       true,
		},
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp AnalyzeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Result)
	assert.Empty(t, resp.AnalysisID, "no persistence configured")
	assert.Equal(t, "https://www.example.go.kr", resp.Result.URL)
	assert.Len(t, resp.Result.DesignStyles, 5)
	assert.Equal(t, resp.Result.OverallScore, resp.Result.KrdsCompliance.Score)
}

func TestHandleAnalyzeWithAxeResults(t *testing.T) {
	handler := testServer().Handler()

	rec := postJSON(t, handler, "/api/analyze", AnalyzeRequest{
		URL:     "https://www.example.go.kr",
		Signals: &signal.PageSignals{},
		AxeResults: &kwcag.AxeResults{
			Violations: []kwcag.RuleResult{{ID: "color-contrast", Impact: "serious"}},
		},
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp AnalyzeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, kwcag.LevelNone, resp.Result.KwcagReport.WcagLevel)
}

func TestHandleAnalyzeValidation(t *testing.T) {
	handler := testServer().Handler()

	t.Run("missing url", func(t *testing.T) {
		rec := postJSON(t, handler, "/api/analyze", AnalyzeRequest{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader("{not json"))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("wrong method", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/analyze", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestHandleApplyExceptionsInline(t *testing.T) {
	handler := testServer().Handler()

	original := &analysis.Result{
		URL: "https://www.example.go.kr",
		DesignStyles: []analysis.CategoryItem{
			{Category: "colors", Score: 40, Compliance: 40, Issues: []string{"팔레트 색상 과다"}},
			{Category: "typography", Score: 70, Compliance: 70, Issues: []string{}},
		},
	}

	rec := postJSON(t, handler, "/api/exceptions/apply", ApplyRequest{
		Analysis: original,
		Exceptions: []exception.Request{
			{ItemKey: "colors", Section: "designStyles", Reason: "기관 승인"},
		},
		ChecklistID: "chk-42",
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp AnalyzeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Result.ExceptionInfo)
	assert.True(t, resp.Result.ExceptionInfo.Applied)
	assert.Equal(t, "chk-42", resp.Result.ExceptionInfo.ChecklistID)
	assert.Equal(t, []string{"designStyles"}, resp.Result.ExceptionInfo.Sections)
	assert.Equal(t, 100, resp.Result.DesignStyles[0].Score)
	assert.True(t, resp.Result.DesignStyles[0].Excluded)
	assert.Equal(t, "기관 승인", resp.Result.DesignStyles[0].ExclusionReason)
}

func TestHandleApplyExceptionsValidation(t *testing.T) {
	handler := testServer().Handler()

	t.Run("missing analysis", func(t *testing.T) {
		rec := postJSON(t, handler, "/api/exceptions/apply", ApplyRequest{
			Exceptions: []exception.Request{{ItemKey: "colors"}},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("id lookup without persistence", func(t *testing.T) {
		rec := postJSON(t, handler, "/api/exceptions/apply", ApplyRequest{
			AnalysisID: "some-id",
			Exceptions: []exception.Request{{ItemKey: "colors"}},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("wrong method", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/exceptions/apply", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestHandleListAnalysesWithoutStore(t *testing.T) {
	handler := testServer().Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/analyses", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleGetAnalysisWithoutStore(t *testing.T) {
	handler := testServer().Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/analyses/abc-123", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAnalyzeResponseHasNoNulls(t *testing.T) {
	handler := testServer().Handler()

	rec := postJSON(t, handler, "/api/analyze", AnalyzeRequest{
		URL:     "https://www.example.go.kr",
		Signals: &signal.PageSignals{},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.NotContains(t, body, `"issues":null`)
	assert.NotContains(t, body, `"violations":null`)
	assert.NotContains(t, body, `"krdsComponents":null`)
	assert.NotContains(t, body, `"designTokensDetail":null`)
}

func TestSanitize(t *testing.T) {
	r := &analysis.Result{
		DesignStyles: []analysis.CategoryItem{{Category: "colors", Score: 50}},
		KrdsCompliance: analysis.KrdsCompliance{
			DesignTokensDetail: map[string]analysis.TokenDetail{
				"colors": {Score: 50},
			},
		},
		ExceptionInfo: &analysis.ExceptionInfo{Applied: true},
	}

	sanitize(r)

	assert.NotNil(t, r.DesignStyles[0].Issues)
	assert.NotNil(t, r.Components)
	assert.NotNil(t, r.KrdsCompliance.KrdsComponents)
	assert.NotNil(t, r.KrdsCompliance.DesignTokensDetail["colors"].Issues)
	assert.NotNil(t, r.KrdsCompliance.DesignTokensDetail["colors"].Compliance)
	assert.NotNil(t, r.KrdsCompliance.DesignTokensDetail["colors"].Passed)
	assert.NotNil(t, r.AxeResults.Violations)
	assert.NotNil(t, r.KwcagReport.ByCategory)
	assert.NotNil(t, r.ExceptionInfo.Sections)
}
