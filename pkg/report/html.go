// Package report renders an analysis result as a standalone HTML audit
// report.
package report

import (
	"fmt"
	"html/template"
	"os"

	"github.com/krdstools/krds-checker/pkg/analysis"
	"github.com/krdstools/krds-checker/pkg/kwcag"
	"github.com/krdstools/krds-checker/pkg/score"
)

// GenerateHTML writes the HTML report for a result to htmlPath.
func GenerateHTML(result *analysis.Result, htmlPath string) error {
	f, err := os.Create(htmlPath)
	if err != nil {
		return fmt.Errorf("failed to create HTML file: %w", err)
	}
	defer f.Close()

	tmpl, err := template.New("audit").Funcs(templateFuncs()).Parse(htmlTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	if err := tmpl.Execute(f, prepareTemplateData(result)); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}
	return nil
}

// TemplateData holds all data needed for the HTML template
type TemplateData struct {
	Result     *analysis.Result
	Grade      string
	Sections   []SectionData
	Principles []PrincipleData
}

// SectionData is one rubric section prepared for rendering
type SectionData struct {
	Label string
	Score int
	Items []analysis.CategoryItem
}

// PrincipleData is one KWCAG principle prepared for rendering
type PrincipleData struct {
	Name       string
	Compliance int
}

func prepareTemplateData(result *analysis.Result) *TemplateData {
	data := &TemplateData{
		Result: result,
		Grade:  score.Grade(result.OverallScore),
	}

	for _, section := range analysis.Sections() {
		items := result.SectionItems(section)
		data.Sections = append(data.Sections, SectionData{
			Label: section.Label(),
			Score: score.Category(items),
			Items: items,
		})
	}

	for _, p := range kwcag.Principles() {
		data.Principles = append(data.Principles, PrincipleData{
			Name:       string(p),
			Compliance: result.KwcagReport.ByCategory[p],
		})
	}
	return data
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"scoreClass": func(s int) string {
			switch {
			case s >= 90:
				return "score-high"
			case s >= 50:
				return "score-mid"
			}
			return "score-low"
		},
		"statusText": func(item analysis.CategoryItem) string {
			if item.Excluded {
				return "예외"
			}
			if s, ok := item.Compliance.(string); ok {
				return s
			}
			return analysis.StatusForScore(item.Score)
		},
	}
}
