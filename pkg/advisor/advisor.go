// Package advisor turns non-compliant audit findings into remediation
// guidance using an AI provider. The engine never depends on it; advice is
// an operator-facing extra layered on top of a finished analysis.
package advisor

import (
	"context"
	"fmt"

	"github.com/krdstools/krds-checker/pkg/analysis"
)

// Advisor defines the interface for AI-backed remediation guidance
type Advisor interface {
	// Name returns the provider name (e.g., "claude", "openai")
	Name() string

	// Advise requests remediation guidance for one finding
	Advise(ctx context.Context, req Request) (*Advice, error)

	// EstimateCost estimates the cost of one advice request (in USD)
	EstimateCost(req Request) (float64, error)
}

// Request carries the finding and its page context
type Request struct {
	Item    analysis.CategoryItem // the non-compliant finding
	Section string                // section display label
	PageURL string                // audited page
}

// Advice is the provider's remediation guidance
type Advice struct {
	Guidance   string  // actionable remediation steps
	TokensUsed int     // number of tokens consumed
	Cost       float64 // cost in USD
}

// Config holds provider configuration
type Config struct {
	Name        string  // provider name: claude, openai
	APIKey      string  // API key; falls back to the provider's env var
	Model       string  // model to use
	BaseURL     string  // OpenAI-compatible endpoint override
	Temperature float64 // 0.0-1.0
}

// BuildPrompt renders the shared advice prompt. Both providers use the same
// wording so guidance quality differences come from the model, not the
// prompt.
func BuildPrompt(req Request) string {
	issues := ""
	for _, issue := range req.Item.Issues {
		issues += "- " + issue + "\n"
	}
	if issues == "" {
		issues = "- (no recorded issues)\n"
	}

	key := analysis.FirstNonEmpty(req.Item.Category, req.Item.Type, req.Item.Name, req.Item.EnglishName)

	return fmt.Sprintf(`You are a KRDS (Korea government Design System) compliance expert helping a public-sector web team fix audit findings.

FINDING:
Section: %s
Item: %s (%s)
Score: %d/100

ISSUES:
%s
PAGE:
%s

TASK:
Explain, in Korean, how to bring this item into compliance with the KRDS guidelines. Give concrete, implementable steps (markup, style tokens, or content changes). Keep it under 300 words. Do not include markdown headings.`,
		req.Section,
		req.Item.Label,
		key,
		req.Item.Score,
		issues,
		req.PageURL,
	)
}
