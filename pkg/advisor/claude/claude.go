package claude

import (
	"context"
	"fmt"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/krdstools/krds-checker/pkg/advisor"
)

// Sonnet pricing, USD per 1M tokens.
const (
	inputCostPerMTok  = 3.0
	outputCostPerMTok = 15.0
)

// Advisor implements the Claude remediation advisor
type Advisor struct {
	client      *anthropic.Client
	model       string
	temperature float64
}

// New creates a new Claude advisor
func New(config advisor.Config) (*Advisor, error) {
	apiKey := config.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable is not set\n\n" +
			"To use Claude (Anthropic):\n" +
			"  1. Get an API key from: https://console.anthropic.com/settings/keys\n" +
			"  2. Export it as an environment variable:\n" +
			"     export ANTHROPIC_API_KEY=sk-ant-...\n\n" +
			"Alternatively, use OpenAI instead:\n" +
			"  --advisor=openai")
	}

	model := config.Model
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}

	temperature := config.Temperature
	if temperature == 0 {
		temperature = 0.3
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	return &Advisor{
		client:      client,
		model:       model,
		temperature: temperature,
	}, nil
}

// Name returns the provider name
func (a *Advisor) Name() string {
	return "claude"
}

// Advise sends the finding to Claude and returns remediation guidance
func (a *Advisor) Advise(ctx context.Context, req advisor.Request) (*advisor.Advice, error) {
	prompt := advisor.BuildPrompt(req)

	message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.F(a.model),
		MaxTokens:   anthropic.F(int64(1024)),
		Temperature: anthropic.F(a.temperature),
		Messages: anthropic.F([]anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("claude API error: %w", err)
	}

	var guidance string
	for _, block := range message.Content {
		if block.Type == "text" {
			guidance = block.Text
		}
	}

	inputCost := float64(message.Usage.InputTokens) * inputCostPerMTok / 1_000_000
	outputCost := float64(message.Usage.OutputTokens) * outputCostPerMTok / 1_000_000

	return &advisor.Advice{
		Guidance:   guidance,
		TokensUsed: int(message.Usage.InputTokens + message.Usage.OutputTokens),
		Cost:       inputCost + outputCost,
	}, nil
}

// EstimateCost estimates the cost of one advice request
func (a *Advisor) EstimateCost(req advisor.Request) (float64, error) {
	// Rough estimate: ~600 tokens in, ~400 tokens out.
	return 600*inputCostPerMTok/1_000_000 + 400*outputCostPerMTok/1_000_000, nil
}
