package openai

import (
	"context"
	"fmt"
	"os"

	"github.com/krdstools/krds-checker/pkg/advisor"
	"github.com/sashabaranov/go-openai"
)

// GPT-4 pricing, USD per 1M tokens.
const (
	inputCostPerMTok  = 30.0
	outputCostPerMTok = 60.0
)

// Advisor implements the OpenAI remediation advisor
type Advisor struct {
	client      *openai.Client
	model       string
	temperature float32
}

// New creates a new OpenAI advisor
func New(config advisor.Config) (*Advisor, error) {
	apiKey := config.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set\n\n" +
			"To use OpenAI:\n" +
			"  1. Get an API key from: https://platform.openai.com/api-keys\n" +
			"  2. Export it as an environment variable:\n" +
			"     export OPENAI_API_KEY=sk-...\n\n" +
			"Alternatively, use Claude instead:\n" +
			"  --advisor=claude")
	}

	model := config.Model
	if model == "" {
		model = openai.GPT4
	}

	temperature := float32(config.Temperature)
	if temperature == 0 {
		temperature = 0.3
	}

	clientConfig := openai.DefaultConfig(apiKey)

	// Support custom base URLs for OpenAI-compatible APIs (Groq, Ollama, etc.)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &Advisor{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       model,
		temperature: temperature,
	}, nil
}

// Name returns the provider name
func (a *Advisor) Name() string {
	return "openai"
}

// Advise sends the finding to OpenAI and returns remediation guidance
func (a *Advisor) Advise(ctx context.Context, req advisor.Request) (*advisor.Advice, error) {
	prompt := advisor.BuildPrompt(req)

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       a.model,
		Temperature: a.temperature,
		MaxTokens:   1024,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai returned no choices")
	}

	inputCost := float64(resp.Usage.PromptTokens) * inputCostPerMTok / 1_000_000
	outputCost := float64(resp.Usage.CompletionTokens) * outputCostPerMTok / 1_000_000

	return &advisor.Advice{
		Guidance:   resp.Choices[0].Message.Content,
		TokensUsed: resp.Usage.TotalTokens,
		Cost:       inputCost + outputCost,
	}, nil
}

// EstimateCost estimates the cost of one advice request
func (a *Advisor) EstimateCost(req advisor.Request) (float64, error) {
	// Rough estimate: ~600 tokens in, ~400 tokens out.
	return 600*inputCostPerMTok/1_000_000 + 400*outputCostPerMTok/1_000_000, nil
}
