package service

import (
	"context"
	"fmt"

	"core/internal/config"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Generation is the outcome of one generation call. Collaborator failures are
// carried as a value rather than an error so callers branch to fallback text
// explicitly.
type Generation struct {
	Text          string
	FailureReason string
}

// OK reports whether the generation produced usable text
func (g Generation) OK() bool {
	return g.FailureReason == ""
}

// Generator produces conversational replies from a prompt
type Generator interface {
	Generate(ctx context.Context, prompt string) Generation
}

// Analyzer produces analysis text (valuation JSON) from a prompt
type Analyzer interface {
	Analyze(ctx context.Context, prompt string) (string, error)
}

// GeminiClient wraps the Gemini API with separate chat and analysis models
type GeminiClient struct {
	client   *genai.Client
	chat     *genai.GenerativeModel
	analysis *genai.GenerativeModel
}

// NewGeminiClient creates a Gemini client from configuration
func NewGeminiClient(ctx context.Context, cfg *config.GeminiConfig) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	chat := client.GenerativeModel(cfg.ChatModel)
	chat.SetTemperature(cfg.ChatTemperature)
	chat.SetTopP(cfg.ChatTopP)
	chat.SetMaxOutputTokens(cfg.ChatMaxTokens)

	analysis := client.GenerativeModel(cfg.AnalysisModel)
	analysis.SetTemperature(cfg.AnalysisTemperature)
	analysis.SetMaxOutputTokens(cfg.AnalysisMaxTokens)

	return &GeminiClient{
		client:   client,
		chat:     chat,
		analysis: analysis,
	}, nil
}

// Close releases the underlying API connection
func (c *GeminiClient) Close() {
	c.client.Close()
}

// Generate runs the chat model and returns the outcome as a value
func (c *GeminiClient) Generate(ctx context.Context, prompt string) Generation {
	text, err := c.generate(ctx, c.chat, prompt)
	if err != nil {
		return Generation{FailureReason: err.Error()}
	}
	return Generation{Text: text}
}

// Analyze runs the analysis model
func (c *GeminiClient) Analyze(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, c.analysis, prompt)
}

func (c *GeminiClient) generate(ctx context.Context, model *genai.GenerativeModel, prompt string) (string, error) {
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}
	return fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]), nil
}
