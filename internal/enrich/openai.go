package enrich

import (
	"context"
	"fmt"
	"sort"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o-mini"

// OpenAIProvider enriches descriptions via the OpenAI Chat Completions API.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(apiKey, model string) *OpenAIProvider {
	if model == "" {
		model = DefaultModel
	}
	return &OpenAIProvider{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (p *OpenAIProvider) Name() string {
	return "openai"
}

// Describe asks the model for a two-sentence architecture description.
// The caller owns the timeout on ctx.
func (p *OpenAIProvider) Describe(ctx context.Context, s Summary) (string, error) {
	prompt := buildPrompt(s)

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     p.model,
		MaxTokens: 200,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("enrich: completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("enrich: empty completion response")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func buildPrompt(s Summary) string {
	var langs []string
	for lang, count := range s.Languages {
		langs = append(langs, fmt.Sprintf("%s (%d files)", lang, count))
	}
	sort.Strings(langs)

	return fmt.Sprintf(
		"Describe the architecture of the project %q in two plain sentences.\n"+
			"Languages: %s\nDetected services: %s\nComplexity: %s\n"+
			"Do not use markdown or bullet points.",
		s.ProjectName,
		strings.Join(langs, ", "),
		strings.Join(s.ServiceNames, ", "),
		s.Complexity,
	)
}
