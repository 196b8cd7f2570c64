// Package enrich provides the optional text-enrichment collaborator. The
// analyzer works fully without it: every description has a deterministic
// templated fallback, and enrichment failures never propagate.
package enrich

import (
	"context"
	"fmt"
	"os"
)

// Summary is the context handed to a provider when asking for an
// enriched project description.
type Summary struct {
	ProjectName  string
	Languages    map[string]int
	ServiceNames []string
	Complexity   string
}

// Provider generates a prose description from an analysis summary.
type Provider interface {
	// Describe returns a short narrative description for the project.
	Describe(ctx context.Context, s Summary) (string, error)
	// Name returns the name of this provider.
	Name() string
}

// New creates a provider by name. "none" (or empty) returns nil: the
// caller falls back to templated text without ever making a call.
func New(providerType, model string) (Provider, error) {
	switch providerType {
	case "", "none":
		return nil, nil

	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
		}
		return NewOpenAIProvider(apiKey, model), nil

	default:
		return nil, fmt.Errorf("unsupported enrichment provider: %s", providerType)
	}
}
