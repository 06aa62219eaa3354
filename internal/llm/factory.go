package llm

import (
	"fmt"
	"strings"
)

// NewProvider creates a remote classifier provider based on configuration.
// An empty provider name returns nil, nil: the remote strategy is disabled
// and the run falls through to the pattern classifier.
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config)

	case "anthropic", "claude":
		return NewAnthropicProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, anthropic, ollama)", config.Provider)
	}
}
